package config

const (
	defaultDataDir                  = "~/.local/share/burnish"
	defaultStagingTTLHours          = 24
	defaultCatalogTimeoutSeconds    = 15
	defaultEnrichmentBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultEnrichmentModel          = "google/gemini-3-flash-preview"
	defaultEnrichmentReferer        = "https://github.com/five82/burnish"
	defaultEnrichmentTitle          = "Burnish Catalog Enhancement"
	defaultEnrichmentTimeoutSeconds = 60
	defaultNotifyRequestTimeout     = 10
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			TimeoutSeconds: defaultCatalogTimeoutSeconds,
		},
		Enrichment: Enrichment{
			BaseURL:        defaultEnrichmentBaseURL,
			Model:          defaultEnrichmentModel,
			Referer:        defaultEnrichmentReferer,
			Title:          defaultEnrichmentTitle,
			TimeoutSeconds: defaultEnrichmentTimeoutSeconds,
		},
		Staging: Staging{
			DataDir:  defaultDataDir,
			TTLHours: defaultStagingTTLHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Batch:          true,
			Publish:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

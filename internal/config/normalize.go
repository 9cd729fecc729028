package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Staging.DataDir) == "" {
		c.Staging.DataDir = defaultDataDir
	}
	if c.Staging.DataDir, err = expandPath(c.Staging.DataDir); err != nil {
		return fmt.Errorf("staging.data_dir: %w", err)
	}
	if c.Staging.TTLHours <= 0 {
		c.Staging.TTLHours = defaultStagingTTLHours
	}

	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Catalog.AccessToken = strings.TrimSpace(c.Catalog.AccessToken)
	c.Catalog.Tenant = strings.ToLower(strings.TrimSpace(c.Catalog.Tenant))
	if c.Catalog.TimeoutSeconds <= 0 {
		c.Catalog.TimeoutSeconds = defaultCatalogTimeoutSeconds
	}
	if c.Catalog.AccessToken == "" {
		c.Catalog.AccessToken = strings.TrimSpace(os.Getenv("BURNISH_CATALOG_TOKEN"))
	}

	c.Enrichment.APIKey = strings.TrimSpace(c.Enrichment.APIKey)
	if c.Enrichment.APIKey == "" {
		c.Enrichment.APIKey = strings.TrimSpace(os.Getenv("BURNISH_ENRICHMENT_API_KEY"))
	}
	if strings.TrimSpace(c.Enrichment.BaseURL) == "" {
		c.Enrichment.BaseURL = defaultEnrichmentBaseURL
	}
	if strings.TrimSpace(c.Enrichment.Model) == "" {
		c.Enrichment.Model = defaultEnrichmentModel
	}
	if c.Enrichment.TimeoutSeconds <= 0 {
		c.Enrichment.TimeoutSeconds = defaultEnrichmentTimeoutSeconds
	}
	if c.Enrichment.MinRequestIntervalMS < 0 {
		c.Enrichment.MinRequestIntervalMS = 0
	}

	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}

	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}

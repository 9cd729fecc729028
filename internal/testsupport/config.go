package testsupport

import (
	"path/filepath"
	"testing"

	"burnish/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp data directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Catalog.BaseURL = "http://127.0.0.1:0"
	cfg.Catalog.AccessToken = "test-token"
	cfg.Catalog.Tenant = "testshop"
	cfg.Enrichment.APIKey = "test-key"
	cfg.Staging.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTenant overrides the tenant on the test config.
func WithTenant(tenant string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.Tenant = tenant
	}
}

// WithStagingTTLHours overrides the staged-entry TTL on the test config.
func WithStagingTTLHours(hours int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Staging.TTLHours = hours
	}
}

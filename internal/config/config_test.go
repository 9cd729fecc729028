package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"burnish/internal/config"
)

func TestLoadDefaultsUseEnvCredentialsAndExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BURNISH_CATALOG_TOKEN", "tok")
	t.Setenv("BURNISH_ENRICHMENT_API_KEY", "key")

	configPath := filepath.Join(tempHome, "burnish.toml")
	content := `
[catalog]
base_url = "https://shop.example.com/admin/api"
tenant = "Shop-One"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected resolved existing config, got %q exists=%v", resolved, exists)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "burnish")
	if cfg.Staging.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Staging.DataDir, wantData)
	}
	if cfg.Catalog.AccessToken != "tok" {
		t.Fatalf("expected catalog token from env, got %q", cfg.Catalog.AccessToken)
	}
	if cfg.Enrichment.APIKey != "key" {
		t.Fatalf("expected enrichment key from env, got %q", cfg.Enrichment.APIKey)
	}
	if cfg.Catalog.Tenant != "shop-one" {
		t.Fatalf("expected tenant lowercased, got %q", cfg.Catalog.Tenant)
	}
	if cfg.Enrichment.TimeoutSeconds != 60 {
		t.Fatalf("unexpected enrichment timeout default: %d", cfg.Enrichment.TimeoutSeconds)
	}
	if cfg.Staging.TTLHours != 24 {
		t.Fatalf("unexpected staging TTL default: %d", cfg.Staging.TTLHours)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Staging.DataDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected data directory to exist: %v", err)
	}
	if filepath.Dir(cfg.StagingDBPath()) != cfg.Staging.DataDir {
		t.Fatalf("expected staging db under data dir, got %q", cfg.StagingDBPath())
	}
}

func TestLoadRejectsMissingTenant(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BURNISH_CATALOG_TOKEN", "tok")
	t.Setenv("BURNISH_ENRICHMENT_API_KEY", "key")

	configPath := filepath.Join(tempHome, "burnish.toml")
	content := `
[catalog]
base_url = "https://shop.example.com/admin/api"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "tenant") {
		t.Fatalf("expected tenant validation error, got %v", err)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BURNISH_CATALOG_TOKEN", "")
	t.Setenv("BURNISH_ENRICHMENT_API_KEY", "")

	configPath := filepath.Join(tempHome, "burnish.toml")
	content := `
[catalog]
base_url = "https://shop.example.com/admin/api"
tenant = "shop"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "access_token") {
		t.Fatalf("expected access token validation error, got %v", err)
	}
}

func TestLoadRejectsBadLoggingValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BURNISH_CATALOG_TOKEN", "tok")
	t.Setenv("BURNISH_ENRICHMENT_API_KEY", "key")

	configPath := filepath.Join(tempHome, "burnish.toml")
	content := `
[catalog]
base_url = "https://shop.example.com/admin/api"
tenant = "shop"

[logging]
format = "xml"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging format error, got %v", err)
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[catalog]", "[enrichment]", "[staging]", "[notifications]", "[logging]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("expected %s section in sample config", section)
		}
	}
}

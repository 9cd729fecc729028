package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return errors.New("catalog.base_url must be set")
	}
	if _, err := url.ParseRequestURI(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url is not a valid URL: %w", err)
	}
	if strings.TrimSpace(c.Catalog.Tenant) == "" {
		return errors.New("catalog.tenant must be set; staged results are scoped per tenant")
	}
	if strings.TrimSpace(c.Catalog.AccessToken) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/burnish/config.toml"
		}
		return fmt.Errorf("catalog.access_token is required. Set BURNISH_CATALOG_TOKEN env var or edit %s (create with 'burnish config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if strings.TrimSpace(c.Enrichment.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/burnish/config.toml"
		}
		return fmt.Errorf("enrichment.api_key is required. Set BURNISH_ENRICHMENT_API_KEY env var or edit %s (create with 'burnish config init')", defaultPath)
	}
	if _, err := url.ParseRequestURI(c.Enrichment.BaseURL); err != nil {
		return fmt.Errorf("enrichment.base_url is not a valid URL: %w", err)
	}
	if c.Enrichment.TimeoutSeconds < 1 {
		return errors.New("enrichment.timeout_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateStaging() error {
	if strings.TrimSpace(c.Staging.DataDir) == "" {
		return errors.New("staging.data_dir must be set")
	}
	if c.Staging.TTLHours < 1 {
		return errors.New("staging.ttl_hours must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// Package config loads, normalizes, and validates burnish configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BURNISH_ENRICHMENT_API_KEY. The Config type centralizes every knob the CLI
// needs: catalog credentials, enrichment service settings, staging location
// and TTL, notification topics, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

// Package notifications delivers batch and publish milestones via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Every terminal transition of a batch (drain, cancel, publish
// outcome) maps to exactly one aggregate notification so callers never
// duplicate HTTP glue.
//
// Extend this package if you need alternative transports; orchestration code
// depends only on the simple Service interface.
package notifications

// Package services defines shared utilities consumed by the orchestrator and
// the external service clients.
//
// Key responsibilities:
//   - Context helpers that stamp item IDs, batch IDs, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate enrichment
//     and publish failures into the outcome taxonomy (timeout, unavailable,
//     quota, validation, unknown).
//
// Use these helpers when wiring new components so operational behaviour (error
// handling, observability, remediation hints) stays uniform across the tool.
package services

// Package catalog provides the typed client for the external catalog API.
//
// The orchestrator reads item snapshots through this package before
// enrichment, and the publish coordinator writes approved snapshots back
// through it. The catalog owns all field semantics; burnish only transports
// snapshots and never interprets handle or SEO rules itself.
//
// HTTP failures are tagged with the services error markers so callers can
// classify outcomes without inspecting status codes.
package catalog

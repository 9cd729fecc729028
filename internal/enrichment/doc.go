// Package enrichment wraps the remote enrichment service behind a typed
// client. Each catalog item is submitted as its own chat-completions request
// against an OpenAI-compatible endpoint; the response is parsed into a
// proposed catalog snapshot. The client performs exactly one attempt per
// submission and maps transport and service failures onto the shared error
// taxonomy so the orchestrator can classify outcomes without inspecting HTTP
// details.
package enrichment

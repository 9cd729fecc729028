// Package orchestrator turns a list of catalog item ids into a serialized
// stream of single-item enrichment calls. Admission control is deliberate:
// exactly one request is in flight at any time, items are processed in FIFO
// enqueue order, and each call runs under its own deadline. Successful
// proposals are staged for review; failures are classified and counted.
//
// The queue state is owned by the run loop. Cancel and Progress may be called
// from other goroutines; all mutation goes through the state's methods, and a
// generation counter guards against a stale outcome landing after Cancel has
// reset the queue.
package orchestrator

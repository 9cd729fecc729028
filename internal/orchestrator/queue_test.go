package orchestrator

import (
	"reflect"
	"testing"
)

func TestEnqueueSkipsDuplicatesAndBlanks(t *testing.T) {
	var q queueState

	accepted, skipped := q.enqueue([]string{"a", "b", "", " a ", "c"})
	if !reflect.DeepEqual(accepted, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected accepted: %v", accepted)
	}
	if !reflect.DeepEqual(skipped, []string{"a"}) {
		t.Fatalf("unexpected skipped: %v", skipped)
	}

	// An active id is also rejected.
	if _, _, ok := q.advance(); !ok {
		t.Fatal("expected advance to pop the head")
	}
	_, skipped = q.enqueue([]string{"a", "d"})
	if !reflect.DeepEqual(skipped, []string{"a"}) {
		t.Fatalf("expected active id skipped, got %v", skipped)
	}
}

func TestAdvanceIsFIFOAndSingleFlight(t *testing.T) {
	var q queueState
	q.enqueue([]string{"a", "b", "c"})

	id, gen, ok := q.advance()
	if !ok || id != "a" {
		t.Fatalf("expected a first, got %q", id)
	}
	// While a is active, advance is a no-op.
	if _, _, ok := q.advance(); ok {
		t.Fatal("expected advance to refuse a second activation")
	}

	if !q.complete(id, gen, true) {
		t.Fatal("expected outcome accepted")
	}
	id, gen, _ = q.advance()
	if id != "b" {
		t.Fatalf("expected b second, got %q", id)
	}
	q.complete(id, gen, false)
	id, _, _ = q.advance()
	if id != "c" {
		t.Fatalf("expected c third, got %q", id)
	}

	snap := q.snapshot()
	if snap.Completed != 1 || snap.Failed != 1 || snap.Active != "c" || snap.Queued != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestEnqueueIntoIdleQueueResetsCounters(t *testing.T) {
	var q queueState
	q.enqueue([]string{"a", "b"})

	id, gen, _ := q.advance()
	q.complete(id, gen, true)
	id, gen, _ = q.advance()
	q.complete(id, gen, false)

	// The queue is idle again; a fresh batch starts from zero.
	q.enqueue([]string{"c"})
	snap := q.snapshot()
	if snap.Completed != 0 || snap.Failed != 0 {
		t.Fatalf("expected counters reset for new batch, got %+v", snap)
	}
	if snap.Queued != 1 {
		t.Fatalf("expected one queued item, got %+v", snap)
	}
}

func TestFailCompletedReclassifiesOutcome(t *testing.T) {
	var q queueState
	q.enqueue([]string{"a"})

	id, gen, _ := q.advance()
	q.complete(id, gen, true)
	q.failCompleted()

	snap := q.snapshot()
	if snap.Completed != 0 || snap.Failed != 1 {
		t.Fatalf("expected completed outcome moved to failed, got %+v", snap)
	}

	// Without a completed outcome the call has no effect.
	q.failCompleted()
	snap = q.snapshot()
	if snap.Completed != 0 || snap.Failed != 1 {
		t.Fatalf("expected no further change, got %+v", snap)
	}
}

func TestCompleteRejectsStaleOutcome(t *testing.T) {
	var q queueState
	q.enqueue([]string{"a"})
	id, gen, _ := q.advance()

	if q.complete("other", gen, true) {
		t.Fatal("expected id mismatch to be rejected")
	}
	if q.complete(id, gen+1, true) {
		t.Fatal("expected generation mismatch to be rejected")
	}
	if !q.complete(id, gen, true) {
		t.Fatal("expected matching outcome accepted")
	}
	if q.complete(id, gen, true) {
		t.Fatal("expected duplicate outcome rejected")
	}
}

func TestCancelResetsStateAndDiscardsInFlight(t *testing.T) {
	var q queueState
	q.enqueue([]string{"a", "b", "c"})
	id, gen, _ := q.advance()
	q.complete(id, gen, true)
	id, gen, _ = q.advance()

	processed, remaining := q.cancel()
	if processed != 1 || remaining != 2 {
		t.Fatalf("expected processed=1 remaining=2, got %d/%d", processed, remaining)
	}

	// The in-flight outcome for b resolves after cancel and must be dropped.
	if q.complete(id, gen, true) {
		t.Fatal("expected post-cancel outcome rejected")
	}

	snap := q.snapshot()
	if !snap.Idle() || snap.Completed != 0 || snap.Failed != 0 {
		t.Fatalf("expected idle zeroed state, got %+v", snap)
	}
	if !q.consumeCancelled() {
		t.Fatal("expected cancelled flag set")
	}
	if q.consumeCancelled() {
		t.Fatal("expected cancelled flag consumed")
	}
}

func TestProgressTotal(t *testing.T) {
	p := Progress{Queued: 2, Active: "x", Completed: 3, Failed: 1}
	if p.Total() != 7 {
		t.Fatalf("expected total 7, got %d", p.Total())
	}
	if p.Idle() {
		t.Fatal("expected non-idle progress")
	}
}

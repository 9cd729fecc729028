package orchestrator

import (
	"strings"
	"sync"
)

// Progress is a point-in-time snapshot of batch counters.
type Progress struct {
	Queued    int
	Active    string
	Completed int
	Failed    int
}

// Total returns the number of items the batch has admitted so far.
func (p Progress) Total() int {
	total := p.Queued + p.Completed + p.Failed
	if p.Active != "" {
		total++
	}
	return total
}

// Idle reports whether the queue has drained: nothing pending and nothing
// active.
func (p Progress) Idle() bool {
	return p.Queued == 0 && p.Active == ""
}

// queueState holds the pending sequence, the single active slot, and the
// aggregate counters. An id is never simultaneously pending and active. The
// generation counter increments on every activation and on cancel, so an
// outcome is only accepted if both the id and the generation still match.
type queueState struct {
	mu         sync.Mutex
	pending    []string
	active     string
	generation uint64
	completed  int
	failed     int
	cancelled  bool
}

// enqueue admits ids in order, skipping blanks and ids already pending or
// active. It returns the admitted ids and the skipped duplicates.
func (q *queueState) enqueue(itemIDs []string) (accepted, skipped []string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Enqueueing into an idle queue starts a fresh batch; the counters
	// reflect the new total, not a previous drain.
	if q.active == "" && len(q.pending) == 0 {
		q.completed = 0
		q.failed = 0
		q.cancelled = false
	}

	known := make(map[string]struct{}, len(q.pending)+1)
	for _, id := range q.pending {
		known[id] = struct{}{}
	}
	if q.active != "" {
		known[q.active] = struct{}{}
	}

	for _, id := range itemIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := known[id]; dup {
			skipped = append(skipped, id)
			continue
		}
		known[id] = struct{}{}
		q.pending = append(q.pending, id)
		accepted = append(accepted, id)
	}
	return accepted, skipped
}

// advance pops the head of the pending sequence into the active slot. It is a
// no-op while an item is active or when nothing is pending.
func (q *queueState) advance() (itemID string, generation uint64, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.active != "" || len(q.pending) == 0 {
		return "", 0, false
	}
	q.active = q.pending[0]
	q.pending = q.pending[1:]
	q.generation++
	return q.active, q.generation, true
}

// complete clears the active slot and updates counters, but only if the
// outcome still corresponds to the current activation. A stale outcome (the
// queue was cancelled, or the slot was already released) is reported as not
// accepted and has no effect.
func (q *queueState) complete(itemID string, generation uint64, success bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.active != itemID || q.generation != generation {
		return false
	}
	q.active = ""
	if success {
		q.completed++
	} else {
		q.failed++
	}
	return true
}

// failCompleted reclassifies one completed outcome as failed. Used when a
// successful enrichment could not be staged: the item is not available for
// review, so it must not count as completed.
func (q *queueState) failCompleted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.completed > 0 {
		q.completed--
		q.failed++
	}
}

// cancel clears the pending sequence and the active slot, zeroes counters,
// and returns what was processed and abandoned. The generation bump ensures
// any in-flight outcome is discarded.
func (q *queueState) cancel() (processed, remaining int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	processed = q.completed + q.failed
	remaining = len(q.pending)
	if q.active != "" {
		remaining++
	}
	q.pending = nil
	q.active = ""
	q.generation++
	q.completed = 0
	q.failed = 0
	q.cancelled = true
	return processed, remaining
}

// consumeCancelled reports whether the queue was cancelled since the last
// check and clears the flag.
func (q *queueState) consumeCancelled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	was := q.cancelled
	q.cancelled = false
	return was
}

// snapshot returns the current counters.
func (q *queueState) snapshot() Progress {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Progress{
		Queued:    len(q.pending),
		Active:    q.active,
		Completed: q.completed,
		Failed:    q.failed,
	}
}

package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"burnish/internal/catalog"
	"burnish/internal/config"
	"burnish/internal/enrichment"
	"burnish/internal/logging"
	"burnish/internal/notifications"
	"burnish/internal/services"
	"burnish/internal/staging"
)

// Enricher is the slice of the enrichment client the orchestrator needs.
type Enricher interface {
	Submit(ctx context.Context, item catalog.Item, brief enrichment.EnhancementContext) (catalog.Snapshot, error)
}

// CatalogReader fetches the current snapshot for an item.
type CatalogReader interface {
	GetItem(ctx context.Context, itemID string) (*catalog.Item, error)
}

// Stager records successful proposals for review.
type Stager interface {
	Put(ctx context.Context, itemID string, original, proposed catalog.Snapshot) (*staging.StagedResult, error)
}

// ItemResult is the terminal outcome for one item in a batch.
type ItemResult struct {
	ItemID string
	Staged bool
	Kind   services.ErrorKind
	Err    error
}

// Summary aggregates a finished batch.
type Summary struct {
	BatchID   string
	Completed int
	Failed    int
	Cancelled bool
	Duration  time.Duration
	Items     []ItemResult
}

// Orchestrator owns the queue state and drives the enqueue → enrich → stage
// loop for one batch at a time.
type Orchestrator struct {
	cfg      *config.Config
	state    queueState
	enricher Enricher
	reader   CatalogReader
	stager   Stager
	notifier notifications.Service
	logger   *slog.Logger

	brief   enrichment.EnhancementContext
	timeout time.Duration
	lock    *flock.Flock
}

// New constructs an orchestrator. The per-call deadline comes from the
// enrichment timeout configuration.
func New(cfg *config.Config, enricher Enricher, reader CatalogReader, stager Stager, notifier notifications.Service, logger *slog.Logger) (*Orchestrator, error) {
	if cfg == nil || enricher == nil || reader == nil || stager == nil {
		return nil, errors.New("orchestrator requires config, enricher, catalog reader, and stager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	timeout := time.Duration(cfg.Enrichment.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{
		cfg:      cfg,
		enricher: enricher,
		reader:   reader,
		stager:   stager,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "orchestrator"),
		timeout:  timeout,
		lock:     flock.New(cfg.LockPath()),
	}, nil
}

// Enqueue admits item ids for the next run and records the batch-wide
// enhancement brief. Ids already pending or active are skipped and returned
// so the caller can surface them; an id with a staged result is admitted (a
// fresh success replaces the stage wholesale).
func (o *Orchestrator) Enqueue(itemIDs []string, brief enrichment.EnhancementContext) (accepted, skipped []string, err error) {
	accepted, skipped = o.state.enqueue(itemIDs)
	if len(accepted) == 0 && len(skipped) == 0 {
		return nil, nil, services.Wrap(services.ErrValidation, "orchestrator", "enqueue", "no item ids supplied", nil)
	}
	o.brief = brief.Normalize()
	return accepted, skipped, nil
}

// Progress returns a snapshot of the batch counters.
func (o *Orchestrator) Progress() Progress {
	return o.state.snapshot()
}

// Cancel clears the queue and resets counters. It cannot preempt a network
// call already in flight; the generation guard discards that call's outcome
// when it eventually resolves.
func (o *Orchestrator) Cancel(ctx context.Context) {
	processed, remaining := o.state.cancel()
	if remaining == 0 && processed == 0 {
		return
	}
	o.logger.Info("batch cancelled",
		logging.Int("processed", processed),
		logging.Int("remaining", remaining),
		logging.String(logging.FieldEventType, "batch_cancelled"))
	if err := o.notifier.NotifyBatchCancelled(ctx, processed, remaining); err != nil {
		o.logger.Warn("cancel notification failed", logging.Error(err))
	}
}

// Run drains the queue: one item at a time, FIFO, each enrichment call under
// its own deadline. It holds a file lock for the duration so two processes
// cannot run concurrent batches against the same staging store. Run returns
// when the queue is idle or the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	locked, err := o.lock.TryLock()
	if err != nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "orchestrator", "run", "acquire run lock", err)
	}
	if !locked {
		return Summary{}, services.Wrap(services.ErrConfiguration, "orchestrator", "run",
			"another enhancement run is already in progress", nil)
	}
	defer func() {
		if unlockErr := o.lock.Unlock(); unlockErr != nil {
			o.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	started := time.Now()
	summary := Summary{BatchID: batchID}

	initial := o.state.snapshot()
	o.logger.Info("batch started",
		logging.String(logging.FieldBatchID, batchID),
		logging.Int("queued", initial.Queued),
		logging.String(logging.FieldEventType, "batch_started"))
	if err := o.notifier.NotifyBatchStarted(ctx, initial.Queued); err != nil {
		o.logger.Warn("start notification failed", logging.Error(err))
	}

	for {
		if ctx.Err() != nil {
			o.Cancel(context.WithoutCancel(ctx))
			o.state.consumeCancelled()
			summary.Cancelled = true
			summary.Duration = time.Since(started)
			return summary, ctx.Err()
		}

		itemID, generation, ok := o.state.advance()
		if !ok {
			break
		}
		result := o.processItem(ctx, itemID, generation)
		summary.Items = append(summary.Items, result)
	}

	final := o.state.snapshot()
	summary.Completed = final.Completed
	summary.Failed = final.Failed
	summary.Duration = time.Since(started)

	if o.state.consumeCancelled() {
		// Cancel already emitted the terminal notification for this batch.
		summary.Cancelled = true
		return summary, nil
	}

	o.logger.Info("batch complete",
		logging.String(logging.FieldBatchID, batchID),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
		logging.String(logging.FieldEventType, "batch_completed"))
	if err := o.notifier.NotifyBatchCompleted(ctx, summary.Completed, summary.Failed, summary.Duration); err != nil {
		o.logger.Warn("completion notification failed", logging.Error(err))
	}
	return summary, nil
}

// processItem performs one enrichment attempt under the per-call deadline.
// The deadline is real cancellation: when it fires, the HTTP request is
// aborted through its context rather than left running and ignored.
func (o *Orchestrator) processItem(ctx context.Context, itemID string, generation uint64) ItemResult {
	ctx = services.WithItemID(ctx, itemID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, o.logger)

	proposed, original, err := o.enrichOnce(ctx, itemID)
	success := err == nil

	if !o.state.complete(itemID, generation, success) {
		// The batch was cancelled while this call was in flight. The
		// result must not touch staging or counters.
		logger.Info("stale outcome discarded",
			logging.String(logging.FieldEventType, "outcome_discarded"),
			logging.Bool("success", success))
		return ItemResult{ItemID: itemID, Kind: services.KindUnknown, Err: context.Canceled}
	}

	if !success {
		kind := services.KindOf(err)
		logger.Error("enhancement failed",
			logging.String(logging.FieldErrorKind, string(kind)),
			logging.String(logging.FieldErrorHint, kind.Hint()),
			logging.Error(err))
		return ItemResult{ItemID: itemID, Kind: kind, Err: err}
	}

	if _, err := o.stager.Put(ctx, itemID, original, proposed); err != nil {
		o.state.failCompleted()
		logger.Error("staging write failed", logging.Error(err))
		return ItemResult{ItemID: itemID, Kind: services.KindUnknown, Err: err}
	}

	logger.Info("proposal staged for review",
		logging.String(logging.FieldEventType, "item_staged"),
		logging.String("proposed_title", proposed.Title))
	return ItemResult{ItemID: itemID, Staged: true}
}

func (o *Orchestrator) enrichOnce(ctx context.Context, itemID string) (proposed, original catalog.Snapshot, err error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	item, err := o.reader.GetItem(callCtx, itemID)
	if err != nil {
		return proposed, original, err
	}
	original = item.Snapshot

	proposed, err = o.enricher.Submit(callCtx, *item, o.brief)
	if err != nil {
		return proposed, original, err
	}
	return proposed, original, nil
}

package publish

import (
	"context"
	"log/slog"
	"strings"

	"burnish/internal/catalog"
	"burnish/internal/logging"
	"burnish/internal/notifications"
	"burnish/internal/services"
	"burnish/internal/staging"
)

// CatalogWriter is the slice of the catalog client publish needs.
type CatalogWriter interface {
	UpdateItem(ctx context.Context, itemID string, snapshot catalog.Snapshot) error
}

// Directive selects which proposed fields are actually applied on publish.
// Reverted fields fall back to the original snapshot.
type Directive struct {
	// KeepOriginalHandle reverts the URL-affecting handle to the original.
	KeepOriginalHandle bool
	// KeepOriginalSEO reverts the SEO title and description to the original.
	KeepOriginalSEO bool
}

// ItemError describes one failed publish write.
type ItemError struct {
	ItemID string
	Reason string
	Kind   services.ErrorKind
}

// Result aggregates the outcome of a bulk publish.
type Result struct {
	PublishedCount int
	Published      []string
	Errors         []ItemError
}

// Coordinator commits staged proposals to the catalog and maintains the
// staging store: a successful write deletes the entry, a failed write leaves
// it staged for another attempt.
type Coordinator struct {
	store    *staging.Store
	writer   CatalogWriter
	notifier notifications.Service
	logger   *slog.Logger
}

// NewCoordinator constructs a publish coordinator.
func NewCoordinator(store *staging.Store, writer CatalogWriter, notifier notifications.Service, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Coordinator{
		store:    store,
		writer:   writer,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "publish"),
	}
}

// PublishOne commits a single staged proposal. The staged entry is removed on
// success and retained on failure.
func (c *Coordinator) PublishOne(ctx context.Context, itemID string, directive Directive) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return services.Wrap(services.ErrValidation, "publish", "one", "item id required", nil)
	}
	if err := c.publishEntry(ctx, itemID, directive); err != nil {
		c.notifyError(ctx, err, "publishing item "+itemID)
		return err
	}
	if err := c.notifier.NotifyPublishCompleted(ctx, 1, 0); err != nil {
		c.logger.Warn("publish notification failed", logging.Error(err))
	}
	return nil
}

// PublishBulk commits the staged proposals for the given ids. Writes are
// issued per item and isolated: one failure does not stop the rest. Passing
// no ids publishes everything currently staged.
func (c *Coordinator) PublishBulk(ctx context.Context, itemIDs []string, directive Directive) (Result, error) {
	var result Result

	if len(itemIDs) == 0 {
		ids, err := c.store.ItemIDs(ctx)
		if err != nil {
			return result, err
		}
		itemIDs = ids
	}

	for _, itemID := range itemIDs {
		itemID = strings.TrimSpace(itemID)
		if itemID == "" {
			continue
		}
		if err := c.publishEntry(ctx, itemID, directive); err != nil {
			kind := services.KindOf(err)
			result.Errors = append(result.Errors, ItemError{ItemID: itemID, Reason: err.Error(), Kind: kind})
			c.logger.Error("publish failed",
				logging.String(logging.FieldItemID, itemID),
				logging.String(logging.FieldErrorKind, string(kind)),
				logging.String(logging.FieldErrorHint, kind.Hint()),
				logging.Error(err))
			continue
		}
		result.PublishedCount++
		result.Published = append(result.Published, itemID)
	}

	if err := c.notifier.NotifyPublishCompleted(ctx, result.PublishedCount, len(result.Errors)); err != nil {
		c.logger.Warn("publish notification failed", logging.Error(err))
	}
	return result, nil
}

func (c *Coordinator) publishEntry(ctx context.Context, itemID string, directive Directive) error {
	entry, err := c.store.Get(ctx, itemID)
	if err != nil {
		return err
	}

	snapshot := MergeSnapshot(entry.Original, entry.Proposed, directive)
	if err := c.writer.UpdateItem(ctx, itemID, snapshot); err != nil {
		return err
	}

	// The write landed; the staged entry must not survive in published state.
	if _, err := c.store.Remove(ctx, itemID); err != nil {
		c.logger.Error("staged entry cleanup failed after publish",
			logging.String(logging.FieldItemID, itemID),
			logging.Error(err))
		return err
	}

	c.logger.Info("published staged proposal",
		logging.String(logging.FieldItemID, itemID),
		logging.String(logging.FieldEventType, "publish_succeeded"),
		logging.String("title", snapshot.Title))
	return nil
}

func (c *Coordinator) notifyError(ctx context.Context, err error, label string) {
	if notifyErr := c.notifier.NotifyError(ctx, err, label); notifyErr != nil {
		c.logger.Warn("error notification failed", logging.Error(notifyErr))
	}
}

// MergeSnapshot applies the directive: proposed fields are taken wholesale,
// then reverted fields are restored from the original snapshot.
func MergeSnapshot(original, proposed catalog.Snapshot, directive Directive) catalog.Snapshot {
	merged := proposed.Clone()
	if directive.KeepOriginalHandle {
		merged.Handle = original.Handle
	}
	if directive.KeepOriginalSEO {
		merged.SEOTitle = original.SEOTitle
		merged.SEODescription = original.SEODescription
	}
	return merged
}

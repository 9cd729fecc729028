package testsupport

import (
	"context"
	"testing"

	"burnish/internal/catalog"
	"burnish/internal/config"
	"burnish/internal/staging"
)

// MustOpenStore opens a staging.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *staging.Store {
	t.Helper()

	store, err := staging.Open(cfg)
	if err != nil {
		t.Fatalf("staging.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Stage inserts a staged result for tests using the provided store.
func Stage(t testing.TB, store *staging.Store, itemID string, original, proposed catalog.Snapshot) *staging.StagedResult {
	t.Helper()

	entry, err := store.Put(context.Background(), itemID, original, proposed)
	if err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return entry
}

// Snapshot returns a populated snapshot fixture for the given title.
func Snapshot(title string) catalog.Snapshot {
	return catalog.Snapshot{
		Title:          title,
		Description:    title + " description",
		Handle:         "fixture-handle",
		ProductType:    "Furniture",
		Vendor:         "Fixture Co",
		Tags:           []string{"fixture"},
		SEOTitle:       title + " | Fixture Co",
		SEODescription: "Buy " + title + " from Fixture Co.",
	}
}

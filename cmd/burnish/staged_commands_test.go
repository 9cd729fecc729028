package main

import (
	"testing"

	"burnish/internal/testsupport"
)

func TestStagedListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"staged", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staged list: %v", err)
	}
	requireContains(t, out, "No staged proposals")
}

func TestStagedListShowsEntries(t *testing.T) {
	env := setupCLITestEnv(t)
	store := openEnvStore(t, env)
	testsupport.Stage(t, store, "item-1", testsupport.Snapshot("Old Title"), testsupport.Snapshot("Shiny New Title"))
	store.Close()

	out, _, err := runCLI(t, []string{"staged", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staged list: %v", err)
	}
	requireContains(t, out, "item-1")
	requireContains(t, out, "Shiny New Title")
	requireContains(t, out, "1 staged proposals")
}

func TestStagedShowRendersDiff(t *testing.T) {
	env := setupCLITestEnv(t)
	store := openEnvStore(t, env)
	original := testsupport.Snapshot("Old Title")
	proposed := testsupport.Snapshot("New Title")
	proposed.SEOTitle = "New SEO Title"
	testsupport.Stage(t, store, "item-1", original, proposed)
	store.Close()

	out, _, err := runCLI(t, []string{"staged", "show", "item-1"}, env.configPath)
	if err != nil {
		t.Fatalf("staged show: %v", err)
	}
	requireContains(t, out, "Old Title")
	requireContains(t, out, "New Title")
	requireContains(t, out, "Seo Title")
}

func TestStagedShowMissingEntry(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"staged", "show", "absent"}, env.configPath); err == nil {
		t.Fatal("expected error for missing staged entry")
	}
}

func TestStagedDiscardIsIdempotent(t *testing.T) {
	env := setupCLITestEnv(t)
	store := openEnvStore(t, env)
	testsupport.Stage(t, store, "item-1", testsupport.Snapshot("Old"), testsupport.Snapshot("New"))
	store.Close()

	out, _, err := runCLI(t, []string{"staged", "discard", "item-1"}, env.configPath)
	if err != nil {
		t.Fatalf("staged discard: %v", err)
	}
	requireContains(t, out, "Discarded item-1")

	out, _, err = runCLI(t, []string{"staged", "discard", "item-1"}, env.configPath)
	if err != nil {
		t.Fatalf("second discard: %v", err)
	}
	requireContains(t, out, "Nothing staged for item-1")
}

func TestStagedListJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	store := openEnvStore(t, env)
	testsupport.Stage(t, store, "item-1", testsupport.Snapshot("Old"), testsupport.Snapshot("New"))
	store.Close()

	out, _, err := runCLI(t, []string{"staged", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("staged list --json: %v", err)
	}
	requireContains(t, out, `"item_id": "item-1"`)
	requireContains(t, out, `"proposed_title": "New"`)
}

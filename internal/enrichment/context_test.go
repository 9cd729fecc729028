package enrichment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadContextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	content := `
keywords:
  - walnut desk
  - "  home office  "
  - ""
brand: warm and confident
audience: remote workers
instructions: mention the lifetime warranty
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write brief: %v", err)
	}

	brief, err := LoadContextFile(path)
	if err != nil {
		t.Fatalf("LoadContextFile failed: %v", err)
	}
	if len(brief.Keywords) != 2 || brief.Keywords[1] != "home office" {
		t.Fatalf("expected normalized keywords, got %v", brief.Keywords)
	}
	if brief.Brand != "warm and confident" || brief.Audience != "remote workers" {
		t.Fatalf("unexpected brief: %+v", brief)
	}
}

func TestLoadContextFileMissing(t *testing.T) {
	if _, err := LoadContextFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing brief file")
	}
}

func TestMergeLayersFlagsOverBrief(t *testing.T) {
	base := EnhancementContext{
		Keywords: []string{"walnut"},
		Brand:    "from file",
	}
	merged := base.Merge(EnhancementContext{
		Keywords: []string{"Walnut", "desk"},
		Brand:    "from flag",
		Audience: "remote workers",
	})
	if len(merged.Keywords) != 2 {
		t.Fatalf("expected deduplicated keywords, got %v", merged.Keywords)
	}
	if merged.Brand != "from flag" {
		t.Fatalf("expected flag to win, got %q", merged.Brand)
	}
	if merged.Audience != "remote workers" {
		t.Fatalf("expected audience filled, got %q", merged.Audience)
	}
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	// A keywords slice with spare capacity must not be written through.
	backing := make([]string, 1, 4)
	backing[0] = "walnut"
	backing = append(backing, "desk")
	base := EnhancementContext{Keywords: backing[:1]}

	merged := base.Merge(EnhancementContext{Keywords: []string{"oak"}})

	if backing[1] != "desk" {
		t.Fatalf("Merge overwrote the caller's backing array: %v", backing)
	}
	if len(base.Keywords) != 1 || base.Keywords[0] != "walnut" {
		t.Fatalf("receiver changed: %v", base.Keywords)
	}
	if len(merged.Keywords) != 2 || merged.Keywords[1] != "oak" {
		t.Fatalf("unexpected merged keywords: %v", merged.Keywords)
	}
}

func TestIsZero(t *testing.T) {
	if !(EnhancementContext{}).IsZero() {
		t.Fatal("empty context should be zero")
	}
	if (EnhancementContext{Brand: "x"}).IsZero() {
		t.Fatal("context with brand should not be zero")
	}
}

package enrichment

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"burnish/internal/services"
)

// EnhancementContext carries the optional guidance a merchant supplies for a
// batch. Every field applies to every item enqueued in the same batch.
type EnhancementContext struct {
	Keywords     []string `yaml:"keywords"`
	Brand        string   `yaml:"brand"`
	Audience     string   `yaml:"audience"`
	Instructions string   `yaml:"instructions"`
}

// LoadContextFile reads an enhancement brief from a YAML file.
func LoadContextFile(path string) (EnhancementContext, error) {
	var brief EnhancementContext
	data, err := os.ReadFile(path)
	if err != nil {
		return brief, services.Wrap(services.ErrValidation, "enrichment", "brief", fmt.Sprintf("read %s", path), err)
	}
	if err := yaml.Unmarshal(data, &brief); err != nil {
		return brief, services.Wrap(services.ErrValidation, "enrichment", "brief", fmt.Sprintf("parse %s", path), err)
	}
	return brief.Normalize(), nil
}

// Merge overlays non-empty fields from other onto the receiver. Keywords are
// appended with duplicates removed. Used to layer CLI flags over a brief file.
func (c EnhancementContext) Merge(other EnhancementContext) EnhancementContext {
	merged := c
	merged.Keywords = append([]string(nil), c.Keywords...)
	seen := make(map[string]struct{}, len(merged.Keywords))
	for _, kw := range merged.Keywords {
		seen[strings.ToLower(kw)] = struct{}{}
	}
	for _, kw := range other.Keywords {
		if _, dup := seen[strings.ToLower(kw)]; dup {
			continue
		}
		seen[strings.ToLower(kw)] = struct{}{}
		merged.Keywords = append(merged.Keywords, kw)
	}
	if other.Brand != "" {
		merged.Brand = other.Brand
	}
	if other.Audience != "" {
		merged.Audience = other.Audience
	}
	if other.Instructions != "" {
		merged.Instructions = other.Instructions
	}
	return merged
}

// Normalize trims whitespace and drops empty keywords.
func (c EnhancementContext) Normalize() EnhancementContext {
	cp := c
	cp.Brand = strings.TrimSpace(cp.Brand)
	cp.Audience = strings.TrimSpace(cp.Audience)
	cp.Instructions = strings.TrimSpace(cp.Instructions)
	keywords := make([]string, 0, len(cp.Keywords))
	for _, kw := range cp.Keywords {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	if len(keywords) == 0 {
		cp.Keywords = nil
	} else {
		cp.Keywords = keywords
	}
	return cp
}

// IsZero reports whether the brief carries no guidance at all.
func (c EnhancementContext) IsZero() bool {
	return len(c.Keywords) == 0 && c.Brand == "" && c.Audience == "" && c.Instructions == ""
}

package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"burnish/internal/catalog"
)

// RewritePrompt instructs the model to rewrite a single catalog listing and
// respond with JSON matching the snapshot schema.
const RewritePrompt = `You are a senior e-commerce copywriter. You rewrite one product listing
at a time to be clearer, more persuasive, and better optimized for search,
without inventing product facts that are not present in the input.

Respond ONLY with a JSON object using exactly these keys:
{
  "title": "rewritten product title",
  "description": "rewritten product description",
  "handle": "url-safe-handle",
  "product_type": "product type",
  "vendor": "vendor name",
  "tags": ["tag", ...],
  "seo_title": "search title, max 60 characters",
  "seo_description": "search description, max 155 characters"
}

Rules:
- title and description are required and must not be empty.
- Keep the handle lowercase with hyphens; reuse the original handle unless a
  clearly better one exists.
- Preserve factual details (materials, dimensions, vendor) from the input.
- Do not include markdown, commentary, or any keys beyond the schema above.`

func buildRewriteRequest(item catalog.Item, brief EnhancementContext) (string, error) {
	encoded, err := json.MarshalIndent(item.Snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite this product listing (item id %s):\n%s\n", item.ID, encoded)
	if brief.IsZero() {
		return b.String(), nil
	}

	b.WriteString("\nMerchant guidance for this batch:\n")
	if len(brief.Keywords) > 0 {
		fmt.Fprintf(&b, "- Target keywords: %s\n", strings.Join(brief.Keywords, ", "))
	}
	if brief.Brand != "" {
		fmt.Fprintf(&b, "- Brand voice: %s\n", brief.Brand)
	}
	if brief.Audience != "" {
		fmt.Fprintf(&b, "- Target audience: %s\n", brief.Audience)
	}
	if brief.Instructions != "" {
		fmt.Fprintf(&b, "- Additional instructions: %s\n", brief.Instructions)
	}
	return b.String(), nil
}

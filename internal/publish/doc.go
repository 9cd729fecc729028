// Package publish commits staged proposals back to the catalog. A directive
// controls which proposed fields are applied and which revert to the original
// snapshot (handle changes affect URLs, SEO fields affect search listings, so
// both are individually revertible). Bulk publish issues one write per item
// with per-item failure isolation: a rejected item stays staged while the
// rest of the batch lands.
package publish

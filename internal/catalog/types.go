package catalog

import "strings"

// Snapshot captures the catalog fields of an item at a point in time. It is
// the unit both sides of a staged change are expressed in: the original
// snapshot read from the catalog and the proposed snapshot produced by the
// enrichment service.
type Snapshot struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Handle         string   `json:"handle"`
	ProductType    string   `json:"product_type,omitempty"`
	Vendor         string   `json:"vendor,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	SEOTitle       string   `json:"seo_title,omitempty"`
	SEODescription string   `json:"seo_description,omitempty"`
}

// Item pairs an opaque catalog identifier with its current snapshot.
type Item struct {
	ID       string   `json:"id"`
	Snapshot Snapshot `json:"snapshot"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cp := s
	if len(s.Tags) > 0 {
		cp.Tags = append([]string(nil), s.Tags...)
	}
	return cp
}

// Normalize trims whitespace on all string fields and drops empty tags.
func (s Snapshot) Normalize() Snapshot {
	cp := s.Clone()
	cp.Title = strings.TrimSpace(cp.Title)
	cp.Description = strings.TrimSpace(cp.Description)
	cp.Handle = strings.TrimSpace(cp.Handle)
	cp.ProductType = strings.TrimSpace(cp.ProductType)
	cp.Vendor = strings.TrimSpace(cp.Vendor)
	cp.SEOTitle = strings.TrimSpace(cp.SEOTitle)
	cp.SEODescription = strings.TrimSpace(cp.SEODescription)
	tags := cp.Tags[:0]
	for _, tag := range cp.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	if len(tags) == 0 {
		cp.Tags = nil
	} else {
		cp.Tags = tags
	}
	return cp
}

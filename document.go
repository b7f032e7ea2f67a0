package docqa

import (
	"context"
	"strings"
)

// Document represents a single crawled documentation page. Documents are
// produced by the external crawler and are immutable once loaded.
type Document struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Breadcrumb []string  `json:"breadcrumb"`
	FullText   string    `json:"full_text"`
	Sections   []Section `json:"sections"`
	Links      []string  `json:"links"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	return nil
}

// BreadcrumbPath renders the breadcrumb as a single "A > B > C" string.
func (d *Document) BreadcrumbPath() string {
	return strings.Join(d.Breadcrumb, " > ")
}

// Section represents one retrievable section of a documentation page.
// A page without explicit sections is represented as a single section with
// an empty header whose content is the full page text.
type Section struct {
	Header  string `json:"header"`
	Content string `json:"content"`
}

// CorpusLoader loads the documentation corpus produced by the external
// crawler into typed in-memory records.
type CorpusLoader interface {
	// Load reads the corpus at source and returns its documents in corpus
	// order. Records missing a URL or title are skipped with a warning.
	// Returns ECORPUS if the source is unreadable or is not a sequence of
	// document records.
	Load(ctx context.Context, source string) ([]*Document, error)
}

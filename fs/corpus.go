// Package fs provides filesystem-based implementations of docqa services.
package fs

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/pkaminski/docqa"
)

// Ensure CorpusLoader implements docqa.CorpusLoader at compile time.
var _ docqa.CorpusLoader = (*CorpusLoader)(nil)

// CorpusLoader reads the crawler's corpus file: a JSON array of page
// records, each with url, title, breadcrumb, full_text, sections and links.
type CorpusLoader struct {
	logger *slog.Logger
}

// NewCorpusLoader creates a new CorpusLoader. A nil logger falls back to
// slog.Default().
func NewCorpusLoader(logger *slog.Logger) *CorpusLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CorpusLoader{logger: logger}
}

// pageRecord mirrors one entry of the corpus file.
type pageRecord struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Breadcrumb []string `json:"breadcrumb"`
	FullText   string   `json:"full_text"`
	Sections   []struct {
		Header  string `json:"header"`
		Content string `json:"content"`
	} `json:"sections"`
	Links []string `json:"links"`
}

// Load reads and validates the corpus at source.
//
// Records missing a URL or title are skipped with a warning: a single bad
// page must not fail the whole corpus. A record without sections becomes a
// single unheaded section holding the full page text. Returns ECORPUS when
// the file cannot be read or is not a JSON array of records.
func (l *CorpusLoader) Load(ctx context.Context, source string) ([]*docqa.Document, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, docqa.Errorf(docqa.ECORPUS, "cannot read corpus %q: %s", source, err)
	}
	return ParseCorpus(data, source, l.logger)
}

// ParseCorpus decodes a corpus payload. It is shared by all corpus loaders
// regardless of where the bytes came from.
func ParseCorpus(data []byte, source string, logger *slog.Logger) ([]*docqa.Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var records []pageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, docqa.Errorf(docqa.ECORPUS, "corpus %q is not a sequence of document records: %s", source, err)
	}

	docs := make([]*docqa.Document, 0, len(records))
	for i, rec := range records {
		doc := &docqa.Document{
			URL:        rec.URL,
			Title:      rec.Title,
			Breadcrumb: rec.Breadcrumb,
			FullText:   rec.FullText,
			Links:      rec.Links,
		}
		for _, s := range rec.Sections {
			doc.Sections = append(doc.Sections, docqa.Section{Header: s.Header, Content: s.Content})
		}
		if len(doc.Sections) == 0 && doc.FullText != "" {
			doc.Sections = []docqa.Section{{Content: doc.FullText}}
		}

		if err := doc.Validate(); err != nil {
			logger.Warn("skipping invalid corpus record",
				"position", i,
				"url", rec.URL,
				"reason", docqa.ErrorMessage(err),
			)
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

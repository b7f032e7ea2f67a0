// Package http provides an HTTP-based implementation of docqa.CorpusLoader
// for corpora served over the network rather than read from disk.
package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkaminski/docqa"
	"github.com/pkaminski/docqa/fs"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// Ensure CorpusLoader implements docqa.CorpusLoader at compile time.
var _ docqa.CorpusLoader = (*CorpusLoader)(nil)

// CorpusLoader fetches a corpus file over HTTP. The payload format is the
// same JSON array of page records the filesystem loader reads.
type CorpusLoader struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a CorpusLoader.
type Option func(*CorpusLoader)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(l *CorpusLoader) {
		l.timeout = d
	}
}

// WithLogger sets the logger used for skipped-record warnings.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *CorpusLoader) {
		l.logger = logger
	}
}

// NewCorpusLoader creates a new HTTP-based CorpusLoader.
func NewCorpusLoader(opts ...Option) *CorpusLoader {
	l := &CorpusLoader{
		timeout: DefaultFetchTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.client = &http.Client{
		Timeout: l.timeout,
	}

	return l
}

// Load fetches and validates the corpus at the given URL. Returns ECORPUS
// when the corpus cannot be fetched or is not a JSON array of records.
func (l *CorpusLoader) Load(ctx context.Context, source string) ([]*docqa.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, docqa.Errorf(docqa.ECORPUS, "invalid corpus URL %q: %s", source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, docqa.Errorf(docqa.ECORPUS, "cannot fetch corpus %q: %s", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, docqa.Errorf(docqa.ECORPUS, "cannot fetch corpus %q: HTTP %d", source, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, docqa.Errorf(docqa.ECORPUS, "cannot read corpus %q: %s", source, err)
	}

	return fs.ParseCorpus(data, source, l.logger)
}

// Package memory provides in-memory implementations of docqa services:
// a brute-force cosine similarity index and a session store. Both are
// process-local; the index is immutable once built.
package memory

import (
	"context"
	"encoding/hex"
	"math"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkaminski/docqa"
	"golang.org/x/sync/errgroup"
)

// Embedding batches keep request payloads bounded without serializing the
// whole corpus behind a single call.
const (
	defaultBuildConcurrency = 4
	embedBatchSize          = 32
)

// Ensure Indexer implements docqa.Indexer at compile time.
var _ docqa.Indexer = (*Indexer)(nil)

// Indexer builds an immutable in-memory similarity index.
type Indexer struct {
	embedder    docqa.Embedder
	concurrency int
}

// NewIndexer creates a new Indexer. Concurrency bounds the number of
// embedding batches in flight; values below 1 use the default.
func NewIndexer(embedder docqa.Embedder, concurrency int) *Indexer {
	if concurrency < 1 {
		concurrency = defaultBuildConcurrency
	}
	return &Indexer{embedder: embedder, concurrency: concurrency}
}

// Build flattens documents into indexed sections, embeds their contents and
// returns an immutable index. Sections with empty content are excluded.
// Returns ENOCONTENT if nothing is indexable.
func (ix *Indexer) Build(ctx context.Context, docs []*docqa.Document) (docqa.Index, error) {
	if ix.embedder == nil {
		return nil, docqa.Errorf(docqa.EINTERNAL, "indexer has no embedder configured")
	}

	sections := flatten(docs)
	if len(sections) == 0 {
		return nil, docqa.Errorf(docqa.ENOCONTENT, "corpus yielded zero indexable sections")
	}

	vectors := make([][]float32, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)

	for start := 0; start < len(sections); start += embedBatchSize {
		end := min(start+embedBatchSize, len(sections))
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, s := range sections[start:end] {
				texts = append(texts, s.Content)
			}

			embedded, err := ix.embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			if len(embedded) != len(texts) {
				return docqa.Errorf(docqa.EEMBEDDING, "embedder returned %d vectors for %d texts", len(embedded), len(texts))
			}

			copy(vectors[start:end], embedded)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Every embedding must share one dimension; violating entries poison
	// similarity search, so the whole build is rejected.
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, docqa.Errorf(docqa.EEMBEDDING,
				"embedding dimension mismatch at section %d: got %d, want %d", i, len(v), dim)
		}
	}
	if dim == 0 {
		return nil, docqa.Errorf(docqa.EEMBEDDING, "embedder returned zero-dimension vectors")
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		normalized[i] = normalize(v)
	}

	return &Index{sections: sections, vectors: normalized, dim: dim}, nil
}

// flatten turns documents into position-ordered indexed sections, dropping
// sections with no content.
func flatten(docs []*docqa.Document) []*docqa.IndexedSection {
	var sections []*docqa.IndexedSection
	for _, doc := range docs {
		for _, s := range doc.Sections {
			if strings.TrimSpace(s.Content) == "" {
				continue
			}
			sections = append(sections, &docqa.IndexedSection{
				ID:            sectionID(doc.URL, s.Header, s.Content),
				DocumentTitle: doc.Title,
				DocumentURL:   doc.URL,
				Breadcrumb:    doc.Breadcrumb,
				Header:        s.Header,
				Content:       s.Content,
				Position:      len(sections),
			})
		}
	}
	return sections
}

// sectionID computes a stable content fingerprint for a section.
func sectionID(url, header, content string) string {
	h := xxhash.New()
	_, _ = h.WriteString(url)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(header)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(content)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// Ensure Index implements docqa.Index at compile time.
var _ docqa.Index = (*Index)(nil)

// Index is an immutable brute-force cosine similarity index. Vectors are
// L2-normalized at build time so cosine similarity reduces to a dot
// product. Any number of goroutines may search concurrently.
type Index struct {
	sections []*docqa.IndexedSection
	vectors  [][]float32
	dim      int
}

// Len reports the number of indexed sections.
func (idx *Index) Len() int { return len(idx.sections) }

// Dim reports the shared embedding dimension.
func (idx *Index) Dim() int { return idx.dim }

// Search scans all sections and returns the topK most similar, ordered by
// descending score with ties broken by ascending build position.
func (idx *Index) Search(embedding []float32, topK int) ([]docqa.RetrievalResult, error) {
	if topK <= 0 {
		return nil, docqa.Errorf(docqa.EINVALID, "top_k must be positive")
	}
	if len(embedding) != idx.dim {
		return nil, docqa.Errorf(docqa.EINVALID, "query dimension %d does not match index dimension %d", len(embedding), idx.dim)
	}
	if topK > len(idx.sections) {
		topK = len(idx.sections)
	}

	query := normalize(embedding)

	scores := make([]float64, len(idx.vectors))
	order := make([]int, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = dot(v, query)
		order[i] = i
	}

	// Stable sort over build order gives the ascending-position tie-break
	// for free, which keeps repeated identical queries bit-identical.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]docqa.RetrievalResult, 0, topK)
	for _, i := range order[:topK] {
		results = append(results, docqa.RetrievalResult{
			Section: idx.sections[i],
			Score:   scores[i],
		})
	}
	return results, nil
}

// normalize returns an L2-normalized copy of v. A zero vector is returned
// unchanged rather than dividing by zero.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)

	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

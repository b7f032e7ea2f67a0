package docqa

import "context"

// IndexedSection is a single retrievable unit in the index: one document
// section flattened together with the metadata needed for citation.
type IndexedSection struct {
	// Stable content fingerprint, used for identity across rebuilds.
	ID string `json:"id"`

	DocumentTitle string   `json:"documentTitle"`
	DocumentURL   string   `json:"documentUrl"`
	Breadcrumb    []string `json:"breadcrumb"`
	Header        string   `json:"header"`
	Content       string   `json:"content"`

	// Position in index-build order; the tie-break key for equal scores.
	Position int `json:"position"`
}

// RetrievalResult pairs an indexed section with its cosine similarity to a
// query embedding. Scores are in [-1, 1].
type RetrievalResult struct {
	Section *IndexedSection `json:"section"`
	Score   float64         `json:"score"`
}

// Embedder computes fixed-dimension embedding vectors for texts. It is
// treated as a pure function of its input: the same text always yields the
// same vector for the lifetime of an index.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	// Returns EEMBEDDING if the embedding capability fails.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer builds a similarity index over a document corpus.
type Indexer interface {
	// Build flattens documents into sections, embeds them, and returns an
	// immutable index. Sections with empty content are excluded. Returns
	// ENOCONTENT if the corpus yields zero indexable sections. Build is
	// idempotent: rebuilding from an unchanged corpus produces an index
	// with identical ranking behavior.
	Build(ctx context.Context, docs []*Document) (Index, error)
}

// Index supports nearest-neighbor queries by cosine similarity over the
// full set of section embeddings. An Index is immutable once built and safe
// for concurrent readers without locking.
type Index interface {
	// Search returns the top-k most similar sections, ordered by
	// descending score with ties broken by ascending build position.
	// The result length is min(topK, Len()). Returns EINVALID if
	// topK <= 0 or the query dimension does not match Dim().
	Search(embedding []float32, topK int) ([]RetrievalResult, error)

	// Len reports the number of indexed sections.
	Len() int

	// Dim reports the embedding dimension shared by all entries.
	Dim() int
}

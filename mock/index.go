package mock

import (
	"context"

	"github.com/pkaminski/docqa"
)

var _ docqa.Indexer = (*Indexer)(nil)

// Indexer is a mock implementation of docqa.Indexer.
type Indexer struct {
	BuildFn func(ctx context.Context, docs []*docqa.Document) (docqa.Index, error)
}

func (ix *Indexer) Build(ctx context.Context, docs []*docqa.Document) (docqa.Index, error) {
	return ix.BuildFn(ctx, docs)
}

var _ docqa.Index = (*Index)(nil)

// Index is a mock implementation of docqa.Index.
type Index struct {
	SearchFn func(embedding []float32, topK int) ([]docqa.RetrievalResult, error)
	LenFn    func() int
	DimFn    func() int
}

func (idx *Index) Search(embedding []float32, topK int) ([]docqa.RetrievalResult, error) {
	return idx.SearchFn(embedding, topK)
}

func (idx *Index) Len() int { return idx.LenFn() }

func (idx *Index) Dim() int { return idx.DimFn() }

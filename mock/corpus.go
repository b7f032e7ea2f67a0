package mock

import (
	"context"

	"github.com/pkaminski/docqa"
)

var _ docqa.CorpusLoader = (*CorpusLoader)(nil)

// CorpusLoader is a mock implementation of docqa.CorpusLoader.
type CorpusLoader struct {
	LoadFn func(ctx context.Context, source string) ([]*docqa.Document, error)
}

func (l *CorpusLoader) Load(ctx context.Context, source string) ([]*docqa.Document, error) {
	return l.LoadFn(ctx, source)
}

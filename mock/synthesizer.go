package mock

import (
	"context"

	"github.com/pkaminski/docqa"
)

var _ docqa.Synthesizer = (*Synthesizer)(nil)

// Synthesizer is a mock implementation of docqa.Synthesizer.
type Synthesizer struct {
	SynthesizeFn func(ctx context.Context, question string, results []docqa.RetrievalResult, history []*docqa.Message) (string, error)
}

func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []docqa.RetrievalResult, history []*docqa.Message) (string, error) {
	return s.SynthesizeFn(ctx, question, results, history)
}

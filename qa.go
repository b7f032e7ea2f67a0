package docqa

import (
	"context"
	"strings"
	"time"
)

// DefaultTopK is the number of sections retrieved when a query does not
// specify one.
const DefaultTopK = 3

// Query is a single question against the indexed corpus.
type Query struct {
	// The natural-language question.
	Question string `json:"question"`

	// Optional session identifier. Empty means "start a new session".
	SessionID string `json:"sessionId,omitempty"`

	// Number of sections to retrieve. Zero means DefaultTopK; negative
	// values are invalid.
	TopK int `json:"topK,omitempty"`
}

// Validate returns an error if the query is malformed. A TopK of zero is
// valid and means "use the default".
func (q *Query) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return Errorf(EINVALID, "question required")
	}
	if q.TopK < 0 {
		return Errorf(EINVALID, "top_k must be positive")
	}
	return nil
}

// Source is a citation for one retrieved section, in retrieval order.
type Source struct {
	Title     string  `json:"title"`
	Section   string  `json:"section"`
	URL       string  `json:"url"`
	Relevance float64 `json:"relevance"`
}

// Answer is the result of a question: grounded text, a bounded confidence,
// the citations it was grounded in, and the wall-clock time it took.
type Answer struct {
	Text         string        `json:"answer"`
	Confidence   float64       `json:"confidence"`
	Sources      []Source      `json:"sources"`
	ResponseTime time.Duration `json:"responseTime"`
	SessionID    string        `json:"sessionId,omitempty"`
}

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Health describes whether the QA core is able to answer questions.
type Health struct {
	Status          string `json:"status"`
	IndexedSections int    `json:"indexedSections"`
	Detail          string `json:"detail,omitempty"`
}

// Synthesizer assembles an answer from retrieved context. It is an injected
// capability; the generative backend is a black box to the core.
type Synthesizer interface {
	// Synthesize produces answer text grounded in the retrieved sections,
	// optionally using recent conversation history to resolve references
	// to earlier turns.
	Synthesize(ctx context.Context, question string, results []RetrievalResult, history []*Message) (string, error)
}

// QAService is the question-answering contract consumed by the API layer.
type QAService interface {
	// Ask answers a question, recording the turn in its session. A query
	// with no session ID starts a new session; the answer echoes the
	// session ID either way. Returns EINVALID for malformed queries
	// before any side effect, and EUNAVAILABLE if the index has not been
	// built yet.
	Ask(ctx context.Context, q Query) (*Answer, error)

	// Health reports whether the service can answer questions and how
	// many sections are indexed.
	Health(ctx context.Context) Health

	// Reload rebuilds the index from the corpus source. Only one rebuild
	// proceeds at a time; queries during a rebuild observe either the old
	// or the new index, never a partial one. A failed reload leaves the
	// previous index serving.
	Reload(ctx context.Context, source string) error
}

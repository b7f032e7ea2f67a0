// Package qa wires the docqa components into the question-answering
// service consumed by the API layer: lazy single-flight index builds,
// retrieval, confidence gating, answer synthesis, and session recording.
package qa

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkaminski/docqa"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Defaults for tunable answer-quality parameters.
const (
	// DefaultConfidenceThreshold separates confident answers from the
	// fixed fallback. Tunable; only the monotonicity of the estimate is
	// a contract.
	DefaultConfidenceThreshold = 0.35

	// DefaultHistoryWindow is how many recent messages are handed to the
	// synthesizer as conversational context.
	DefaultHistoryWindow = 6

	// DefaultFallbackText is returned when retrieval finds nothing
	// trustworthy enough to answer from.
	DefaultFallbackText = "I couldn't find a confident answer to that in the documentation."

	// degradedConfidence caps the confidence reported for extractive
	// fallback answers produced after a synthesis failure.
	degradedConfidence = 0.5
)

// Ensure Service implements docqa.QAService at compile time.
var _ docqa.QAService = (*Service)(nil)

// Service implements docqa.QAService.
//
// The index is built lazily on first use and rebuilt on Reload; both go
// through a single flight, and the active index is swapped in atomically,
// so concurrent queries always observe either the old or the new index in
// full. Each answered turn is appended to the session history as one
// atomic batch, so concurrent turns in a session never interleave.
type Service struct {
	Loader      docqa.CorpusLoader
	Embedder    docqa.Embedder
	Indexer     docqa.Indexer
	Synthesizer docqa.Synthesizer
	Sessions    docqa.SessionService

	// Estimator converts retrieval scores into confidence. Nil uses the
	// default tuning.
	Estimator *docqa.Estimator

	// Source is the corpus location used for the lazy first build and
	// for Reload calls that do not name a source.
	Source string

	// TopK is the retrieval depth for queries that do not set one.
	// Zero means docqa.DefaultTopK.
	TopK int

	// ConfidenceThreshold gates synthesis. Zero means the default;
	// negative disables the gate.
	ConfidenceThreshold float64

	// HistoryWindow is the number of recent messages supplied as
	// conversational context. Zero means the default.
	HistoryWindow int

	// FallbackText overrides the fixed low-confidence answer.
	FallbackText string

	// Limiter, when set, throttles query-embedding calls.
	Limiter *rate.Limiter

	// Logger records degraded-path decisions. Nil uses slog.Default().
	Logger *slog.Logger

	group   singleflight.Group
	current atomic.Pointer[indexState]
}

type indexState struct {
	index       docqa.Index
	fingerprint string
}

// Ask answers a question, recording the turn in its session.
func (s *Service) Ask(ctx context.Context, q docqa.Query) (*docqa.Answer, error) {
	begin := time.Now()

	if err := q.Validate(); err != nil {
		return nil, err
	}

	index, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.Sessions.GetOrCreateSession(ctx, q.SessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.Sessions.RecentContext(ctx, session.ID, s.historyWindow())
	if err != nil {
		return nil, err
	}

	question := strings.TrimSpace(q.Question)
	topK := q.TopK
	if topK == 0 {
		topK = s.topK()
	}

	answer, err := s.answer(ctx, index, question, topK, history)
	if err != nil {
		return nil, err
	}
	answer.SessionID = session.ID
	answer.ResponseTime = time.Since(begin)

	if err := s.recordTurn(ctx, session.ID, question, answer); err != nil {
		return nil, err
	}

	return answer, nil
}

// Health reports whether the service can answer questions.
func (s *Service) Health(ctx context.Context) docqa.Health {
	cur := s.current.Load()
	if cur == nil {
		return docqa.Health{
			Status: docqa.StatusUnhealthy,
			Detail: "index not built",
		}
	}
	return docqa.Health{
		Status:          docqa.StatusHealthy,
		IndexedSections: cur.index.Len(),
	}
}

// Reload rebuilds the index from the corpus source. Concurrent callers
// share a single rebuild; a failure leaves the previous index serving.
func (s *Service) Reload(ctx context.Context, source string) error {
	if source == "" {
		source = s.Source
	}
	if source == "" {
		return docqa.Errorf(docqa.EINVALID, "corpus source required")
	}

	_, err, _ := s.group.Do("rebuild", func() (any, error) {
		return nil, s.rebuild(ctx, source)
	})
	return err
}

// ensureIndex returns the active index, building it once on first use.
func (s *Service) ensureIndex(ctx context.Context) (docqa.Index, error) {
	if cur := s.current.Load(); cur != nil {
		return cur.index, nil
	}
	if s.Source == "" {
		return nil, docqa.Errorf(docqa.EUNAVAILABLE, "index not ready: no corpus source configured")
	}

	_, err, _ := s.group.Do("rebuild", func() (any, error) {
		if s.current.Load() != nil {
			return nil, nil
		}
		return nil, s.rebuild(ctx, s.Source)
	})
	if err != nil {
		return nil, err
	}

	cur := s.current.Load()
	if cur == nil {
		return nil, docqa.Errorf(docqa.EUNAVAILABLE, "index not ready")
	}
	return cur.index, nil
}

// rebuild builds a replacement index off to the side and swaps it in.
// Rebuilding from an unchanged corpus is a no-op success.
func (s *Service) rebuild(ctx context.Context, source string) error {
	docs, err := s.Loader.Load(ctx, source)
	if err != nil {
		return err
	}

	fp := corpusFingerprint(docs)
	if cur := s.current.Load(); cur != nil && cur.fingerprint == fp {
		s.log().Info("corpus unchanged; keeping current index", "fingerprint", fp)
		return nil
	}

	index, err := s.Indexer.Build(ctx, docs)
	if err != nil {
		return err
	}

	s.current.Store(&indexState{index: index, fingerprint: fp})
	s.log().Info("index rebuilt", "sections", index.Len(), "dimension", index.Dim())
	return nil
}

// answer runs retrieval, confidence gating, and synthesis. Embedding and
// synthesis failures degrade to fallback answers; only context-level
// failures propagate as errors.
func (s *Service) answer(ctx context.Context, index docqa.Index, question string, topK int, history []*docqa.Message) (*docqa.Answer, error) {
	results, err := s.retrieve(ctx, index, question, topK)
	if err != nil {
		if isContextErr(ctx, err) || docqa.ErrorCode(err) == docqa.EINVALID {
			return nil, err
		}
		// One bad embedding must never take down the session.
		s.log().Warn("query embedding failed; returning fallback answer",
			"reason", docqa.ErrorMessage(err))
		return &docqa.Answer{
			Text:    s.fallbackText(),
			Sources: []docqa.Source{},
		}, nil
	}

	confidence := s.estimator().Estimate(results)
	sources := sourcesFromResults(results)

	if confidence < s.threshold() {
		return &docqa.Answer{
			Text:       s.fallbackText(),
			Confidence: confidence,
			Sources:    sources,
		}, nil
	}

	text, err := s.Synthesizer.Synthesize(ctx, question, results, history)
	if err != nil {
		if isContextErr(ctx, err) {
			return nil, err
		}
		s.log().Warn("answer synthesis failed; quoting top section instead",
			"reason", docqa.ErrorMessage(err))
		return &docqa.Answer{
			Text:       extractiveFallback(results),
			Confidence: math.Min(confidence, degradedConfidence),
			Sources:    sources,
		}, nil
	}

	return &docqa.Answer{
		Text:       text,
		Confidence: confidence,
		Sources:    sources,
	}, nil
}

// retrieve embeds the question and searches the index.
func (s *Service) retrieve(ctx context.Context, index docqa.Index, question string, topK int) ([]docqa.RetrievalResult, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	vectors, err := s.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, docqa.Errorf(docqa.EEMBEDDING, "embedder returned no vectors")
	}

	return index.Search(vectors[0], topK)
}

// recordTurn appends the question and its answer to the session history as
// one batch: a failure cannot leave a dangling question. The append runs
// detached from request cancellation so a timeout cannot drop a turn that
// was already answered.
func (s *Service) recordTurn(ctx context.Context, sessionID, question string, answer *docqa.Answer) error {
	return s.Sessions.CreateMessages(context.WithoutCancel(ctx), []*docqa.Message{
		{
			SessionID: sessionID,
			Type:      docqa.MessageQuestion,
			Content:   question,
		},
		{
			SessionID: sessionID,
			Type:      docqa.MessageAnswer,
			Content:   answer.Text,
			Metadata: &docqa.MessageMetadata{
				Confidence:  answer.Confidence,
				SourceCount: len(answer.Sources),
			},
		},
	})
}

func sourcesFromResults(results []docqa.RetrievalResult) []docqa.Source {
	sources := make([]docqa.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, docqa.Source{
			Title:     r.Section.DocumentTitle,
			Section:   r.Section.Header,
			URL:       r.Section.DocumentURL,
			Relevance: r.Score,
		})
	}
	return sources
}

// extractiveFallback quotes the best-matching section when generative
// synthesis is unavailable.
func extractiveFallback(results []docqa.RetrievalResult) string {
	const excerptLen = 300

	content := results[0].Section.Content
	if len(content) > excerptLen {
		content = content[:excerptLen] + "..."
	}
	return "I couldn't generate a specific answer, but here's what I found in the documentation: " + content
}

// corpusFingerprint hashes the retrievable content of a corpus so reloads
// of an unchanged corpus can skip the rebuild.
func corpusFingerprint(docs []*docqa.Document) string {
	h := xxhash.New()
	for _, doc := range docs {
		_, _ = h.WriteString(doc.URL)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(doc.Title)
		_, _ = h.WriteString("\x00")
		for _, section := range doc.Sections {
			_, _ = h.WriteString(section.Header)
			_, _ = h.WriteString("\x1f")
			_, _ = h.WriteString(section.Content)
			_, _ = h.WriteString("\x1e")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func isContextErr(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Service) estimator() docqa.Estimator {
	if s.Estimator != nil {
		return *s.Estimator
	}
	return docqa.NewEstimator()
}

func (s *Service) topK() int {
	if s.TopK > 0 {
		return s.TopK
	}
	return docqa.DefaultTopK
}

func (s *Service) threshold() float64 {
	if s.ConfidenceThreshold != 0 {
		return s.ConfidenceThreshold
	}
	return DefaultConfidenceThreshold
}

func (s *Service) historyWindow() int {
	if s.HistoryWindow > 0 {
		return s.HistoryWindow
	}
	return DefaultHistoryWindow
}

func (s *Service) fallbackText() string {
	if s.FallbackText != "" {
		return s.FallbackText
	}
	return DefaultFallbackText
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

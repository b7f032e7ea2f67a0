// Package gemini provides Google Gemini implementations of the docqa
// embedding and answer-synthesis capabilities.
package gemini

import (
	"context"

	"github.com/pkaminski/docqa"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "gemini-embedding-001"

// Ensure Embedder implements docqa.Embedder at compile time.
var _ docqa.Embedder = (*Embedder)(nil)

// Embedder computes text embeddings using the Gemini API.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model uses the default.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns one embedding vector per input text, in input order.
// Failures are reported as EEMBEDDING so callers can degrade gracefully
// instead of failing the whole request.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, docqa.Errorf(docqa.EEMBEDDING, "gemini embedding failed: %s", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, docqa.Errorf(docqa.EEMBEDDING, "gemini returned %d embeddings for %d texts",
			embeddingCount(result), len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, docqa.Errorf(docqa.EEMBEDDING, "gemini returned an empty embedding at position %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}

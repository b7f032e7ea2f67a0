package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkaminski/docqa"
	docqahttp "github.com/pkaminski/docqa/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpusJSON = `[
	{
		"url": "https://docs.example.com/triggers",
		"title": "Build Triggers",
		"breadcrumb": ["Administration", "Triggers"],
		"sections": [
			{"header": "Overview", "content": "Triggers start builds automatically."},
			{"header": "Cron Trigger", "content": "Configure a scheduled trigger using cron syntax."}
		]
	}
]`

func TestCorpusLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(corpusJSON))
		}))
		defer srv.Close()

		loader := docqahttp.NewCorpusLoader()
		docs, err := loader.Load(context.Background(), srv.URL+"/corpus.json")
		require.NoError(t, err)

		require.Len(t, docs, 1)
		assert.Equal(t, "Build Triggers", docs[0].Title)
		assert.Len(t, docs[0].Sections, 2)
	})

	t.Run("ErrHTTPStatus", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		loader := docqahttp.NewCorpusLoader()
		_, err := loader.Load(context.Background(), srv.URL+"/corpus.json")
		assert.Equal(t, docqa.ECORPUS, docqa.ErrorCode(err))
	})

	t.Run("ErrNotAnArray", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "an array"}`))
		}))
		defer srv.Close()

		loader := docqahttp.NewCorpusLoader()
		_, err := loader.Load(context.Background(), srv.URL+"/corpus.json")
		assert.Equal(t, docqa.ECORPUS, docqa.ErrorCode(err))
	})

	t.Run("ErrUnreachable", func(t *testing.T) {
		t.Parallel()

		loader := docqahttp.NewCorpusLoader()
		_, err := loader.Load(context.Background(), "http://127.0.0.1:1/corpus.json")
		assert.Equal(t, docqa.ECORPUS, docqa.ErrorCode(err))
	})
}

package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkaminski/docqa"
	main "github.com/pkaminski/docqa/cmd/docqa"
	"github.com/pkaminski/docqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports healthy index", func(t *testing.T) {
		t.Parallel()

		qaService := &mock.QAService{
			ReloadFn: func(_ context.Context, source string) error { return nil },
			HealthFn: func(_ context.Context) docqa.Health {
				return docqa.Health{Status: docqa.StatusHealthy, IndexedSections: 42}
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			QA:     qaService,
		}

		cmd := &main.HealthCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "healthy: 42 sections indexed")
	})

	t.Run("reports unhealthy on build failure", func(t *testing.T) {
		t.Parallel()

		qaService := &mock.QAService{
			ReloadFn: func(_ context.Context, source string) error {
				return docqa.Errorf(docqa.ENOCONTENT, "corpus contains no indexable sections")
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			QA:     qaService,
		}

		cmd := &main.HealthCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "unhealthy: corpus contains no indexable sections")
	})
}

func TestReloadCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("rebuilds and reports section count", func(t *testing.T) {
		t.Parallel()

		reloaded := ""
		qaService := &mock.QAService{
			ReloadFn: func(_ context.Context, source string) error {
				reloaded = source
				return nil
			},
			HealthFn: func(_ context.Context) docqa.Health {
				return docqa.Health{Status: docqa.StatusHealthy, IndexedSections: 17}
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			QA:     qaService,
		}

		cmd := &main.ReloadCmd{Source: "corpus.json"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "corpus.json", reloaded)
		assert.Contains(t, stdout.String(), "Index rebuilt: 17 sections")
	})

	t.Run("prints error on failure", func(t *testing.T) {
		t.Parallel()

		qaService := &mock.QAService{
			ReloadFn: func(_ context.Context, source string) error {
				return docqa.Errorf(docqa.ECORPUS, "corpus file is unreadable")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			QA:     qaService,
		}

		cmd := &main.ReloadCmd{Source: "corpus.json"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "corpus file is unreadable")
	})
}

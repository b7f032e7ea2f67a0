package main

import (
	"context"
	"io"

	"github.com/pkaminski/docqa"
	"github.com/pkaminski/docqa/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Sessions docqa.SessionService
	QA       docqa.QAService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Corpus string `help:"Corpus file path or URL (overrides DOCQA_CORPUS)"`

	Ask      AskCmd      `cmd:"" help:"Ask a question about the documentation"`
	Health   HealthCmd   `cmd:"" help:"Check whether the corpus can be served"`
	Reload   ReloadCmd   `cmd:"" help:"Rebuild the index from the corpus file"`
	History  HistoryCmd  `cmd:"" help:"Show the conversation history of a session"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a session and its history"`
	Examples ExamplesCmd `cmd:"" help:"Show example questions to get started"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	Session  string `short:"s" help:"Session ID to continue a conversation"`
	TopK     int    `short:"k" help:"Number of sections to retrieve"`
	Sources  bool   `help:"Show the sections the answer was drawn from"`
}

// HealthCmd is the "health" subcommand.
type HealthCmd struct{}

// ReloadCmd is the "reload" subcommand.
type ReloadCmd struct {
	Source string `arg:"" optional:"" help:"Corpus file to load (defaults to DOCQA_CORPUS)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Session string `arg:"" help:"Session ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Session string `arg:"" help:"Session ID"`
	Force   bool   `help:"Confirm deletion"`
}

// ExamplesCmd is the "examples" subcommand.
type ExamplesCmd struct{}

package main

import (
	"fmt"
	"time"

	"github.com/pkaminski/docqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.QA.Ask(deps.Ctx, docqa.Query{
		Question:  c.Question,
		SessionID: c.Session,
		TopK:      c.TopK,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	fmt.Fprintf(deps.Stdout, "\n(confidence %.2f, session %s, %s)\n",
		answer.Confidence, answer.SessionID, answer.ResponseTime.Round(time.Millisecond))

	if c.Sources && len(answer.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, src := range answer.Sources {
			fmt.Fprintf(deps.Stdout, "  %.3f  %s  %s  %s\n", src.Relevance, src.Title, src.Section, src.URL)
		}
	}

	return nil
}

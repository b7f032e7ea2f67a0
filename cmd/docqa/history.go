package main

import (
	"fmt"

	"github.com/pkaminski/docqa"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	history, err := deps.Sessions.SessionHistory(deps.Ctx, c.Session)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	if len(history) == 0 {
		fmt.Fprintln(deps.Stdout, "No messages in this session.")
		return nil
	}

	for _, msg := range history {
		switch msg.Type {
		case docqa.MessageQuestion:
			fmt.Fprintf(deps.Stdout, "Q [%s]  %s\n", msg.CreatedAt.Format("2006-01-02 15:04:05"), msg.Content)
		case docqa.MessageAnswer:
			confidence := ""
			if msg.Metadata != nil {
				confidence = fmt.Sprintf(" (confidence %.2f)", msg.Metadata.Confidence)
			}
			fmt.Fprintf(deps.Stdout, "A [%s]%s  %s\n", msg.CreatedAt.Format("2006-01-02 15:04:05"), confidence, msg.Content)
		}
	}

	return nil
}

package main

import (
	"fmt"

	"github.com/pkaminski/docqa"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docqa.Errorf(docqa.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Sessions.DeleteSession(deps.Ctx, c.Session); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted session %q\n", c.Session)
	return nil
}

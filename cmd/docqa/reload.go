package main

import (
	"fmt"

	"github.com/pkaminski/docqa"
)

// Run executes the reload command.
func (c *ReloadCmd) Run(deps *Dependencies) error {
	if err := deps.QA.Reload(deps.Ctx, c.Source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	health := deps.QA.Health(deps.Ctx)
	fmt.Fprintf(deps.Stdout, "Index rebuilt: %d sections\n", health.IndexedSections)
	return nil
}

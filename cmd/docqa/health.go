package main

import (
	"fmt"

	"github.com/pkaminski/docqa"
)

// Run executes the health command. It builds the index so the report
// reflects whether the configured corpus can actually be served.
func (c *HealthCmd) Run(deps *Dependencies) error {
	if err := deps.QA.Reload(deps.Ctx, ""); err != nil {
		fmt.Fprintf(deps.Stdout, "unhealthy: %s\n", docqa.ErrorMessage(err))
		return err
	}

	health := deps.QA.Health(deps.Ctx)
	if health.Status != docqa.StatusHealthy {
		fmt.Fprintf(deps.Stdout, "%s: %s\n", health.Status, health.Detail)
		return docqa.Errorf(docqa.EUNAVAILABLE, "service unhealthy: %s", health.Detail)
	}

	fmt.Fprintf(deps.Stdout, "healthy: %d sections indexed\n", health.IndexedSections)
	return nil
}

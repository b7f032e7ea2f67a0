package main

import "fmt"

// exampleQuestion is a canned starter question shown to new users.
type exampleQuestion struct {
	Question string
	Category string
}

var exampleQuestions = []exampleQuestion{
	{"How do I add a step to an existing configuration?", "Configuration"},
	{"What are the different types of build triggers?", "Triggers"},
	{"How do I set up email notifications?", "Notifications"},
	{"What is the difference between build configurations and build steps?", "Concepts"},
	{"How do I configure a build badge?", "Configuration"},
	{"What are the key features of the QuickBuild dashboard?", "UI"},
}

// Run executes the examples command.
func (c *ExamplesCmd) Run(deps *Dependencies) error {
	for _, ex := range exampleQuestions {
		fmt.Fprintf(deps.Stdout, "%-14s %s\n", ex.Category, ex.Question)
	}
	return nil
}

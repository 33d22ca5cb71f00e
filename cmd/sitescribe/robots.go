package main

import (
	"fmt"

	"github.com/fwojciec/sitescribe"
)

// Run executes the robots command.
func (c *RobotsCmd) Run(deps *Dependencies) error {
	allowed, err := deps.Policy.CanFetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}
	if allowed {
		fmt.Fprintf(deps.Stdout, "allowed: %s\n", c.URL)
	} else {
		fmt.Fprintf(deps.Stdout, "disallowed: %s\n", c.URL)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/fwojciec/prepcat"
)

// Run executes the views command.
func (c *ViewsCmd) Run(deps *Dependencies) error {
	var n int
	var err error
	if c.Record {
		n, err = deps.Views.RecordView(deps.Ctx, c.ID)
	} else {
		n, err = deps.Views.ViewCount(deps.Ctx, c.ID)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %d views\n", c.ID, n)
	return nil
}

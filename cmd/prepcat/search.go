package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/prepcat"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	text := strings.Join(c.Query, " ")
	if _, ok := prepcat.NormalizeQuery(text); !ok {
		fmt.Fprintf(deps.Stderr, "error: query must be at least %d characters\n", prepcat.MinQueryLength)
		return prepcat.Errorf(prepcat.EINVALID, "query too short")
	}

	results, err := deps.Search.Search(deps.Ctx, text)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results found.")
		return nil
	}

	printResults(deps, results)
	return nil
}

// printResults writes one numbered line per result.
func printResults(deps *Dependencies, results []*prepcat.SearchResult) {
	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "  %d. %s  %s  (%s)\n", i+1, r.ID, r.Title, r.Meta())
	}
}

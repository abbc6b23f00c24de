// Command papers is the batch CLI for the paper catalogue: it fetches from
// arXiv and Crossref, searches, and maintains tags and contributions.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "papers",
		Short: "Ingest and search academic paper metadata",
		Long: `papers fetches paper metadata from arXiv (by category) and Crossref (by
free-text query), normalizes it and stores it in the catalogue database.
Authors are deduplicated by exact name.

Configuration is read from the environment (and .env), see config.Config.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		newFetchArxivCmd(a),
		newFetchCrossrefCmd(a),
		newSearchCmd(a),
		newTagAuthorCmd(a),
		newAddContributionCmd(a),
		newDeletePaperCmd(a),
		newDeleteAuthorCmd(a),
		newRunsCmd(a),
		newMigrateCmd(a),
	)
	return root
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paper-search/providers/arxiv"
	"paper-search/services"
)

func newFetchArxivCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-arxiv <count> [category...]",
		Short: "Fetch the newest papers of arXiv categories",
		Long: `fetch-arxiv fetches up to <count> papers per category and stores them.
Without categories every known arXiv category is fetched, one after the
other with FETCH_DELAY between calls. A failing category is logged and
skipped; the command exits non-zero if any category failed.`,
		Args: validateArgs(cobra.MinimumNArgs(1), func(args []string) error {
			if _, err := parseCount(args[0]); err != nil {
				return err
			}
			for _, c := range args[1:] {
				if !arxiv.IsKnownCategory(c) {
					return fmt.Errorf("unknown arXiv category %q", c)
				}
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			count, _ := parseCount(args[0])
			categories := args[1:]
			if len(categories) == 0 {
				categories = arxiv.Categories()
			}

			svc, err := a.fetchService()
			if err != nil {
				return err
			}
			results := svc.RunArxivCategories(cmd.Context(), categories, count)
			printResults(cmd, results)
			_, err = services.Summarize(results)
			return err
		},
	}
}

func newFetchCrossrefCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-crossref <query> <count>",
		Short: "Fetch papers matching a free-text query from Crossref",
		Args: validateArgs(cobra.ExactArgs(2), func(args []string) error {
			_, err := parseCount(args[1])
			return err
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			count, _ := parseCount(args[1])

			svc, err := a.fetchService()
			if err != nil {
				return err
			}
			results := svc.RunCrossrefQueries(cmd.Context(), []string{args[0]}, count)
			printResults(cmd, results)
			_, err = services.Summarize(results)
			return err
		},
	}
}

func printResults(cmd *cobra.Command, results []services.RunResult) {
	out := cmd.OutOrStdout()
	total := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s\tFAILED\t%v\n", r.Query, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s\t%d\n", r.Query, r.Papers)
		total += r.Papers
	}
	fmt.Fprintf(out, "total\t%d\n", total)
}

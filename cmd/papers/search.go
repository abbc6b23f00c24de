package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"paper-search/services"
)

func newSearchCmd(a *app) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles and abstracts (case-insensitive substring)",
		Args: validateArgs(cobra.ExactArgs(1), func(args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be >= 1, got %d", page)
			}
			if pageSize < 1 || pageSize > services.MaxPageSize {
				return fmt.Errorf("--page-size must be between 1 and %d, got %d", services.MaxPageSize, pageSize)
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, err := a.db()
			if err != nil {
				return err
			}
			resp, err := services.NewSearchService(store).Search(cmd.Context(), services.SearchQuery{
				Q:        args[0],
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number (>= 1)")
	cmd.Flags().IntVar(&pageSize, "page-size", services.DefaultPageSize, "results per page (1-100)")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"paper-search/models"
)

func newTagAuthorCmd(a *app) *cobra.Command {
	var tag models.AuthorTag
	cmd := &cobra.Command{
		Use:   "tag-author <author-id> <tag>",
		Short: "Attach a tag (max. 63 characters) to an author",
		Args: validateArgs(cobra.ExactArgs(2), func(args []string) error {
			_, err := parseID(args[0], "author-id")
			return err
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, err := a.db()
			if err != nil {
				return err
			}
			tag.AuthorID, _ = parseID(args[0], "author-id")
			tag.Tag = args[1]
			if err := store.AddAuthorTag(cmd.Context(), &tag); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tag %d added to author %d\n", tag.ID, tag.AuthorID)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag.Source, "source", "", "where the tag comes from")
	cmd.Flags().StringVar(&tag.SourceURL, "source-url", "", "link to the evidence for the tag")
	cmd.Flags().BoolVar(&tag.Verified, "verified", false, "mark the tag as verified")
	return cmd
}

func newAddContributionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-contribution <paper-id> <text>",
		Short: "Record a contribution statement for a paper",
		Args: validateArgs(cobra.ExactArgs(2), func(args []string) error {
			_, err := parseID(args[0], "paper-id")
			return err
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, err := a.db()
			if err != nil {
				return err
			}
			paperID, _ := parseID(args[0], "paper-id")
			c, err := store.AddContribution(cmd.Context(), paperID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contribution %d added to paper %d\n", c.ID, paperID)
			return nil
		},
	}
}

func newDeletePaperCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-paper <paper-id>",
		Short: "Delete a paper with its contributions and author links",
		Args: validateArgs(cobra.ExactArgs(1), func(args []string) error {
			_, err := parseID(args[0], "paper-id")
			return err
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, err := a.db()
			if err != nil {
				return err
			}
			id, _ := parseID(args[0], "paper-id")
			if err := store.DeletePaper(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "paper %d deleted\n", id)
			return nil
		},
	}
}

func newDeleteAuthorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-author <author-id>",
		Short: "Delete an author with its tags; papers are kept",
		Args: validateArgs(cobra.ExactArgs(1), func(args []string) error {
			_, err := parseID(args[0], "author-id")
			return err
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, err := a.db()
			if err != nil {
				return err
			}
			id, _ := parseID(args[0], "author-id")
			if err := store.DeleteAuthor(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "author %d deleted\n", id)
			return nil
		},
	}
}

func newRunsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the most recent ingest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, err := a.db()
			if err != nil {
				return err
			}
			runs, err := store.ListIngestRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tPROVIDER\tQUERY\tSTATUS\tPAPERS")
			for _, r := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
					r.ID, r.CreatedAt.Format(time.RFC3339), r.Provider, r.Query, r.Status, r.PapersCreated)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if _, err := a.db(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTagsCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the most common catalog tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}

			review, closeReview, err := openReview(context.Background(), cmd)
			if err != nil {
				return err
			}
			defer closeReview()

			tags := review.TopTags(limit)
			if format == "json" {
				return outputJSON(cmd.OutOrStdout(), tags)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Tag", "Titles"})
			for _, tc := range tags {
				t.AppendRow(table.Row{tc.Tag, tc.Count})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "Number of tags to show (0 for all)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

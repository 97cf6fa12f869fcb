package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/database"
	"github.com/animesift/animesift/internal/ledger"
)

func newDecisionsCmd() *cobra.Command {
	var (
		format string
		status string
	)

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List the stored decision log of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var want ledger.Status
			if status != "" {
				parsed, err := ledger.ParseStatus(status)
				if err != nil {
					return err
				}
				want = parsed
			}

			ctx := context.Background()
			review, closeReview, err := openReview(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeReview()

			records, err := review.Decisions(ctx)
			if err != nil {
				return err
			}

			var rows []decisionOutputEntry
			for _, rec := range records {
				if want != "" && rec.Status != string(want) {
					continue
				}
				rows = append(rows, newDecisionOutputEntry(rec, review.Catalog))
			}

			switch format {
			case "json":
				if rows == nil {
					rows = []decisionOutputEntry{}
				}
				return outputJSON(cmd.OutOrStdout(), rows)
			case "table":
				outputDecisionTable(cmd, rows)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.Flags().StringVar(&status, "status", "", "Only show one status: watched, interested or skipped")

	return cmd
}

type decisionOutputEntry struct {
	SubjectID int64  `json:"subject_id"`
	Title     string `json:"title,omitempty"`
	Status    string `json:"status"`
	DecidedAt string `json:"decided_at"`
	SessionID string `json:"session_id,omitempty"`
}

func newDecisionOutputEntry(rec database.DecisionRecord, cat *catalog.Catalog) decisionOutputEntry {
	entry := decisionOutputEntry{
		SubjectID: rec.SubjectID,
		Status:    rec.Status,
		DecidedAt: rec.DecidedAt.Format(time.RFC3339),
		SessionID: rec.SessionID,
	}
	if item, ok := cat.Get(rec.SubjectID); ok {
		entry.Title = item.Title
	}
	return entry
}

func outputDecisionTable(cmd *cobra.Command, rows []decisionOutputEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Decided"})

	titleWidth := max(getTerminalWidth()-50, 15)
	for _, row := range rows {
		decided := row.DecidedAt
		if at, err := time.Parse(time.RFC3339, row.DecidedAt); err == nil {
			decided = at.Local().Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{
			row.SubjectID,
			runewidth.Truncate(row.Title, titleWidth, "..."),
			row.Status,
			decided,
		})
	}

	t.Render()
}

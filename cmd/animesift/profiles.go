package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/animesift/animesift/internal/database"
	"github.com/animesift/animesift/internal/profile"
	"github.com/animesift/animesift/internal/usecase"
)

func newProfilesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List profiles and their stored decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCtx, err := database.CreateDatabase("")
			if err != nil {
				return err
			}
			defer func() {
				_ = database.CloseDatabase(dbCtx)
			}()

			profiles, err := usecase.ListProfiles(context.Background(), dbCtx)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputProfilesJSON(cmd, profiles)
			case "table":
				outputProfilesTable(cmd, profiles)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.AddCommand(newProfilesDeleteCmd())

	return cmd
}

func newProfilesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile and all of its decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := profile.ValidateName(name); err != nil {
				return err
			}

			if !force {
				ok, err := confirm(cmd, fmt.Sprintf("Delete profile '%s' and all of its decisions? (y/N) ", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			dbCtx, err := database.CreateDatabase("")
			if err != nil {
				return err
			}
			defer func() {
				_ = database.CloseDatabase(dbCtx)
			}()

			count, err := usecase.DeleteProfile(context.Background(), dbCtx, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile '%s' (%d decisions)\n", name, count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

type profileOutputEntry struct {
	Name      string `json:"name"`
	Catalog   string `json:"catalog,omitempty"`
	Decisions int64  `json:"decisions"`
	Updated   string `json:"updated"`
}

func outputProfilesJSON(cmd *cobra.Command, profiles []usecase.ProfileSummary) error {
	output := make([]profileOutputEntry, 0, len(profiles))
	for _, p := range profiles {
		output = append(output, profileOutputEntry{
			Name:      p.Record.Profile.Name,
			Catalog:   p.Record.Profile.CatalogPath,
			Decisions: p.Decisions,
			Updated:   p.Record.UpdatedAt.Format(time.RFC3339),
		})
	}
	return outputJSON(cmd.OutOrStdout(), output)
}

func outputProfilesTable(cmd *cobra.Command, profiles []usecase.ProfileSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Profile", "Catalog", "Decisions", "Updated"})

	for _, p := range profiles {
		t.AppendRow(table.Row{
			p.Record.Profile.Name,
			profile.FormatCatalogShort(p.Record.Profile.CatalogPath),
			p.Decisions,
			p.Record.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	t.Render()
}

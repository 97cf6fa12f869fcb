package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every decision of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			review, closeReview, err := openReview(context.Background(), cmd)
			if err != nil {
				return err
			}
			defer closeReview()

			name := review.Profile.Profile.Name
			if !force {
				message := fmt.Sprintf("Erase all %d decisions of profile '%s'? This cannot be undone. (y/N) ", review.Ledger.Len(), name)
				ok, err := confirm(cmd, message)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
					return nil
				}
			}

			review.Reset()
			fmt.Fprintf(cmd.OutOrStdout(), "Erased all decisions of '%s'\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

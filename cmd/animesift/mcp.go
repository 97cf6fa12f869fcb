package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/animesift/animesift/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server over stdio. Logs go to stderr and the log file only.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			review, closeReview, err := openReview(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeReview()

			server := mcp.NewServer(review, version, review.Logger())
			return server.Run(ctx)
		},
	}

	return cmd
}

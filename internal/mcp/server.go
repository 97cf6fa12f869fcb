// Package mcp exposes a review session over the Model Context Protocol.
package mcp

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/animesift/animesift/internal/logging"
	"github.com/animesift/animesift/internal/usecase"
)

// Server wraps the MCP server with triage tools bound to one review.
type Server struct {
	server *mcp.Server
	review *usecase.Review
	logger zerolog.Logger

	// mu serializes tool calls; the session is single-actor.
	mu sync.Mutex
}

// NewServer creates an MCP server over review. The caller keeps ownership of
// review and closes it after Run returns.
func NewServer(review *usecase.Review, version string, logger zerolog.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "animesift",
		Version: version,
	}, nil)

	s := &Server{
		server: mcpServer,
		review: review,
		logger: logging.WithComponent(logger, "mcp"),
	}

	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Str("profile", s.review.Profile.Profile.Name).Msg("mcp server started")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_view",
		Description: "Show the current page: grid positions, selection, filters and progress counters",
	}, s.handleView)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_select",
		Description: "Toggle an item in the selection of the current page",
	}, s.handleSelect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_swipe",
		Description: "Dismiss the item at a grid position: left marks it skipped, right marks it watched",
	}, s.handleSwipe)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_mark_interested",
		Description: "Mark an item as interested without changing the grid",
	}, s.handleMarkInterested)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_confirm",
		Description: "Mark selected items watched, the rest of the page skipped, and go to the next page",
	}, s.handleConfirm)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_skip_page",
		Description: "Mark every item on the page skipped and go to the next page",
	}, s.handleSkipPage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_undo",
		Description: "Undo the latest dismissal on this page, or move toward the page it happened on",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_navigate",
		Description: "Move to the next or previous page without recording decisions",
	}, s.handleNavigate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_filter",
		Description: "Change search text, minimum rating, year range, watch status or layout",
	}, s.handleFilter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_tag",
		Description: "Add or remove a tag filter, or list the most common catalog tags",
	}, s.handleTag)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_unmark",
		Description: "Remove the latest decision of each given item",
	}, s.handleUnmark)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_stats",
		Description: "Report progress counters and stored review sessions",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "triage_reset",
		Description: "Erase every decision of the profile and restart at page 1",
	}, s.handleReset)
}

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/grid"
	"github.com/animesift/animesift/internal/session"
	"github.com/animesift/animesift/internal/usecase"
)

const defaultTopTags = 20

// Tool handlers

func (s *Server) handleView(ctx context.Context, req *mcp.CallToolRequest, input ViewInput) (*mcp.CallToolResult, ViewOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.review.Session
	slots := sess.Slots()
	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		v := SlotView{Position: slot.Position, ID: grid.Empty}
		if slot.Item != nil {
			item := itemView(*slot.Item)
			v.ID = slot.Item.ID
			v.Item = &item
			v.Selected = slot.Selected
			v.Status = string(slot.Status)
		}
		views = append(views, v)
	}

	out := ViewOutput{
		Page:             sess.Page(),
		PageSize:         sess.PageSize(),
		Slots:            views,
		Selected:         sess.Selected(),
		Filter:           filterView(sess.Filter()),
		HasActiveFilters: sess.HasActiveFilters(),
		Counters:         sess.Counters(),
		HistoryDepth:     sess.HistoryDepth(),
	}
	if out.Selected == nil {
		out.Selected = []int64{}
	}
	if input.Listing {
		for _, item := range sess.Ordered() {
			out.Listing = append(out.Listing, itemView(item))
		}
	}
	return nil, out, nil
}

func (s *Server) handleSelect(ctx context.Context, req *mcp.CallToolRequest, input ItemInput) (*mcp.CallToolResult, SelectOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected, err := s.review.Session.Select(input.ID)
	if err != nil {
		return nil, SelectOutput{}, fmt.Errorf("failed to select item: %w", err)
	}
	return nil, SelectOutput{ID: input.ID, Selected: selected}, nil
}

func (s *Server) handleSwipe(ctx context.Context, req *mcp.CallToolRequest, input SwipeInput) (*mcp.CallToolResult, SwipeOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.review.Session
	var swipe func(int64, int) (session.SwipeResult, error)
	switch strings.ToLower(input.Direction) {
	case "left":
		swipe = sess.SwipeLeft
	case "right":
		swipe = sess.SwipeRight
	default:
		return nil, SwipeOutput{}, fmt.Errorf("invalid direction: %q (valid values: left, right)", input.Direction)
	}

	res, err := swipe(input.ID, input.Position)
	if err != nil {
		return nil, SwipeOutput{}, fmt.Errorf("failed to swipe: %w", err)
	}
	return nil, SwipeOutput{
		Position:   res.Position,
		RemovedID:  res.RemovedID,
		InsertedID: res.InsertedID,
	}, nil
}

func (s *Server) handleMarkInterested(ctx context.Context, req *mcp.CallToolRequest, input ItemInput) (*mcp.CallToolResult, PageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.review.Session.MarkInterested(input.ID); err != nil {
		return nil, PageOutput{}, fmt.Errorf("failed to mark interested: %w", err)
	}
	return nil, PageOutput{
		Page:    s.review.Session.Page(),
		Message: fmt.Sprintf("Marked %d as interested", input.ID),
	}, nil
}

func (s *Server) handleConfirm(ctx context.Context, req *mcp.CallToolRequest, input ConfirmInput) (*mcp.CallToolResult, PageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.review.Session
	ids := input.IDs
	if ids == nil {
		ids = sess.Selected()
	}
	if err := sess.Confirm(ids); err != nil {
		return nil, PageOutput{}, fmt.Errorf("failed to confirm page: %w", err)
	}
	return nil, PageOutput{
		Page:    sess.Page(),
		Message: fmt.Sprintf("Marked %d item(s) watched", len(ids)),
	}, nil
}

func (s *Server) handleSkipPage(ctx context.Context, req *mcp.CallToolRequest, input PageInput) (*mcp.CallToolResult, PageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.review.Session.SkipPage(); err != nil {
		return nil, PageOutput{}, fmt.Errorf("failed to skip page: %w", err)
	}
	return nil, PageOutput{Page: s.review.Session.Page()}, nil
}

func (s *Server) handleUndo(ctx context.Context, req *mcp.CallToolRequest, input PageInput) (*mcp.CallToolResult, UndoOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.review.Session.Undo()
	out := UndoOutput{
		Action:           res.Action.String(),
		Page:             res.Page,
		DecisionReverted: res.DecisionReverted,
		Deselected:       res.Deselected,
	}
	if res.Action == grid.UndoRestore {
		out.RestoredID = res.RestoredID
	}
	return nil, out, nil
}

func (s *Server) handleNavigate(ctx context.Context, req *mcp.CallToolRequest, input NavigateInput) (*mcp.CallToolResult, PageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.review.Session
	switch strings.ToLower(input.Direction) {
	case "next":
		sess.Advance()
	case "prev", "previous":
		sess.Retreat()
	default:
		return nil, PageOutput{}, fmt.Errorf("invalid direction: %q (valid values: next, prev)", input.Direction)
	}
	return nil, PageOutput{Page: sess.Page()}, nil
}

func (s *Server) handleFilter(ctx context.Context, req *mcp.CallToolRequest, input FilterInput) (*mcp.CallToolResult, FilterView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update := filter.Update{
		SearchQuery: input.Search,
		MinRating:   input.MinRating,
		YearStart:   input.YearStart,
		YearEnd:     input.YearEnd,
		ClearYear:   input.ClearYears,
	}
	if input.MinRating != nil && *input.MinRating < 0 {
		return nil, FilterView{}, fmt.Errorf("minRating must not be negative")
	}
	if input.WatchStatus != nil {
		ws, err := filter.ParseWatchStatus(*input.WatchStatus)
		if err != nil {
			return nil, FilterView{}, err
		}
		update.WatchStatus = &ws
	}
	if input.Layout != nil {
		layout, err := filter.ParseLayout(*input.Layout)
		if err != nil {
			return nil, FilterView{}, err
		}
		update.Layout = &layout
	}

	sess := s.review.Session
	if input.Clear {
		sess.ClearFilters()
	}
	sess.UpdateFilter(update)
	if input.SubmitSearch {
		sess.SubmitSearch()
	}
	return nil, filterView(sess.Filter()), nil
}

func (s *Server) handleTag(ctx context.Context, req *mcp.CallToolRequest, input TagInput) (*mcp.CallToolResult, TagOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.review.Session
	var out TagOutput
	switch strings.ToLower(input.Action) {
	case "add":
		out.Changed = sess.AddTag(input.Tag)
	case "remove":
		out.Changed = sess.RemoveTag(input.Tag)
	case "top":
		limit := input.Limit
		if limit <= 0 {
			limit = defaultTopTags
		}
		for _, tc := range s.review.TopTags(limit) {
			out.Top = append(out.Top, TagCount{Tag: tc.Tag, Count: tc.Count})
		}
	default:
		return nil, TagOutput{}, fmt.Errorf("invalid action: %q (valid values: add, remove, top)", input.Action)
	}
	out.Tags = filterView(sess.Filter()).Tags
	return nil, out, nil
}

func (s *Server) handleUnmark(ctx context.Context, req *mcp.CallToolRequest, input UnmarkInput) (*mcp.CallToolResult, UnmarkOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil, UnmarkOutput{Removed: s.review.Session.RemoveFromLedger(input.IDs)}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, usecase.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.review.Stats(ctx)
	if err != nil {
		return nil, usecase.Stats{}, fmt.Errorf("failed to collect stats: %w", err)
	}
	return nil, stats, nil
}

var errResetNotConfirmed = errors.New("reset erases every decision; call again with confirm=true")

func (s *Server) handleReset(ctx context.Context, req *mcp.CallToolRequest, input ResetInput) (*mcp.CallToolResult, PageOutput, error) {
	if !input.Confirm {
		return nil, PageOutput{}, errResetNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.review.Reset()
	return nil, PageOutput{Page: s.review.Session.Page(), Message: "All decisions erased"}, nil
}

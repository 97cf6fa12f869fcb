// Package session coordinates one review session: the page counter, the
// transient selection, filter changes and every user action on the grid.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/grid"
	"github.com/animesift/animesift/internal/ledger"
	"github.com/animesift/animesift/internal/logging"
)

var (
	// ErrPositionOutOfRange is returned when a position is outside the grid.
	ErrPositionOutOfRange = errors.New("session: position out of range")
	// ErrPositionMismatch is returned when a position does not hold the given id.
	ErrPositionMismatch = errors.New("session: position does not hold item")
	// ErrUnknownItem is returned for ids absent from the catalog.
	ErrUnknownItem = errors.New("session: unknown item")
)

// DefaultPageSize is the number of grid positions when none is configured.
const DefaultPageSize = 10

// Options configures a Session.
type Options struct {
	PageSize    int
	DefaultTags []string
	MinRating   float64
	Now         func() time.Time
	Logger      zerolog.Logger
}

// Session is the single actor mutating grid, ledger and filter state.
// It is not safe for concurrent use.
type Session struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	grid    *grid.Grid
	filter  filter.State
	page    int
	// selected keeps selection order for display.
	selected []int64
	now      func() time.Time
	logger   zerolog.Logger
}

// New creates a session and fills the first page. The ledger must already
// hold any rehydrated decisions.
func New(cat *catalog.Catalog, led *ledger.Ledger, opts Options) *Session {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	state := filter.DefaultState(opts.DefaultTags)
	state.MinRating = opts.MinRating

	s := &Session{
		catalog: cat,
		ledger:  led,
		grid:    grid.New(size),
		filter:  state,
		page:    1,
		now:     now,
		logger:  logging.WithComponent(opts.Logger, "session"),
	}
	s.grid.Initialize(s.pool())
	return s
}

// Page is the 1-based page counter.
func (s *Session) Page() int {
	return s.page
}

// PageSize is the number of grid positions.
func (s *Session) PageSize() int {
	return s.grid.Size()
}

// Filter returns a copy of the active filter state.
func (s *Session) Filter() filter.State {
	return s.filter.Clone()
}

// Catalog returns the catalog backing the session.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Positions returns a copy of the grid positions.
func (s *Session) Positions() []int64 {
	return s.grid.Positions()
}

// HistoryDepth reports how many undo steps are stacked.
func (s *Session) HistoryDepth() int {
	return s.grid.HistoryLen()
}

// StatusOf returns the current ledger status of id.
func (s *Session) StatusOf(id int64) (ledger.Status, bool) {
	return s.ledger.StatusOf(id)
}

// Selected returns the selected ids in selection order.
func (s *Session) Selected() []int64 {
	return slices.Clone(s.selected)
}

// IsSelected reports whether id is in the transient selection.
func (s *Session) IsSelected(id int64) bool {
	return slices.Contains(s.selected, id)
}

// Select toggles id in the selection and returns the new state.
func (s *Session) Select(id int64) (bool, error) {
	if !s.catalog.Contains(id) {
		return false, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	if s.IsSelected(id) {
		s.deselect(id)
		return false, nil
	}
	s.selected = append(s.selected, id)
	return true, nil
}

// SwipeResult describes a dismissal.
type SwipeResult struct {
	Position   int
	RemovedID  int64
	InsertedID int64
}

// SwipeLeft marks the item at position as skipped and replenishes the slot.
func (s *Session) SwipeLeft(id int64, position int) (SwipeResult, error) {
	return s.swipe(id, position, ledger.StatusSkipped)
}

// SwipeRight marks the item at position as watched and replenishes the slot.
func (s *Session) SwipeRight(id int64, position int) (SwipeResult, error) {
	return s.swipe(id, position, ledger.StatusWatched)
}

func (s *Session) swipe(id int64, position int, status ledger.Status) (SwipeResult, error) {
	if position < 0 || position >= s.grid.Size() {
		return SwipeResult{}, fmt.Errorf("%w: %d", ErrPositionOutOfRange, position)
	}
	if occupant := s.grid.At(position); occupant != id || id == grid.Empty {
		return SwipeResult{}, fmt.Errorf("%w: position %d holds %d, not %d", ErrPositionMismatch, position, occupant, id)
	}

	seq, err := s.ledger.RecordOne(id, status, s.now())
	if err != nil {
		return SwipeResult{}, err
	}
	s.deselect(id)
	inserted := s.grid.Replenish(s.pool(), id, position, s.page, seq)

	s.logger.Debug().
		Int64("subject_id", id).
		Str("status", string(status)).
		Int("position", position).
		Int64("inserted_id", inserted).
		Msg("swiped")

	return SwipeResult{Position: position, RemovedID: id, InsertedID: inserted}, nil
}

// MarkInterested records interest in id without touching the grid.
func (s *Session) MarkInterested(id int64) error {
	if !s.catalog.Contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	return s.ledger.Record([]int64{id}, ledger.StatusInterested, s.now())
}

// Confirm records selectedIDs as watched and every other occupant as skipped,
// then moves to the next page.
func (s *Session) Confirm(selectedIDs []int64) error {
	at := s.now()
	if err := s.ledger.Record(selectedIDs, ledger.StatusWatched, at); err != nil {
		return err
	}

	var rest []int64
	for _, id := range s.grid.IDs() {
		if !slices.Contains(selectedIDs, id) {
			rest = append(rest, id)
		}
	}
	if err := s.ledger.Record(rest, ledger.StatusSkipped, at); err != nil {
		return err
	}

	s.logger.Debug().
		Int("page", s.page).
		Int("watched", len(selectedIDs)).
		Int("skipped", len(rest)).
		Msg("page confirmed")

	s.advanceRecorded()
	return nil
}

// ConfirmSelection confirms the current selection.
func (s *Session) ConfirmSelection() error {
	return s.Confirm(s.Selected())
}

// SkipPage records every occupant as skipped and moves to the next page.
func (s *Session) SkipPage() error {
	ids := s.grid.IDs()
	if err := s.ledger.Record(ids, ledger.StatusSkipped, s.now()); err != nil {
		return err
	}
	s.logger.Debug().Int("page", s.page).Int("skipped", len(ids)).Msg("page skipped")
	s.advanceRecorded()
	return nil
}

func (s *Session) advanceRecorded() {
	from := s.page
	s.Advance()
	s.grid.PushPage(from, s.page)
}

// Advance moves to the next page, clearing the selection.
func (s *Session) Advance() {
	s.goTo(s.page + 1)
}

// Retreat moves to the previous page, never below 1.
func (s *Session) Retreat() {
	s.goTo(s.page - 1)
}

func (s *Session) goTo(page int) {
	s.page = max(page, 1)
	s.selected = nil
	s.grid.ReconcileOnPageChange(s.pool())
}

// UndoOutcome reports what Undo did.
type UndoOutcome struct {
	Action grid.UndoAction
	Page   int
	// RestoredID is the id put back on the grid for a restore.
	RestoredID int64
	// DecisionReverted is set when the restore removed the decision the
	// swipe wrote. Later decisions for the same id are kept.
	DecisionReverted bool
	Deselected       []int64
}

// Undo reverts the latest action on the current page, or navigates toward
// the page the latest action belongs to.
func (s *Session) Undo() UndoOutcome {
	res := s.grid.Undo(s.page)
	out := UndoOutcome{Action: res.Action, Page: s.page, RestoredID: grid.Empty}

	switch res.Action {
	case grid.UndoRetreat, grid.UndoAdvance:
		s.goTo(res.TargetPage)
		out.Page = s.page
	case grid.UndoRestore:
		out.RestoredID = res.Entry.RemovedID
		out.DecisionReverted = s.ledger.Remove(res.Entry.Decision)
		for _, id := range res.Deselected {
			s.deselect(id)
		}
		out.Deselected = res.Deselected
	}

	s.logger.Debug().
		Str("action", res.Action.String()).
		Int("page", s.page).
		Msg("undo")
	return out
}

// UpdateFilter merges u into the filter state and tops up the grid when
// matching changed.
func (s *Session) UpdateFilter(u filter.Update) {
	s.filter = s.filter.Apply(u)
	if u.AffectsMatching() {
		s.grid.ReconcileOnFilterChange(s.pool())
	}
}

// SetSearch replaces the search text.
func (s *Session) SetSearch(query string) {
	s.UpdateFilter(filter.Update{SearchQuery: &query})
}

// SubmitSearch turns a $tag$ search into a selected tag and clears the
// search text. It reports the added tag.
func (s *Session) SubmitSearch() (string, bool) {
	tag, ok := filter.ParseTagLiteral(s.filter.SearchQuery)
	if !ok {
		return "", false
	}
	tags := s.filter.SelectedTags
	if !slices.Contains(tags, tag) {
		tags = append(slices.Clone(tags), tag)
	}
	empty := ""
	s.UpdateFilter(filter.Update{SearchQuery: &empty, SelectedTags: &tags})
	return tag, true
}

// AddTag selects tag. Blank and already selected tags are ignored.
func (s *Session) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(s.filter.SelectedTags, tag) {
		return false
	}
	tags := append(slices.Clone(s.filter.SelectedTags), tag)
	s.UpdateFilter(filter.Update{SelectedTags: &tags})
	return true
}

// RemoveTag deselects tag.
func (s *Session) RemoveTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	idx := slices.Index(s.filter.SelectedTags, tag)
	if idx < 0 {
		return false
	}
	tags := slices.Delete(slices.Clone(s.filter.SelectedTags), idx, idx+1)
	s.UpdateFilter(filter.Update{SelectedTags: &tags})
	return true
}

// ClearFilters drops search text, tags and panel filters.
func (s *Session) ClearFilters() {
	s.filter = s.filter.Cleared()
	s.grid.ReconcileOnFilterChange(s.pool())
}

// RemoveFromLedger removes the latest decision of each id and deselects it.
// It returns how many ids had a decision.
func (s *Session) RemoveFromLedger(ids []int64) int {
	removed := 0
	for _, id := range ids {
		if s.ledger.RemoveLast(id) {
			removed++
		}
		s.deselect(id)
	}
	return removed
}

// ResetAllData erases every decision, the history and the selection, then
// refills the grid from the head of the catalog. Filters are kept.
func (s *Session) ResetAllData() {
	s.ledger.Clear()
	s.grid.ClearHistory()
	s.selected = nil
	s.page = 1
	s.grid.Fill(s.catalog.HeadIDs(s.grid.Size()))
	s.logger.Info().Msg("all review data reset")
}

func (s *Session) deselect(id int64) {
	if idx := slices.Index(s.selected, id); idx >= 0 {
		s.selected = slices.Delete(s.selected, idx, idx+1)
	}
}

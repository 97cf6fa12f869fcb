// Package filter decides which catalog items are visible under the user's
// current search, tag, rating, year and status constraints.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/ledger"
)

var (
	// ErrInvalidWatchStatus is returned for an unknown watch-status filter.
	ErrInvalidWatchStatus = errors.New("filter: invalid watch status")
	// ErrInvalidLayout is returned for an unknown layout mode.
	ErrInvalidLayout = errors.New("filter: invalid layout")
)

// WatchStatus restricts items by their ledger status.
type WatchStatus string

const (
	WatchAll        WatchStatus = "all"
	WatchWatched    WatchStatus = "watched"
	WatchUnwatched  WatchStatus = "unwatched"
	WatchInterested WatchStatus = "interested"
	WatchSkipped    WatchStatus = "skipped"
)

// ParseWatchStatus converts user input to a WatchStatus.
func ParseWatchStatus(value string) (WatchStatus, error) {
	ws := WatchStatus(strings.ToLower(strings.TrimSpace(value)))
	switch ws {
	case WatchAll, WatchWatched, WatchUnwatched, WatchInterested, WatchSkipped:
		return ws, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWatchStatus, value)
	}
}

// Ledger reports the status a watch-status filter selects, if it selects exactly one.
func (w WatchStatus) Ledger() (ledger.Status, bool) {
	switch w {
	case WatchWatched:
		return ledger.StatusWatched, true
	case WatchInterested:
		return ledger.StatusInterested, true
	case WatchSkipped:
		return ledger.StatusSkipped, true
	default:
		return "", false
	}
}

// Layout is the presentation density. It never affects matching.
type Layout string

const (
	LayoutSmall  Layout = "small"
	LayoutMedium Layout = "medium"
	LayoutLarge  Layout = "large"
)

// ParseLayout converts user input to a Layout.
func ParseLayout(value string) (Layout, error) {
	l := Layout(strings.ToLower(strings.TrimSpace(value)))
	switch l {
	case LayoutSmall, LayoutMedium, LayoutLarge:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLayout, value)
	}
}

// State is the full set of user-controlled filters.
type State struct {
	SearchQuery  string
	SelectedTags []string
	MinRating    float64
	YearStart    *int
	YearEnd      *int
	WatchStatus  WatchStatus
	Layout       Layout
}

// DefaultState returns the startup filter state with the given tags selected.
func DefaultState(tags []string) State {
	return State{
		SelectedTags: slices.Clone(tags),
		WatchStatus:  WatchAll,
		Layout:       LayoutMedium,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.SelectedTags = slices.Clone(s.SelectedTags)
	if s.YearStart != nil {
		v := *s.YearStart
		out.YearStart = &v
	}
	if s.YearEnd != nil {
		v := *s.YearEnd
		out.YearEnd = &v
	}
	return out
}

// HasActive reports whether any of the panel filters deviates from its default.
// Search text and tags are shown separately and do not count.
func (s State) HasActive() bool {
	return s.MinRating > 0 || s.YearStart != nil || s.YearEnd != nil ||
		(s.WatchStatus != "" && s.WatchStatus != WatchAll)
}

// Cleared returns s with search, tags and panel filters reset. Layout is kept.
func (s State) Cleared() State {
	return State{
		WatchStatus: WatchAll,
		Layout:      s.Layout,
	}
}

// Update is a partial change to State. Nil fields are left untouched.
type Update struct {
	SearchQuery  *string
	SelectedTags *[]string
	MinRating    *float64
	// YearStart and YearEnd use ClearYear to remove a bound.
	YearStart   *int
	YearEnd     *int
	ClearYear   bool
	WatchStatus *WatchStatus
	Layout      *Layout
}

// Apply returns s with u merged in.
func (s State) Apply(u Update) State {
	out := s.Clone()
	if u.SearchQuery != nil {
		out.SearchQuery = *u.SearchQuery
	}
	if u.SelectedTags != nil {
		out.SelectedTags = slices.Clone(*u.SelectedTags)
	}
	if u.MinRating != nil {
		out.MinRating = *u.MinRating
	}
	if u.ClearYear {
		out.YearStart, out.YearEnd = nil, nil
	}
	if u.YearStart != nil {
		v := *u.YearStart
		out.YearStart = &v
	}
	if u.YearEnd != nil {
		v := *u.YearEnd
		out.YearEnd = &v
	}
	if u.WatchStatus != nil {
		out.WatchStatus = *u.WatchStatus
	}
	if u.Layout != nil {
		out.Layout = *u.Layout
	}
	return out
}

// AffectsMatching reports whether applying u can change which items match.
func (u Update) AffectsMatching() bool {
	return u.SearchQuery != nil || u.SelectedTags != nil || u.MinRating != nil ||
		u.YearStart != nil || u.YearEnd != nil || u.ClearYear || u.WatchStatus != nil
}

const tagMarker = "$"

// IsTagLiteral reports whether query uses the $tag$ syntax.
func IsTagLiteral(query string) bool {
	return len(query) >= len(tagMarker) &&
		strings.HasPrefix(query, tagMarker) && strings.HasSuffix(query, tagMarker)
}

// ParseTagLiteral extracts the trimmed tag from a $tag$ query.
func ParseTagLiteral(query string) (string, bool) {
	if len(query) < 2*len(tagMarker) || !IsTagLiteral(query) {
		return "", false
	}
	tag := strings.TrimSpace(query[len(tagMarker) : len(query)-len(tagMarker)])
	if tag == "" {
		return "", false
	}
	return tag, true
}

// StatusLookup resolves the current ledger status of an item.
type StatusLookup interface {
	StatusOf(id int64) (ledger.Status, bool)
}

// Matches reports whether item passes every constraint in state.
func Matches(item catalog.Item, state State, statuses StatusLookup) bool {
	return matchesSearch(item, state.SearchQuery) &&
		matchesTags(item, state.SelectedTags) &&
		item.ScoreOrZero() >= state.MinRating &&
		matchesYear(item, state.YearStart, state.YearEnd) &&
		matchesStatus(item.ID, state.WatchStatus, statuses)
}

func matchesSearch(item catalog.Item, query string) bool {
	if query == "" || IsTagLiteral(query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Title), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(item.OriginalTitle, query)
}

// Tags are matched as substrings of the raw tag text since source
// delimiters are inconsistent.
func matchesTags(item catalog.Item, tags []string) bool {
	for _, tag := range tags {
		if !strings.Contains(item.Tags, tag) {
			return false
		}
	}
	return true
}

// unknownYear stands in for a missing year against an upper bound, so titles
// without a year fail any yearEnd.
const unknownYear = 9999

func matchesYear(item catalog.Item, start, end *int) bool {
	if start != nil && item.Year < *start {
		return false
	}
	if end != nil {
		year := item.Year
		if year == 0 {
			year = unknownYear
		}
		if year > *end {
			return false
		}
	}
	return true
}

func matchesStatus(id int64, filter WatchStatus, statuses StatusLookup) bool {
	if filter == "" || filter == WatchAll {
		return true
	}
	var (
		status ledger.Status
		ok     bool
	)
	if statuses != nil {
		status, ok = statuses.StatusOf(id)
	}
	if filter == WatchUnwatched {
		return !ok || status != ledger.StatusWatched
	}
	want, _ := filter.Ledger()
	return ok && status == want
}

// Counts is the progress summary of the filtered population.
type Counts struct {
	Total    int
	Reviewed int
}

// CountMatching counts matching items and how many of those carry a status.
func CountMatching(items []catalog.Item, state State, statuses StatusLookup) Counts {
	var c Counts
	for _, item := range items {
		if !Matches(item, state, statuses) {
			continue
		}
		c.Total++
		if statuses == nil {
			continue
		}
		if _, ok := statuses.StatusOf(item.ID); ok {
			c.Reviewed++
		}
	}
	return c
}

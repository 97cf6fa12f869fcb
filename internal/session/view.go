package session

import (
	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/grid"
	"github.com/animesift/animesift/internal/ledger"
)

// Slot is one grid position as handed to a renderer.
type Slot struct {
	Position int
	// Item is nil for an empty position.
	Item     *catalog.Item
	Selected bool
	Status   ledger.Status
}

// Counters are the progress figures shown next to the grid.
type Counters struct {
	FilteredTotal    int `json:"filtered_total"`
	FilteredReviewed int `json:"filtered_reviewed"`
	Watched          int `json:"watched"`
	Interested       int `json:"interested"`
	Skipped          int `json:"skipped"`
	Unmarked         int `json:"unmarked"`
	CatalogSize      int `json:"catalog_size"`
}

// Slots lists every position with its occupant.
func (s *Session) Slots() []Slot {
	positions := s.grid.Positions()
	slots := make([]Slot, len(positions))
	for i, id := range positions {
		slots[i] = Slot{Position: i}
		if id == grid.Empty {
			continue
		}
		item, ok := s.catalog.Get(id)
		if !ok {
			continue
		}
		slots[i].Item = &item
		slots[i].Selected = s.IsSelected(id)
		slots[i].Status, _ = s.ledger.StatusOf(id)
	}
	return slots
}

// Ordered is the list of items to display. Status views for watched,
// interested and skipped come from the ledger in first-decision order;
// every other view shows matching grid occupants in position order.
func (s *Session) Ordered() []catalog.Item {
	var ids []int64
	if status, ok := s.filter.WatchStatus.Ledger(); ok {
		ids = s.ledger.IDsWithStatus(status)
	} else {
		ids = s.grid.IDs()
	}

	items := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := s.catalog.Get(id)
		if !ok {
			continue
		}
		if filter.Matches(item, s.filter, s.ledger) {
			items = append(items, item)
		}
	}
	return items
}

// Counters derives progress for the active filter and the whole ledger.
func (s *Session) Counters() Counters {
	matching := filter.CountMatching(s.catalog.Items(), s.filter, s.ledger)
	counts := s.ledger.Counts()
	return Counters{
		FilteredTotal:    matching.Total,
		FilteredReviewed: matching.Reviewed,
		Watched:          counts.Watched,
		Interested:       counts.Interested,
		Skipped:          counts.Skipped,
		Unmarked:         max(s.catalog.Len()-counts.Reviewed(), 0),
		CatalogSize:      s.catalog.Len(),
	}
}

// HasActiveFilters reports whether a panel filter deviates from its default.
func (s *Session) HasActiveFilters() bool {
	return s.filter.HasActive()
}

package session

import (
	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/ledger"
)

// candidatePool exposes the filtered, not yet dismissed catalog to the grid.
type candidatePool struct {
	items  []catalog.Item
	cat    *catalog.Catalog
	state  filter.State
	ledger *ledger.Ledger
}

func (s *Session) pool() candidatePool {
	return candidatePool{
		items:  s.catalog.Items(),
		cat:    s.catalog,
		state:  s.filter,
		ledger: s.ledger,
	}
}

// excluded reports ids that never return to the grid once decided.
func (p candidatePool) excluded(id int64) bool {
	status, ok := p.ledger.StatusOf(id)
	return ok && (status == ledger.StatusSkipped || status == ledger.StatusWatched)
}

func (p candidatePool) Candidates(skip func(id int64) bool, limit int) []int64 {
	var out []int64
	for _, item := range p.items {
		if p.excluded(item.ID) {
			continue
		}
		if skip != nil && skip(item.ID) {
			continue
		}
		if !filter.Matches(item, p.state, p.ledger) {
			continue
		}
		out = append(out, item.ID)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (p candidatePool) Matches(id int64) bool {
	item, ok := p.cat.Get(id)
	if !ok {
		return false
	}
	return filter.Matches(item, p.state, p.ledger)
}

// Package grid keeps the fixed-size batch of visible item ids. Positions are
// stable: dismissing an item swaps the id at its position and never shifts
// the others.
package grid

// Empty marks a position with no occupant.
const Empty int64 = -1

// Pool supplies candidates under the active filter.
type Pool interface {
	// Candidates returns up to limit ids in catalog order that match the active
	// filter, are neither skipped nor watched, and are not rejected by skip.
	// A limit <= 0 means no limit.
	Candidates(skip func(id int64) bool, limit int) []int64
	// Matches reports whether id satisfies the active filter.
	Matches(id int64) bool
}

// Grid owns the position array, the recently-assigned guard and the undo history.
type Grid struct {
	positions []int64
	recent    map[int64]struct{}
	history   history
}

// New returns a grid of size empty positions.
func New(size int) *Grid {
	if size < 1 {
		size = 1
	}
	g := &Grid{
		positions: make([]int64, size),
		recent:    make(map[int64]struct{}),
	}
	for i := range g.positions {
		g.positions[i] = Empty
	}
	return g
}

// Size is the number of positions.
func (g *Grid) Size() int {
	return len(g.positions)
}

// Positions returns a copy of the position array.
func (g *Grid) Positions() []int64 {
	out := make([]int64, len(g.positions))
	copy(out, g.positions)
	return out
}

// At returns the id at position, or Empty when out of range.
func (g *Grid) At(position int) int64 {
	if position < 0 || position >= len(g.positions) {
		return Empty
	}
	return g.positions[position]
}

// IDs lists the non-empty occupants in position order.
func (g *Grid) IDs() []int64 {
	ids := make([]int64, 0, len(g.positions))
	for _, id := range g.positions {
		if id != Empty {
			ids = append(ids, id)
		}
	}
	return ids
}

// IndexOf returns the position holding id, or -1.
func (g *Grid) IndexOf(id int64) int {
	if id == Empty {
		return -1
	}
	for i, occupant := range g.positions {
		if occupant == id {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether every position is empty.
func (g *Grid) IsEmpty() bool {
	for _, id := range g.positions {
		if id != Empty {
			return false
		}
	}
	return true
}

// Initialize fills positions front to back from the pool.
func (g *Grid) Initialize(pool Pool) {
	g.Fill(pool.Candidates(nil, len(g.positions)))
}

// Fill places ids front to back, dropping repeats; remaining positions become Empty.
func (g *Grid) Fill(ids []int64) {
	seen := make(map[int64]struct{}, len(g.positions))
	i := 0
	for _, id := range ids {
		if i == len(g.positions) {
			break
		}
		if id == Empty {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		g.positions[i] = id
		i++
	}
	for ; i < len(g.positions); i++ {
		g.positions[i] = Empty
	}
	g.clearRecent()
}

// Replenish swaps the occupant at position for the first unused candidate,
// or Empty when none is left, and records the swap in history. decision is
// the ledger sequence of the decision the dismissal wrote, or zero.
func (g *Grid) Replenish(pool Pool, removedID int64, position, page int, decision int64) int64 {
	if position < 0 || position >= len(g.positions) {
		return Empty
	}

	used := g.occupied()
	for id := range g.recent {
		used[id] = struct{}{}
	}

	inserted := Empty
	if next := pool.Candidates(func(id int64) bool {
		_, ok := used[id]
		return ok
	}, 1); len(next) > 0 {
		inserted = next[0]
		g.recent[inserted] = struct{}{}
	}

	g.history.push(Entry{
		Kind:       KindReplace,
		Page:       page,
		Position:   position,
		RemovedID:  removedID,
		InsertedID: inserted,
		Decision:   decision,
	})
	g.positions[position] = inserted
	return inserted
}

// ReconcileOnFilterChange tops up positions whose occupant no longer matches.
// When candidates run out the stale occupant stays in place.
func (g *Grid) ReconcileOnFilterChange(pool Pool) {
	var stale []int
	for i, id := range g.positions {
		if id == Empty || !pool.Matches(id) {
			stale = append(stale, i)
		}
	}
	if len(stale) > 0 {
		used := g.occupied()
		candidates := pool.Candidates(func(id int64) bool {
			_, ok := used[id]
			return ok
		}, len(stale))
		for n, pos := range stale {
			if n >= len(candidates) {
				break
			}
			g.positions[pos] = candidates[n]
		}
	}
	g.clearRecent()
}

// ReconcileOnPageChange refills the grid with unused candidates left to
// right. Positions beyond the available candidates keep their occupant.
func (g *Grid) ReconcileOnPageChange(pool Pool) {
	used := g.occupied()
	candidates := pool.Candidates(func(id int64) bool {
		_, ok := used[id]
		return ok
	}, len(g.positions))
	for i := range candidates {
		g.positions[i] = candidates[i]
	}
	g.clearRecent()
}

// PushPage records a user-initiated page advance.
func (g *Grid) PushPage(from, to int) {
	g.history.push(Entry{Kind: KindPage, Page: to, FromPage: from, ToPage: to})
}

// Undo pops the latest history entry and reverts it when it belongs to page.
// Entries from another page are discarded and turned into a navigation
// request toward that page. An empty history asks for a retreat past page 1.
func (g *Grid) Undo(page int) UndoResult {
	entry, ok := g.history.pop()
	if !ok {
		if page > 1 {
			return UndoResult{Action: UndoRetreat, TargetPage: page - 1}
		}
		return UndoResult{Action: UndoNothing, TargetPage: page}
	}

	if entry.Page != page {
		if entry.Page < page {
			return UndoResult{Action: UndoRetreat, TargetPage: page - 1, Entry: entry}
		}
		return UndoResult{Action: UndoAdvance, TargetPage: page + 1, Entry: entry}
	}

	if entry.Kind == KindPage {
		target := max(entry.FromPage, 1)
		if target == page {
			return UndoResult{Action: UndoNothing, TargetPage: page, Entry: entry}
		}
		return UndoResult{Action: UndoRetreat, TargetPage: target, Entry: entry}
	}

	res := UndoResult{Action: UndoRestore, TargetPage: page, Entry: entry}
	// An id already shown at another position is not placed twice.
	if g.IndexOf(entry.RemovedID) < 0 {
		if current := g.At(entry.Position); current != Empty {
			res.Deselected = append(res.Deselected, current)
		}
		g.positions[entry.Position] = entry.RemovedID
	}
	res.Deselected = append(res.Deselected, entry.RemovedID)
	delete(g.recent, entry.InsertedID)
	return res
}

// History returns a copy of the undo stack, oldest first.
func (g *Grid) History() []Entry {
	return g.history.snapshot()
}

// HistoryLen is the depth of the undo stack.
func (g *Grid) HistoryLen() int {
	return g.history.len()
}

// ClearHistory drops all history entries.
func (g *Grid) ClearHistory() {
	g.history.clear()
}

// Recent reports whether id was assigned by a replenishment since the last reconcile.
func (g *Grid) Recent(id int64) bool {
	_, ok := g.recent[id]
	return ok
}

func (g *Grid) occupied() map[int64]struct{} {
	used := make(map[int64]struct{}, len(g.positions))
	for _, id := range g.positions {
		if id != Empty {
			used[id] = struct{}{}
		}
	}
	return used
}

func (g *Grid) clearRecent() {
	clear(g.recent)
}

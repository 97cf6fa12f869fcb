// Package ledger keeps the append-only log of review decisions and the
// last-write-wins status view derived from it.
package ledger

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/animesift/animesift/internal/logging"
)

// Ledger is the single source of truth for item status. It is not safe for
// concurrent use; persistence runs on a background writer.
type Ledger struct {
	decisions []Decision
	status    map[int64]Status
	seq       int64
	writer    *writer
}

// New creates an empty ledger. When store is nil mutations stay in memory.
func New(store Store, logger zerolog.Logger) *Ledger {
	l := &Ledger{
		status: make(map[int64]Status),
	}
	if store != nil {
		l.writer = newWriter(store, logging.WithComponent(logger, "ledger"))
	}
	return l
}

// Rehydrate loads previously persisted decisions without writing them back.
// It is meant to run once, before the first Record.
func (l *Ledger) Rehydrate(decisions []Decision) {
	for _, d := range decisions {
		if !d.Status.Valid() {
			continue
		}
		l.seq++
		d.Seq = l.seq
		l.decisions = append(l.decisions, d)
		l.status[d.ItemID] = d.Status
	}
}

// Record appends one decision per id. Duplicates are allowed; the latest wins.
func (l *Ledger) Record(ids []int64, status Status, at time.Time) error {
	_, err := l.record(ids, status, at)
	return err
}

// RecordOne appends a single decision and returns its sequence number, which
// Remove accepts.
func (l *Ledger) RecordOne(id int64, status Status, at time.Time) (int64, error) {
	batch, err := l.record([]int64{id}, status, at)
	if err != nil {
		return 0, err
	}
	return batch[0].Seq, nil
}

func (l *Ledger) record(ids []int64, status Status, at time.Time) ([]Decision, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	batch := make([]Decision, 0, len(ids))
	for _, id := range ids {
		l.seq++
		d := Decision{ItemID: id, Status: status, Timestamp: at, Seq: l.seq}
		l.decisions = append(l.decisions, d)
		l.status[id] = status
		batch = append(batch, d)
	}

	if l.writer != nil {
		l.writer.enqueue(op{kind: opAppend, decisions: batch})
	}
	return batch, nil
}

// StatusOf returns the current status of id.
func (l *Ledger) StatusOf(id int64) (Status, bool) {
	s, ok := l.status[id]
	return s, ok
}

// RemoveLast splices out the most recent decision for id and reports whether
// one existed. Older decisions for the same id are kept.
func (l *Ledger) RemoveLast(id int64) bool {
	for i := len(l.decisions) - 1; i >= 0; i-- {
		if l.decisions[i].ItemID == id {
			l.removeAt(i)
			return true
		}
	}
	return false
}

// Remove splices out the decision with sequence number seq. It reports false
// when that decision is no longer in the log.
func (l *Ledger) Remove(seq int64) bool {
	if seq <= 0 {
		return false
	}
	for i := len(l.decisions) - 1; i >= 0; i-- {
		if l.decisions[i].Seq == seq {
			l.removeAt(i)
			return true
		}
	}
	return false
}

func (l *Ledger) removeAt(idx int) {
	id := l.decisions[idx].ItemID

	// Decisions of the same id appended after idx; the store counts from its
	// newest row the same way.
	newer := 0
	for _, d := range l.decisions[idx+1:] {
		if d.ItemID == id {
			newer++
		}
	}

	l.decisions = append(l.decisions[:idx], l.decisions[idx+1:]...)

	delete(l.status, id)
	for i := len(l.decisions) - 1; i >= 0; i-- {
		if l.decisions[i].ItemID == id {
			l.status[id] = l.decisions[i].Status
			break
		}
	}

	if l.writer != nil {
		l.writer.enqueue(op{kind: opRemove, itemID: id, newer: newer})
	}
}

// Clear erases every decision.
func (l *Ledger) Clear() {
	l.decisions = nil
	l.status = make(map[int64]Status)

	if l.writer != nil {
		l.writer.enqueue(op{kind: opClear})
	}
}

// Len returns the number of decisions in the log.
func (l *Ledger) Len() int {
	return len(l.decisions)
}

// StatusMap returns a copy of the derived id → status view.
func (l *Ledger) StatusMap() map[int64]Status {
	out := make(map[int64]Status, len(l.status))
	for id, s := range l.status {
		out[id] = s
	}
	return out
}

// IDsWithStatus lists ids whose current status is s, ordered by the first
// time each id appears in the log.
func (l *Ledger) IDsWithStatus(s Status) []int64 {
	seen := make(map[int64]struct{}, len(l.status))
	var ids []int64
	for _, d := range l.decisions {
		if _, ok := seen[d.ItemID]; ok {
			continue
		}
		seen[d.ItemID] = struct{}{}
		if l.status[d.ItemID] == s {
			ids = append(ids, d.ItemID)
		}
	}
	return ids
}

// Counts tallies ids per current status.
func (l *Ledger) Counts() Counts {
	var c Counts
	for _, s := range l.status {
		switch s {
		case StatusWatched:
			c.Watched++
		case StatusInterested:
			c.Interested++
		case StatusSkipped:
			c.Skipped++
		}
	}
	return c
}

// Flush blocks until every persistence write issued so far has been attempted.
func (l *Ledger) Flush() {
	if l.writer != nil {
		l.writer.flush()
	}
}

// Close drains pending writes and stops the background writer.
func (l *Ledger) Close() {
	if l.writer != nil {
		l.writer.close()
	}
}

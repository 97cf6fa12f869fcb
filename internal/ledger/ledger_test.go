package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu      sync.Mutex
	calls   []string
	appends [][]Decision
	removed []int64
	newer   []int
	failAll bool
}

func (s *recordingStore) Append(_ context.Context, decisions []Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "append")
	s.appends = append(s.appends, decisions)
	if s.failAll {
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingStore) Remove(_ context.Context, itemID int64, newer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "remove")
	s.removed = append(s.removed, itemID)
	s.newer = append(s.newer, newer)
	if s.failAll {
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingStore) ClearAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "clear")
	if s.failAll {
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingStore) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestRecordLastWriteWins(t *testing.T) {
	l := New(nil, zerolog.Nop())

	require.NoError(t, l.Record([]int64{7}, StatusSkipped, t0))
	require.NoError(t, l.Record([]int64{7}, StatusInterested, t0.Add(time.Second)))
	require.NoError(t, l.Record([]int64{7}, StatusWatched, t0.Add(2*time.Second)))

	got, ok := l.StatusOf(7)
	require.True(t, ok)
	assert.Equal(t, StatusWatched, got)
	assert.Equal(t, 3, l.Len())

	_, ok = l.StatusOf(8)
	assert.False(t, ok)
}

func TestRecordRejectsInvalidStatus(t *testing.T) {
	l := New(nil, zerolog.Nop())
	err := l.Record([]int64{1}, Status("liked"), t0)
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, 0, l.Len())
}

func TestRemoveLastOnlyRemovesOneEntry(t *testing.T) {
	l := New(nil, zerolog.Nop())
	require.NoError(t, l.Record([]int64{1}, StatusSkipped, t0))
	require.NoError(t, l.Record([]int64{2}, StatusWatched, t0))
	require.NoError(t, l.Record([]int64{1}, StatusWatched, t0))

	require.True(t, l.RemoveLast(1))

	got, ok := l.StatusOf(1)
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, got)
	assert.Equal(t, 2, l.Len())

	require.True(t, l.RemoveLast(1))
	_, ok = l.StatusOf(1)
	assert.False(t, ok, "status map must not keep ids without decisions")

	assert.False(t, l.RemoveLast(1))
	s, _ := l.StatusOf(2)
	assert.Equal(t, StatusWatched, s)
}

func TestRemoveBySequenceKeepsLaterDecisions(t *testing.T) {
	l := New(nil, zerolog.Nop())
	seq, err := l.RecordOne(3, StatusSkipped, t0)
	require.NoError(t, err)
	require.NoError(t, l.Record([]int64{3}, StatusInterested, t0.Add(time.Second)))

	require.True(t, l.Remove(seq))

	got, ok := l.StatusOf(3)
	require.True(t, ok)
	assert.Equal(t, StatusInterested, got)
	assert.Equal(t, 1, l.Len())

	assert.False(t, l.Remove(seq), "a removed decision cannot be removed twice")
	assert.False(t, l.Remove(0))
}

func TestRemoveBySequenceAfterClear(t *testing.T) {
	l := New(nil, zerolog.Nop())
	seq, err := l.RecordOne(1, StatusWatched, t0)
	require.NoError(t, err)
	l.Clear()
	require.NoError(t, l.Record([]int64{1}, StatusSkipped, t0))

	assert.False(t, l.Remove(seq))
	got, _ := l.StatusOf(1)
	assert.Equal(t, StatusSkipped, got)
}

func TestRecordOneRejectsInvalidStatus(t *testing.T) {
	l := New(nil, zerolog.Nop())
	seq, err := l.RecordOne(1, Status("liked"), t0)
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, seq)
}

func TestClear(t *testing.T) {
	l := New(nil, zerolog.Nop())
	require.NoError(t, l.Record([]int64{1, 2, 3}, StatusSkipped, t0))
	l.Clear()

	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.StatusMap())
	_, ok := l.StatusOf(2)
	assert.False(t, ok)
}

func TestIDsWithStatusFirstAppearanceOrder(t *testing.T) {
	l := New(nil, zerolog.Nop())
	require.NoError(t, l.Record([]int64{5, 3}, StatusSkipped, t0))
	require.NoError(t, l.Record([]int64{9}, StatusWatched, t0))
	require.NoError(t, l.Record([]int64{4}, StatusSkipped, t0))
	require.NoError(t, l.Record([]int64{5}, StatusSkipped, t0))
	require.NoError(t, l.Record([]int64{9}, StatusSkipped, t0))

	assert.Equal(t, []int64{5, 3, 9, 4}, l.IDsWithStatus(StatusSkipped))
	assert.Empty(t, l.IDsWithStatus(StatusWatched))
}

func TestCounts(t *testing.T) {
	l := New(nil, zerolog.Nop())
	require.NoError(t, l.Record([]int64{1, 2}, StatusWatched, t0))
	require.NoError(t, l.Record([]int64{3}, StatusInterested, t0))
	require.NoError(t, l.Record([]int64{4, 5, 1}, StatusSkipped, t0))

	c := l.Counts()
	assert.Equal(t, Counts{Watched: 1, Interested: 1, Skipped: 3}, c)
	assert.Equal(t, 5, c.Reviewed())
}

func TestRehydrateDoesNotPersist(t *testing.T) {
	store := &recordingStore{}
	l := New(store, zerolog.Nop())
	defer l.Close()

	l.Rehydrate([]Decision{
		{ItemID: 1, Status: StatusSkipped, Timestamp: t0},
		{ItemID: 1, Status: StatusWatched, Timestamp: t0},
		{ItemID: 2, Status: Status("bogus"), Timestamp: t0},
	})
	l.Flush()

	s, ok := l.StatusOf(1)
	require.True(t, ok)
	assert.Equal(t, StatusWatched, s)
	_, ok = l.StatusOf(2)
	assert.False(t, ok)
	assert.Empty(t, store.snapshot())
}

func TestWriterAppliesInLedgerOrder(t *testing.T) {
	store := &recordingStore{}
	l := New(store, zerolog.Nop())

	require.NoError(t, l.Record([]int64{1, 2}, StatusSkipped, t0))
	l.RemoveLast(2)
	l.Clear()
	require.NoError(t, l.Record([]int64{3}, StatusWatched, t0))
	l.Close()

	assert.Equal(t, []string{"append", "remove", "clear", "append"}, store.snapshot())
	require.Len(t, store.appends, 2)
	assert.Len(t, store.appends[0], 2)
	assert.Equal(t, []int64{2}, store.removed)
	assert.Equal(t, []int{0}, store.newer)
}

func TestWriterRemovesOlderDecisionByPosition(t *testing.T) {
	store := &recordingStore{}
	l := New(store, zerolog.Nop())

	seq, err := l.RecordOne(4, StatusSkipped, t0)
	require.NoError(t, err)
	require.NoError(t, l.Record([]int64{4, 5, 4}, StatusWatched, t0))
	require.True(t, l.Remove(seq))
	l.Close()

	assert.Equal(t, []int64{4}, store.removed)
	assert.Equal(t, []int{2}, store.newer)
}

func TestWriterFailuresDoNotAffectLedger(t *testing.T) {
	store := &recordingStore{failAll: true}
	l := New(store, zerolog.New(zerolog.NewTestWriter(t)))

	require.NoError(t, l.Record([]int64{1}, StatusWatched, t0))
	l.RemoveLast(1)
	require.NoError(t, l.Record([]int64{1}, StatusSkipped, t0))
	l.Flush()

	s, ok := l.StatusOf(1)
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, s)
	assert.Len(t, store.snapshot(), 3)

	l.Close()
	// Writes after close are dropped, the in-memory ledger still changes.
	require.NoError(t, l.Record([]int64{2}, StatusSkipped, t0))
	assert.Len(t, store.snapshot(), 3)
	_, ok = l.StatusOf(2)
	assert.True(t, ok)
}

func TestParseStatus(t *testing.T) {
	for input, want := range map[string]Status{
		"watched":     StatusWatched,
		" Interested": StatusInterested,
		"wishlist":    StatusInterested,
		"SKIPPED":     StatusSkipped,
	} {
		got, err := ParseStatus(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseStatus("liked")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

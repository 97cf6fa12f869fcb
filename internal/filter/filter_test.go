package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/ledger"
)

type statusMap map[int64]ledger.Status

func (m statusMap) StatusOf(id int64) (ledger.Status, bool) {
	s, ok := m[id]
	return s, ok
}

func score(v float64) *float64 { return &v }

func year(v int) *int { return &v }

var items = []catalog.Item{
	{ID: 1, Title: "Frieren", OriginalTitle: "葬送のフリーレン", Score: score(9.1), Year: 2023, Tags: "日本,奇幻,冒险"},
	{ID: 2, Title: "Bocchi the Rock", OriginalTitle: "ぼっち・ざ・ろっく！", Score: score(8.4), Year: 2022, Tags: "日本;音乐"},
	{ID: 3, Title: "Arcane", OriginalTitle: "Arcane", Score: nil, Year: 2021, Tags: "美国、奇幻"},
	{ID: 4, Title: "Mushishi", OriginalTitle: "蟲師", Score: score(8.9), Year: 2005, Tags: "日本 奇幻"},
}

func matchingIDs(state State, statuses StatusLookup) []int64 {
	var ids []int64
	for _, it := range items {
		if Matches(it, state, statuses) {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func TestMatchesSearch(t *testing.T) {
	state := DefaultState(nil)

	state.SearchQuery = "frie"
	assert.Equal(t, []int64{1}, matchingIDs(state, nil))

	state.SearchQuery = "ROCK"
	assert.Equal(t, []int64{2}, matchingIDs(state, nil))

	state.SearchQuery = "蟲"
	assert.Equal(t, []int64{4}, matchingIDs(state, nil))

	state.SearchQuery = "$音乐$"
	assert.Equal(t, []int64{1, 2, 3, 4}, matchingIDs(state, nil), "tag literal must not filter titles")
}

func TestMatchesTagsSubstring(t *testing.T) {
	state := DefaultState([]string{"日本"})
	assert.Equal(t, []int64{1, 2, 4}, matchingIDs(state, nil))

	state.SelectedTags = []string{"日本", "奇幻"}
	assert.Equal(t, []int64{1, 4}, matchingIDs(state, nil))

	state.SelectedTags = []string{"奇"}
	assert.Equal(t, []int64{1, 3, 4}, matchingIDs(state, nil), "partial tags match as substrings")
}

func TestMatchesRatingTreatsAbsentAsZero(t *testing.T) {
	state := DefaultState(nil)
	state.MinRating = 8.5
	assert.Equal(t, []int64{1, 4}, matchingIDs(state, nil))

	state.MinRating = 0
	assert.Contains(t, matchingIDs(state, nil), int64(3))
}

func TestMatchesYearInclusive(t *testing.T) {
	state := DefaultState(nil)
	state.YearStart = year(2021)
	state.YearEnd = year(2022)
	assert.Equal(t, []int64{2, 3}, matchingIDs(state, nil))

	state.YearStart = nil
	assert.Equal(t, []int64{2, 3, 4}, matchingIDs(state, nil))
}

func TestMatchesYearUnknown(t *testing.T) {
	undated := catalog.Item{ID: 9, Title: "Undated", Tags: "日本"}

	state := DefaultState(nil)
	state.YearStart = year(2000)
	assert.False(t, Matches(undated, state, nil))

	state.YearStart = nil
	state.YearEnd = year(2030)
	assert.False(t, Matches(undated, state, nil), "a missing year fails any upper bound")

	state.YearEnd = nil
	assert.True(t, Matches(undated, state, nil))
}

func TestMatchesWatchStatus(t *testing.T) {
	statuses := statusMap{1: ledger.StatusWatched, 2: ledger.StatusInterested, 3: ledger.StatusSkipped}

	cases := []struct {
		filter WatchStatus
		want   []int64
	}{
		{WatchAll, []int64{1, 2, 3, 4}},
		{WatchWatched, []int64{1}},
		{WatchUnwatched, []int64{2, 3, 4}},
		{WatchInterested, []int64{2}},
		{WatchSkipped, []int64{3}},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			state := DefaultState(nil)
			state.WatchStatus = tc.filter
			assert.Equal(t, tc.want, matchingIDs(state, statuses))
		})
	}
}

func TestMatchesIsPure(t *testing.T) {
	statuses := statusMap{1: ledger.StatusWatched}
	state := DefaultState([]string{"日本"})
	state.SearchQuery = "f"
	state.WatchStatus = WatchWatched

	first := Matches(items[0], state, statuses)
	second := Matches(items[0], state, statuses)
	assert.Equal(t, first, second)
	assert.True(t, first)
	assert.Equal(t, []string{"日本"}, state.SelectedTags)
}

func TestCountMatchingUsesFilteredPopulation(t *testing.T) {
	statuses := statusMap{1: ledger.StatusWatched, 3: ledger.StatusSkipped}

	state := DefaultState([]string{"日本"})
	assert.Equal(t, Counts{Total: 3, Reviewed: 1}, CountMatching(items, state, statuses))

	state.WatchStatus = WatchSkipped
	state.SelectedTags = nil
	assert.Equal(t, Counts{Total: 1, Reviewed: 1}, CountMatching(items, state, statuses))
}

func TestTagLiteral(t *testing.T) {
	assert.True(t, IsTagLiteral("$日本$"))
	assert.True(t, IsTagLiteral("$"))
	assert.False(t, IsTagLiteral("日本$"))
	assert.False(t, IsTagLiteral(""))

	tag, ok := ParseTagLiteral("$ 音乐 $")
	require.True(t, ok)
	assert.Equal(t, "音乐", tag)

	_, ok = ParseTagLiteral("$$")
	assert.False(t, ok)
	_, ok = ParseTagLiteral("$")
	assert.False(t, ok)
}

func TestStateApplyAndActive(t *testing.T) {
	base := DefaultState([]string{"日本"})
	assert.False(t, base.HasActive())

	rating := 7.5
	status := WatchSkipped
	next := base.Apply(Update{MinRating: &rating, YearStart: year(2000), WatchStatus: &status})
	assert.True(t, next.HasActive())
	assert.Equal(t, 7.5, next.MinRating)
	require.NotNil(t, next.YearStart)
	assert.Equal(t, 2000, *next.YearStart)
	assert.Equal(t, []string{"日本"}, next.SelectedTags)
	assert.False(t, base.HasActive(), "Apply must not mutate the receiver")

	cleared := next.Apply(Update{ClearYear: true})
	assert.Nil(t, cleared.YearStart)

	reset := next.Cleared()
	assert.False(t, reset.HasActive())
	assert.Empty(t, reset.SelectedTags)
	assert.Equal(t, LayoutMedium, reset.Layout)

	layout := LayoutLarge
	assert.False(t, Update{Layout: &layout}.AffectsMatching())
	assert.True(t, Update{ClearYear: true}.AffectsMatching())
}

func TestParseWatchStatusAndLayout(t *testing.T) {
	ws, err := ParseWatchStatus(" Skipped ")
	require.NoError(t, err)
	assert.Equal(t, WatchSkipped, ws)

	_, err = ParseWatchStatus("liked")
	assert.ErrorIs(t, err, ErrInvalidWatchStatus)

	l, err := ParseLayout("small")
	require.NoError(t, err)
	assert.Equal(t, LayoutSmall, l)

	_, err = ParseLayout("huge")
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animesift/animesift/internal/config"
	"github.com/animesift/animesift/internal/ledger"
	"github.com/animesift/animesift/internal/usecase"
)

const testCSV = "subject_id,title,supp_title,平均分,img_url,year,tags,infobox_raw\n" +
	"1,Alpha,,8.0,,2020,日本;科幻,\n" +
	"2,Beta,,7.5,,2021,日本,\n" +
	"3,Gamma,,6.0,,2019,日本;科幻,\n" +
	"4,Delta,,9.0,,2018,美国,\n" +
	"5,Epsilon,,5.5,,2022,日本,\n" +
	"6,Zeta,,7.0,,2023,日本,\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCSV), 0o600))

	settings := config.DefaultSettings()
	settings.Review.PageSize = 3
	settings.Review.DefaultTags = nil

	review, err := usecase.Open(context.Background(), usecase.OpenOptions{
		CatalogPath: catalogPath,
		DBPath:      filepath.Join(dir, "review.db"),
		Settings:    settings,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, review.Close()) })

	return NewServer(review, "test", zerolog.Nop())
}

func TestViewReportsGrid(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleView(ctx, nil, ViewInput{Listing: true})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 3, out.PageSize)
	require.Len(t, out.Slots, 3)
	assert.Equal(t, int64(1), out.Slots[0].ID)
	require.NotNil(t, out.Slots[0].Item)
	assert.Equal(t, "Alpha", out.Slots[0].Item.Title)
	assert.Equal(t, 6, out.Counters.CatalogSize)
	assert.Equal(t, "all", out.Filter.WatchStatus)
	assert.Len(t, out.Listing, 3)
	assert.Empty(t, out.Selected)
}

func TestSwipeAndUndo(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, swiped, err := s.handleSwipe(ctx, nil, SwipeInput{ID: 2, Position: 1, Direction: "left"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), swiped.RemovedID)
	assert.Equal(t, int64(4), swiped.InsertedID)

	status, ok := s.review.Session.StatusOf(2)
	require.True(t, ok)
	assert.Equal(t, ledger.StatusSkipped, status)

	_, undone, err := s.handleUndo(ctx, nil, PageInput{})
	require.NoError(t, err)
	assert.Equal(t, "restore", undone.Action)
	assert.Equal(t, int64(2), undone.RestoredID)
	assert.True(t, undone.DecisionReverted)
	assert.Equal(t, []int64{1, 2, 3}, s.review.Session.Positions())

	_, _, err = s.handleSwipe(ctx, nil, SwipeInput{ID: 2, Position: 1, Direction: "up"})
	require.Error(t, err)
	_, _, err = s.handleSwipe(ctx, nil, SwipeInput{ID: 3, Position: 1, Direction: "right"})
	require.Error(t, err)
}

func TestConfirmUsesSelection(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, sel, err := s.handleSelect(ctx, nil, ItemInput{ID: 3})
	require.NoError(t, err)
	assert.True(t, sel.Selected)

	_, page, err := s.handleConfirm(ctx, nil, ConfirmInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)

	status, _ := s.review.Session.StatusOf(3)
	assert.Equal(t, ledger.StatusWatched, status)
	status, _ = s.review.Session.StatusOf(1)
	assert.Equal(t, ledger.StatusSkipped, status)
	assert.Equal(t, []int64{4, 5, 6}, s.review.Session.Positions())

	_, _, err = s.handleSelect(ctx, nil, ItemInput{ID: 999})
	require.Error(t, err)
}

func TestFilterAndTags(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	search := "$科幻$"
	_, view, err := s.handleFilter(ctx, nil, FilterInput{Search: &search, SubmitSearch: true})
	require.NoError(t, err)
	assert.Equal(t, "", view.Search)
	assert.Equal(t, []string{"科幻"}, view.Tags)

	_, tags, err := s.handleTag(ctx, nil, TagInput{Action: "remove", Tag: "科幻"})
	require.NoError(t, err)
	assert.True(t, tags.Changed)
	assert.Empty(t, tags.Tags)

	_, top, err := s.handleTag(ctx, nil, TagInput{Action: "top", Limit: 1})
	require.NoError(t, err)
	require.Len(t, top.Top, 1)
	assert.Equal(t, "日本", top.Top[0].Tag)

	bad := "sideways"
	_, _, err = s.handleFilter(ctx, nil, FilterInput{Layout: &bad})
	require.Error(t, err)

	rating := 7.0
	status := "unwatched"
	_, view, err = s.handleFilter(ctx, nil, FilterInput{MinRating: &rating, WatchStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, 7.0, view.MinRating)
	assert.Equal(t, "unwatched", view.WatchStatus)

	_, view, err = s.handleFilter(ctx, nil, FilterInput{Clear: true})
	require.NoError(t, err)
	assert.Zero(t, view.MinRating)
	assert.Equal(t, "all", view.WatchStatus)
}

func TestResetRequiresConfirmation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleSkipPage(ctx, nil, PageInput{})
	require.NoError(t, err)

	_, _, err = s.handleReset(ctx, nil, ResetInput{})
	require.ErrorIs(t, err, errResetNotConfirmed)
	assert.Equal(t, 3, s.review.Ledger.Len())

	_, out, err := s.handleReset(ctx, nil, ResetInput{Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Zero(t, s.review.Ledger.Len())

	_, stats, err := s.handleStats(ctx, nil, StatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Counters.Unmarked)
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = clientSession.Close() }()

	tools, err := clientSession.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "triage_swipe")
	assert.Contains(t, names, "triage_reset")

	res, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "triage_mark_interested",
		Arguments: map[string]any{"id": 5},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	status, ok := s.review.Session.StatusOf(5)
	require.True(t, ok)
	assert.Equal(t, ledger.StatusInterested, status)
}

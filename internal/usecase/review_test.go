package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animesift/animesift/internal/config"
	"github.com/animesift/animesift/internal/database"
	"github.com/animesift/animesift/internal/ledger"
)

const reviewCSV = "subject_id,title,supp_title,平均分,img_url,year,tags,infobox_raw\n" +
	"1,Alpha,アルファ,8.0,,2020,日本,\n" +
	"2,Beta,,7.5,,2021,日本,\n" +
	"3,Gamma,,6.0,,2019,日本,\n" +
	"4,Delta,,9.0,,2018,日本,\n" +
	"5,Epsilon,,5.5,,2022,日本,\n"

type fixture struct {
	catalogPath string
	dbPath      string
	settings    *config.Settings
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "shows.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(reviewCSV), 0o600))

	settings := config.DefaultSettings()
	settings.Review.PageSize = 2
	settings.Review.DefaultTags = nil

	return fixture{
		catalogPath: catalogPath,
		dbPath:      filepath.Join(dir, "review.db"),
		settings:    settings,
	}
}

func (f fixture) open(t *testing.T) *Review {
	t.Helper()
	r, err := Open(context.Background(), OpenOptions{
		CatalogPath: f.catalogPath,
		DBPath:      f.dbPath,
		Settings:    f.settings,
		Logger:      zerolog.New(zerolog.NewTestWriter(t)),
		Now:         func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return r
}

func TestOpenRequiresCatalog(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{Settings: config.DefaultSettings(), Logger: zerolog.Nop()})
	require.ErrorIs(t, err, ErrNoCatalog)
}

func TestOpenFailsOnMissingCatalogFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(context.Background(), OpenOptions{
		CatalogPath: filepath.Join(dir, "missing.csv"),
		DBPath:      filepath.Join(dir, "review.db"),
		Logger:      zerolog.Nop(),
	})
	require.Error(t, err)
}

func TestOpenDerivesProfileFromCatalogName(t *testing.T) {
	f := newFixture(t)
	r := f.open(t)
	defer func() { require.NoError(t, r.Close()) }()

	assert.Equal(t, "shows", r.Profile.Profile.Name)
	assert.NotEmpty(t, r.SessionID)
	assert.Equal(t, []int64{1, 2}, r.Session.Positions())
	assert.False(t, r.CatalogChanged)
}

func TestDecisionsSurviveReopen(t *testing.T) {
	f := newFixture(t)

	first := f.open(t)
	_, err := first.Session.SwipeRight(1, 0)
	require.NoError(t, err)
	require.NoError(t, first.Session.MarkInterested(4))
	require.NoError(t, first.Close())

	second := f.open(t)
	defer func() { require.NoError(t, second.Close()) }()

	status, ok := second.Session.StatusOf(1)
	require.True(t, ok)
	assert.Equal(t, ledger.StatusWatched, status)
	status, ok = second.Session.StatusOf(4)
	require.True(t, ok)
	assert.Equal(t, ledger.StatusInterested, status)

	assert.NotContains(t, second.Session.Positions(), int64(1))
	assert.NotEqual(t, first.SessionID, second.SessionID)

	sessions, err := second.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, first.SessionID, sessions[0].SessionID)
	assert.EqualValues(t, 2, sessions[0].DecisionCount)
}

func TestUndoRemovesStoredDecision(t *testing.T) {
	f := newFixture(t)
	r := f.open(t)
	defer func() { require.NoError(t, r.Close()) }()

	_, err := r.Session.SwipeLeft(2, 1)
	require.NoError(t, err)
	out := r.Session.Undo()
	require.True(t, out.DecisionReverted)

	records, err := r.Decisions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalogChangeIsReported(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.open(t).Close())

	require.NoError(t, os.WriteFile(f.catalogPath, []byte(reviewCSV+"6,Zeta,,7.0,,2023,日本,\n"), 0o600))

	r := f.open(t)
	defer func() { require.NoError(t, r.Close()) }()
	assert.True(t, r.CatalogChanged)
	assert.Equal(t, 6, r.Catalog.Len())
}

func TestResetClearsStoredDecisions(t *testing.T) {
	f := newFixture(t)
	r := f.open(t)

	require.NoError(t, r.Session.SkipPage())
	require.Equal(t, 2, r.Session.Page())

	r.Reset()
	records, err := r.Decisions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, r.Session.Page())
	assert.Equal(t, []int64{1, 2}, r.Session.Positions())
	require.NoError(t, r.Close())

	reopened := f.open(t)
	defer func() { require.NoError(t, reopened.Close()) }()
	assert.Zero(t, reopened.Ledger.Len())
}

func TestStatsAndProfiles(t *testing.T) {
	f := newFixture(t)
	r := f.open(t)

	require.NoError(t, r.Session.Confirm([]int64{1}))
	stats, err := r.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shows", stats.Profile)
	assert.Equal(t, 1, stats.Counters.Watched)
	assert.Equal(t, 1, stats.Counters.Skipped)
	assert.Equal(t, 3, stats.Counters.Unmarked)
	assert.Equal(t, 2, stats.Decisions)
	assert.Equal(t, 2, stats.CurrentPage)

	tags := r.TopTags(3)
	require.Len(t, tags, 1)
	assert.Equal(t, "日本", tags[0].Tag)
	require.NoError(t, r.Close())

	dbCtx, err := database.CreateDatabase(f.dbPath)
	require.NoError(t, err)
	defer func() { _ = database.CloseDatabase(dbCtx) }()

	profiles, err := ListProfiles(context.Background(), dbCtx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.EqualValues(t, 2, profiles[0].Decisions)

	removed, err := DeleteProfile(context.Background(), dbCtx, "shows")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
}

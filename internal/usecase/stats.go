package usecase

import (
	"context"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/database"
	"github.com/animesift/animesift/internal/services"
	"github.com/animesift/animesift/internal/session"
)

// Stats is the progress report of a review.
type Stats struct {
	Profile     string                    `json:"profile"`
	Catalog     string                    `json:"catalog"`
	Counters    session.Counters          `json:"counters"`
	Decisions   int                       `json:"decisions"`
	Sessions    []database.SessionSummary `json:"sessions"`
	HasFilters  bool                      `json:"has_active_filters"`
	CurrentPage int                       `json:"page"`
}

// Stats collects counters for the active filter and the stored sessions.
func (r *Review) Stats(ctx context.Context) (Stats, error) {
	sessions, err := r.Sessions(ctx)
	if err != nil {
		return Stats{}, err
	}
	if sessions == nil {
		sessions = []database.SessionSummary{}
	}
	return Stats{
		Profile:     r.Profile.Profile.Name,
		Catalog:     r.Profile.Profile.CatalogPath,
		Counters:    r.Session.Counters(),
		Decisions:   r.Ledger.Len(),
		Sessions:    sessions,
		HasFilters:  r.Session.HasActiveFilters(),
		CurrentPage: r.Session.Page(),
	}, nil
}

// TopTags lists the most common catalog tags.
func (r *Review) TopTags(n int) []catalog.TagCount {
	return r.Catalog.TopTags(n)
}

// Reset erases every decision of the profile and restarts the session at
// page 1. It returns once the stored log is empty.
func (r *Review) Reset() {
	r.Session.ResetAllData()
	r.Ledger.Flush()
	r.logger.Info().Str("session_id", r.SessionID).Msg("profile decisions reset")
}

// ProfileSummary is a profile with its stored decision count.
type ProfileSummary struct {
	Record    database.ProfileRecord
	Decisions int64
}

// ListProfiles lists every profile of the database with decision counts.
func ListProfiles(ctx context.Context, dbCtx *database.Context) ([]ProfileSummary, error) {
	svc := services.NewProfileService(dbCtx)
	records, err := svc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := svc.DecisionCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProfileSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, ProfileSummary{Record: rec, Decisions: counts[rec.ID]})
	}
	return out, nil
}

// DeleteProfile removes a profile and its decisions, returning how many
// decisions were stored.
func DeleteProfile(ctx context.Context, dbCtx *database.Context, name string) (int64, error) {
	return services.NewProfileService(dbCtx).Delete(ctx, name)
}

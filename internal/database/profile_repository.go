package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/animesift/animesift/internal/profile"
)

type ProfileRepository struct {
	ctx *Context
}

func NewProfileRepository(dbCtx *Context) *ProfileRepository {
	return &ProfileRepository{ctx: dbCtx}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id int64) (*ProfileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("profile repository: missing database context")
	}

	row, err := queries.FindProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := ProfileRecordFromRow(row)
	return &record, nil
}

func (r *ProfileRepository) FindByName(ctx context.Context, name string) (*ProfileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("profile repository: missing database context")
	}

	row, err := queries.FindProfileByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := ProfileRecordFromRow(row)
	return &record, nil
}

// GetOrCreate returns the id of the profile named p.Name, inserting it when
// missing. An existing profile is not modified.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, p profile.Profile) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("profile repository: missing database context")
	}

	existing, err := r.FindByName(ctx, p.Name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	params, err := ProfileInsertParams(p)
	if err != nil {
		return 0, err
	}

	result, err := queries.InsertProfile(ctx, params)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateCatalog stores the catalog path and hash a profile is used with.
func (r *ProfileRepository) UpdateCatalog(ctx context.Context, id int64, p profile.Profile) error {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return fmt.Errorf("profile repository: missing database context")
	}
	return queries.UpdateProfileCatalog(ctx, ProfileCatalogParams(id, p))
}

// Touch bumps updated_at.
func (r *ProfileRepository) Touch(ctx context.Context, id int64) error {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return fmt.Errorf("profile repository: missing database context")
	}
	return queries.TouchProfile(ctx, id)
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]ProfileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("profile repository: missing database context")
	}

	rows, err := queries.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ProfileRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, ProfileRecordFromRow(row))
	}
	return result, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id int64) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("profile repository: missing database context")
	}

	affected, err := queries.DeleteProfileByID(ctx, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *ProfileRepository) CountDecisions(ctx context.Context) ([]ProfileCounts, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("profile repository: missing database context")
	}

	rows, err := queries.ListProfilesWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]ProfileCounts, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ProfileCounts{
			ProfileID:     row.ProfileID,
			DecisionCount: row.DecisionCount,
		})
	}
	return counts, nil
}

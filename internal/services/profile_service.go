package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/animesift/animesift/internal/database"
	sqldb "github.com/animesift/animesift/internal/database/sqlc"
	"github.com/animesift/animesift/internal/profile"
)

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("profile not found")

// ProfileService manages profiles and the catalog each one was last used with.
type ProfileService struct {
	ctx  *database.Context
	repo *database.ProfileRepository
}

func NewProfileService(ctx *database.Context) *ProfileService {
	return &ProfileService{ctx: ctx, repo: database.NewProfileRepository(ctx)}
}

// OpenResult describes a profile after Open.
type OpenResult struct {
	Record database.ProfileRecord
	// Created is set when the profile did not exist before.
	Created bool
	// CatalogChanged is set when the catalog hash differs from the stored one.
	CatalogChanged bool
	// PreviousHash is the hash stored before Open updated it.
	PreviousHash string
}

// Open returns the profile p.Name, creating it when missing, and records the
// catalog path and hash it is opened with.
func (s *ProfileService) Open(ctx context.Context, p profile.Profile) (OpenResult, error) {
	if err := profile.Validate(p); err != nil {
		return OpenResult{}, err
	}

	var result OpenResult
	err := s.withTx(ctx, func(txCtx context.Context, tx *database.Context) error {
		repo := database.NewProfileRepository(tx)
		existing, err := repo.FindByName(txCtx, p.Name)
		if err != nil {
			return err
		}

		var id int64
		if existing == nil {
			id, err = repo.GetOrCreate(txCtx, p)
			if err != nil {
				return err
			}
			result.Created = true
		} else {
			id = existing.ID
			result.PreviousHash = existing.Profile.CatalogHash
			result.CatalogChanged = profile.CatalogChanged(existing.Profile, p.CatalogHash)
			if existing.Profile.CatalogPath != p.CatalogPath || existing.Profile.CatalogHash != p.CatalogHash {
				err = repo.UpdateCatalog(txCtx, id, p)
			} else {
				err = repo.Touch(txCtx, id)
			}
			if err != nil {
				return err
			}
		}

		record, err := repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrNotFound
		}
		result.Record = *record
		return nil
	})
	if err != nil {
		return OpenResult{}, fmt.Errorf("failed to open profile %q: %w", p.Name, err)
	}
	return result, nil
}

// FindID returns the id of the named profile.
func (s *ProfileService) FindID(ctx context.Context, name string) (int64, error) {
	record, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, ErrNotFound
	}
	return record.ID, nil
}

// GetAll lists profiles by name.
func (s *ProfileService) GetAll(ctx context.Context) ([]database.ProfileRecord, error) {
	return s.repo.FindAll(ctx)
}

// DecisionCounts maps profile id to stored decision count.
func (s *ProfileService) DecisionCounts(ctx context.Context) (map[int64]int64, error) {
	counts, err := s.repo.CountDecisions(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[int64]int64, len(counts))
	for _, c := range counts {
		result[c.ProfileID] = c.DecisionCount
	}
	return result, nil
}

// Delete removes a profile and, through the foreign key, its decisions.
// It returns the number of decisions that were stored.
func (s *ProfileService) Delete(ctx context.Context, name string) (int64, error) {
	var removed int64
	err := s.withTx(ctx, func(txCtx context.Context, tx *database.Context) error {
		repo := database.NewProfileRepository(tx)
		record, err := repo.FindByName(txCtx, name)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrNotFound
		}
		removed, err = database.NewDecisionRepository(tx).DeleteByProfile(txCtx, record.ID)
		if err != nil {
			return err
		}
		_, err = repo.Delete(txCtx, record.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *ProfileService) withTx(ctx context.Context, fn func(context.Context, *database.Context) error) error {
	if s.ctx == nil || s.ctx.DB == nil {
		return fmt.Errorf("profile service: missing database context")
	}

	tx, err := s.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(ctx, s.ctx.WithQueries(sqldb.New(tx))); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}

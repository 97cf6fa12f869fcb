package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/animesift/animesift/internal/database"
	sqldb "github.com/animesift/animesift/internal/database/sqlc"
	"github.com/animesift/animesift/internal/ledger"
	"github.com/animesift/animesift/internal/logging"
)

// DecisionService persists the decision log of one profile. It implements
// ledger.Store so a ledger can write through it.
type DecisionService struct {
	ctx       *database.Context
	repo      *database.DecisionRepository
	profileID int64
	sessionID string
	logger    zerolog.Logger
}

var _ ledger.Store = (*DecisionService)(nil)

// NewDecisionService binds a service to a profile. sessionID is stamped on
// every row written through it.
func NewDecisionService(ctx *database.Context, profileID int64, sessionID string, logger zerolog.Logger) *DecisionService {
	return &DecisionService{
		ctx:       ctx,
		repo:      database.NewDecisionRepository(ctx),
		profileID: profileID,
		sessionID: sessionID,
		logger:    logging.WithComponent(logger, "decisions").With().Int64("profile_id", profileID).Logger(),
	}
}

// Append inserts decisions in one transaction, keeping their order.
func (s *DecisionService) Append(ctx context.Context, decisions []ledger.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	err := s.withTx(ctx, func(txCtx context.Context, repo *database.DecisionRepository) error {
		for _, d := range decisions {
			record := database.DecisionRecord{
				ProfileID: s.profileID,
				SubjectID: d.ItemID,
				Status:    string(d.Status),
				SessionID: s.sessionID,
				DecidedAt: d.Timestamp,
			}
			if _, err := repo.Create(txCtx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append %d decisions: %w", len(decisions), err)
	}
	s.logger.Debug().Int("count", len(decisions)).Msg("decisions appended")
	return nil
}

// Remove deletes the stored decision of itemID that has newer later rows of
// the same subject; newer is zero for the latest row. A missing row is not an
// error.
func (s *DecisionService) Remove(ctx context.Context, itemID int64, newer int) error {
	if newer < 0 {
		return fmt.Errorf("invalid decision offset %d", newer)
	}

	var removed bool
	err := s.withTx(ctx, func(txCtx context.Context, repo *database.DecisionRepository) error {
		if newer == 0 {
			var err error
			removed, err = repo.DeleteLatest(txCtx, s.profileID, itemID)
			return err
		}

		rows, err := repo.ListBySubject(txCtx, s.profileID, itemID)
		if err != nil {
			return err
		}
		if newer >= len(rows) {
			return nil
		}
		removed, err = repo.DeleteByID(txCtx, s.profileID, rows[len(rows)-1-newer].ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove decision for %d: %w", itemID, err)
	}
	if !removed {
		s.logger.Debug().Int64("subject_id", itemID).Int("newer", newer).Msg("no stored decision to remove")
	}
	return nil
}

// ClearAll deletes every decision of the profile.
func (s *DecisionService) ClearAll(ctx context.Context) error {
	n, err := s.repo.DeleteByProfile(ctx, s.profileID)
	if err != nil {
		return fmt.Errorf("failed to clear decisions: %w", err)
	}
	s.logger.Info().Int64("count", n).Msg("decisions cleared")
	return nil
}

// LoadAll returns the stored decisions in ledger order. Rows with a status
// the ledger does not know are skipped.
func (s *DecisionService) LoadAll(ctx context.Context) ([]ledger.Decision, error) {
	records, err := s.repo.ListByProfile(ctx, s.profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}

	decisions := make([]ledger.Decision, 0, len(records))
	for _, r := range records {
		status, err := ledger.ParseStatus(r.Status)
		if err != nil {
			s.logger.Warn().Int64("row_id", r.ID).Str("status", r.Status).Msg("skipping stored decision")
			continue
		}
		decisions = append(decisions, ledger.Decision{
			ItemID:    r.SubjectID,
			Status:    status,
			Timestamp: r.DecidedAt,
		})
	}
	return decisions, nil
}

// Records returns the raw stored rows, used for listing and export.
func (s *DecisionService) Records(ctx context.Context) ([]database.DecisionRecord, error) {
	return s.repo.ListByProfile(ctx, s.profileID)
}

// Sessions summarises stored decisions per review session.
func (s *DecisionService) Sessions(ctx context.Context) ([]database.SessionSummary, error) {
	return s.repo.Sessions(ctx, s.profileID)
}

func (s *DecisionService) withTx(ctx context.Context, fn func(context.Context, *database.DecisionRepository) error) error {
	if s.ctx == nil || s.ctx.DB == nil {
		return fmt.Errorf("decision service: missing database context")
	}

	tx, err := s.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(ctx, database.NewDecisionRepository(s.ctx.WithQueries(sqldb.New(tx)))); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}

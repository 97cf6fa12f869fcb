package database

import (
	"context"
	"fmt"

	sqldb "github.com/animesift/animesift/internal/database/sqlc"
)

type DecisionRepository struct {
	ctx *Context
}

func NewDecisionRepository(dbCtx *Context) *DecisionRepository {
	return &DecisionRepository{ctx: dbCtx}
}

// Create inserts one decision and returns its row id.
func (r *DecisionRepository) Create(ctx context.Context, record DecisionRecord) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("decision repository: missing database context")
	}
	return queries.InsertDecision(ctx, DecisionInsertParams(record))
}

// ListByProfile returns the decisions of a profile in insertion order.
func (r *DecisionRepository) ListByProfile(ctx context.Context, profileID int64) ([]DecisionRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("decision repository: missing database context")
	}

	rows, err := queries.ListDecisionsByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return mapDecisionRows(rows), nil
}

// ListBySubject returns the decisions of one subject in insertion order.
func (r *DecisionRepository) ListBySubject(ctx context.Context, profileID, subjectID int64) ([]DecisionRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("decision repository: missing database context")
	}

	rows, err := queries.ListDecisionsBySubject(ctx, sqldb.ListDecisionsBySubjectParams{
		ProfileID: profileID,
		SubjectID: subjectID,
	})
	if err != nil {
		return nil, err
	}
	return mapDecisionRows(rows), nil
}

// DeleteLatest removes the newest decision of a subject.
func (r *DecisionRepository) DeleteLatest(ctx context.Context, profileID, subjectID int64) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("decision repository: missing database context")
	}

	affected, err := queries.DeleteLatestDecision(ctx, sqldb.DeleteLatestDecisionParams{
		ProfileID: profileID,
		SubjectID: subjectID,
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteByID removes one decision row of a profile.
func (r *DecisionRepository) DeleteByID(ctx context.Context, profileID, id int64) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("decision repository: missing database context")
	}

	affected, err := queries.DeleteDecisionByID(ctx, sqldb.DeleteDecisionByIDParams{
		ID:        id,
		ProfileID: profileID,
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *DecisionRepository) DeleteByProfile(ctx context.Context, profileID int64) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("decision repository: missing database context")
	}
	return queries.DeleteDecisionsByProfile(ctx, profileID)
}

func (r *DecisionRepository) Sessions(ctx context.Context, profileID int64) ([]SessionSummary, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("decision repository: missing database context")
	}

	rows, err := queries.CountDecisionsBySession(ctx, profileID)
	if err != nil {
		return nil, err
	}

	result := make([]SessionSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, SessionSummary{
			SessionID:     row.SessionID,
			DecisionCount: row.DecisionCount,
			StartedAt:     optionalString(row.StartedAt),
		})
	}
	return result, nil
}

func mapDecisionRows(rows []sqldb.Decision) []DecisionRecord {
	result := make([]DecisionRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, DecisionRecordFromRow(row))
	}
	return result
}

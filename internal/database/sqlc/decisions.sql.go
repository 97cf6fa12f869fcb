package sqldb

import (
	"context"
	"database/sql"
	"time"
)

const insertDecision = `INSERT INTO decisions (profile_id, subject_id, status, session_id, decided_at)
VALUES (?, ?, ?, ?, ?)`

type InsertDecisionParams struct {
	ProfileID int64
	SubjectID int64
	Status    string
	SessionID sql.NullString
	DecidedAt time.Time
}

func (q *Queries) InsertDecision(ctx context.Context, arg InsertDecisionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertDecision,
		arg.ProfileID,
		arg.SubjectID,
		arg.Status,
		arg.SessionID,
		arg.DecidedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const deleteLatestDecision = `DELETE FROM decisions
WHERE id = (
    SELECT MAX(id) FROM decisions
    WHERE profile_id = ? AND subject_id = ?
)`

type DeleteLatestDecisionParams struct {
	ProfileID int64
	SubjectID int64
}

func (q *Queries) DeleteLatestDecision(ctx context.Context, arg DeleteLatestDecisionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLatestDecision, arg.ProfileID, arg.SubjectID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteDecisionByID = `DELETE FROM decisions WHERE id = ? AND profile_id = ?`

type DeleteDecisionByIDParams struct {
	ID        int64
	ProfileID int64
}

func (q *Queries) DeleteDecisionByID(ctx context.Context, arg DeleteDecisionByIDParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDecisionByID, arg.ID, arg.ProfileID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteDecisionsByProfile = `DELETE FROM decisions WHERE profile_id = ?`

func (q *Queries) DeleteDecisionsByProfile(ctx context.Context, profileID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDecisionsByProfile, profileID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listDecisionsByProfile = `SELECT id, profile_id, subject_id, status, session_id, decided_at
FROM decisions
WHERE profile_id = ?
ORDER BY id`

func (q *Queries) ListDecisionsByProfile(ctx context.Context, profileID int64) ([]Decision, error) {
	rows, err := q.db.QueryContext(ctx, listDecisionsByProfile, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.SubjectID, &d.Status, &d.SessionID, &d.DecidedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDecisionsBySubject = `SELECT id, profile_id, subject_id, status, session_id, decided_at
FROM decisions
WHERE profile_id = ? AND subject_id = ?
ORDER BY id`

type ListDecisionsBySubjectParams struct {
	ProfileID int64
	SubjectID int64
}

func (q *Queries) ListDecisionsBySubject(ctx context.Context, arg ListDecisionsBySubjectParams) ([]Decision, error) {
	rows, err := q.db.QueryContext(ctx, listDecisionsBySubject, arg.ProfileID, arg.SubjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.SubjectID, &d.Status, &d.SessionID, &d.DecidedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countDecisionsBySession = `SELECT COALESCE(session_id, '') AS session_id, COUNT(*) AS decision_count,
    MIN(decided_at) AS started_at
FROM decisions
WHERE profile_id = ?
GROUP BY session_id
ORDER BY MIN(id)`

type CountDecisionsBySessionRow struct {
	SessionID     string
	DecisionCount int64
	StartedAt     sql.NullString
}

func (q *Queries) CountDecisionsBySession(ctx context.Context, profileID int64) ([]CountDecisionsBySessionRow, error) {
	rows, err := q.db.QueryContext(ctx, countDecisionsBySession, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CountDecisionsBySessionRow
	for rows.Next() {
		var r CountDecisionsBySessionRow
		if err := rows.Scan(&r.SessionID, &r.DecisionCount, &r.StartedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

package sqldb

import "context"

const deleteAllDecisions = `DELETE FROM decisions`

func (q *Queries) DeleteAllDecisions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllDecisions)
	return err
}

const deleteAllProfiles = `DELETE FROM profiles`

func (q *Queries) DeleteAllProfiles(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllProfiles)
	return err
}

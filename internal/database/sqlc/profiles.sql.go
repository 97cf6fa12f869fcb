package sqldb

import (
	"context"
	"database/sql"
)

const findProfileByID = `SELECT id, name, catalog_path, catalog_hash, created_at, updated_at
FROM profiles
WHERE id = ?`

func (q *Queries) FindProfileByID(ctx context.Context, id int64) (Profile, error) {
	row := q.db.QueryRowContext(ctx, findProfileByID, id)
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.CatalogPath, &p.CatalogHash, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const findProfileByName = `SELECT id, name, catalog_path, catalog_hash, created_at, updated_at
FROM profiles
WHERE name = ?`

func (q *Queries) FindProfileByName(ctx context.Context, name string) (Profile, error) {
	row := q.db.QueryRowContext(ctx, findProfileByName, name)
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.CatalogPath, &p.CatalogHash, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const insertProfile = `INSERT INTO profiles (name, catalog_path, catalog_hash)
VALUES (?, ?, ?)`

type InsertProfileParams struct {
	Name        string
	CatalogPath sql.NullString
	CatalogHash sql.NullString
}

func (q *Queries) InsertProfile(ctx context.Context, arg InsertProfileParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertProfile, arg.Name, arg.CatalogPath, arg.CatalogHash)
}

const updateProfileCatalog = `UPDATE profiles
SET catalog_path = ?, catalog_hash = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

type UpdateProfileCatalogParams struct {
	CatalogPath sql.NullString
	CatalogHash sql.NullString
	ID          int64
}

func (q *Queries) UpdateProfileCatalog(ctx context.Context, arg UpdateProfileCatalogParams) error {
	_, err := q.db.ExecContext(ctx, updateProfileCatalog, arg.CatalogPath, arg.CatalogHash, arg.ID)
	return err
}

const touchProfile = `UPDATE profiles SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) TouchProfile(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, touchProfile, id)
	return err
}

const listProfiles = `SELECT id, name, catalog_path, catalog_hash, created_at, updated_at
FROM profiles
ORDER BY name`

func (q *Queries) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := q.db.QueryContext(ctx, listProfiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.CatalogPath, &p.CatalogHash, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProfilesWithCounts = `SELECT p.id AS profile_id, COUNT(d.id) AS decision_count
FROM profiles p
LEFT JOIN decisions d ON d.profile_id = p.id
GROUP BY p.id
ORDER BY p.name`

type ListProfilesWithCountsRow struct {
	ProfileID     int64
	DecisionCount int64
}

func (q *Queries) ListProfilesWithCounts(ctx context.Context) ([]ListProfilesWithCountsRow, error) {
	rows, err := q.db.QueryContext(ctx, listProfilesWithCounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListProfilesWithCountsRow
	for rows.Next() {
		var r ListProfilesWithCountsRow
		if err := rows.Scan(&r.ProfileID, &r.DecisionCount); err != nil {
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

const deleteProfileByID = `DELETE FROM profiles WHERE id = ?`

func (q *Queries) DeleteProfileByID(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProfileByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

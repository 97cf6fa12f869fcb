package database

import (
	sqldb "github.com/animesift/animesift/internal/database/sqlc"
	"github.com/animesift/animesift/internal/profile"
)

// ProfileRecordFromRow converts a database profile row to a ProfileRecord.
func ProfileRecordFromRow(row sqldb.Profile) ProfileRecord {
	return ProfileRecord{
		ID: row.ID,
		Profile: profile.New(
			row.Name,
			optionalString(row.CatalogPath),
			optionalString(row.CatalogHash),
		),
		CreatedAt: optionalTime(row.CreatedAt),
		UpdatedAt: optionalTime(row.UpdatedAt),
	}
}

// ProfileInsertParams creates insert parameters from a profile.
func ProfileInsertParams(p profile.Profile) (sqldb.InsertProfileParams, error) {
	if err := profile.Validate(p); err != nil {
		return sqldb.InsertProfileParams{}, err
	}
	return sqldb.InsertProfileParams{
		Name:        p.Name,
		CatalogPath: nullString(p.CatalogPath),
		CatalogHash: nullString(p.CatalogHash),
	}, nil
}

// ProfileCatalogParams creates the catalog update parameters for a profile row.
func ProfileCatalogParams(id int64, p profile.Profile) sqldb.UpdateProfileCatalogParams {
	return sqldb.UpdateProfileCatalogParams{
		CatalogPath: nullString(p.CatalogPath),
		CatalogHash: nullString(p.CatalogHash),
		ID:          id,
	}
}

// DecisionRecordFromRow converts a database decision row to a DecisionRecord.
func DecisionRecordFromRow(row sqldb.Decision) DecisionRecord {
	return DecisionRecord{
		ID:        row.ID,
		ProfileID: row.ProfileID,
		SubjectID: row.SubjectID,
		Status:    row.Status,
		SessionID: optionalString(row.SessionID),
		DecidedAt: row.DecidedAt,
	}
}

// DecisionInsertParams creates insert parameters from a decision record.
func DecisionInsertParams(record DecisionRecord) sqldb.InsertDecisionParams {
	return sqldb.InsertDecisionParams{
		ProfileID: record.ProfileID,
		SubjectID: record.SubjectID,
		Status:    record.Status,
		SessionID: nullString(record.SessionID),
		DecidedAt: record.DecidedAt.UTC(),
	}
}

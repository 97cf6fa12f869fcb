package sqldb

import (
	"database/sql"
	"time"
)

type Profile struct {
	ID          int64
	Name        string
	CatalogPath sql.NullString
	CatalogHash sql.NullString
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

type Decision struct {
	ID        int64
	ProfileID int64
	SubjectID int64
	Status    string
	SessionID sql.NullString
	DecidedAt time.Time
}

package database

import (
	"time"

	"github.com/animesift/animesift/internal/profile"
)

// ProfileRecord represents a row in the profiles table. A profile owns one
// decision log and remembers the catalog it was last opened with.
type ProfileRecord struct {
	ID        int64
	Profile   profile.Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecisionRecord corresponds to a row in the decisions table. Row ids grow
// with insertion so they also give ledger order.
type DecisionRecord struct {
	ID        int64
	ProfileID int64
	SubjectID int64
	Status    string
	SessionID string
	DecidedAt time.Time
}

// ProfileCounts contains the number of stored decisions of a profile.
type ProfileCounts struct {
	ProfileID     int64
	DecisionCount int64
}

// SessionSummary groups the stored decisions of one review session.
type SessionSummary struct {
	SessionID     string `json:"session_id"`
	DecisionCount int64  `json:"decisions"`
	StartedAt     string `json:"started_at"`
}

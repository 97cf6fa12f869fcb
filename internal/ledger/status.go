package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidStatus is returned for a status outside watched/interested/skipped.
var ErrInvalidStatus = errors.New("ledger: invalid status")

// Status is the user's verdict on a catalog item.
type Status string

const (
	StatusWatched    Status = "watched"
	StatusInterested Status = "interested"
	StatusSkipped    Status = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWatched, StatusInterested, StatusSkipped:
		return true
	default:
		return false
	}
}

// ParseStatus converts user input to a Status. "wishlist" is accepted as an
// alias of interested because older stores used that name.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "watched":
		return StatusWatched, nil
	case "interested", "wishlist":
		return StatusInterested, nil
	case "skipped":
		return StatusSkipped, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
}

// Decision is one appended ledger entry.
type Decision struct {
	ItemID    int64
	Status    Status
	Timestamp time.Time
	// Seq identifies the decision inside one ledger. It is assigned on
	// append and never stored.
	Seq int64
}

// Counts aggregates the status map.
type Counts struct {
	Watched    int
	Interested int
	Skipped    int
}

// Reviewed is the number of ids carrying any status.
func (c Counts) Reviewed() int {
	return c.Watched + c.Interested + c.Skipped
}

package teamstats

import (
	"context"
	"time"
)

// Snapshot is one immutable stat line for a team at sync time. Snapshots are
// append-only: every sync that touches a fixture writes fresh rows and
// repoints the fixture at them, earlier rows are never mutated.
type Snapshot struct {
	ID            int64
	TeamID        int64
	Season        string
	Rating        float64
	Errors        int
	RedCards      int
	Shots         int
	MatchesPlayed int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
	CreatedAt     time.Time
}

type Repository interface {
	// GetByID returns a single snapshot row.
	GetByID(ctx context.Context, id int64) (*Snapshot, error)
	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int64, error)
}

package fixture

import (
	"context"
	"time"
)

// Fixture is a persisted match keyed by the provider-assigned fixture ID.
// Team and stat references are foreign keys; stat references change on every
// forced update because stat snapshots are append-only.
type Fixture struct {
	ID          int64
	Date        time.Time
	Season      string
	League      string
	HomeTeamID  int64
	AwayTeamID  int64
	HomeGoals   *int
	AwayGoals   *int
	HomeOddsWD  *float64
	AwayOddsWD  *float64
	HomeStatsID int64
	AwayStatsID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View is a fixture joined to its team names for read surfaces.
type View struct {
	Fixture
	HomeTeam string
	AwayTeam string
}

// Filter narrows List and CountFiltered. Zero values mean "no constraint".
// Team matches either side of a fixture by canonical name.
type Filter struct {
	Season string
	Team   string
	Limit  int
	Offset int
}

type Repository interface {
	// GetByID returns a single fixture joined to team names.
	GetByID(ctx context.Context, id int64) (*View, error)
	// List returns fixtures matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]View, error)
	// CountFiltered returns how many fixtures match the filter ignoring
	// limit and offset.
	CountFiltered(ctx context.Context, f Filter) (int64, error)
	// Count returns the total number of stored fixtures.
	Count(ctx context.Context) (int64, error)
	// CountBySeason returns fixture counts keyed by season.
	CountBySeason(ctx context.Context) (map[string]int64, error)
	// LastUpdated returns the newest updated_at across fixtures, nil when
	// the table is empty.
	LastUpdated(ctx context.Context) (*time.Time, error)
}

package team

import (
	"context"
	"time"
)

// Team is a persisted club. Name is the canonical short name and is unique
// across the store; FullName keeps whatever longer form a provider supplied.
type Team struct {
	ID        int64
	Name      string
	FullName  string
	CreatedAt time.Time
}

// WithFixtureCount pairs a team with how many stored fixtures reference it.
type WithFixtureCount struct {
	Team
	FixtureCount int64
}

type Repository interface {
	// GetByName returns the team with the exact canonical name.
	GetByName(ctx context.Context, name string) (*Team, error)
	// ListWithFixtureCounts returns all teams ordered by name, each with
	// its fixture reference count.
	ListWithFixtureCounts(ctx context.Context) ([]WithFixtureCount, error)
	// Count returns the number of stored teams.
	Count(ctx context.Context) (int64, error)
}

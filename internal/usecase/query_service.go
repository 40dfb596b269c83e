package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/domain/team"
	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
)

const (
	defaultFixtureLimit = 100
	maxFixtureLimit     = 1000
)

// DatabaseStats is the aggregate shape behind the stats endpoint.
type DatabaseStats struct {
	TotalTeams       int64            `json:"total_teams"`
	TotalFixtures    int64            `json:"total_fixtures"`
	TotalSnapshots   int64            `json:"total_snapshots"`
	FixturesBySeason map[string]int64 `json:"fixtures_by_season"`
	LastUpdated      *time.Time       `json:"last_updated"`
}

// QueryService is the read-only surface over the store.
type QueryService struct {
	teams    team.Repository
	fixtures fixture.Repository
	stats    teamstats.Repository
	logger   *logging.Logger
}

func NewQueryService(
	teams team.Repository,
	fixtures fixture.Repository,
	stats teamstats.Repository,
	logger *logging.Logger,
) *QueryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &QueryService{
		teams:    teams,
		fixtures: fixtures,
		stats:    stats,
		logger:   logger,
	}
}

func (s *QueryService) ListTeams(ctx context.Context) ([]team.WithFixtureCount, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListTeams")
	defer span.End()

	teams, err := s.teams.ListWithFixtureCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list teams: %v", ErrStoreUnavailable, err)
	}
	return teams, nil
}

// ListFixtures returns one page of fixtures plus the unpaged match count.
// Limit is clamped into 1..1000 with 100 as the default.
func (s *QueryService) ListFixtures(ctx context.Context, f fixture.Filter) ([]fixture.View, int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListFixtures")
	defer span.End()

	if f.Limit <= 0 {
		f.Limit = defaultFixtureLimit
	}
	if f.Limit > maxFixtureLimit {
		f.Limit = maxFixtureLimit
	}
	if f.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: offset cannot be negative", ErrInvalidInput)
	}
	if f.Season != "" && !match.ValidSeason(f.Season) {
		return nil, 0, fmt.Errorf("%w: season %q is not a 4-digit year", ErrInvalidInput, f.Season)
	}
	if f.Team != "" {
		known, err := s.teams.GetByName(ctx, f.Team)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: look up team %q: %v", ErrStoreUnavailable, f.Team, err)
		}
		if known == nil {
			return nil, 0, fmt.Errorf("%w: %s", ErrTeamNotFound, f.Team)
		}
	}

	total, err := s.fixtures.CountFiltered(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count fixtures: %v", ErrStoreUnavailable, err)
	}

	fixtures, err := s.fixtures.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list fixtures: %v", ErrStoreUnavailable, err)
	}

	return fixtures, total, nil
}

func (s *QueryService) GetFixture(ctx context.Context, id int64) (*fixture.View, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetFixture")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: fixture id must be greater than zero", ErrInvalidInput)
	}

	view, err := s.fixtures.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get fixture %d: %v", ErrStoreUnavailable, id, err)
	}
	if view == nil {
		return nil, fmt.Errorf("%w: fixture %d", ErrNotFound, id)
	}
	return view, nil
}

// GetStatsSnapshot resolves one append-only stat row, typically reached from
// a fixture's home_stats_id or away_stats_id.
func (s *QueryService) GetStatsSnapshot(ctx context.Context, id int64) (*teamstats.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetStatsSnapshot")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: stats id must be greater than zero", ErrInvalidInput)
	}

	snap, err := s.stats.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get stats snapshot %d: %v", ErrStoreUnavailable, id, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: stats snapshot %d", ErrNotFound, id)
	}
	return snap, nil
}

func (s *QueryService) DatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.DatabaseStats")
	defer span.End()

	totalTeams, err := s.teams.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count teams: %v", ErrStoreUnavailable, err)
	}
	totalFixtures, err := s.fixtures.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count fixtures: %v", ErrStoreUnavailable, err)
	}
	totalSnapshots, err := s.stats.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count stat snapshots: %v", ErrStoreUnavailable, err)
	}
	bySeason, err := s.fixtures.CountBySeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count fixtures by season: %v", ErrStoreUnavailable, err)
	}
	lastUpdated, err := s.fixtures.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: last updated: %v", ErrStoreUnavailable, err)
	}

	return &DatabaseStats{
		TotalTeams:       totalTeams,
		TotalFixtures:    totalFixtures,
		TotalSnapshots:   totalSnapshots,
		FixturesBySeason: bySeason,
		LastUpdated:      lastUpdated,
	}, nil
}

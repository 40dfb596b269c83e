package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
)

// SeasonFetcher is what the sync engine needs from the fetch orchestrator.
type SeasonFetcher interface {
	FetchSeason(ctx context.Context, season string) ([]match.Match, error)
	FetchBulk(ctx context.Context, startYear, endYear int) (map[string][]match.Match, error)
	FetchTeamStatistics(ctx context.Context, teamName, season string) (match.TeamStatistics, error)
}

// SyncStore runs one batch of writes as a single durable unit. Either the
// whole batch commits or none of it does.
type SyncStore interface {
	RunInTx(ctx context.Context, fn func(tx SyncTx) error) error
}

// SyncTx is the write surface available inside one sync transaction.
type SyncTx interface {
	FixtureExists(ctx context.Context, id int64) (bool, error)
	// EnsureTeam inserts the team on first sight and returns its ID.
	EnsureTeam(ctx context.Context, name string) (int64, error)
	// InsertStatsSnapshot always creates a new row, snapshots are append-only.
	InsertStatsSnapshot(ctx context.Context, snap teamstats.Snapshot) (int64, error)
	InsertFixture(ctx context.Context, fx fixture.Fixture) error
	UpdateFixture(ctx context.Context, fx fixture.Fixture) error
}

// SyncSummary reports what one update run did. Errors holds one entry per
// failed record, in input order.
type SyncSummary struct {
	Seasons     []string  `json:"seasons"`
	UpdatedAt   time.Time `json:"updated_at"`
	ForceUpdate bool      `json:"force_update"`
	Total       int       `json:"total"`
	New         int       `json:"new"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"`
	Errors      []string  `json:"errors"`
}

type recordOutcome int

const (
	outcomeSkipped recordOutcome = iota
	outcomeNew
	outcomeUpdated
)

// SyncService reconciles fetched match data into the store. It is the single
// writer: callers must not run two syncs against one store concurrently.
type SyncService struct {
	fetcher SeasonFetcher
	store   SyncStore
	logger  *logging.Logger
	now     func() time.Time
}

func NewSyncService(fetcher SeasonFetcher, store SyncStore, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// UpdateData fetches and syncs the given seasons, defaulting to the current
// year. More than one season goes through a single bulk fetch; all seasons
// are then reconciled inside one transaction.
func (s *SyncService) UpdateData(ctx context.Context, seasons []string, force bool) (*SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.UpdateData")
	defer span.End()

	if len(seasons) == 0 {
		seasons = []string{strconv.Itoa(s.now().Year())}
	}
	years := make([]int, 0, len(seasons))
	for _, season := range seasons {
		if !match.ValidSeason(season) {
			return nil, fmt.Errorf("%w: season %q is not a 4-digit year", ErrInvalidInput, season)
		}
		year, _ := strconv.Atoi(season)
		years = append(years, year)
	}

	var bySeason map[string][]match.Match
	if len(seasons) > 1 {
		sort.Ints(years)
		bulk, err := s.fetcher.FetchBulk(ctx, years[0], years[len(years)-1])
		if err != nil {
			return nil, err
		}
		bySeason = bulk
	} else {
		matches, err := s.fetcher.FetchSeason(ctx, seasons[0])
		if err != nil {
			return nil, err
		}
		bySeason = map[string][]match.Match{seasons[0]: matches}
	}

	summary := &SyncSummary{
		Seasons:     seasons,
		UpdatedAt:   s.now().UTC(),
		ForceUpdate: force,
		Errors:      []string{},
	}

	err := s.store.RunInTx(ctx, func(tx SyncTx) error {
		for _, season := range seasons {
			if err := s.syncSeason(ctx, tx, season, bySeason[season], force, summary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.InfoContext(ctx, "data update finished",
		"seasons", seasons,
		"force_update", force,
		"total", summary.Total,
		"new", summary.New,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", len(summary.Errors),
	)
	return summary, nil
}

// SyncSeason reconciles one prefetched season inside its own transaction.
func (s *SyncService) SyncSeason(ctx context.Context, season string, matches []match.Match, force bool) (*SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncSeason")
	defer span.End()

	if !match.ValidSeason(season) {
		return nil, fmt.Errorf("%w: season %q is not a 4-digit year", ErrInvalidInput, season)
	}

	summary := &SyncSummary{
		Seasons:     []string{season},
		UpdatedAt:   s.now().UTC(),
		ForceUpdate: force,
		Errors:      []string{},
	}

	err := s.store.RunInTx(ctx, func(tx SyncTx) error {
		return s.syncSeason(ctx, tx, season, matches, force, summary)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return summary, nil
}

// syncSeason runs the per-record state machine. A record failure is recorded
// and the loop continues; only context cancellation aborts the batch.
func (s *SyncService) syncSeason(ctx context.Context, tx SyncTx, season string, matches []match.Match, force bool, summary *SyncSummary) error {
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary.Total++
		outcome, err := s.syncRecord(ctx, tx, season, m, force)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			summary.Errors = append(summary.Errors, fmt.Sprintf("process match %d: %v", m.ID, err))
			s.logger.WarnContext(ctx, "match sync failed",
				"fixture_id", m.ID,
				"season", season,
				"error", err,
			)
			continue
		}

		switch outcome {
		case outcomeNew:
			summary.New++
		case outcomeUpdated:
			summary.Updated++
		case outcomeSkipped:
			summary.Skipped++
		}
	}

	return nil
}

func (s *SyncService) syncRecord(ctx context.Context, tx SyncTx, season string, m match.Match, force bool) (recordOutcome, error) {
	if err := m.Validate(); err != nil {
		return outcomeSkipped, err
	}

	exists, err := tx.FixtureExists(ctx, m.ID)
	if err != nil {
		return outcomeSkipped, err
	}
	if exists && !force {
		return outcomeSkipped, nil
	}

	homeID, err := tx.EnsureTeam(ctx, m.HomeTeam)
	if err != nil {
		return outcomeSkipped, err
	}
	awayID, err := tx.EnsureTeam(ctx, m.AwayTeam)
	if err != nil {
		return outcomeSkipped, err
	}

	homeStatsID, err := s.insertSnapshot(ctx, tx, homeID, m.HomeTeam, season, m, true)
	if err != nil {
		return outcomeSkipped, err
	}
	awayStatsID, err := s.insertSnapshot(ctx, tx, awayID, m.AwayTeam, season, m, false)
	if err != nil {
		return outcomeSkipped, err
	}

	fx := fixture.Fixture{
		ID:          m.ID,
		Date:        m.Date,
		Season:      season,
		League:      m.League,
		HomeTeamID:  homeID,
		AwayTeamID:  awayID,
		HomeGoals:   m.HomeGoals,
		AwayGoals:   m.AwayGoals,
		HomeOddsWD:  m.HomeOddsWD,
		AwayOddsWD:  m.AwayOddsWD,
		HomeStatsID: homeStatsID,
		AwayStatsID: awayStatsID,
		UpdatedAt:   s.now().UTC(),
	}

	if exists {
		if err := tx.UpdateFixture(ctx, fx); err != nil {
			return outcomeSkipped, err
		}
		return outcomeUpdated, nil
	}

	if err := tx.InsertFixture(ctx, fx); err != nil {
		return outcomeSkipped, err
	}
	return outcomeNew, nil
}

// insertSnapshot writes a fresh stat row for one side of a match. Standings
// data wins when the provider has it; otherwise match-supplied stat fields
// overlay the defaults.
func (s *SyncService) insertSnapshot(ctx context.Context, tx SyncTx, teamID int64, teamName, season string, m match.Match, home bool) (int64, error) {
	stats, err := s.fetcher.FetchTeamStatistics(ctx, teamName, season)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		stats = match.DefaultTeamStatistics(teamName, season)
		if home {
			overlayStats(&stats, m.HomeRating, m.HomeErrors, m.HomeRedCards, m.HomeShots)
		} else {
			overlayStats(&stats, m.AwayRating, m.AwayErrors, m.AwayRedCards, m.AwayShots)
		}
	}

	return tx.InsertStatsSnapshot(ctx, teamstats.Snapshot{
		TeamID:        teamID,
		Season:        season,
		Rating:        stats.Rating,
		Errors:        stats.Errors,
		RedCards:      stats.RedCards,
		Shots:         stats.Shots,
		MatchesPlayed: stats.MatchesPlayed,
		Wins:          stats.Wins,
		Draws:         stats.Draws,
		Losses:        stats.Losses,
		GoalsFor:      stats.GoalsFor,
		GoalsAgainst:  stats.GoalsAgainst,
	})
}

func overlayStats(stats *match.TeamStatistics, rating *float64, errCount, redCards, shots *int) {
	if rating != nil {
		stats.Rating = *rating
	}
	if errCount != nil {
		stats.Errors = *errCount
	}
	if redCards != nil {
		stats.RedCards = *redCards
	}
	if shots != nil {
		stats.Shots = *shots
	}
}

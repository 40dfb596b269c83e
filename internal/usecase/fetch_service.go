package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
)

type FetchServiceConfig struct {
	// RequestSpacing is the minimum gap between consecutive calls to a
	// high-volume source.
	RequestSpacing time.Duration
	// SeasonPause is the settle time between seasons during a bulk fetch.
	SeasonPause time.Duration
}

// FetchService tries sources in their configured order and falls back to a
// synthetic dataset when no source can serve a season. Rate limiter state is
// owned by the instance, two services never share a budget.
type FetchService struct {
	sources  []SeasonSource
	stats    TeamStatisticsProvider
	limiters map[string]*rate.Limiter
	cfg      FetchServiceConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewFetchService(
	sources []SeasonSource,
	stats TeamStatisticsProvider,
	cfg FetchServiceConfig,
	logger *logging.Logger,
) *FetchService {
	if logger == nil {
		logger = logging.Default()
	}

	limiters := make(map[string]*rate.Limiter, len(sources))
	if cfg.RequestSpacing > 0 {
		for _, src := range sources {
			if src.HighVolume() {
				limiters[src.Name()] = rate.NewLimiter(rate.Every(cfg.RequestSpacing), 1)
			}
		}
	}

	return &FetchService{
		sources:  sources,
		stats:    stats,
		limiters: limiters,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchSeason returns the first source's non-empty result in configured
// order. Source failures and empty results move on to the next source; when
// every source is exhausted the synthetic dataset is returned so callers
// always have data to sync.
func (s *FetchService) FetchSeason(ctx context.Context, season string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FetchService.FetchSeason")
	defer span.End()

	if !match.ValidSeason(season) {
		return nil, fmt.Errorf("%w: season %q is not a 4-digit year", ErrInvalidInput, season)
	}

	for _, src := range s.sources {
		if !src.Configured() {
			s.logger.DebugContext(ctx, "skip unconfigured source", "source", src.Name())
			continue
		}
		if err := s.waitTurn(ctx, src.Name()); err != nil {
			return nil, err
		}

		matches, err := src.FetchSeason(ctx, season)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.WarnContext(ctx, "season fetch failed, trying next source",
				"source", src.Name(),
				"season", season,
				"error", err,
			)
			continue
		}
		if len(matches) == 0 {
			s.logger.WarnContext(ctx, "source returned no matches, trying next source",
				"source", src.Name(),
				"season", season,
			)
			continue
		}

		s.logger.InfoContext(ctx, "season fetched",
			"source", src.Name(),
			"season", season,
			"matches", len(matches),
		)
		return matches, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.WarnContext(ctx, "all sources failed or returned nothing, using synthetic season data", "season", season)
	return syntheticSeasonData(season, s.now()), nil
}

// FetchBulk fetches every season in the inclusive year range, pausing
// between seasons. A season that cannot be served ends up with the synthetic
// dataset like any single-season fetch.
func (s *FetchService) FetchBulk(ctx context.Context, startYear, endYear int) (map[string][]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FetchService.FetchBulk")
	defer span.End()

	if startYear > endYear {
		return nil, fmt.Errorf("%w: start year %d is after end year %d", ErrInvalidInput, startYear, endYear)
	}

	out := make(map[string][]match.Match, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		season := strconv.Itoa(year)
		matches, err := s.FetchSeason(ctx, season)
		if err != nil {
			return nil, err
		}
		out[season] = matches

		if year < endYear && s.cfg.SeasonPause > 0 {
			timer := time.NewTimer(s.cfg.SeasonPause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return out, nil
}

// FetchTeamStatistics answers a standings query through the stats provider.
// ErrTeamNotFound propagates so callers can apply their defaults.
func (s *FetchService) FetchTeamStatistics(ctx context.Context, teamName, season string) (match.TeamStatistics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FetchService.FetchTeamStatistics")
	defer span.End()

	if s.stats == nil {
		return match.TeamStatistics{}, fmt.Errorf("%w: no standings provider configured", ErrSourceUnavailable)
	}
	if src, ok := s.stats.(SeasonSource); ok {
		if !src.Configured() {
			return match.TeamStatistics{}, fmt.Errorf("%w: standings provider %s holds no credential", ErrSourceUnavailable, src.Name())
		}
		if err := s.waitTurn(ctx, src.Name()); err != nil {
			return match.TeamStatistics{}, err
		}
	}

	return s.stats.FetchTeamStatistics(ctx, teamName, season)
}

// TestConnections probes every source concurrently. Probe failures are
// reported per source, never as an error.
func (s *FetchService) TestConnections(ctx context.Context) []SourceStatus {
	ctx, span := startUsecaseSpan(ctx, "usecase.FetchService.TestConnections")
	defer span.End()

	out := make([]SourceStatus, len(s.sources))

	pool, err := ants.NewPool(len(s.sources))
	if err != nil {
		for i, src := range s.sources {
			out[i] = s.probe(ctx, src)
		}
		return out
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			out[i] = s.probe(ctx, src)
		}); submitErr != nil {
			wg.Done()
			out[i] = SourceStatus{
				Name:       src.Name(),
				Configured: src.Configured(),
				Error:      submitErr.Error(),
			}
		}
	}
	wg.Wait()

	return out
}

func (s *FetchService) probe(ctx context.Context, src SeasonSource) SourceStatus {
	status := SourceStatus{Name: src.Name(), Configured: src.Configured()}
	if !status.Configured {
		return status
	}

	if err := src.Probe(ctx); err != nil {
		status.Error = err.Error()
		s.logger.WarnContext(ctx, "source probe failed", "source", src.Name(), "error", err)
		return status
	}

	status.Reachable = true
	return status
}

func (s *FetchService) waitTurn(ctx context.Context, sourceName string) error {
	limiter := s.limiters[sourceName]
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

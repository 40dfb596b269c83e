package usecase

import (
	"context"
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
)

// DBPinger is satisfied by *sqlx.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionTester is what the diagnostics surface needs from the fetch
// orchestrator.
type ConnectionTester interface {
	TestConnections(ctx context.Context) []SourceStatus
}

// SampleFetcher runs the end-to-end fetch exercised by the diagnostics
// sample. The fetch orchestrator satisfies it.
type SampleFetcher interface {
	FetchSeason(ctx context.Context, season string) ([]match.Match, error)
}

// SampleFetchResult is the outcome of one diagnostics fetch for the default
// season. Probes only prove reachability; this proves the fetch path can
// yield usable match data.
type SampleFetchResult struct {
	OK        bool       `json:"ok"`
	Season    string     `json:"season"`
	Matches   int        `json:"matches"`
	FirstHome string     `json:"first_home,omitempty"`
	FirstAway string     `json:"first_away,omitempty"`
	FirstDate *time.Time `json:"first_date,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EndpointReport is the result of one diagnostics pass.
type EndpointReport struct {
	Database      bool               `json:"database"`
	DatabaseError string             `json:"database_error,omitempty"`
	Sources       []SourceStatus     `json:"sources"`
	SampleFetch   *SampleFetchResult `json:"sample_fetch,omitempty"`
	OverallOK     bool               `json:"overall_ok"`
	CheckedAt     time.Time          `json:"checked_at"`
}

// StatusService answers reachability questions about the store and every
// configured data source, and verifies the fetch path with a sample season.
type StatusService struct {
	db      DBPinger
	tester  ConnectionTester
	fetcher SampleFetcher
	season  string
	logger  *logging.Logger
	now     func() time.Time
}

func NewStatusService(
	db DBPinger,
	tester ConnectionTester,
	fetcher SampleFetcher,
	season string,
	logger *logging.Logger,
) *StatusService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatusService{
		db:      db,
		tester:  tester,
		fetcher: fetcher,
		season:  season,
		logger:  logger,
		now:     time.Now,
	}
}

// TestEndpoints never fails: every probe outcome lands in the report.
// OverallOK requires a reachable database, at least one reachable source,
// and a sample fetch that returned match data.
func (s *StatusService) TestEndpoints(ctx context.Context) *EndpointReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatusService.TestEndpoints")
	defer span.End()

	report := &EndpointReport{CheckedAt: s.now().UTC()}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			report.DatabaseError = err.Error()
			s.logger.WarnContext(ctx, "database ping failed", "error", err)
		} else {
			report.Database = true
		}
	}

	if s.tester != nil {
		report.Sources = s.tester.TestConnections(ctx)
	}

	if s.fetcher != nil {
		report.SampleFetch = s.sampleFetch(ctx)
	}

	sourceOK := false
	for _, src := range report.Sources {
		if src.Reachable {
			sourceOK = true
			break
		}
	}
	report.OverallOK = report.Database && sourceOK &&
		report.SampleFetch != nil && report.SampleFetch.OK

	return report
}

func (s *StatusService) sampleFetch(ctx context.Context) *SampleFetchResult {
	result := &SampleFetchResult{Season: s.season}

	matches, err := s.fetcher.FetchSeason(ctx, s.season)
	if err != nil {
		result.Error = err.Error()
		s.logger.WarnContext(ctx, "sample fetch failed", "season", s.season, "error", err)
		return result
	}

	result.OK = len(matches) > 0
	result.Matches = len(matches)
	if len(matches) > 0 {
		first := matches[0]
		result.FirstHome = first.HomeTeam
		result.FirstAway = first.AwayTeam
		date := first.Date
		result.FirstDate = &date
	}

	return result
}

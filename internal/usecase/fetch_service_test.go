package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/match"
)

type stubSource struct {
	name       string
	highVolume bool
	configured bool
	matches    []match.Match
	err        error
	probeErr   error
	calls      int
}

func (s *stubSource) Name() string     { return s.name }
func (s *stubSource) HighVolume() bool { return s.highVolume }
func (s *stubSource) Configured() bool { return s.configured }

func (s *stubSource) FetchSeason(_ context.Context, _ string) ([]match.Match, error) {
	s.calls++
	return s.matches, s.err
}

func (s *stubSource) Probe(_ context.Context) error {
	return s.probeErr
}

func seasonMatch(id int64, season string) match.Match {
	return match.Match{
		ID:       id,
		Date:     time.Date(2024, 8, 17, 15, 0, 0, 0, time.UTC),
		Season:   season,
		League:   "Premier League",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
	}
}

func TestFetchSeasonFirstHealthySourceWins(t *testing.T) {
	t.Parallel()

	failing := &stubSource{name: "a", configured: true, err: errors.New("upstream 500")}
	empty := &stubSource{name: "b", configured: true}
	healthy := &stubSource{name: "c", configured: true, matches: []match.Match{seasonMatch(1, "2024")}}
	last := &stubSource{name: "d", configured: true, matches: []match.Match{seasonMatch(2, "2024")}}

	svc := NewFetchService([]SeasonSource{failing, empty, healthy, last}, nil, FetchServiceConfig{}, nil)

	matches, err := svc.FetchSeason(context.Background(), "2024")
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("expected the first healthy source's data, got %+v", matches)
	}
	if last.calls != 0 {
		t.Fatal("later source was called after a healthy source answered")
	}
}

func TestFetchSeasonSkipsUnconfiguredSources(t *testing.T) {
	t.Parallel()

	unconfigured := &stubSource{name: "a", configured: false, matches: []match.Match{seasonMatch(1, "2024")}}
	configured := &stubSource{name: "b", configured: true, matches: []match.Match{seasonMatch(2, "2024")}}

	svc := NewFetchService([]SeasonSource{unconfigured, configured}, nil, FetchServiceConfig{}, nil)

	matches, err := svc.FetchSeason(context.Background(), "2024")
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if unconfigured.calls != 0 {
		t.Fatal("unconfigured source was called")
	}
	if len(matches) != 1 || matches[0].ID != 2 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestFetchSeasonSyntheticFallback(t *testing.T) {
	t.Parallel()

	failing := &stubSource{name: "a", configured: true, err: errors.New("timeout")}
	svc := NewFetchService([]SeasonSource{failing}, nil, FetchServiceConfig{}, nil)

	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	matches, err := svc.FetchSeason(context.Background(), "2024")
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if len(matches) != 50 {
		t.Fatalf("expected 50 synthetic entries, got %d", len(matches))
	}

	first := matches[0]
	if first.ID != 1000 || first.HomeTeam != "Arsenal" || first.AwayTeam != "Aston Villa" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.Season != "2024" || first.League != "Premier League" {
		t.Fatalf("unexpected season/league: %+v", first)
	}
	if !first.Date.Equal(now) {
		t.Fatalf("unexpected first entry date: %s", first.Date)
	}

	last := matches[49]
	if last.ID != 1049 {
		t.Fatalf("unexpected last entry id: %d", last.ID)
	}
	if last.HomeTeam != syntheticRoster[49%20] || last.AwayTeam != syntheticRoster[50%20] {
		t.Fatalf("unexpected last entry pairing: %s vs %s", last.HomeTeam, last.AwayTeam)
	}
	if !last.Date.Equal(now.AddDate(0, 0, -49)) {
		t.Fatalf("unexpected last entry date: %s", last.Date)
	}
	if *first.HomeGoals != 2 || *first.AwayGoals != 1 {
		t.Fatalf("unexpected synthetic score: %d-%d", *first.HomeGoals, *first.AwayGoals)
	}
	if err := first.Validate(); err != nil {
		t.Fatalf("synthetic entry does not validate: %v", err)
	}
}

func TestFetchSeasonRejectsBadSeason(t *testing.T) {
	t.Parallel()

	svc := NewFetchService(nil, nil, FetchServiceConfig{}, nil)

	if _, err := svc.FetchSeason(context.Background(), "24"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFetchSeasonSpacesHighVolumeCalls(t *testing.T) {
	t.Parallel()

	const spacing = 50 * time.Millisecond

	src := &stubSource{name: "a", highVolume: true, configured: true, matches: []match.Match{seasonMatch(1, "2024")}}
	svc := NewFetchService([]SeasonSource{src}, nil, FetchServiceConfig{RequestSpacing: spacing}, nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := svc.FetchSeason(context.Background(), "2024"); err != nil {
			t.Fatalf("fetch season %d: %v", i, err)
		}
	}

	if elapsed := time.Since(start); elapsed < 2*spacing {
		t.Fatalf("three spaced calls finished in %s, want at least %s", elapsed, 2*spacing)
	}
}

func TestFetchBulkCoversInclusiveRange(t *testing.T) {
	t.Parallel()

	src := &stubSource{name: "a", configured: true, matches: []match.Match{seasonMatch(1, "any")}}
	svc := NewFetchService([]SeasonSource{src}, nil, FetchServiceConfig{}, nil)

	out, err := svc.FetchBulk(context.Background(), 2022, 2024)
	if err != nil {
		t.Fatalf("fetch bulk: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 seasons, got %d", len(out))
	}
	for _, season := range []string{"2022", "2023", "2024"} {
		if len(out[season]) == 0 {
			t.Fatalf("season %s missing from bulk result", season)
		}
	}
	if src.calls != 3 {
		t.Fatalf("expected 3 source calls, got %d", src.calls)
	}
}

func TestFetchBulkRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := NewFetchService(nil, nil, FetchServiceConfig{}, nil)

	if _, err := svc.FetchBulk(context.Background(), 2024, 2022); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFetchBulkHonorsCancellation(t *testing.T) {
	t.Parallel()

	src := &stubSource{name: "a", configured: true, matches: []match.Match{seasonMatch(1, "any")}}
	svc := NewFetchService([]SeasonSource{src}, nil, FetchServiceConfig{SeasonPause: time.Minute}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := svc.FetchBulk(ctx, 2023, 2024); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTestConnectionsProbesAllSources(t *testing.T) {
	t.Parallel()

	reachable := &stubSource{name: "a", configured: true}
	failing := &stubSource{name: "b", configured: true, probeErr: errors.New("dial tcp: refused")}
	unconfigured := &stubSource{name: "c"}

	svc := NewFetchService([]SeasonSource{reachable, failing, unconfigured}, nil, FetchServiceConfig{}, nil)

	statuses := svc.TestConnections(context.Background())
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Reachable {
		t.Fatalf("expected source a reachable: %+v", statuses[0])
	}
	if statuses[1].Reachable || statuses[1].Error == "" {
		t.Fatalf("expected source b probe failure: %+v", statuses[1])
	}
	if statuses[2].Configured || statuses[2].Reachable {
		t.Fatalf("expected source c unconfigured: %+v", statuses[2])
	}
}

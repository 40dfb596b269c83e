package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
)

type stubFetcher struct {
	bySeason    map[string][]match.Match
	stats       map[string]match.TeamStatistics
	seasonCalls []string
	bulkCalls   int
}

func (f *stubFetcher) FetchSeason(_ context.Context, season string) ([]match.Match, error) {
	f.seasonCalls = append(f.seasonCalls, season)
	return f.bySeason[season], nil
}

func (f *stubFetcher) FetchBulk(_ context.Context, startYear, endYear int) (map[string][]match.Match, error) {
	f.bulkCalls++
	out := make(map[string][]match.Match)
	for year := startYear; year <= endYear; year++ {
		season := fmt.Sprintf("%d", year)
		out[season] = f.bySeason[season]
	}
	return out, nil
}

func (f *stubFetcher) FetchTeamStatistics(_ context.Context, teamName, season string) (match.TeamStatistics, error) {
	if stats, ok := f.stats[teamName]; ok {
		return stats, nil
	}
	return match.TeamStatistics{}, fmt.Errorf("%w: %s", ErrTeamNotFound, teamName)
}

// fakeStore implements SyncStore and SyncTx in memory. It has no rollback,
// tests that need a failing transaction set beginErr.
type fakeStore struct {
	beginErr   error
	failTeam   string
	teams      map[string]int64
	nextTeamID int64
	snapshots  map[int64]teamstats.Snapshot
	nextSnapID int64
	fixtures   map[int64]fixture.Fixture
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:     map[string]int64{},
		snapshots: map[int64]teamstats.Snapshot{},
		fixtures:  map[int64]fixture.Fixture{},
	}
}

func (s *fakeStore) RunInTx(_ context.Context, fn func(tx SyncTx) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	return fn(s)
}

func (s *fakeStore) FixtureExists(_ context.Context, id int64) (bool, error) {
	_, ok := s.fixtures[id]
	return ok, nil
}

func (s *fakeStore) EnsureTeam(_ context.Context, name string) (int64, error) {
	if name == s.failTeam {
		return 0, errors.New("insert team: constraint violation")
	}
	if id, ok := s.teams[name]; ok {
		return id, nil
	}
	s.nextTeamID++
	s.teams[name] = s.nextTeamID
	return s.nextTeamID, nil
}

func (s *fakeStore) InsertStatsSnapshot(_ context.Context, snap teamstats.Snapshot) (int64, error) {
	s.nextSnapID++
	snap.ID = s.nextSnapID
	s.snapshots[snap.ID] = snap
	return snap.ID, nil
}

func (s *fakeStore) InsertFixture(_ context.Context, fx fixture.Fixture) error {
	if _, ok := s.fixtures[fx.ID]; ok {
		return errors.New("insert fixture: duplicate key")
	}
	s.fixtures[fx.ID] = fx
	return nil
}

func (s *fakeStore) UpdateFixture(_ context.Context, fx fixture.Fixture) error {
	if _, ok := s.fixtures[fx.ID]; !ok {
		return errors.New("update fixture: no such row")
	}
	s.fixtures[fx.ID] = fx
	return nil
}

func leagueMatch(id int64, season, home, away string) match.Match {
	return match.Match{
		ID:       id,
		Date:     time.Date(2024, 8, 17, 15, 0, 0, 0, time.UTC),
		Season:   season,
		League:   "Premier League",
		HomeTeam: home,
		AwayTeam: away,
		HomeGoals: intPtr(2),
		AwayGoals: intPtr(1),
	}
}

func TestSyncSeasonInsertsNewRecords(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewSyncService(&stubFetcher{}, store, nil)

	matches := []match.Match{
		leagueMatch(1, "2024", "Arsenal", "Chelsea"),
		leagueMatch(2, "2024", "Chelsea", "Liverpool"),
	}

	summary, err := svc.SyncSeason(context.Background(), "2024", matches, false)
	if err != nil {
		t.Fatalf("sync season: %v", err)
	}

	if summary.Total != 2 || summary.New != 2 || summary.Updated != 0 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("unexpected record errors: %v", summary.Errors)
	}
	if len(store.teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(store.teams))
	}
	if len(store.snapshots) != 4 {
		t.Fatalf("expected 4 stat snapshots, got %d", len(store.snapshots))
	}

	fx := store.fixtures[1]
	if fx.HomeTeamID != store.teams["Arsenal"] || fx.AwayTeamID != store.teams["Chelsea"] {
		t.Fatalf("fixture 1 references wrong teams: %+v", fx)
	}
	if fx.HomeStatsID == 0 || fx.AwayStatsID == 0 {
		t.Fatalf("fixture 1 missing stat references: %+v", fx)
	}
}

func TestSyncSeasonIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewSyncService(&stubFetcher{}, store, nil)
	matches := []match.Match{leagueMatch(1, "2024", "Arsenal", "Chelsea")}

	if _, err := svc.SyncSeason(context.Background(), "2024", matches, false); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	statRowsAfterFirst := len(store.snapshots)

	summary, err := svc.SyncSeason(context.Background(), "2024", matches, false)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if summary.New != 0 || summary.Updated != 0 || summary.Skipped != 1 {
		t.Fatalf("second run should skip everything: %+v", summary)
	}
	if len(store.snapshots) != statRowsAfterFirst {
		t.Fatalf("skipped records must not append snapshots: %d -> %d", statRowsAfterFirst, len(store.snapshots))
	}
}

func TestSyncSeasonForcedUpdateAppendsSnapshots(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewSyncService(&stubFetcher{}, store, nil)
	matches := []match.Match{leagueMatch(1, "2024", "Arsenal", "Chelsea")}

	if _, err := svc.SyncSeason(context.Background(), "2024", matches, false); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	before := store.fixtures[1]

	matches[0].HomeGoals = intPtr(3)
	summary, err := svc.SyncSeason(context.Background(), "2024", matches, true)
	if err != nil {
		t.Fatalf("forced sync: %v", err)
	}

	if summary.Updated != 1 || summary.New != 0 || summary.Skipped != 0 {
		t.Fatalf("unexpected forced summary: %+v", summary)
	}
	after := store.fixtures[1]
	if *after.HomeGoals != 3 {
		t.Fatalf("fixture score not updated: %+v", after)
	}
	if after.HomeStatsID == before.HomeStatsID || after.AwayStatsID == before.AwayStatsID {
		t.Fatal("forced update must point at fresh stat rows")
	}
	if _, ok := store.snapshots[before.HomeStatsID]; !ok {
		t.Fatal("older snapshot row was removed")
	}
	if len(store.snapshots) != 4 {
		t.Fatalf("expected 4 snapshot rows after forced update, got %d", len(store.snapshots))
	}
}

func TestSyncSeasonRecordFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.failTeam = "Everton"
	svc := NewSyncService(&stubFetcher{}, store, nil)

	matches := []match.Match{
		leagueMatch(1, "2024", "Arsenal", "Chelsea"),
		leagueMatch(2, "2024", "Everton", "Fulham"),
		leagueMatch(3, "2024", "Liverpool", "Brentford"),
	}

	summary, err := svc.SyncSeason(context.Background(), "2024", matches, false)
	if err != nil {
		t.Fatalf("sync season: %v", err)
	}

	if summary.Total != 3 || summary.New != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Errors) != 1 || !strings.HasPrefix(summary.Errors[0], "process match 2:") {
		t.Fatalf("unexpected record errors: %v", summary.Errors)
	}
	if _, ok := store.fixtures[2]; ok {
		t.Fatal("failed record must not be stored")
	}
	if _, ok := store.fixtures[3]; !ok {
		t.Fatal("records after the failure must still sync")
	}
}

func TestSyncSeasonValidatesRecords(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewSyncService(&stubFetcher{}, store, nil)

	bad := leagueMatch(4, "2024", "", "Chelsea")
	summary, err := svc.SyncSeason(context.Background(), "2024", []match.Match{bad}, false)
	if err != nil {
		t.Fatalf("sync season: %v", err)
	}
	if len(summary.Errors) != 1 || summary.New != 0 {
		t.Fatalf("invalid record should be recorded as a failure: %+v", summary)
	}
}

func TestSyncSeasonUsesProviderStats(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &stubFetcher{
		stats: map[string]match.TeamStatistics{
			"Arsenal": {Team: "Arsenal", Season: "2024", Rating: 82.4, MatchesPlayed: 20, Wins: 14, Shots: 310},
		},
	}
	svc := NewSyncService(fetcher, store, nil)

	if _, err := svc.SyncSeason(context.Background(), "2024", []match.Match{leagueMatch(1, "2024", "Arsenal", "Chelsea")}, false); err != nil {
		t.Fatalf("sync season: %v", err)
	}

	fx := store.fixtures[1]
	home := store.snapshots[fx.HomeStatsID]
	if home.Rating != 82.4 || home.Wins != 14 || home.Shots != 310 {
		t.Fatalf("home snapshot should carry provider standings: %+v", home)
	}

	// Chelsea has no standings entry, the default rating applies.
	away := store.snapshots[fx.AwayStatsID]
	if away.Rating != 75.0 || away.MatchesPlayed != 0 {
		t.Fatalf("away snapshot should carry defaults: %+v", away)
	}
}

func TestUpdateDataSingleSeasonFetchPath(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &stubFetcher{
		bySeason: map[string][]match.Match{
			"2024": {leagueMatch(1, "2024", "Arsenal", "Chelsea")},
		},
	}
	svc := NewSyncService(fetcher, store, nil)

	summary, err := svc.UpdateData(context.Background(), []string{"2024"}, false)
	if err != nil {
		t.Fatalf("update data: %v", err)
	}

	if fetcher.bulkCalls != 0 || len(fetcher.seasonCalls) != 1 {
		t.Fatalf("single season must use the direct fetch path: bulk=%d season=%v", fetcher.bulkCalls, fetcher.seasonCalls)
	}
	if summary.New != 1 || summary.Seasons[0] != "2024" || summary.ForceUpdate {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.UpdatedAt.IsZero() {
		t.Fatal("summary timestamp is unset")
	}
}

func TestUpdateDataMultiSeasonUsesBulkFetch(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &stubFetcher{
		bySeason: map[string][]match.Match{
			"2022": {leagueMatch(1, "2022", "Arsenal", "Chelsea")},
			"2023": {leagueMatch(2, "2023", "Chelsea", "Arsenal")},
			"2024": {leagueMatch(3, "2024", "Liverpool", "Everton")},
		},
	}
	svc := NewSyncService(fetcher, store, nil)

	summary, err := svc.UpdateData(context.Background(), []string{"2022", "2023", "2024"}, false)
	if err != nil {
		t.Fatalf("update data: %v", err)
	}

	if fetcher.bulkCalls != 1 || len(fetcher.seasonCalls) != 0 {
		t.Fatalf("multiple seasons must use one bulk fetch: bulk=%d season=%v", fetcher.bulkCalls, fetcher.seasonCalls)
	}
	if summary.Total != 3 || summary.New != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(store.fixtures) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(store.fixtures))
	}
	if len(summary.Seasons) != 3 {
		t.Fatalf("summary should list every season: %+v", summary.Seasons)
	}
}

func TestUpdateDataDefaultsToCurrentYear(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &stubFetcher{}
	svc := NewSyncService(fetcher, store, nil)
	svc.now = func() time.Time { return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC) }

	summary, err := svc.UpdateData(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("update data: %v", err)
	}
	if len(summary.Seasons) != 1 || summary.Seasons[0] != "2024" {
		t.Fatalf("expected default season 2024, got %v", summary.Seasons)
	}
	if len(fetcher.seasonCalls) != 1 || fetcher.seasonCalls[0] != "2024" {
		t.Fatalf("unexpected fetch calls: %v", fetcher.seasonCalls)
	}
}

func TestUpdateDataRejectsBadSeason(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(&stubFetcher{}, newFakeStore(), nil)

	if _, err := svc.UpdateData(context.Background(), []string{"20x4"}, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateDataStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.beginErr = errors.New("connection refused")
	fetcher := &stubFetcher{
		bySeason: map[string][]match.Match{
			"2024": {leagueMatch(1, "2024", "Arsenal", "Chelsea")},
		},
	}
	svc := NewSyncService(fetcher, store, nil)

	if _, err := svc.UpdateData(context.Background(), []string{"2024"}, false); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

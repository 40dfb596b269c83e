package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
	qb "github.com/pitchsync/pitchsync/internal/platform/querybuilder"
	"github.com/pitchsync/pitchsync/internal/usecase"
)

// SyncStore gives the sync engine one transaction per batch.
type SyncStore struct {
	db *sqlx.DB
}

func NewSyncStore(db *sqlx.DB) *SyncStore {
	return &SyncStore{db: db}
}

func (s *SyncStore) RunInTx(ctx context.Context, fn func(tx usecase.SyncTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sync tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&syncTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync tx: %w", err)
	}
	return nil
}

type syncTx struct {
	tx *sqlx.Tx
}

func (t *syncTx) FixtureExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := t.tx.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM fixtures WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("check fixture existence: %w", err)
	}
	return exists, nil
}

func (t *syncTx) EnsureTeam(ctx context.Context, name string) (int64, error) {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		Name:     name,
		FullName: stringToNullString(name),
	}, "ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build ensure team query: %w", err)
	}

	var id int64
	if err := t.tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("ensure team %q: %w", name, err)
	}
	return id, nil
}

func (t *syncTx) InsertStatsSnapshot(ctx context.Context, snap teamstats.Snapshot) (int64, error) {
	query, args, err := qb.InsertModel("team_stats", teamStatsInsertModel{
		TeamID:        snap.TeamID,
		Season:        snap.Season,
		Rating:        snap.Rating,
		Errors:        snap.Errors,
		RedCards:      snap.RedCards,
		Shots:         snap.Shots,
		MatchesPlayed: snap.MatchesPlayed,
		Wins:          snap.Wins,
		Draws:         snap.Draws,
		Losses:        snap.Losses,
		GoalsFor:      snap.GoalsFor,
		GoalsAgainst:  snap.GoalsAgainst,
	}, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert stats snapshot query: %w", err)
	}

	var id int64
	if err := t.tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert stats snapshot team_id=%d: %w", snap.TeamID, err)
	}
	return id, nil
}

func (t *syncTx) InsertFixture(ctx context.Context, fx fixture.Fixture) error {
	query, args, err := qb.InsertModel("fixtures", fixtureToInsertModel(fx), "")
	if err != nil {
		return fmt.Errorf("build insert fixture query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture %d: %w", fx.ID, err)
	}
	return nil
}

func (t *syncTx) UpdateFixture(ctx context.Context, fx fixture.Fixture) error {
	query, args, err := qb.Update("fixtures").
		Set("date", fx.Date).
		Set("season", fx.Season).
		Set("league", fx.League).
		Set("home_team_id", fx.HomeTeamID).
		Set("away_team_id", fx.AwayTeamID).
		Set("home_goals", ptrToNullInt(fx.HomeGoals)).
		Set("away_goals", ptrToNullInt(fx.AwayGoals)).
		Set("home_odds_wd", ptrToNullFloat(fx.HomeOddsWD)).
		Set("away_odds_wd", ptrToNullFloat(fx.AwayOddsWD)).
		Set("home_stats_id", fx.HomeStatsID).
		Set("away_stats_id", fx.AwayStatsID).
		Set("updated_at", fx.UpdatedAt).
		Where(qb.Eq("id", fx.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update fixture %d: %w", fx.ID, err)
	}
	return nil
}

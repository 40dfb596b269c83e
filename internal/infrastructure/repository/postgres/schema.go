package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements mirrors db/migrations/000001_init_schema.up.sql. Every
// statement is idempotent so EnsureSchema can run on each startup without
// touching existing data.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		full_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS team_stats (
		id BIGSERIAL PRIMARY KEY,
		team_id BIGINT NOT NULL REFERENCES teams (id),
		season TEXT NOT NULL,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0,
		red_cards INTEGER NOT NULL DEFAULT 0,
		shots INTEGER NOT NULL DEFAULT 0,
		matches_played INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		draws INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		goals_for INTEGER NOT NULL DEFAULT 0,
		goals_against INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS fixtures (
		id BIGINT PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL,
		season TEXT NOT NULL,
		league TEXT NOT NULL,
		home_team_id BIGINT NOT NULL REFERENCES teams (id),
		away_team_id BIGINT NOT NULL REFERENCES teams (id),
		home_goals INTEGER,
		away_goals INTEGER,
		home_odds_wd DOUBLE PRECISION,
		away_odds_wd DOUBLE PRECISION,
		home_stats_id BIGINT NOT NULL REFERENCES team_stats (id),
		away_stats_id BIGINT NOT NULL REFERENCES team_stats (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_date ON fixtures (date)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_season ON fixtures (season)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_teams ON fixtures (home_team_id, away_team_id)`,
}

// EnsureSchema initializes the schema in place for embedded and dev setups.
// Deployed environments run the same DDL through cmd/migration.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

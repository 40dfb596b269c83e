package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	qb "github.com/pitchsync/pitchsync/internal/platform/querybuilder"
)

const fixtureViewColumns = `f.id, f.date, f.season, f.league,
	f.home_team_id, f.away_team_id, f.home_goals, f.away_goals,
	f.home_odds_wd, f.away_odds_wd, f.home_stats_id, f.away_stats_id,
	f.created_at, f.updated_at,
	h.name AS home_team, a.name AS away_team`

const fixtureViewFrom = `fixtures f
	JOIN teams h ON h.id = f.home_team_id
	JOIN teams a ON a.id = f.away_team_id`

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id int64) (*fixture.View, error) {
	query, args, err := qb.Select(fixtureViewColumns).From(fixtureViewFrom).
		Where(qb.Eq("f.id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureViewModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select fixture by id: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *FixtureRepository) List(ctx context.Context, f fixture.Filter) ([]fixture.View, error) {
	builder := qb.Select(fixtureViewColumns).From(fixtureViewFrom).
		Where(filterConditions(f)...).
		OrderBy("f.date DESC", "f.id DESC").
		Limit(f.Limit).
		Offset(f.Offset)

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	var rows []fixtureViewModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.View, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *FixtureRepository) CountFiltered(ctx context.Context, f fixture.Filter) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From(fixtureViewFrom).
		Where(filterConditions(f)...).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count filtered fixtures query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count filtered fixtures: %w", err)
	}
	return count, nil
}

func (r *FixtureRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From("fixtures").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count fixtures query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count fixtures: %w", err)
	}
	return count, nil
}

func (r *FixtureRepository) CountBySeason(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT season, COUNT(*) FROM fixtures GROUP BY season")
	if err != nil {
		return nil, fmt.Errorf("count fixtures by season: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var season string
		var count int64
		if err := rows.Scan(&season, &count); err != nil {
			return nil, fmt.Errorf("scan season count: %w", err)
		}
		out[season] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate season counts: %w", err)
	}
	return out, nil
}

func (r *FixtureRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	if err := r.db.GetContext(ctx, &last, "SELECT MAX(updated_at) FROM fixtures"); err != nil {
		return nil, fmt.Errorf("select last updated: %w", err)
	}
	return last, nil
}

func filterConditions(f fixture.Filter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 2)
	if f.Season != "" {
		conditions = append(conditions, qb.Eq("f.season", f.Season))
	}
	if f.Team != "" {
		conditions = append(conditions, qb.Expr("(h.name = ? OR a.name = ?)", f.Team, f.Team))
	}
	return conditions
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchsync/pitchsync/internal/domain/team"
	qb "github.com/pitchsync/pitchsync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (*team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("name", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team by name query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select team by name: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *TeamRepository) ListWithFixtureCounts(ctx context.Context) ([]team.WithFixtureCount, error) {
	query := `
		SELECT t.id, t.name, t.full_name, t.created_at,
		       COUNT(f.id) AS fixture_count
		FROM teams t
		LEFT JOIN fixtures f ON f.home_team_id = t.id OR f.away_team_id = t.id
		GROUP BY t.id, t.name, t.full_name, t.created_at
		ORDER BY t.name`

	var rows []teamWithCountModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select teams with fixture counts: %w", err)
	}

	out := make([]team.WithFixtureCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.WithFixtureCount{
			Team:         row.teamTableModel.toDomain(),
			FixtureCount: row.FixtureCount,
		})
	}

	return out, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From("teams").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return count, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
	qb "github.com/pitchsync/pitchsync/internal/platform/querybuilder"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

func (r *TeamStatsRepository) GetByID(ctx context.Context, id int64) (*teamstats.Snapshot, error) {
	query, args, err := qb.Select("*").From("team_stats").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team stats query: %w", err)
	}

	var row teamStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select team stats by id: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *TeamStatsRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From("team_stats").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count team stats query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count team stats: %w", err)
	}
	return count, nil
}

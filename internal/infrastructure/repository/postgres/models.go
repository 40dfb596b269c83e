package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/domain/team"
	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
)

type teamTableModel struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	FullName  sql.NullString `db:"full_name"`
	CreatedAt time.Time      `db:"created_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		Name:      m.Name,
		FullName:  nullStringToString(m.FullName),
		CreatedAt: m.CreatedAt,
	}
}

type teamWithCountModel struct {
	teamTableModel
	FixtureCount int64 `db:"fixture_count"`
}

type teamInsertModel struct {
	Name     string         `db:"name"`
	FullName sql.NullString `db:"full_name"`
}

type teamStatsTableModel struct {
	ID            int64     `db:"id"`
	TeamID        int64     `db:"team_id"`
	Season        string    `db:"season"`
	Rating        float64   `db:"rating"`
	Errors        int       `db:"errors"`
	RedCards      int       `db:"red_cards"`
	Shots         int       `db:"shots"`
	MatchesPlayed int       `db:"matches_played"`
	Wins          int       `db:"wins"`
	Draws         int       `db:"draws"`
	Losses        int       `db:"losses"`
	GoalsFor      int       `db:"goals_for"`
	GoalsAgainst  int       `db:"goals_against"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m teamStatsTableModel) toDomain() teamstats.Snapshot {
	return teamstats.Snapshot{
		ID:            m.ID,
		TeamID:        m.TeamID,
		Season:        m.Season,
		Rating:        m.Rating,
		Errors:        m.Errors,
		RedCards:      m.RedCards,
		Shots:         m.Shots,
		MatchesPlayed: m.MatchesPlayed,
		Wins:          m.Wins,
		Draws:         m.Draws,
		Losses:        m.Losses,
		GoalsFor:      m.GoalsFor,
		GoalsAgainst:  m.GoalsAgainst,
		CreatedAt:     m.CreatedAt,
	}
}

type teamStatsInsertModel struct {
	TeamID        int64   `db:"team_id"`
	Season        string  `db:"season"`
	Rating        float64 `db:"rating"`
	Errors        int     `db:"errors"`
	RedCards      int     `db:"red_cards"`
	Shots         int     `db:"shots"`
	MatchesPlayed int     `db:"matches_played"`
	Wins          int     `db:"wins"`
	Draws         int     `db:"draws"`
	Losses        int     `db:"losses"`
	GoalsFor      int     `db:"goals_for"`
	GoalsAgainst  int     `db:"goals_against"`
}

type fixtureTableModel struct {
	ID          int64           `db:"id"`
	Date        time.Time       `db:"date"`
	Season      string          `db:"season"`
	League      string          `db:"league"`
	HomeTeamID  int64           `db:"home_team_id"`
	AwayTeamID  int64           `db:"away_team_id"`
	HomeGoals   sql.NullInt64   `db:"home_goals"`
	AwayGoals   sql.NullInt64   `db:"away_goals"`
	HomeOddsWD  sql.NullFloat64 `db:"home_odds_wd"`
	AwayOddsWD  sql.NullFloat64 `db:"away_odds_wd"`
	HomeStatsID int64           `db:"home_stats_id"`
	AwayStatsID int64           `db:"away_stats_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:          m.ID,
		Date:        m.Date,
		Season:      m.Season,
		League:      m.League,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeGoals:   nullIntToPtr(m.HomeGoals),
		AwayGoals:   nullIntToPtr(m.AwayGoals),
		HomeOddsWD:  nullFloatToPtr(m.HomeOddsWD),
		AwayOddsWD:  nullFloatToPtr(m.AwayOddsWD),
		HomeStatsID: m.HomeStatsID,
		AwayStatsID: m.AwayStatsID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type fixtureViewModel struct {
	fixtureTableModel
	HomeTeam string `db:"home_team"`
	AwayTeam string `db:"away_team"`
}

func (m fixtureViewModel) toDomain() fixture.View {
	return fixture.View{
		Fixture:  m.fixtureTableModel.toDomain(),
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,
	}
}

type fixtureInsertModel struct {
	ID          int64           `db:"id"`
	Date        time.Time       `db:"date"`
	Season      string          `db:"season"`
	League      string          `db:"league"`
	HomeTeamID  int64           `db:"home_team_id"`
	AwayTeamID  int64           `db:"away_team_id"`
	HomeGoals   sql.NullInt64   `db:"home_goals"`
	AwayGoals   sql.NullInt64   `db:"away_goals"`
	HomeOddsWD  sql.NullFloat64 `db:"home_odds_wd"`
	AwayOddsWD  sql.NullFloat64 `db:"away_odds_wd"`
	HomeStatsID int64           `db:"home_stats_id"`
	AwayStatsID int64           `db:"away_stats_id"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func fixtureToInsertModel(fx fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		ID:          fx.ID,
		Date:        fx.Date,
		Season:      fx.Season,
		League:      fx.League,
		HomeTeamID:  fx.HomeTeamID,
		AwayTeamID:  fx.AwayTeamID,
		HomeGoals:   ptrToNullInt(fx.HomeGoals),
		AwayGoals:   ptrToNullInt(fx.AwayGoals),
		HomeOddsWD:  ptrToNullFloat(fx.HomeOddsWD),
		AwayOddsWD:  ptrToNullFloat(fx.AwayOddsWD),
		HomeStatsID: fx.HomeStatsID,
		AwayStatsID: fx.AwayStatsID,
		UpdatedAt:   fx.UpdatedAt,
	}
}

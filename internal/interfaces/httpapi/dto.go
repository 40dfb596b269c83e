package httpapi

import (
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/domain/team"
	"github.com/pitchsync/pitchsync/internal/domain/teamstats"
)

type updateDataRequest struct {
	Seasons     []string `json:"seasons" validate:"omitempty,max=10,dive,len=4,numeric"`
	ForceUpdate bool     `json:"force_update"`
}

type teamDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name,omitempty"`
	FixtureCount int64  `json:"fixture_count"`
}

type teamListDTO struct {
	Teams      []teamDTO `json:"teams"`
	TotalCount int       `json:"total_count"`
}

func mapTeamsToDTO(teams []team.WithFixtureCount) teamListDTO {
	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamDTO{
			ID:           t.ID,
			Name:         t.Name,
			FullName:     t.FullName,
			FixtureCount: t.FixtureCount,
		})
	}
	return teamListDTO{Teams: out, TotalCount: len(out)}
}

type fixtureDTO struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Season      string    `json:"season"`
	League      string    `json:"league"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeGoals   *int      `json:"home_goals"`
	AwayGoals   *int      `json:"away_goals"`
	HomeOddsWD  *float64  `json:"home_odds_wd,omitempty"`
	AwayOddsWD  *float64  `json:"away_odds_wd,omitempty"`
	HomeStatsID int64     `json:"home_stats_id"`
	AwayStatsID int64     `json:"away_stats_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type paginationDTO struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
}

type fixtureListDTO struct {
	Fixtures   []fixtureDTO  `json:"fixtures"`
	Pagination paginationDTO `json:"pagination"`
}

func mapFixtureToDTO(v fixture.View) fixtureDTO {
	return fixtureDTO{
		ID:          v.ID,
		Date:        v.Date,
		Season:      v.Season,
		League:      v.League,
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		HomeGoals:   v.HomeGoals,
		AwayGoals:   v.AwayGoals,
		HomeOddsWD:  v.HomeOddsWD,
		AwayOddsWD:  v.AwayOddsWD,
		HomeStatsID: v.HomeStatsID,
		AwayStatsID: v.AwayStatsID,
		UpdatedAt:   v.UpdatedAt,
	}
}

func mapFixturesToDTO(views []fixture.View, total int64, limit, offset int) fixtureListDTO {
	out := make([]fixtureDTO, 0, len(views))
	for _, v := range views {
		out = append(out, mapFixtureToDTO(v))
	}
	return fixtureListDTO{
		Fixtures: out,
		Pagination: paginationDTO{
			TotalCount: total,
			Limit:      limit,
			Offset:     offset,
			HasMore:    int64(offset+len(out)) < total,
		},
	}
}

type snapshotDTO struct {
	ID            int64     `json:"id"`
	TeamID        int64     `json:"team_id"`
	Season        string    `json:"season"`
	Rating        float64   `json:"rating"`
	Errors        int       `json:"errors"`
	RedCards      int       `json:"red_cards"`
	Shots         int       `json:"shots"`
	MatchesPlayed int       `json:"matches_played"`
	Wins          int       `json:"wins"`
	Draws         int       `json:"draws"`
	Losses        int       `json:"losses"`
	GoalsFor      int       `json:"goals_for"`
	GoalsAgainst  int       `json:"goals_against"`
	CreatedAt     time.Time `json:"created_at"`
}

func mapSnapshotToDTO(snap teamstats.Snapshot) snapshotDTO {
	return snapshotDTO{
		ID:            snap.ID,
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
		CreatedAt:     snap.CreatedAt,
	}
}

type configDTO struct {
	League        string          `json:"league"`
	DefaultSeason string          `json:"default_season"`
	Providers     map[string]bool `json:"providers"`
}

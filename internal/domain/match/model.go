package match

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var seasonRegex = regexp.MustCompile(`^\d{4}$`)

// Match is the provider-agnostic representation of one fixture before
// persistence. A source adapter (or the synthetic generator) produces it,
// the sync engine consumes it exactly once.
type Match struct {
	ID       int64
	Date     time.Time
	Season   string
	League   string
	HomeTeam string
	AwayTeam string

	// Optional provider fields stay nil when the source does not supply them.
	HomeGoals    *int
	AwayGoals    *int
	HomeOddsWD   *float64
	AwayOddsWD   *float64
	HomeRating   *float64
	AwayRating   *float64
	HomeErrors   *int
	AwayErrors   *int
	HomeRedCards *int
	AwayRedCards *int
	HomeShots    *int
	AwayShots    *int
}

func (m Match) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("match id must be greater than zero")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if !ValidSeason(m.Season) {
		return fmt.Errorf("match season %q is not a 4-digit year", m.Season)
	}
	if strings.TrimSpace(m.HomeTeam) == "" {
		return fmt.Errorf("home team name is required")
	}
	if strings.TrimSpace(m.AwayTeam) == "" {
		return fmt.Errorf("away team name is required")
	}
	if (m.HomeGoals == nil) != (m.AwayGoals == nil) {
		return fmt.Errorf("home and away goals must be both present or both absent")
	}
	if m.HomeGoals != nil && (*m.HomeGoals < 0 || *m.AwayGoals < 0) {
		return fmt.Errorf("goals cannot be negative")
	}

	return nil
}

// ValidSeason reports whether value is a plain 4-digit year.
func ValidSeason(value string) bool {
	return seasonRegex.MatchString(strings.TrimSpace(value))
}

// TeamStatistics is a transient standings-derived stat line for one team,
// fetched at sync time and persisted as an immutable snapshot row.
type TeamStatistics struct {
	Team          string
	Season        string
	Rating        float64
	Errors        int
	RedCards      int
	Shots         int
	MatchesPlayed int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
}

// DefaultTeamStatistics is the fallback stat line used when no provider can
// answer a standings query for a team.
func DefaultTeamStatistics(team, season string) TeamStatistics {
	return TeamStatistics{
		Team:   team,
		Season: season,
		Rating: 75.0,
	}
}

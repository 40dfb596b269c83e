package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validMatch() Match {
	return Match{
		ID:       4242,
		Date:     time.Date(2024, 8, 17, 15, 0, 0, 0, time.UTC),
		Season:   "2024",
		League:   "Premier League",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
	}
}

func TestMatchValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validMatch().Validate())

	cases := map[string]func(*Match){
		"zero id":         func(m *Match) { m.ID = 0 },
		"negative id":     func(m *Match) { m.ID = -1 },
		"zero date":       func(m *Match) { m.Date = time.Time{} },
		"bad season":      func(m *Match) { m.Season = "24" },
		"blank home team": func(m *Match) { m.HomeTeam = "   " },
		"blank away team": func(m *Match) { m.AwayTeam = "" },
		"lone home goals": func(m *Match) { g := 2; m.HomeGoals = &g },
		"negative goals":  func(m *Match) { h, a := 2, -1; m.HomeGoals, m.AwayGoals = &h, &a },
		"alphanum season": func(m *Match) { m.Season = "20a4" },
		"five digit year": func(m *Match) { m.Season = "20245" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := validMatch()
			mutate(&m)
			require.Error(t, m.Validate())
		})
	}
}

func TestMatchValidateScoredResult(t *testing.T) {
	t.Parallel()

	m := validMatch()
	home, away := 2, 1
	m.HomeGoals, m.AwayGoals = &home, &away
	require.NoError(t, m.Validate())

	zero := 0
	m.HomeGoals, m.AwayGoals = &zero, &zero
	require.NoError(t, m.Validate())
}

func TestValidSeason(t *testing.T) {
	t.Parallel()

	require.True(t, ValidSeason("2024"))
	require.True(t, ValidSeason(" 2024 "))
	require.False(t, ValidSeason("24"))
	require.False(t, ValidSeason("twenty"))
	require.False(t, ValidSeason(""))
}

func TestDefaultTeamStatistics(t *testing.T) {
	t.Parallel()

	stats := DefaultTeamStatistics("Arsenal", "2024")
	require.Equal(t, "Arsenal", stats.Team)
	require.Equal(t, "2024", stats.Season)
	require.Equal(t, 75.0, stats.Rating)
	require.Zero(t, stats.Errors)
	require.Zero(t, stats.MatchesPlayed)
}

package usecase

import (
	"time"

	"github.com/pitchsync/pitchsync/internal/domain/match"
)

// syntheticRoster is the fixed demo roster used when every external source
// is unavailable.
var syntheticRoster = []string{
	"Arsenal",
	"Aston Villa",
	"Bournemouth",
	"Brentford",
	"Brighton",
	"Chelsea",
	"Crystal Palace",
	"Everton",
	"Fulham",
	"Ipswich Town",
	"Leicester City",
	"Liverpool",
	"Manchester City",
	"Manchester United",
	"Newcastle United",
	"Nottingham Forest",
	"Southampton",
	"Tottenham Hotspur",
	"West Ham United",
	"Wolverhampton Wanderers",
}

// syntheticSeasonData builds the 50-entry offline dataset for a season.
// The values are deterministic so downstream behavior stays reproducible:
// entry i pairs roster[i%20] against roster[(i+1)%20] with fixture ID 1000+i
// dated i days before now.
func syntheticSeasonData(season string, now time.Time) []match.Match {
	const entries = 50

	out := make([]match.Match, 0, entries)
	for i := 0; i < entries; i++ {
		out = append(out, match.Match{
			ID:           int64(1000 + i),
			Date:         now.AddDate(0, 0, -i),
			Season:       season,
			League:       "Premier League",
			HomeTeam:     syntheticRoster[i%len(syntheticRoster)],
			AwayTeam:     syntheticRoster[(i+1)%len(syntheticRoster)],
			HomeGoals:    intPtr(2),
			AwayGoals:    intPtr(1),
			HomeOddsWD:   floatPtr(1.8),
			AwayOddsWD:   floatPtr(2.1),
			HomeRating:   floatPtr(75.5),
			AwayRating:   floatPtr(72.3),
			HomeErrors:   intPtr(2),
			AwayErrors:   intPtr(3),
			HomeRedCards: intPtr(0),
			AwayRedCards: intPtr(0),
			HomeShots:    intPtr(12),
			AwayShots:    intPtr(8),
		})
	}

	return out
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

package usecase

import (
	"context"

	"github.com/pitchsync/pitchsync/internal/domain/match"
)

// SeasonSource is the capability every external data provider adapter
// exposes to the fetch orchestrator. Adapters either return a full season
// or an error, never a partial result.
type SeasonSource interface {
	Name() string
	// HighVolume marks sources whose calls are subject to request spacing.
	HighVolume() bool
	// Configured reports whether the source holds a credential.
	Configured() bool
	FetchSeason(ctx context.Context, season string) ([]match.Match, error)
	// Probe issues a lightweight reachability request.
	Probe(ctx context.Context) error
}

// TeamStatisticsProvider answers standings-derived stat queries for one
// team in one season.
type TeamStatisticsProvider interface {
	FetchTeamStatistics(ctx context.Context, teamName, season string) (match.TeamStatistics, error)
}

// SourceStatus is the outcome of probing one source.
type SourceStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable"`
	Error      string `json:"error,omitempty"`
}

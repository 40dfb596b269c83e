package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
	"github.com/pitchsync/pitchsync/internal/usecase"
)

// football-data.org v4. The free tier allows 10 requests per minute, the
// orchestrator spaces calls accordingly.
const (
	sourceName           = "football-data"
	defaultBaseURL       = "https://api.football-data.org/v4"
	premierLeagueCompID  = "2021"
	responseBodyLimit    = 6 << 20
	defaultClientTimeout = 30 * time.Second
)

var authTokenHeaderRegex = regexp.MustCompile(`(?i)x-auth-token:\s*\S+`)
var errUnexpectedPayload = crerr.New("football-data unexpected payload")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultClientTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		logger:     logger,
	}
}

func (c *Client) Name() string     { return sourceName }
func (c *Client) HighVolume() bool { return true }
func (c *Client) Configured() bool { return c.token != "" }

type matchesEnvelope struct {
	Matches []providerMatch `json:"matches"`
}

type providerMatch struct {
	ID      int64        `json:"id"`
	UTCDate string       `json:"utcDate"`
	Season  seasonInfo   `json:"season"`
	Home    providerTeam `json:"homeTeam"`
	Away    providerTeam `json:"awayTeam"`
	Score   score        `json:"score"`
}

type seasonInfo struct {
	StartDate string `json:"startDate"`
}

type providerTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type score struct {
	FullTime scoreLine `json:"fullTime"`
}

type scoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// FetchSeason returns every Premier League match of the given season.
func (c *Client) FetchSeason(ctx context.Context, season string) ([]match.Match, error) {
	var envelope matchesEnvelope
	path := "/competitions/" + premierLeagueCompID + "/matches"
	if err := c.doJSON(ctx, path, url.Values{"season": {season}}, &envelope); err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(envelope.Matches))
	for _, pm := range envelope.Matches {
		if pm.ID <= 0 {
			continue
		}
		date, err := parseProviderDate(pm.UTCDate)
		if err != nil {
			c.logger.WarnContext(ctx, "skip match with malformed date",
				"source", sourceName,
				"match_id", pm.ID,
				"utc_date", pm.UTCDate,
			)
			continue
		}
		out = append(out, match.Match{
			ID:        pm.ID,
			Date:      date,
			Season:    season,
			League:    "Premier League",
			HomeTeam:  teamName(pm.Home),
			AwayTeam:  teamName(pm.Away),
			HomeGoals: pm.Score.FullTime.Home,
			AwayGoals: pm.Score.FullTime.Away,
		})
	}

	return out, nil
}

type standingsEnvelope struct {
	Standings []standingsGroup `json:"standings"`
}

type standingsGroup struct {
	Type  string         `json:"type"`
	Table []standingsRow `json:"table"`
}

type standingsRow struct {
	Team         providerTeam `json:"team"`
	PlayedGames  int          `json:"playedGames"`
	Won          int          `json:"won"`
	Draw         int          `json:"draw"`
	Lost         int          `json:"lost"`
	GoalsFor     int          `json:"goalsFor"`
	GoalsAgainst int          `json:"goalsAgainst"`
}

// FetchTeamStatistics resolves a team by exact name against the current
// standings table. Counting stats the provider does not publish carry fixed
// baseline values.
func (c *Client) FetchTeamStatistics(ctx context.Context, teamName, season string) (match.TeamStatistics, error) {
	var envelope standingsEnvelope
	path := "/competitions/" + premierLeagueCompID + "/standings"
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return match.TeamStatistics{}, err
	}

	for _, group := range envelope.Standings {
		if group.Type != "" && group.Type != "TOTAL" {
			continue
		}
		for _, row := range group.Table {
			if row.Team.Name != teamName && row.Team.ShortName != teamName {
				continue
			}
			return match.TeamStatistics{
				Team:          teamName,
				Season:        season,
				Rating:        75.0,
				Errors:        20,
				RedCards:      2,
				Shots:         200,
				MatchesPlayed: row.PlayedGames,
				Wins:          row.Won,
				Draws:         row.Draw,
				Losses:        row.Lost,
				GoalsFor:      row.GoalsFor,
				GoalsAgainst:  row.GoalsAgainst,
			}, nil
		}
	}

	return match.TeamStatistics{}, fmt.Errorf("%w: %s is not in the standings table", usecase.ErrTeamNotFound, teamName)
}

// Probe checks reachability with the cheapest authenticated request.
func (c *Client) Probe(ctx context.Context) error {
	var envelope struct {
		Count int `json:"count"`
	}
	return c.doJSON(ctx, "/competitions", url.Values{"areas": {"2072"}}, &envelope)
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", usecase.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "provider request failed",
			"source", sourceName,
			"url", fullURL,
			"error", sanitizeSensitiveText(err.Error(), c.token),
		)
		return fmt.Errorf("%w: send request: %s", usecase.ErrSourceUnavailable, sanitizeSensitiveText(err.Error(), c.token))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return fmt.Errorf("%w: read response body: %v", usecase.ErrSourceUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "provider returned non-success status",
			"source", sourceName,
			"url", fullURL,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("%w: provider status=%d", usecase.ErrSourceUnavailable, resp.StatusCode)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrSourceUnavailable, crerr.WithSecondaryError(errUnexpectedPayload, err))
	}
	return nil
}

func teamName(t providerTeam) string {
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.Name
}

func parseProviderDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return authTokenHeaderRegex.ReplaceAllString(value, "X-Auth-Token: REDACTED")
}

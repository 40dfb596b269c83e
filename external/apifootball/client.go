package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/pitchsync/pitchsync/internal/domain/match"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
	"github.com/pitchsync/pitchsync/internal/usecase"
)

// api-football v3 behind RapidAPI. League 39 is the Premier League.
const (
	sourceName      = "api-football"
	defaultBaseURL  = "https://api-football-v1.p.rapidapi.com/v3"
	rapidAPIHost    = "api-football-v1.p.rapidapi.com"
	premierLeagueID = "39"
	responseLimit   = 6 << 20
	defaultTimeout  = 30 * time.Second
)

var errUnexpectedPayload = crerr.New("api-football unexpected payload")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
}

func (c *Client) Name() string     { return sourceName }
func (c *Client) HighVolume() bool { return true }
func (c *Client) Configured() bool { return c.apiKey != "" }

type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureInfo `json:"fixture"`
	Teams   teamsInfo   `json:"teams"`
	Goals   goalsInfo   `json:"goals"`
}

type fixtureInfo struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
}

type teamsInfo struct {
	Home teamInfo `json:"home"`
	Away teamInfo `json:"away"`
}

type teamInfo struct {
	Name string `json:"name"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (c *Client) FetchSeason(ctx context.Context, season string) ([]match.Match, error) {
	var envelope fixturesEnvelope
	query := url.Values{"league": {premierLeagueID}, "season": {season}}
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Fixture.ID <= 0 {
			continue
		}
		date, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			c.logger.WarnContext(ctx, "skip fixture with malformed date",
				"source", sourceName,
				"fixture_id", item.Fixture.ID,
				"date", item.Fixture.Date,
			)
			continue
		}
		out = append(out, match.Match{
			ID:        item.Fixture.ID,
			Date:      date,
			Season:    season,
			League:    "Premier League",
			HomeTeam:  item.Teams.Home.Name,
			AwayTeam:  item.Teams.Away.Name,
			HomeGoals: item.Goals.Home,
			AwayGoals: item.Goals.Away,
		})
	}

	return out, nil
}

func (c *Client) Probe(ctx context.Context) error {
	var envelope struct {
		Response any `json:"response"`
	}
	return c.doJSON(ctx, "/status", nil, &envelope)
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
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", rapidAPIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "provider request failed",
			"source", sourceName,
			"url", fullURL,
			"error", sanitizeSensitiveText(err.Error(), c.apiKey),
		)
		return fmt.Errorf("%w: send request: %s", usecase.ErrSourceUnavailable, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseLimit))
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

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return value
}

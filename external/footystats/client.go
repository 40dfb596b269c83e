package footystats

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

const (
	sourceName     = "footystats"
	defaultBaseURL = "https://api.football-data-api.com"
	responseLimit  = 6 << 20
	defaultTimeout = 30 * time.Second
)

var keyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)
var errUnexpectedPayload = crerr.New("footystats unexpected payload")

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

func (c *Client) Name() string { return sourceName }

// FootyStats allows generous request volumes, no spacing needed.
func (c *Client) HighVolume() bool { return false }
func (c *Client) Configured() bool { return c.apiKey != "" }

type leagueMatchesEnvelope struct {
	Data []leagueMatch `json:"data"`
}

type leagueMatch struct {
	ID            int64  `json:"id"`
	DateUnix      int64  `json:"date_unix"`
	Status        string `json:"status"`
	HomeName      string `json:"home_name"`
	AwayName      string `json:"away_name"`
	HomeGoalCount int    `json:"homeGoalCount"`
	AwayGoalCount int    `json:"awayGoalCount"`
}

func (c *Client) FetchSeason(ctx context.Context, season string) ([]match.Match, error) {
	var envelope leagueMatchesEnvelope
	query := url.Values{"season_id": {season}}
	if err := c.doJSON(ctx, "/league-matches", query, &envelope); err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 || item.DateUnix <= 0 {
			continue
		}
		m := match.Match{
			ID:       item.ID,
			Date:     time.Unix(item.DateUnix, 0).UTC(),
			Season:   season,
			League:   "Premier League",
			HomeTeam: item.HomeName,
			AwayTeam: item.AwayName,
		}
		// Goal counts are only trustworthy for finished matches.
		if item.Status == "complete" {
			home, away := item.HomeGoalCount, item.AwayGoalCount
			m.HomeGoals = &home
			m.AwayGoals = &away
		}
		out = append(out, m)
	}

	return out, nil
}

func (c *Client) Probe(ctx context.Context) error {
	var envelope struct {
		Success bool `json:"success"`
	}
	if err := c.doJSON(ctx, "/league-list", nil, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return fmt.Errorf("%w: provider reported failure", usecase.ErrSourceUnavailable)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)

	fullURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", usecase.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "provider request failed",
			"source", sourceName,
			"url", redactKeyParam(fullURL),
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
			"url", redactKeyParam(fullURL),
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
	return keyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

func redactKeyParam(value string) string {
	return keyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

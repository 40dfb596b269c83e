package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/pitchsync/pitchsync/internal/domain/fixture"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
	"github.com/pitchsync/pitchsync/internal/usecase"
)

// HandlerConfig carries the static values the read-only config endpoint
// reports. Credentials themselves never leave the process.
type HandlerConfig struct {
	League        string
	DefaultSeason string
	Providers     map[string]bool
}

type Handler struct {
	syncService   *usecase.SyncService
	queryService  *usecase.QueryService
	statusService *usecase.StatusService
	cfg           HandlerConfig
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	queryService *usecase.QueryService,
	statusService *usecase.StatusService,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:   syncService,
		queryService:  queryService,
		statusService: statusService,
		cfg:           cfg,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatus")
	defer span.End()

	report := h.statusService.TestEndpoints(ctx)
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) UpdateData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateData")
	defer span.End()

	var req updateDataRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.syncService.UpdateData(ctx, req.Seasons, req.ForceUpdate)
	if err != nil {
		h.logger.ErrorContext(ctx, "data update failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDatabaseStats")
	defer span.End()

	stats, err := h.queryService.DatabaseStats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "database stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.queryService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapTeamsToDTO(teams))
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	filter, err := parseFixtureFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, total, err := h.queryService.ListFixtures(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	writeSuccess(ctx, w, http.StatusOK, mapFixturesToDTO(fixtures, total, limit, filter.Offset))
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("fixtureID")), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture id must be an integer", usecase.ErrInvalidInput))
		return
	}

	view, err := h.queryService.GetFixture(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapFixtureToDTO(*view))
}

func (h *Handler) GetStatsSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatsSnapshot")
	defer span.End()

	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("statsID")), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: stats id must be an integer", usecase.ErrInvalidInput))
		return
	}

	snap, err := h.queryService.GetStatsSnapshot(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSnapshotToDTO(*snap))
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConfig")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, configDTO{
		League:        h.cfg.League,
		DefaultSeason: h.cfg.DefaultSeason,
		Providers:     h.cfg.Providers,
	})
}

func parseFixtureFilter(r *http.Request) (fixture.Filter, error) {
	q := r.URL.Query()
	filter := fixture.Filter{
		Season: strings.TrimSpace(q.Get("season")),
		Team:   strings.TrimSpace(q.Get("team")),
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 1000 {
			return fixture.Filter{}, fmt.Errorf("%w: limit must be an integer between 1 and 1000", usecase.ErrInvalidInput)
		}
		filter.Limit = limit
	}
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return fixture.Filter{}, fmt.Errorf("%w: offset must be a non-negative integer", usecase.ErrInvalidInput)
		}
		filter.Offset = offset
	}

	return filter, nil
}

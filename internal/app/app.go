package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/pitchsync/pitchsync/external/apifootball"
	"github.com/pitchsync/pitchsync/external/footballdata"
	"github.com/pitchsync/pitchsync/external/footystats"
	"github.com/pitchsync/pitchsync/internal/config"
	"github.com/pitchsync/pitchsync/internal/infrastructure/repository/postgres"
	"github.com/pitchsync/pitchsync/internal/interfaces/httpapi"
	"github.com/pitchsync/pitchsync/internal/observability"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
	"github.com/pitchsync/pitchsync/internal/usecase"
)

// App owns every long-lived dependency of the process. Close releases them
// in reverse construction order.
type App struct {
	Config *config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	SyncService   *usecase.SyncService
	QueryService  *usecase.QueryService
	StatusService *usecase.StatusService

	HTTPServer *http.Server

	pprofServer     *http.Server
	stopPyroscope   func() error
	shutdownTracing func(context.Context) error
}

func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}

	pprofServer := observability.StartPprofServer(cfg, logger)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	fetchService := newFetchService(cfg, logger)
	syncService := usecase.NewSyncService(fetchService, postgres.NewSyncStore(db), logger)
	queryService := usecase.NewQueryService(
		postgres.NewTeamRepository(db),
		postgres.NewFixtureRepository(db),
		postgres.NewTeamStatsRepository(db),
		logger,
	)
	statusService := usecase.NewStatusService(db, fetchService, fetchService, cfg.DefaultSeason, logger)

	providers := make(map[string]bool)
	for name, credential := range cfg.ProviderCredentials() {
		providers[name] = credential != ""
	}

	handler := httpapi.NewHandler(syncService, queryService, statusService, httpapi.HandlerConfig{
		League:        cfg.League,
		DefaultSeason: cfg.DefaultSeason,
		Providers:     providers,
	}, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		SyncService:     syncService,
		QueryService:    queryService,
		StatusService:   statusService,
		HTTPServer:      httpServer,
		pprofServer:     pprofServer,
		stopPyroscope:   stopPyroscope,
		shutdownTracing: shutdownTracing,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	var firstErr error

	if err := observability.StopPprofServer(a.pprofServer, a.Logger, 5*time.Second); err != nil {
		firstErr = err
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.stopPyroscope != nil {
		if err := a.stopPyroscope(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DatabaseURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DatabaseURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// newFetchService builds every source adapter regardless of credentials.
// Unconfigured sources stay in the fallback chain and report themselves as
// skipped, the diagnostics surface lists them either way.
func newFetchService(cfg *config.Config, logger *logging.Logger) *usecase.FetchService {
	footballData := footballdata.NewClient(footballdata.ClientConfig{
		Token:   cfg.FootballDataToken,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	apiFootball := apifootball.NewClient(apifootball.ClientConfig{
		APIKey:  cfg.APIFootballKey,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	footyStats := footystats.NewClient(footystats.ClientConfig{
		APIKey:  cfg.FootyStatsKey,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})

	sources := []usecase.SeasonSource{footballData, apiFootball, footyStats}

	return usecase.NewFetchService(sources, footballData, usecase.FetchServiceConfig{
		RequestSpacing: cfg.RequestSpacing,
		SeasonPause:    cfg.SeasonPause,
	}, logger)
}

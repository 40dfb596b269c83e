package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitchsync/pitchsync/internal/platform/logging"
)

type AppEnv string

const (
	EnvDev   AppEnv = "dev"
	EnvStage AppEnv = "stage"
	EnvProd  AppEnv = "prod"
)

// Config carries every tunable the process reads from the environment.
// Load reads a .env file first when one exists, so local runs need no
// exported shell state.
type Config struct {
	AppEnv   AppEnv
	HTTPPort int
	LogLevel logging.Level

	DatabaseURL string

	// Provider credentials. An empty value leaves that source unconfigured
	// and the fetch orchestrator skips it.
	FootballDataToken string
	APIFootballKey    string
	FootyStatsKey     string

	League        string
	DefaultSeason string

	// RequestSpacing is the minimum gap between calls to a rate-limited
	// source; SeasonPause is the extra settle time between seasons in a
	// bulk fetch.
	RequestSpacing time.Duration
	SeasonPause    time.Duration
	HTTPTimeout    time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	CORSAllowedOrigins []string

	PprofEnabled bool
	PprofPort    int

	PyroscopeEnabled       bool
	PyroscopeServerAddress string

	UptraceEnabled bool
	UptraceDSN     string

	ServiceName    string
	ServiceVersion string
}

func Load() (*Config, error) {
	// Missing .env is fine, real deployments export env directly.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   parseAppEnv(getEnv("APP_ENV", "dev")),
		HTTPPort: getEnvAsInt("HTTP_PORT", 8080),
		LogLevel: logging.ParseLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		FootballDataToken: getEnv("FOOTBALLDATA_API_TOKEN", ""),
		APIFootballKey:    getEnv("APIFOOTBALL_API_KEY", ""),
		FootyStatsKey:     getEnv("FOOTYSTATS_API_KEY", ""),

		League:        getEnv("LEAGUE", "Premier League"),
		DefaultSeason: getEnv("DEFAULT_SEASON", "2024"),

		RequestSpacing: getEnvAsDuration("REQUEST_SPACING", 6*time.Second),
		SeasonPause:    getEnvAsDuration("SEASON_PAUSE", 2*time.Second),
		HTTPTimeout:    getEnvAsDuration("PROVIDER_HTTP_TIMEOUT", 30*time.Second),

		ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Minute),
		ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		PprofEnabled: getEnvAsBool("PPROF_ENABLED", false),
		PprofPort:    getEnvAsInt("PPROF_PORT", 6060),

		PyroscopeEnabled:       getEnvAsBool("PYROSCOPE_ENABLED", false),
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),

		UptraceEnabled: getEnvAsBool("UPTRACE_ENABLED", false),
		UptraceDSN:     getEnv("UPTRACE_DSN", ""),

		ServiceName:    getEnv("SERVICE_NAME", "pitchsync"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.PyroscopeEnabled && c.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	return nil
}

// ProviderCredentials maps source name to the credential value, empty when
// unset. Used by the config inspection endpoint with values masked.
func (c *Config) ProviderCredentials() map[string]string {
	return map[string]string{
		"football-data": c.FootballDataToken,
		"api-football":  c.APIFootballKey,
		"footystats":    c.FootyStatsKey,
	}
}

func parseAppEnv(value string) AppEnv {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "prod", "production":
		return EnvProd
	case "stage", "staging":
		return EnvStage
	default:
		return EnvDev
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

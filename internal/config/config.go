// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the bot credential, store and search-index connection details,
// channel identifiers, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// adminIDs is the fixed operator allow-list. Deliberately compiled in and not
// configurable through the environment.
var adminIDs = []int64{7263519581}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-media-bot")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// TelegramConfig defines the chat transport and channel identifiers.
type TelegramConfig struct {
	BotToken        string        // BOT_TOKEN (required)
	PollTimeout     time.Duration // long-poll timeout on the update feed
	LibraryChannel  int64         // LIBRARY_CHANNEL_ID (the -100... form)
	LibraryUsername string        // LIBRARY_CHANNEL_USERNAME (without @)
	JoinChannel     string        // JOIN_CHANNEL_USERNAME (without @)
	JoinGroup       string        // JOIN_GROUP_USERNAME (without @)
	AdminIDs        []int64       // fixed operator allow-list
}

// SearchConfig defines the hosted search index credentials.
type SearchConfig struct {
	AppID     string // ALGOLIA_APP_ID (required)
	APIKey    string // ALGOLIA_API_KEY (required)
	IndexName string // ALGOLIA_INDEX_NAME
}

// Config holds all configuration values for the application.
type Config struct {
	// Health server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Chat transport
	Telegram TelegramConfig

	// Catalog store
	DatabaseURL string // DATABASE_URL (required; postgres:// DSN or sqlite file path)

	// Search index
	Search SearchConfig

	// Throttling
	SearchCooldown time.Duration // min gap between queries per user
	BroadcastDelay time.Duration // inter-send delay during broadcast fan-out

	// Startup dependency retry
	InitAttempts int           // bounded retry attempts for store/index init
	InitBackoff  time.Duration // base delay, doubled per attempt

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// IsAdmin reports whether id is on the fixed operator allow-list.
func (c Config) IsAdmin(id int64) bool {
	for _, a := range c.Telegram.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Health server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Chat transport
		Telegram: TelegramConfig{
			BotToken:        getenv("BOT_TOKEN", ""),
			PollTimeout:     getdur("POLL_TIMEOUT", 60*time.Second),
			LibraryChannel:  getint64("LIBRARY_CHANNEL_ID", -1003138949015),
			LibraryUsername: strings.TrimPrefix(getenv("LIBRARY_CHANNEL_USERNAME", "MOVIEMAZA19"), "@"),
			JoinChannel:     strings.TrimPrefix(getenv("JOIN_CHANNEL_USERNAME", "MOVIEMAZASU"), "@"),
			JoinGroup:       strings.TrimPrefix(getenv("JOIN_GROUP_USERNAME", "THEGREATMOVIESL9"), "@"),
			AdminIDs:        adminIDs,
		},

		// Catalog store
		DatabaseURL: getenv("DATABASE_URL", ""),

		// Search index
		Search: SearchConfig{
			AppID:     getenv("ALGOLIA_APP_ID", ""),
			APIKey:    getenv("ALGOLIA_API_KEY", ""),
			IndexName: getenv("ALGOLIA_INDEX_NAME", "Media_index"),
		},

		// Throttling
		SearchCooldown: time.Duration(getint("RATE_LIMIT_SECONDS", 1)) * time.Second,
		BroadcastDelay: time.Duration(getint("BROADCAST_DELAY_MS", 50)) * time.Millisecond,

		// Startup dependency retry
		InitAttempts: getint("INIT_RETRY_ATTEMPTS", 5),
		InitBackoff:  getdur("INIT_RETRY_BASE", 2*time.Second),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-media-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.Telegram.BotToken) == "" {
		return cfg, errors.New("BOT_TOKEN must not be empty")
	}
	if cfg.Telegram.PollTimeout <= 0 {
		return cfg, errors.New("POLL_TIMEOUT must be > 0")
	}
	if cfg.Telegram.LibraryChannel >= 0 {
		return cfg, errors.New("LIBRARY_CHANNEL_ID must be a negative channel identifier")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, errors.New("DATABASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.Search.AppID) == "" {
		return cfg, errors.New("ALGOLIA_APP_ID must not be empty")
	}
	if strings.TrimSpace(cfg.Search.APIKey) == "" {
		return cfg, errors.New("ALGOLIA_API_KEY must not be empty")
	}
	if strings.TrimSpace(cfg.Search.IndexName) == "" {
		return cfg, errors.New("ALGOLIA_INDEX_NAME must not be empty")
	}
	if cfg.SearchCooldown <= 0 {
		return cfg, errors.New("RATE_LIMIT_SECONDS must be >= 1")
	}
	if cfg.BroadcastDelay < 0 {
		return cfg, errors.New("BROADCAST_DELAY_MS must be >= 0")
	}
	if cfg.InitAttempts < 1 {
		return cfg, errors.New("INIT_RETRY_ATTEMPTS must be >= 1")
	}
	if cfg.InitBackoff <= 0 {
		return cfg, errors.New("INIT_RETRY_BASE must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

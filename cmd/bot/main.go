// Command bot runs the media catalog Telegram bot: the long-polling chat
// front-end, the channel-post ingestion path, and the HTTP health surface.
//
// Startup policy: missing required configuration fails the process fast.
// Unreachable dependencies do not — the store and the search index are
// initialized with bounded exponential-backoff retries, and exhausting them
// degrades the process into a mode where dependent commands fail
// individually while the health endpoint stays up and reports the outage.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-media-bot/internal/bot"
	"github.com/tbourn/go-media-bot/internal/config"
	"github.com/tbourn/go-media-bot/internal/domain"
	httpapi "github.com/tbourn/go-media-bot/internal/http"
	"github.com/tbourn/go-media-bot/internal/observability"
	"github.com/tbourn/go-media-bot/internal/repo"
	"github.com/tbourn/go-media-bot/internal/search"
	"github.com/tbourn/go-media-bot/internal/services"
	"github.com/tbourn/go-media-bot/internal/state"
	"github.com/tbourn/go-media-bot/internal/sysutil"
)

const version = "1.0.0"

// repoShim adapts the repository free functions to the services.MediaRepo
// interface expected by the IngestService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type repoShim struct{}

// CreateMedia proxies repo.CreateMedia.
func (repoShim) CreateMedia(ctx context.Context, db *gorm.DB, title string, postID int64) (*domain.MediaRecord, error) {
	return repo.CreateMedia(ctx, db, title, postID)
}

// FindMediaByPostID proxies repo.FindMediaByPostID.
func (repoShim) FindMediaByPostID(ctx context.Context, db *gorm.DB, postID int64) (*domain.MediaRecord, error) {
	return repo.FindMediaByPostID(ctx, db, postID)
}

// CountMedia proxies repo.CountMedia.
func (repoShim) CountMedia(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountMedia(ctx, db)
}

// CatalogStats proxies repo.CatalogStats.
func (repoShim) CatalogStats(ctx context.Context, db *gorm.DB) (int64, int64, error) {
	return repo.CatalogStats(ctx, db)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; the real environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}

	st := state.New()

	// Dependency init with bounded retry; exhaustion degrades, never aborts.
	db := initStore(cfg, st)
	idx := initIndex(cfg, st)

	cooldown := services.NewCooldown(cfg.SearchCooldown)
	searchSvc := services.NewSearchService(idx, cooldown, st.SearchReady)
	ingestSvc := services.NewIngestService(db, repoShim{}, idx, st.DBReady)
	broadcastSvc := services.NewBroadcastService(cfg.BroadcastDelay)

	// Health surface on its own goroutine.
	r := gin.New()
	httpapi.RegisterRoutes(r, st, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("health server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server exited")
		}
	}()

	b, err := bot.New(cfg, st, searchSvc, ingestSvc, broadcastSvc)
	if err != nil {
		// Stay alive for health checks; the poller never comes up.
		log.Error().Err(err).Msg("telegram connect failed; running health surface only")
		<-ctx.Done()
		return shutdown(srv, otelShutdown)
	}

	go func() {
		log.Info().Str("bot", b.Username()).Msg("long polling started")
		b.Start()
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	b.Stop()
	return shutdown(srv, otelShutdown)
}

// shutdown drains the HTTP server and flushes traces within a bounded grace
// period.
func shutdown(srv *http.Server, otelShutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("health server shutdown")
	}
	if err := otelShutdown(ctx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	return nil
}

// initStore opens and migrates the catalog store with bounded retries,
// flipping the readiness flag on success. The returned handle is nil when
// every attempt failed.
func initStore(cfg config.Config, st *state.State) *gorm.DB {
	var db *gorm.DB
	ok := withRetry("catalog store", cfg.InitAttempts, cfg.InitBackoff, func() error {
		var err error
		db, err = repo.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Ping(pingCtx, db); err != nil {
			return err
		}
		return repo.AutoMigrate(db)
	})
	if !ok {
		log.Warn().Msg("catalog store unavailable; dependent commands will fail individually")
		return nil
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		log.Warn().Err(err).Msg("gorm tracing plugin not installed")
	}
	st.SetDBReady(true)
	return db
}

// initIndex connects the hosted search index and verifies reachability with
// bounded retries. The client itself is always returned; only the readiness
// flag depends on the ping outcome.
func initIndex(cfg config.Config, st *state.State) *search.AlgoliaIndex {
	idx := search.NewAlgolia(cfg.Search.AppID, cfg.Search.APIKey, cfg.Search.IndexName)
	ok := withRetry("search index", cfg.InitAttempts, cfg.InitBackoff, func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return idx.Ping(pingCtx)
	})
	if !ok {
		log.Warn().Msg("search index unavailable; queries will fail individually")
		return idx
	}
	st.SetSearchReady(true)
	return idx
}

// withRetry runs fn up to attempts times with exponential backoff, doubling
// the base delay after every failure.
func withRetry(name string, attempts int, base time.Duration, fn func() error) bool {
	delay := base
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			log.Info().Str("dependency", name).Int("attempt", attempt).Msg("dependency initialized")
			return true
		}
		log.Error().Err(err).
			Str("dependency", name).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("dependency init failed")
		if attempt < attempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return false
}

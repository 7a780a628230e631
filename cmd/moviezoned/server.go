package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	v1 "github.com/moviezone/moviezone/internal/api/v1"
	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/internal/config"
	"github.com/moviezone/moviezone/internal/events"
	"github.com/moviezone/moviezone/internal/ingest"
	"github.com/moviezone/moviezone/internal/migrations"
	"github.com/moviezone/moviezone/internal/notify"
	"github.com/moviezone/moviezone/internal/relay"
	"github.com/moviezone/moviezone/pkg/telegram"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	// A local .env supplies the ${VAR} secrets referenced by the config.
	_ = godotenv.Load()

	if configPath == "" {
		discovered, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = discovered
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Stores (always created) ===
	catalogStore := catalog.NewStore(db)
	eventLog := events.NewLog(db)

	// === Clients (optional - nil if not configured) ===
	var botClient *telegram.Client
	if cfg.Telegram.BotToken != "" {
		opts := []telegram.Option{telegram.WithLogger(logger)}
		if cfg.Telegram.FileBaseURL != "" {
			opts = append(opts, telegram.WithFileBaseURL(cfg.Telegram.FileBaseURL))
		}
		botClient = telegram.New(cfg.Telegram.BotToken, opts...)
	}

	// === Services ===
	var announcer *notify.Announcer
	if botClient != nil && len(cfg.Telegram.AnnounceChatIDs) > 0 {
		announcer = notify.New(botClient, cfg.Telegram.AnnounceChatIDs, cfg.Server.PublicURL,
			notify.WithLogger(logger))
	}

	var ingestor *ingest.Ingestor
	if botClient != nil {
		var notifier ingest.Notifier
		if announcer != nil {
			notifier = announcer
		}
		ingestor = ingest.New(catalogStore, botClient, notifier, eventLog, ingest.Config{
			DefaultLanguage: cfg.Catalog.DefaultLanguage,
			DefaultCategory: cfg.Catalog.DefaultCategory,
		}, logger)
	}

	var relayOpts []relay.Option
	if cfg.Relay.UpstreamTimeoutSeconds > 0 {
		relayOpts = append(relayOpts, relay.WithTimeout(time.Duration(cfg.Relay.UpstreamTimeoutSeconds)*time.Second))
	}
	streamRelay := relay.New(catalogStore, logger, relayOpts...)

	// === HTTP Setup ===
	deps := v1.ServerDeps{
		Catalog:       catalogStore,
		EventLog:      eventLog,
		Relay:         streamRelay,
		WebhookSecret: cfg.Telegram.WebhookSecret,
	}
	if ingestor != nil {
		deps.Webhook = ingestor.Webhook()
	}
	if cfg.Admin.Username != "" {
		deps.Admin = &v1.AdminCredentials{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
		}
		deps.Sessions = v1.NewSessionManager(v1.DefaultSessionTTL)
	}

	apiV1, err := v1.New(deps, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	mux := http.NewServeMux()
	apiV1.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"ingestion", ingestor != nil,
		"announcements", announcer != nil,
		"admin", cfg.Admin.Username != "",
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if ingestor != nil {
			// Let detached announcements for already-acked uploads finish.
			ingestor.Wait()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

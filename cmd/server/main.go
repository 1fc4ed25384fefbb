package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "connect/internal/adapters/email"
	"connect/internal/adapters/genai"
	web "connect/internal/adapters/http"
	"connect/internal/adapters/http/middleware"
	"connect/internal/adapters/http/perf"
	"connect/internal/adapters/storage"
	accountStore "connect/internal/adapters/storage/account"
	clubStore "connect/internal/adapters/storage/club"
	eventStore "connect/internal/adapters/storage/event"
	notificationStore "connect/internal/adapters/storage/notification"
	postStore "connect/internal/adapters/storage/post"
	profileStore "connect/internal/adapters/storage/profile"
	"connect/internal/adapters/ws"
	"connect/internal/application/orchestrators"
	"connect/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// WAL mode, foreign keys and busy timeout
	dbPath := cfg.Database.Path
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Query timing feeds the same collector as request timing
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.Database.SlowQuery)

	stores := &web.Stores{
		AccountStore:      accountStore.NewSQLiteStore(timedDB),
		ProfileStore:      profileStore.NewSQLiteStore(timedDB),
		ClubStore:         clubStore.NewSQLiteStore(timedDB),
		EventStore:        eventStore.NewSQLiteStore(timedDB),
		PostStore:         postStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
	}

	if cfg.Seed {
		err := orchestrators.ExecuteSeedSampleData(ctx, orchestrators.SeedSampleDataDeps{
			AccountStore: stores.AccountStore,
			ProfileStore: stores.ProfileStore,
			ClubStore:    stores.ClubStore,
			EventStore:   stores.EventStore,
			PostStore:    stores.PostStore,
			Now:          time.Now,
		})
		if err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
	}

	var sender emailPkg.Sender
	if cfg.Email.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Println("WARNING: CONNECT_RESEND_KEY is not set, password reset email is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set CONNECT_RESEND_KEY for real delivery)")
		}
	}

	copywriter, err := genai.New(ctx, cfg.GenAI.APIKey, genai.Options{
		PerMinute: cfg.GenAI.PerMinute,
		Timeout:   cfg.GenAI.Timeout,
		Collector: collector,
	})
	if err != nil {
		log.Fatalf("failed to start copywriter: %v", err)
	}

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		log.Fatalf("invalid csrf key: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	limiter := middleware.NewRateLimiter(cfg.Server.RatePerSecond, cfg.Server.RateBurst)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Cleanup()
			}
		}
	}()

	mux := web.NewMux(web.Options{
		Stores:         stores,
		Collector:      collector,
		Sender:         sender,
		Copywriter:     copywriter,
		Hub:            hub,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AccessTTL:      cfg.Auth.AccessTTL,
		CSRFKey:        csrfKey,
		PublicURL:      cfg.Server.PublicURL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Production:     cfg.IsProduction(),
		Limiter:        limiter,
		SlowRequest:    cfg.Server.SlowRequest,
		ExposePerf:     !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server_shutdown_failed", "error", err)
		}
	}()

	log.Printf("Connect %s starting on %s (env=%s, schema=%d)", version, cfg.Server.Addr, cfg.Env, storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}

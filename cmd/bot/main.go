package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/raselahmed/eee24bot/internal/bot"
	"github.com/raselahmed/eee24bot/internal/config"
	"github.com/raselahmed/eee24bot/internal/dialog"
	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
	"github.com/raselahmed/eee24bot/internal/infra/db"
	httpx "github.com/raselahmed/eee24bot/internal/infra/http"
	"github.com/raselahmed/eee24bot/internal/infra/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	membersRepo := members.NewRepo(pool)
	subsRepo := submissions.NewRepo(pool)
	statesRepo := dialog.NewRepo(pool)

	// the configured super admin is forced back into the admin role on
	// every start, whatever the stored row says
	if err := membersRepo.EnsureSuperAdmin(ctx, cfg.Telegram.AdminChatID); err != nil {
		log.Error("super admin bootstrap failed", "err", err)
		return
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram connected", "account", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log,
		membersRepo, subsRepo, statesRepo,
		cfg.Telegram.AdminChatID, cfg.Community.CurrentBatch, cfg.Community.ChatLink,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute)

	runErr := b.Run(ctx, cfg.Telegram.PollTimeoutSec)
	if runErr != nil && runErr != context.Canceled {
		log.Error("bot stopped", "err", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

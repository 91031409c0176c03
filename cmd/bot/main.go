package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/otryad/join-bot/internal/admin"
	"github.com/otryad/join-bot/internal/api"
	tgbot "github.com/otryad/join-bot/internal/bot"
	"github.com/otryad/join-bot/internal/config"
	"github.com/otryad/join-bot/internal/dialog"
	"github.com/otryad/join-bot/internal/domain/admins"
	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/membership"
	"github.com/otryad/join-bot/internal/domain/users"
	"github.com/otryad/join-bot/internal/infra/db"
	"github.com/otryad/join-bot/internal/infra/httpx"
	"github.com/otryad/join-bot/internal/infra/logger"
	"github.com/otryad/join-bot/internal/store"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

// ensurePanelAdmin создаёт учётку веб-панели из окружения, если её ещё нет.
func ensurePanelAdmin(ctx context.Context, pool store.Beginner, repo *admins.Repo, log *slog.Logger) {
	username := os.Getenv("APP_ADMIN_USERNAME")
	password := os.Getenv("APP_ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}
	err := store.Run(ctx, pool, func(ctx context.Context) error {
		existing, err := repo.GetByUsername(ctx, username)
		if err != nil || existing != nil {
			return err
		}
		_, err = repo.Create(ctx, username, password)
		return err
	})
	if err != nil {
		log.Error("seed panel admin failed", "err", err)
		return
	}
	log.Info("panel admin ensured", "username", username)
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

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "username", botAPI.Self.UserName)

	usersRepo := users.NewRepo()
	appsRepo := applications.NewRepo()
	adminsRepo := admins.NewRepo()
	statesRepo := dialog.NewRepo()

	ensurePanelAdmin(ctx, pool, adminsRepo, log)

	notifier := tgbot.NewNotifier(botAPI, log, cfg.Telegram.AdminChatID)
	flow := membership.NewService(log, appsRepo, usersRepo, notifier)

	b := tgbot.New(botAPI, log, pool, flow, usersRepo, appsRepo, statesRepo,
		cfg.Telegram.AdminChatID, cfg.Telegram.WebAppURL)

	opts := httpx.Options{
		Metrics: cfg.Metrics.Enabled,
		API:     api.New(log, pool, cfg.Telegram.Token, flow, usersRepo).Routes(),
		Admin: admin.NewPanel(log, pool, flow, usersRepo, appsRepo, adminsRepo,
			time.Duration(cfg.Admin.SessionTTLMinutes)*time.Minute).Routes(),
	}
	if cfg.Telegram.Mode == "webhook" {
		opts.Webhook = tgbot.NewWebhookHandler(b, log, cfg.Telegram.Token, cfg.Telegram.WebhookSecret)
	}

	srv := httpx.New(cfg.HTTP.Addr, opts)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Telegram.Mode == "webhook" {
		if err := b.SetWebhook(cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Error("set webhook failed", "err", err)
			return
		}
		log.Info("webhook set", "url", cfg.Telegram.WebhookURL)
		<-ctx.Done()
		if err := b.DeleteWebhook(); err != nil {
			log.Error("delete webhook failed", "err", err)
		}
	} else {
		go func() {
			if err := b.Run(ctx, 30); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("bot stopped", "err", err)
			}
		}()
		log.Info("bot polling started")
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

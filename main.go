package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/numeros/assets"
	"github.com/robalobadob/numeros/internal/common/clock"
	"github.com/robalobadob/numeros/internal/common/uuid"
	"github.com/robalobadob/numeros/internal/config"
	"github.com/robalobadob/numeros/internal/delivery/telegram"
	"github.com/robalobadob/numeros/internal/httpserver"
	"github.com/robalobadob/numeros/internal/janitor"
	"github.com/robalobadob/numeros/internal/logger"
	"github.com/robalobadob/numeros/internal/quiz"
	"github.com/robalobadob/numeros/internal/session"
	"github.com/robalobadob/numeros/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
	}
	defer closeStore()

	clk := &clock.DefaultClock{}
	svc, err := quiz.New(&quiz.Config{
		Store:     st,
		Clock:     clk,
		UUID:      uuid.New(),
		DailySalt: cfg.DailySalt,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create quiz service")
	}

	page, err := assets.PageTemplate()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse page template")
	}

	srv := httpserver.New(&httpserver.Config{
		Quiz:         svc,
		Tokens:       session.NewTokens(cfg.Session.Secret, cfg.Session.TTL),
		Page:         page,
		CookieName:   cfg.Session.CookieName,
		Secure:       cfg.Production(),
		ClientOrigin: cfg.ClientOrigin,
		Clock:        clk,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting numeros")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	// Redis expires keys itself; the other stores need sweeping.
	if sw, ok := st.(store.Sweeper); ok {
		j, err := janitor.New(cfg.SweepSpec, sw, clk, cfg.Session.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule janitor")
		}
		g.Go(func() error { return j.Run(ctx) })
	}

	if cfg.Telegram.Token != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create telegram bot")
		}
		bot.Debug = cfg.Telegram.Debug
		if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
			log.Warn().Err(err).Msg("failed to set bot commands")
		}
		log.Info().Str("account", bot.Self.UserName).Msg("telegram bot authorized")

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := bot.GetUpdatesChan(u)
		handler := telegram.NewHandler(bot, svc)
		g.Go(func() error {
			defer bot.StopReceivingUpdates()
			return handler.Run(ctx, updates)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("shutdown complete")
}

// openStore builds the configured session store and its cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		st, err := store.NewRedis(pingCtx, &store.RedisConfig{RedisClient: client, TTL: cfg.Session.TTL})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return st, func() { _ = client.Close() }, nil
	case config.StoreSQLite:
		st, err := store.NewSQLite(cfg.SQLite.Path, assets.FS)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/codon-quiz-bot/internal/app"
	"github.com/aliskhannn/codon-quiz-bot/internal/config"
	"github.com/aliskhannn/codon-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/codon-quiz-bot/internal/delivery/web"
	"github.com/aliskhannn/codon-quiz-bot/internal/logger"
	"github.com/aliskhannn/codon-quiz-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, lg, 0)
	if err != nil {
		lg.Fatal("failed to build app", zap.Error(err))
	}
	defer a.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create telegram bot", zap.Error(err))
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(
		bot,
		lg,
		a.Quiz,
		a.Stats,
		cfg.Telegram.RateLimitRPS,
		cfg.Telegram.RateLimitBurst,
	)
	sweeper := service.NewSessionSweeper(a.Store, cfg.Session.TTL, cfg.Session.SweepSchedule, lg).
		WithEvictor("telegram", handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(gctx) })

	if cfg.HTTP.Addr != "" {
		srv := web.NewServer(a.Quiz, a.Stats, lg, web.Options{
			Addr:           cfg.HTTP.Addr,
			IsProduction:   cfg.IsProduction(),
			CookieMaxAge:   cfg.HTTP.CookieMaxAge,
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
		})
		sweeper.WithEvictor("http", srv)
		g.Go(func() error { return srv.Run(gctx) })
	}

	g.Go(func() error { return sweeper.Start(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("shutdown with error", zap.Error(err))
		return
	}

	lg.Info("shutdown complete")
}

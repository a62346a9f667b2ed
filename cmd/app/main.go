// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework-status-bot/internal/config"
	"homework-status-bot/internal/domain/ports/adapter"
	"homework-status-bot/internal/infra/adapters/practicum"
	tele "homework-status-bot/internal/infra/adapters/telegram"
	httpapi "homework-status-bot/internal/infra/http"
	"homework-status-bot/internal/infra/logging"
	"homework-status-bot/internal/infra/metrics"
	red "homework-status-bot/internal/infra/redis"
	"homework-status-bot/internal/infra/sched"
	"homework-status-bot/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to optional YAML config file")
	devMode := flag.Bool("dev", false, "developer mode: console logs, messages are logged instead of sent")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Token check (fatal, no retry) ----
	if err := config.CheckTokens(cfg); err != nil {
		logger.Fatal().Err(err).Msg("startup aborted")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister(nil)
	metrics.SetBuildInfo(version, commit)

	// ---- Telegram ----
	var bot adapter.TelegramBotAdapter
	if cfg.Runtime.Dev {
		bot = tele.NewNoopBotAdapter(logger)
	} else {
		// no network here: the bot authenticates on its first send
		bot, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
	}
	notifier := usecase.NewNotifyUseCase(bot, cfg.Bot.ChatID, logger)

	// ---- Practicum API ----
	api, err := practicum.NewClient(&cfg.Practicum, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("practicum client")
	}
	logger.Info().
		Str("endpoint", cfg.Practicum.Endpoint).
		Str("token", logging.Redact(cfg.Practicum.Token, cfg.Runtime.Dev)).
		Str("chat_id", cfg.Bot.ChatID).
		Msg("practicum client ready")

	poller := sched.NewStatusPoller(&cfg.Poller, api, notifier, logger)

	// ---- Redis lease (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis disabled; polling without lease")
		} else {
			defer redisClient.Close()
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if err := redisClient.Ping(pingCtx); err != nil {
				logger.Warn().Err(err).Msg("redis unreachable; cycles poll without lease until it recovers")
			}
			cancel()
			poller.WithLease(red.NewLocker(redisClient), cfg.Redis.LockKey, cfg.Redis.LockTTL)
		}
	}

	// ---- Admin server (optional) ----
	if cfg.Admin.Port > 0 {
		srv := httpapi.NewServer(&cfg.Admin, metrics.Handler(), logger)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error().Err(err).Msg("admin server stopped")
			}
		}()
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shCtx)
		}()
	}

	_ = poller.Run(ctx)
	logger.Info().Msg("shutdown complete")
}

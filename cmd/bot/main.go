package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"horda-bot/internal/bot"
	"horda-bot/internal/config"
	"horda-bot/internal/database"
	"horda-bot/internal/ledger"
	"horda-bot/internal/throttle"
	"horda-bot/internal/worker"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if cfg.BotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.AdminID == 0 {
		log.Warn().Msg("ADMIN_ID is not set, admin commands are disabled")
	}

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}

	// Redis backs the command throttle when configured; otherwise an
	// in-memory limiter with a periodic eviction sweep is used.
	var limiter throttle.Limiter
	var sweeper *cron.Cron
	if cfg.RedisHost != "" {
		rdb, err := database.ConnectRedis(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to redis")
		}
		limiter = throttle.NewRedisLimiter(rdb, cfg.ThrottleWindow, log)
	} else {
		mem := throttle.NewMemoryLimiter(cfg.ThrottleWindow)
		limiter = mem

		sweeper = cron.New()
		if _, err := sweeper.AddFunc("@every 1m", mem.Evict); err != nil {
			log.Fatal().Err(err).Msg("could not schedule throttle eviction")
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	queue := ledger.NewQueue(cfg.NotifyQueueLen, log)
	lgr := ledger.New(db, queue, log)

	tgBot, err := bot.NewBot(cfg.BotToken, lgr, limiter, cfg.AdminID, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create bot")
	}

	notifier := worker.NewNotifier(tgBot.Instance, queue, log)
	go notifier.Run(ctx)

	log.Info().Msg("service started")
	if err := tgBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot stopped with error")
	}

	// Give the notifier a moment to drain on shutdown.
	time.Sleep(100 * time.Millisecond)
	log.Info().Msg("shutdown complete")
}

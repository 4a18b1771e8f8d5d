package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"darktower-backend/internal/chunkcache"
	"darktower-backend/internal/chunkstore"
	"darktower-backend/internal/config"
	"darktower-backend/internal/logging"
	"darktower-backend/internal/pubsub"
)

func main() {
	logging.InitLogger()

	configPath := flag.String("config", "config.yaml", "path to the service config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Uint64("seed", cfg.World.Seed).
		Int("width", cfg.World.Width).
		Int("height", cfg.World.Height).
		Msg("Starting World Service")

	svc := newService(cfg)

	// Chunk persistence backend.
	switch cfg.Store.Backend {
	case "file":
		svc.cache = chunkcache.NewWithStore(cfg.Cache.Capacity, chunkstore.NewFileStore(cfg.Store.Dir, cfg.World.Seed))
		log.Info().Str("dir", cfg.Store.Dir).Msg("Chunk store: filesystem")
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable; running in-memory only")
		} else {
			svc.cache = chunkcache.NewWithStore(cfg.Cache.Capacity, chunkstore.NewRedisStore(client, cfg.World.Seed))
			log.Info().Str("addr", cfg.Store.RedisAddr).Msg("Chunk store: redis")
		}
	}

	// Optional Postgres chronicle mirror.
	if cfg.Infra.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.Infra.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Postgres unavailable; chronicle stays in memory")
		} else {
			defer pool.Close()
			svc.attachChronicleStore(pool)
			log.Info().Msg("Chronicle mirror: postgres")
		}
	}

	// Optional NATS event publication.
	if cfg.Infra.NATSURL != "" {
		nc, err := nats.Connect(cfg.Infra.NATSURL)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable; events stay local")
		} else {
			defer nc.Close()
			svc.publisher = pubsub.NewEventPublisher(nc, svc.world.ID)
			log.Info().Str("url", cfg.Infra.NATSURL).Msg("Event publication: nats")
		}
	}

	// Background ticks on the cron schedule.
	scheduler := cron.New()
	if cfg.World.AutoTick {
		if _, err := scheduler.AddFunc(cfg.World.TickSchedule, svc.backgroundTick); err != nil {
			log.Warn().Err(err).Str("schedule", cfg.World.TickSchedule).Msg("Invalid tick schedule")
		} else {
			scheduler.Start()
			defer scheduler.Stop()
			log.Info().Str("schedule", cfg.World.TickSchedule).Msg("Background history ticks enabled")
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           svc.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

// metricsHandler exposes the Prometheus registry.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}

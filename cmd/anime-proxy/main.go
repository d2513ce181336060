// Command anime-proxy serves Jikan anime data as domain JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/anime"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/config"
	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.LoggerConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid Redis settings")
	}
	if redisOpts != nil {
		redisClient = redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", redisOpts.Addr).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		log.Info().Str("addr", redisOpts.Addr).Msg("Connected to Redis")
	}

	c, err := client.New(cfg.ClientConfig(redisClient))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Jikan client")
	}
	defer c.Close()

	repo := anime.NewRepository(jikan.NewAPI(c), cfg.RetryPolicy(), cfg.BatchConfig())
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(repo, redisClient, cfg.Pagination.PageSize, cfg.Timeout).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("base_url", cfg.BaseURL).
		Str("user_agent", cfg.UserAgent).
		Msg("Starting anime proxy")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

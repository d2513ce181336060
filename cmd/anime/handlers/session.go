// Package handlers implements the anime CLI commands.
//
// Each handler opens a session (config, logger, optional Redis, client,
// repository), observes the state streams of the repository and renders
// the terminal state as styled text or JSON.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sternrassler/jikan-client/pkg/anime"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/config"
	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/resource"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrCancelled is returned when a stream ends without a terminal state.
var ErrCancelled = errors.New("request cancelled")

// Options are the global CLI flags.
type Options struct {
	ConfigPath string
	LogLevel   string
	JSON       bool

	Out io.Writer
	Err io.Writer
}

// PageOptions select a page of a list command.
type PageOptions struct {
	Page  int
	Limit int
	All   bool
}

type session struct {
	cfg    *config.Config
	client *client.Client
	redis  *redis.Client
	repo   *anime.Repository
}

func openSession(ctx context.Context, opts Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = opts.Err
	logging.Setup(logCfg)

	s := &session{cfg: cfg}

	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		return nil, err
	}
	if redisOpts != nil {
		rc := redis.NewClient(redisOpts)
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", redisOpts.Addr).Msg("Redis unavailable, continuing without cache")
			rc.Close()
		} else {
			s.redis = rc
		}
	}

	c, err := client.New(cfg.ClientConfig(s.redis))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.client = c
	s.repo = anime.NewRepository(jikan.NewAPI(c), cfg.RetryPolicy(), cfg.BatchConfig())
	return s, nil
}

func (s *session) Close() {
	if s.client != nil {
		s.client.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}

// pageSize resolves the --limit flag against the configured page size.
func (s *session) pageSize(p PageOptions) int {
	if p.Limit > 0 {
		return p.Limit
	}
	return s.cfg.Pagination.PageSize
}

// await observes a stream until its terminal state. Retrying errors are
// reported on opts.Err; a terminal error is returned with the state message.
func await[T any](opts Options, ch <-chan resource.State[T]) (T, error) {
	var zero T
	interactive := isTerminal(opts.Err)

	for s := range ch {
		switch {
		case s.IsLoading():
			if interactive {
				fmt.Fprintln(opts.Err, dimStyle.Render("Loading…"))
			}
		case s.IsError() && s.Retrying:
			fmt.Fprintln(opts.Err, warnStyle.Render("! "+s.Message+" Retrying…"))
		case s.IsError():
			return zero, errors.New(s.Message)
		case s.IsSuccess():
			v, _ := s.Value()
			return v, nil
		}
	}
	return zero, ErrCancelled
}

// isTerminal reports whether w is a terminal. Writers that are not files never are.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && logging.IsTerminal(f)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

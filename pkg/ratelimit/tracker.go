package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	consecutive429Gauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jikan_rate_limit_consecutive_429",
		Help: "Number of 429 responses received since the last successful response",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jikan_rate_limit_blocks_total",
		Help: "Total number of requests rejected during a critical cooldown",
	})

	rateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jikan_rate_limit_throttles_total",
		Help: "Total number of requests held back until a cooldown passed",
	})
)

// ErrBlocked is returned when a request is rejected by the tracker.
var ErrBlocked = errors.New("request blocked: rate limit cooldown")

// Config holds tracker settings.
type Config struct {
	// DefaultCooldown applies when a 429 has no Retry-After header.
	DefaultCooldown time.Duration

	// MaxWait is the longest ShouldAllowRequest holds a request.
	MaxWait time.Duration
}

// Tracker monitors Jikan 429 responses and gates requests.
// Redis is optional; without it state is kept in process.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
	config Config

	mu    sync.Mutex
	local RateLimitState
}

// NewTracker creates a new rate limit tracker. redisClient may be nil.
func NewTracker(redisClient *redis.Client, cfg Config, logger zerolog.Logger) *Tracker {
	if cfg.DefaultCooldown <= 0 {
		cfg.DefaultCooldown = DefaultCooldown
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	t := &Tracker{
		redis:  redisClient,
		logger: logger,
		config: cfg,
	}
	t.local.LastUpdate = time.Now()
	t.local.UpdateHealth()
	return t
}

// GetState retrieves the current rate limit state.
// Returns a healthy state if nothing has been recorded yet.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		state := t.local
		return &state, nil
	}

	cooldownUnixMilli, err := t.redis.Get(ctx, RedisKeyCooldownUntil).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get cooldown until: %w", err)
	}

	consecutive, err := t.redis.Get(ctx, RedisKeyConsecutive429).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get consecutive 429: %w", err)
	}

	lastUpdateStr, err := t.redis.Get(ctx, RedisKeyLastUpdate).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get last update: %w", err)
	}

	if err == redis.Nil {
		t.logger.Debug().Msg("No rate limit state in Redis, returning default healthy state")
		return &RateLimitState{
			LastUpdate: time.Now(),
			IsHealthy:  true,
		}, nil
	}

	var lastUpdate time.Time
	if lastUpdateStr != "" {
		if err := json.Unmarshal([]byte(lastUpdateStr), &lastUpdate); err != nil {
			return nil, fmt.Errorf("parse last update: %w", err)
		}
	}

	state := &RateLimitState{
		Consecutive429: consecutive,
		LastUpdate:     lastUpdate,
	}
	if cooldownUnixMilli > 0 {
		state.CooldownUntil = time.UnixMilli(cooldownUnixMilli)
	}
	state.UpdateHealth()

	return state, nil
}

// UpdateFromResponse records the outcome of a response.
// A 429 starts (or extends) a cooldown; any other status clears the 429 streak.
func (t *Tracker) UpdateFromResponse(ctx context.Context, status int, headers http.Header) error {
	now := time.Now()

	current, err := t.GetState(ctx)
	if err != nil {
		return err
	}

	state := RateLimitState{LastUpdate: now}
	if status == http.StatusTooManyRequests {
		cooldown := retry.ParseRetryAfter(headers)
		if cooldown <= 0 {
			cooldown = t.config.DefaultCooldown
		}
		state.Consecutive429 = current.Consecutive429 + 1
		state.CooldownUntil = now.Add(cooldown)
		if current.CooldownUntil.After(state.CooldownUntil) {
			state.CooldownUntil = current.CooldownUntil
		}
	} else if current.Consecutive429 == 0 && current.CooldownUntil.IsZero() {
		return nil
	}
	state.UpdateHealth()

	if err := t.store(ctx, state); err != nil {
		return err
	}

	consecutive429Gauge.Set(float64(state.Consecutive429))

	switch {
	case state.NeedsCriticalBlock():
		t.logger.Error().
			Int("consecutive_429", state.Consecutive429).
			Time("cooldown_until", state.CooldownUntil).
			Msg("Jikan rate limit CRITICAL - requests will be blocked")
	case state.NeedsThrottling():
		t.logger.Warn().
			Int("consecutive_429", state.Consecutive429).
			Time("cooldown_until", state.CooldownUntil).
			Msg("Jikan rate limit hit - requests will be held")
	default:
		t.logger.Info().Msg("Jikan rate limit state recovered")
	}

	return nil
}

func (t *Tracker) store(ctx context.Context, state RateLimitState) error {
	if t.redis == nil {
		t.mu.Lock()
		t.local = state
		t.mu.Unlock()
		return nil
	}

	lastUpdateJSON, err := json.Marshal(state.LastUpdate)
	if err != nil {
		return fmt.Errorf("marshal last update: %w", err)
	}

	var cooldown int64
	if !state.CooldownUntil.IsZero() {
		cooldown = state.CooldownUntil.UnixMilli()
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyCooldownUntil, strconv.FormatInt(cooldown, 10), 0)
	pipe.Set(ctx, RedisKeyConsecutive429, state.Consecutive429, 0)
	pipe.Set(ctx, RedisKeyLastUpdate, lastUpdateJSON, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}
	return nil
}

// ShouldAllowRequest checks whether a request may be sent now.
// During a cooldown it waits for the window to pass, unless the wait would
// exceed MaxWait or the state is critical, in which case it returns false.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get rate limit state: %w", err)
	}

	if state.NeedsCriticalBlock() {
		t.logger.Error().
			Int("consecutive_429", state.Consecutive429).
			Dur("wait_duration", state.TimeUntilReset()).
			Msg("Jikan rate limit critical - blocking request")
		rateLimitBlocksTotal.Inc()
		return false, nil
	}

	if state.NeedsThrottling() {
		wait := state.TimeUntilReset()
		if wait > t.config.MaxWait {
			t.logger.Warn().
				Dur("wait_duration", wait).
				Dur("max_wait", t.config.MaxWait).
				Msg("Cooldown longer than max wait - blocking request")
			rateLimitBlocksTotal.Inc()
			return false, nil
		}

		t.logger.Warn().
			Dur("wait_duration", wait).
			Msg("Jikan rate limit cooldown - holding request")
		rateLimitThrottlesTotal.Inc()

		if err := retry.Sleep(ctx, wait); err != nil {
			return false, err
		}
	}

	return true, nil
}

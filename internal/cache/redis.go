// Package cache wires the Redis client that backs session revocation, OAuth
// state and application event fan-out.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"guildapply/internal/observability"

	"github.com/redis/go-redis/v9"
)

// instrumentHook counts failed commands and traces each one. redis.Nil is a
// cache miss, not a failure.
type instrumentHook struct{}

func (instrumentHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (instrumentHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := observability.StartRedis(ctx, cmd.Name())
		defer span.End()
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
			observability.RecordError(span, err)
		}
		return err
	}
}

func (instrumentHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Instrument attaches metrics and tracing to c and returns it.
func Instrument(c *redis.Client) *redis.Client {
	c.AddHook(instrumentHook{})
	return c
}

// Connect accepts a redis:// URL or a bare host:port and pings the server.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	c := Instrument(redis.NewClient(opts))
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return c, nil
}

// ConnectOptional is Connect for callers that can run without Redis. Failures
// are logged and yield a nil client: OAuth state checks, session revocation
// and event fan-out are then skipped.
func ConnectOptional(ctx context.Context, addr string) *redis.Client {
	c, err := Connect(ctx, addr)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "continuing without redis", slog.String("error", err.Error()))
		return nil
	}
	observability.GlobalLogger.InfoContext(ctx, "redis connected", slog.String("addr", c.Options().Addr))
	return c
}

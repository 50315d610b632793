// Package notifications delivers application review outcomes to Discord
// webhooks and to the Redis event channel.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/redis/go-redis/v9"

	"guildapply/internal/cache"
	"guildapply/internal/observability"
)

// EventKind names what happened to an application.
type EventKind string

const (
	EventAccepted EventKind = "application.accepted"
	EventRejected EventKind = "application.rejected"
)

// Event is the payload handed to every Notifier.
type Event struct {
	Kind            EventKind  `json:"kind"`
	ApplicationID   string     `json:"applicationId"`
	ApplicationType string     `json:"applicationType"`
	ApplicantID     string     `json:"discordId"`
	ApplicantName   string     `json:"username"`
	ReviewerID      string     `json:"reviewedByDiscordId,omitempty"`
	ReviewerName    string     `json:"reviewedByUsername,omitempty"`
	ReviewedAt      *time.Time `json:"reviewTimestamp,omitempty"`
	Reason          *string    `json:"reviewReason,omitempty"`
}

// Notifier receives application events. Implementations must be safe for
// concurrent use; failures are reported but never affect the stored outcome.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi fans an event out to several notifiers and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) error { return nil }

// RedisPublisher publishes events as JSON on cache.ApplicationEventsChannel.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher. A nil client turns it into a no-op.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Notify implements Notifier.
func (p *RedisPublisher) Notify(ctx context.Context, event Event) error {
	if p.rdb == nil {
		return nil
	}
	ctx, span := observability.StartOperation(ctx, "RedisPublisher", "Notify")
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, cache.ApplicationEventsChannel, payload).Err(); err != nil {
		observability.RecordError(span, err)
		observability.NotificationsSent.WithLabelValues("redis", "error").Inc()
		return fmt.Errorf("publish %s: %w", event.Kind, err)
	}
	observability.NotificationsSent.WithLabelValues("redis", "ok").Inc()
	return nil
}

// Subscribe calls onEvent for every event published on the channel until ctx
// is cancelled. Handler panics are logged and do not stop the subscription.
func (p *RedisPublisher) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if p.rdb == nil {
		return nil
	}
	sub := p.rdb.Subscribe(ctx, cache.ApplicationEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", cache.ApplicationEventsChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					observability.GlobalLogger.WarnContext(ctx, "dropping malformed application event",
						slog.String("error", err.Error()))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.GlobalLogger.ErrorContext(ctx, "panic in application event subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					onEvent(event)
				}()
			}
		}
	}()

	return nil
}

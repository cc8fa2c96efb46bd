package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisNotifier persists each notification and publishes it to the
// recipient's Redis channel so connected delivery frontends can push it in
// real time. Both steps are best-effort: a failure is logged and never
// propagated to the transition that emitted the notification.
type RedisNotifier struct {
	client *redis.Client
	repo   outbound.NotificationRepository
	clock  outbound.Clock
	logger zerolog.Logger
}

type RedisNotifierParams struct {
	RedisClient *redis.Client
	Repo        outbound.NotificationRepository
	Clock       outbound.Clock
	Logger      zerolog.Logger
}

// NewRedisNotifier creates a new Redis-backed notifier
func NewRedisNotifier(params RedisNotifierParams) *RedisNotifier {
	return &RedisNotifier{
		client: params.RedisClient,
		repo:   params.Repo,
		clock:  params.Clock,
		logger: params.Logger.With().Str("component", "redis_notifier").Logger(),
	}
}

// Notify persists the notification and publishes it to the user's channel
func (n *RedisNotifier) Notify(ctx context.Context, notification shared.Notification) error {
	notification.ID = uuid.New()
	notification.CreatedAt = n.clock.Now()

	if n.repo != nil {
		if err := n.repo.Create(ctx, &notification); err != nil {
			n.logger.Warn().Err(err).
				Str("user_id", notification.UserID.String()).
				Str("type", notification.Type).
				Msg("Failed to persist notification")
		}
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.Error().Err(err).Str("type", notification.Type).Msg("Failed to marshal notification")
		return nil
	}

	channel := ChannelForUser(notification.UserID)
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn().Err(err).
			Str("channel", channel).
			Str("type", notification.Type).
			Msg("Failed to publish notification")
		return nil
	}

	n.logger.Debug().
		Str("user_id", notification.UserID.String()).
		Str("type", notification.Type).
		Msg("Notification dispatched")
	return nil
}

// ChannelForUser returns the Redis channel carrying a user's notifications
func ChannelForUser(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:notifications", userID)
}

// Package notifications writes notification rows and fans them out over Redis.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"paceup/internal/middleware"
	"paceup/internal/models"
	"paceup/internal/observability"
	"paceup/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Notifier persists notifications and publishes them to per-user Redis
// channels. Delivery is best-effort: failures are logged, never returned to
// the caller, so a notification problem cannot fail an already-committed
// moderation or payment transition.
type Notifier struct {
	repo repository.NotificationRepository
	rdb  *redis.Client
}

// NewNotifier creates a new Notifier instance.
func NewNotifier(repo repository.NotificationRepository, rdb *redis.Client) *Notifier {
	return &Notifier{repo: repo, rdb: rdb}
}

// Notify writes the notification row and publishes it to the owner's channel.
// Call this after the triggering transaction has committed.
func (n *Notifier) Notify(ctx context.Context, userID, notifType, title, message string, metadata models.JSONMap) {
	record := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}
	if err := n.repo.Create(ctx, record); err != nil {
		middleware.Logger.ErrorContext(ctx, "notification write failed",
			slog.String("type", notifType),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.NotificationsPublished.WithLabelValues(notifType).Inc()

	if n.rdb == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.String("type", notifType),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// UserChannel derives the Redis channel name for a user. Frontend gateways
// subscribe to it to push notifications without polling.
func UserChannel(userID string) string {
	return "notifications:user:" + userID
}

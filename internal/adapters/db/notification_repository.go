package db

import (
	"context"
	"fmt"

	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// NotificationRepository implements the notification repository interface
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Create persists a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *shared.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, read, item_id, item_title, action_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Read,
		notification.ItemID,
		notification.ItemTitle,
		notification.ActionURL,
		notification.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*shared.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, read, item_id, item_title, action_url, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*shared.Notification
	for rows.Next() {
		var n shared.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.Read,
			&n.ItemID,
			&n.ItemTitle,
			&n.ActionURL,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

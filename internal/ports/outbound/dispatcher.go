package outbound

import (
	"context"

	"eauction-service/internal/domain/shared"
)

// Notifier delivers in-app notifications to users. Delivery is
// fire-and-forget: a returned error is informational and must never roll
// back or block the transition that produced the notification.
type Notifier interface {
	Notify(ctx context.Context, notification shared.Notification) error
}

// EmailDispatcher sends best-effort emails. Failures are logged by the
// caller and never propagated as a core error.
type EmailDispatcher interface {
	Send(ctx context.Context, msg shared.EmailMessage) error
}

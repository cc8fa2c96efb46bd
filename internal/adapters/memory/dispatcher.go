package memory

import (
	"context"
	"sync"

	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// RecordingNotifier captures every dispatched notification for inspection
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []shared.Notification
	// Err, when set, is returned from Notify to exercise the callers'
	// never-propagate discipline.
	Err error
}

// NewRecordingNotifier creates an empty recording notifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Notify records the notification
func (n *RecordingNotifier) Notify(ctx context.Context, notification shared.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return n.Err
}

// Sent returns a copy of every recorded notification
func (n *RecordingNotifier) Sent() []shared.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]shared.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

// SentTo returns the notifications recorded for one user
func (n *RecordingNotifier) SentTo(userID uuid.UUID) []shared.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []shared.Notification
	for _, notification := range n.sent {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out
}

// SentOfType returns the notifications recorded with the given type
func (n *RecordingNotifier) SentOfType(notifType string) []shared.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []shared.Notification
	for _, notification := range n.sent {
		if notification.Type == notifType {
			out = append(out, notification)
		}
	}
	return out
}

// RecordingEmailer captures every dispatched email for inspection
type RecordingEmailer struct {
	mu   sync.Mutex
	sent []shared.EmailMessage
	// Err, when set, is returned from Send to exercise the callers'
	// best-effort discipline.
	Err error
}

// NewRecordingEmailer creates an empty recording emailer
func NewRecordingEmailer() *RecordingEmailer {
	return &RecordingEmailer{}
}

// Send records the email
func (e *RecordingEmailer) Send(ctx context.Context, msg shared.EmailMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, msg)
	return e.Err
}

// Sent returns a copy of every recorded email
func (e *RecordingEmailer) Sent() []shared.EmailMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]shared.EmailMessage, len(e.sent))
	copy(out, e.sent)
	return out
}

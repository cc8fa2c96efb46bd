package shared

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system. Authentication lives
// outside this service; only the fields needed for notification and email
// content are kept here.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Notification is a persisted in-app notification for a single user
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	ItemID    *uuid.UUID `json:"item_id,omitempty"`
	ItemTitle string     `json:"item_title,omitempty"`
	ActionURL string     `json:"action_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// EmailMessage is a best-effort outbound email
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

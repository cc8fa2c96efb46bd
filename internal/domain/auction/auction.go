package auction

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current status of an auction
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
)

// CloseTrigger identifies what initiated an auction close
type CloseTrigger string

const (
	TriggerScheduled CloseTrigger = "scheduled"
	TriggerManual    CloseTrigger = "manual"
)

// Auction represents the lifecycle record paired 1:1 with an item.
// Its ID is the same as the item's ID.
type Auction struct {
	ID                 uuid.UUID  `json:"id"`
	ItemID             uuid.UUID  `json:"item_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Status             Status     `json:"status"`
	WinnerID           *uuid.UUID `json:"winner_id,omitempty"`
	WinningBid         *float64   `json:"winning_bid,omitempty"`
	TotalBids          int        `json:"total_bids"`
	EndingSoonNotified bool       `json:"ending_soon_notified"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsScheduled returns true if the auction has not started yet
func (a *Auction) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// IsActive returns true if the auction is currently accepting bids
func (a *Auction) IsActive() bool {
	return a.Status == StatusActive
}

// IsEnded returns true if the auction has ended
func (a *Auction) IsEnded() bool {
	return a.Status == StatusEnded
}

// DueForActivation returns true if a scheduled auction should go active
func (a *Auction) DueForActivation(now time.Time) bool {
	return a.Status == StatusScheduled && !a.StartTime.After(now)
}

// DueForClose returns true if an active auction has passed its end time
func (a *Auction) DueForClose(now time.Time) bool {
	return a.Status == StatusActive && !a.EndTime.After(now)
}

// EndingSoon returns true if the auction ends within the window and has
// not been flagged yet
func (a *Auction) EndingSoon(now time.Time, window time.Duration) bool {
	return a.Status == StatusActive &&
		a.EndTime.After(now) &&
		a.EndTime.Before(now.Add(window)) &&
		!a.EndingSoonNotified
}

// Activate moves the auction from scheduled to active
func (a *Auction) Activate(now time.Time) {
	a.Status = StatusActive
	a.UpdatedAt = now
}

// End marks the auction as ended, recording the winner when one exists
func (a *Auction) End(winnerID *uuid.UUID, winningBid *float64, now time.Time) {
	a.Status = StatusEnded
	a.WinnerID = winnerID
	a.WinningBid = winningBid
	a.UpdatedAt = now
}

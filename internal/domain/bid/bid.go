package bid

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the status of a bid
type Status string

const (
	// StatusActive is the single currently-highest bid on an item
	StatusActive Status = "active"
	// StatusOutbid marks a bid superseded by a higher one
	StatusOutbid Status = "outbid"
	// StatusWon marks the winning bid of a finalized auction
	StatusWon Status = "won"
	// StatusLost marks every non-winning bid of a finalized auction
	StatusLost Status = "lost"
)

// Bid represents a bid on an item
type Bid struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	BidderID  uuid.UUID `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	BidTime   time.Time `json:"bid_time"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive returns true if this is the current highest bid
func (b *Bid) IsActive() bool {
	return b.Status == StatusActive
}

// MarkOutbid marks the bid as superseded
func (b *Bid) MarkOutbid(now time.Time) {
	b.Status = StatusOutbid
	b.UpdatedAt = now
}

// MarkWon marks the bid as the auction winner
func (b *Bid) MarkWon(now time.Time) {
	b.Status = StatusWon
	b.UpdatedAt = now
}

// MarkLost marks the bid as a non-winning bid of a finalized auction
func (b *Bid) MarkLost(now time.Time) {
	b.Status = StatusLost
	b.UpdatedAt = now
}

package item

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current status of a listed item
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusClosed  Status = "closed"
	StatusSold    Status = "sold"
)

// Item represents an item listed for auction
type Item struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	MinimumBid   float64   `json:"minimum_bid"`
	CurrentBid   float64   `json:"current_bid"`
	BidIncrement float64   `json:"bid_increment"`
	SellerID     uuid.UUID `json:"seller_id"`
	SellerName   string    `json:"seller_name"`
	AuctionStart time.Time `json:"auction_start"`
	AuctionEnd   time.Time `json:"auction_end"`
	Status       Status    `json:"status"`
	TotalBids    int       `json:"total_bids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsActive returns true if the item is accepting bids status-wise
func (i *Item) IsActive() bool {
	return i.Status == StatusActive
}

// IsClosed returns true if the item's auction has been finalized
func (i *Item) IsClosed() bool {
	return i.Status == StatusClosed || i.Status == StatusSold
}

// BiddingOpen returns true if a bid can be placed on this item at the given time
func (i *Item) BiddingOpen(now time.Time) bool {
	return i.Status == StatusActive && now.Before(i.AuctionEnd)
}

// AuctionStarted returns true if the bidding window has opened
func (i *Item) AuctionStarted(now time.Time) bool {
	return !i.AuctionStart.After(now)
}

// RecordBid applies an accepted bid to the item's counters
func (i *Item) RecordBid(amount float64, now time.Time) {
	i.CurrentBid = amount
	i.TotalBids++
	i.UpdatedAt = now
}

// MarkSold finalizes the item with a winning amount
func (i *Item) MarkSold(winningAmount float64, now time.Time) {
	i.Status = StatusSold
	i.CurrentBid = winningAmount
	i.UpdatedAt = now
}

// MarkClosed finalizes the item without a winner
func (i *Item) MarkClosed(now time.Time) {
	i.Status = StatusClosed
	i.UpdatedAt = now
}

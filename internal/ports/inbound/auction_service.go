package inbound

import (
	"context"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemService defines the interface for item listing operations
type ItemService interface {
	// CreateItem lists a new item and creates its auction record
	CreateItem(ctx context.Context, req CreateItemRequest) (*item.Item, error)

	// UpdateItem updates a listed item, subject to ownership and bid guards
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*item.Item, error)

	// DeleteItem deletes an item that has no bids
	DeleteItem(ctx context.Context, itemID, callerID uuid.UUID, isAdmin bool) error

	// GetItem retrieves an item by ID
	GetItem(ctx context.Context, itemID uuid.UUID) (*item.Item, error)

	// ListItemsByStatus retrieves items with the given status
	ListItemsByStatus(ctx context.Context, status item.Status, page, pageSize int) ([]*item.Item, error)

	// ListItemsBySeller retrieves all items listed by a seller
	ListItemsBySeller(ctx context.Context, sellerID uuid.UUID) ([]*item.Item, error)

	// ListOpenItems retrieves active and upcoming items
	ListOpenItems(ctx context.Context) ([]*item.Item, error)
}

// BidService defines the interface for bid operations
type BidService interface {
	// PlaceBid places a new bid on an item
	PlaceBid(ctx context.Context, req PlaceBidRequest) (*PlaceBidResult, error)

	// BidsForItem retrieves bids for an item ordered by amount descending
	BidsForItem(ctx context.Context, itemID uuid.UUID) ([]*bid.Bid, error)

	// HighestBid retrieves the highest bid for an item
	HighestBid(ctx context.Context, itemID uuid.UUID) (*bid.Bid, error)
}

// AuctionService defines the interface for auction lifecycle operations
type AuctionService interface {
	// GetAuction retrieves an auction by ID
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*auction.Auction, error)

	// Activate moves a scheduled auction whose start time has passed to
	// active. A no-op when the auction is already active or ended.
	Activate(ctx context.Context, auctionID uuid.UUID) error

	// CloseExpired finalizes an active auction whose end time has passed.
	// A no-op when the auction has already ended.
	CloseExpired(ctx context.Context, auctionID uuid.UUID) (*shared.CloseResult, error)

	// CloseManually finalizes an active auction on behalf of its seller or
	// an administrator. Fails with shared.ErrAuctionAlreadyClosed when the
	// auction has already ended.
	CloseManually(ctx context.Context, req CloseAuctionRequest) (*shared.CloseResult, error)

	// MarkEndingSoon flags an auction ending within the notification
	// window and emits the one-shot ending-soon notifications
	MarkEndingSoon(ctx context.Context, auctionID uuid.UUID) error
}

// request to create an item listing
type CreateItemRequest struct {
	SellerID     uuid.UUID  `json:"seller_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	MinimumBid   float64    `json:"minimum_bid"`
	BidIncrement *float64   `json:"bid_increment,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      time.Time  `json:"end_time"`
}

// request to update an item listing
type UpdateItemRequest struct {
	ItemID       uuid.UUID    `json:"item_id"`
	CallerID     uuid.UUID    `json:"caller_id"`
	IsAdmin      bool         `json:"is_admin"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	MinimumBid   float64      `json:"minimum_bid"`
	BidIncrement *float64     `json:"bid_increment,omitempty"`
	StartTime    *time.Time   `json:"start_time,omitempty"`
	EndTime      *time.Time   `json:"end_time,omitempty"`
	Status       *item.Status `json:"status,omitempty"`
}

// request to place a bid
type PlaceBidRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	BidderID uuid.UUID `json:"bidder_id"`
	Amount   float64   `json:"amount"`
}

// PlaceBidResult carries the accepted bid and, when the bid superseded an
// earlier one, the identity of the previously highest bidder
type PlaceBidResult struct {
	Bid            *bid.Bid   `json:"bid"`
	PreviousBidder *uuid.UUID `json:"previous_bidder,omitempty"`
}

// request to close an auction manually
type CloseAuctionRequest struct {
	AuctionID uuid.UUID `json:"auction_id"`
	CallerID  uuid.UUID `json:"caller_id"`
	IsAdmin   bool      `json:"is_admin"`
}

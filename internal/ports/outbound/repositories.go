package outbound

import (
	"context"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	// Create creates a new item
	Create(ctx context.Context, item *item.Item) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// ListByStatus retrieves items with the given status
	ListByStatus(ctx context.Context, status item.Status, page, pageSize int) ([]*item.Item, error)

	// ListBySeller retrieves all items listed by a seller
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*item.Item, error)

	// ListOpen retrieves active and pending items whose auction ends after t
	ListOpen(ctx context.Context, t time.Time) ([]*item.Item, error)

	// Update updates an item
	Update(ctx context.Context, item *item.Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuctionRepository defines the interface for auction data operations
type AuctionRepository interface {
	// Create creates a new auction
	Create(ctx context.Context, auction *auction.Auction) error

	// GetByID retrieves an auction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error)

	// ListByStatusAndStartBefore retrieves auctions with the given status
	// whose start time is at or before t
	ListByStatusAndStartBefore(ctx context.Context, status auction.Status, t time.Time) ([]*auction.Auction, error)

	// ListByStatusAndEndBefore retrieves auctions with the given status
	// whose end time is at or before t
	ListByStatusAndEndBefore(ctx context.Context, status auction.Status, t time.Time) ([]*auction.Auction, error)

	// ListEndingSoon retrieves active, not-yet-notified auctions ending
	// after now and before cutoff
	ListEndingSoon(ctx context.Context, now, cutoff time.Time) ([]*auction.Auction, error)

	// Update updates an auction
	Update(ctx context.Context, auction *auction.Auction) error

	// Delete deletes an auction
	Delete(ctx context.Context, id uuid.UUID) error
}

// BidRepository defines the interface for bid data operations
type BidRepository interface {
	// Record atomically marks the superseded bids as outbid, inserts the
	// new bid and advances the item/auction counters. The write fails with
	// shared.ErrBidSuperseded when the item's current bid no longer equals
	// expectedCurrentBid.
	Record(ctx context.Context, newBid *bid.Bid, outbid []*bid.Bid, expectedCurrentBid float64) error

	// GetByID retrieves a bid by ID
	GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error)

	// ListByItem retrieves all bids for an item ordered by amount
	// descending, then bid time ascending
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*bid.Bid, error)

	// HighestByItem retrieves the highest bid for an item, or
	// shared.ErrNoBidsFound
	HighestByItem(ctx context.Context, itemID uuid.UUID) (*bid.Bid, error)

	// CountByItem returns the number of bids ever placed on an item
	CountByItem(ctx context.Context, itemID uuid.UUID) (int, error)

	// FinalizeStatuses persists the statuses of the given bids in one write
	FinalizeStatuses(ctx context.Context, bids []*bid.Bid) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// Create creates a new user
	Create(ctx context.Context, user *shared.User) error
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create persists a notification
	Create(ctx context.Context, notification *shared.Notification) error

	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*shared.Notification, error)
}

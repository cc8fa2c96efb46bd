package memory

import (
	"sync"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Store is an in-memory backing for every repository port. It serves the
// test suites and single-node local runs. Records are copied on the way in
// and out so callers observe the same read-your-writes discipline as the
// SQL adapters: a mutation is only visible once written back.
type Store struct {
	mu            sync.RWMutex
	items         map[uuid.UUID]item.Item
	auctions      map[uuid.UUID]auction.Auction
	bids          map[uuid.UUID]bid.Bid
	users         map[uuid.UUID]shared.User
	notifications []shared.Notification
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		items:    make(map[uuid.UUID]item.Item),
		auctions: make(map[uuid.UUID]auction.Auction),
		bids:     make(map[uuid.UUID]bid.Bid),
		users:    make(map[uuid.UUID]shared.User),
	}
}

// ItemRepo exposes the store as an item repository
func (s *Store) ItemRepo() *ItemRepo { return &ItemRepo{store: s} }

// AuctionRepo exposes the store as an auction repository
func (s *Store) AuctionRepo() *AuctionRepo { return &AuctionRepo{store: s} }

// BidRepo exposes the store as a bid repository
func (s *Store) BidRepo() *BidRepo { return &BidRepo{store: s} }

// UserRepo exposes the store as a user repository
func (s *Store) UserRepo() *UserRepo { return &UserRepo{store: s} }

// NotificationRepo exposes the store as a notification repository
func (s *Store) NotificationRepo() *NotificationRepo { return &NotificationRepo{store: s} }

// RemoveItem drops an item record directly, bypassing the repository
// guards. Test hook for simulating a missing record mid-sweep.
func (s *Store) RemoveItem(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

package memory

import (
	"context"
	"sort"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepo implements outbound.ItemRepository over the store
type ItemRepo struct {
	store *Store
}

func (r *ItemRepo) Create(ctx context.Context, itm *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.items[itm.ID] = *itm
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	itm, ok := r.store.items[id]
	if !ok {
		return nil, shared.ErrItemNotFound
	}
	return &itm, nil
}

func (r *ItemRepo) ListByStatus(ctx context.Context, status item.Status, page, pageSize int) ([]*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var items []*item.Item
	for _, itm := range r.store.items {
		if itm.Status == status {
			itm := itm
			items = append(items, &itm)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

func (r *ItemRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var items []*item.Item
	for _, itm := range r.store.items {
		if itm.SellerID == sellerID {
			itm := itm
			items = append(items, &itm)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *ItemRepo) ListOpen(ctx context.Context, t time.Time) ([]*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var items []*item.Item
	for _, itm := range r.store.items {
		if (itm.Status == item.StatusActive || itm.Status == item.StatusPending) && itm.AuctionEnd.After(t) {
			itm := itm
			items = append(items, &itm)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AuctionEnd.Before(items[j].AuctionEnd) })
	return items, nil
}

func (r *ItemRepo) Update(ctx context.Context, itm *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[itm.ID]; !ok {
		return shared.ErrItemNotFound
	}
	r.store.items[itm.ID] = *itm
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[id]; !ok {
		return shared.ErrItemNotFound
	}
	delete(r.store.items, id)
	return nil
}

// AuctionRepo implements outbound.AuctionRepository over the store
type AuctionRepo struct {
	store *Store
}

func (r *AuctionRepo) Create(ctx context.Context, auc *auction.Auction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.auctions[auc.ID] = *auc
	return nil
}

func (r *AuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	auc, ok := r.store.auctions[id]
	if !ok {
		return nil, shared.ErrAuctionNotFound
	}
	return &auc, nil
}

func (r *AuctionRepo) ListByStatusAndStartBefore(ctx context.Context, status auction.Status, t time.Time) ([]*auction.Auction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var auctions []*auction.Auction
	for _, auc := range r.store.auctions {
		if auc.Status == status && !auc.StartTime.After(t) {
			auc := auc
			auctions = append(auctions, &auc)
		}
	}
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].StartTime.Before(auctions[j].StartTime) })
	return auctions, nil
}

func (r *AuctionRepo) ListByStatusAndEndBefore(ctx context.Context, status auction.Status, t time.Time) ([]*auction.Auction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var auctions []*auction.Auction
	for _, auc := range r.store.auctions {
		if auc.Status == status && !auc.EndTime.After(t) {
			auc := auc
			auctions = append(auctions, &auc)
		}
	}
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].EndTime.Before(auctions[j].EndTime) })
	return auctions, nil
}

func (r *AuctionRepo) ListEndingSoon(ctx context.Context, now, cutoff time.Time) ([]*auction.Auction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var auctions []*auction.Auction
	for _, auc := range r.store.auctions {
		if auc.Status == auction.StatusActive && auc.EndTime.After(now) && auc.EndTime.Before(cutoff) && !auc.EndingSoonNotified {
			auc := auc
			auctions = append(auctions, &auc)
		}
	}
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].EndTime.Before(auctions[j].EndTime) })
	return auctions, nil
}

func (r *AuctionRepo) Update(ctx context.Context, auc *auction.Auction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.auctions[auc.ID]; !ok {
		return shared.ErrAuctionNotFound
	}
	r.store.auctions[auc.ID] = *auc
	return nil
}

func (r *AuctionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.auctions[id]; !ok {
		return shared.ErrAuctionNotFound
	}
	delete(r.store.auctions, id)
	return nil
}

// BidRepo implements outbound.BidRepository over the store
type BidRepo struct {
	store *Store
}

func (r *BidRepo) Record(ctx context.Context, newBid *bid.Bid, outbid []*bid.Bid, expectedCurrentBid float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	itm, ok := r.store.items[newBid.ItemID]
	if !ok {
		return shared.ErrItemNotFound
	}
	if itm.CurrentBid != expectedCurrentBid {
		return shared.ErrBidSuperseded
	}

	for _, superseded := range outbid {
		r.store.bids[superseded.ID] = *superseded
	}
	r.store.bids[newBid.ID] = *newBid

	itm.CurrentBid = newBid.Amount
	itm.TotalBids++
	itm.UpdatedAt = newBid.UpdatedAt
	r.store.items[itm.ID] = itm

	if auc, ok := r.store.auctions[newBid.ItemID]; ok {
		auc.TotalBids++
		auc.UpdatedAt = newBid.UpdatedAt
		r.store.auctions[auc.ID] = auc
	}

	return nil
}

func (r *BidRepo) GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.bids[id]
	if !ok {
		return nil, shared.ErrBidNotFound
	}
	return &b, nil
}

func (r *BidRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*bid.Bid, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var bids []*bid.Bid
	for _, b := range r.store.bids {
		if b.ItemID == itemID {
			b := b
			bids = append(bids, &b)
		}
	}
	sort.Slice(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount > bids[j].Amount
		}
		return bids[i].BidTime.Before(bids[j].BidTime)
	})
	return bids, nil
}

func (r *BidRepo) HighestByItem(ctx context.Context, itemID uuid.UUID) (*bid.Bid, error) {
	bids, err := r.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, shared.ErrNoBidsFound
	}
	return bids[0], nil
}

func (r *BidRepo) CountByItem(ctx context.Context, itemID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, b := range r.store.bids {
		if b.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

func (r *BidRepo) FinalizeStatuses(ctx context.Context, bids []*bid.Bid) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range bids {
		stored, ok := r.store.bids[b.ID]
		if !ok {
			return shared.ErrBidNotFound
		}
		stored.Status = b.Status
		stored.UpdatedAt = b.UpdatedAt
		r.store.bids[b.ID] = stored
	}
	return nil
}

// UserRepo implements outbound.UserRepository over the store
type UserRepo struct {
	store *Store
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *shared.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.ID] = *user
	return nil
}

// NotificationRepo implements outbound.NotificationRepository over the store
type NotificationRepo struct {
	store *Store
}

func (r *NotificationRepo) Create(ctx context.Context, notification *shared.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, *notification)
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*shared.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var notifications []*shared.Notification
	for i := len(r.store.notifications) - 1; i >= 0; i-- {
		if r.store.notifications[i].UserID == userID {
			n := r.store.notifications[i]
			notifications = append(notifications, &n)
		}
	}
	return notifications, nil
}

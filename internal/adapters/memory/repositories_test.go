package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func seedItem(t *testing.T, store *Store, currentBid float64) *item.Item {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	itm := &item.Item{
		ID:           uuid.New(),
		Title:        "Walnut desk",
		MinimumBid:   currentBid,
		CurrentBid:   currentBid,
		SellerID:     uuid.New(),
		AuctionStart: now,
		AuctionEnd:   now.Add(time.Hour),
		Status:       item.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	assert.Nil(t, store.ItemRepo().Create(context.Background(), itm))
	return itm
}

func TestBidRepoRecord_RejectsStaleCurrentBid(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	itm := seedItem(t, store, 100)

	newBid := &bid.Bid{
		ID:       uuid.New(),
		ItemID:   itm.ID,
		BidderID: uuid.New(),
		Amount:   150,
		Status:   bid.StatusActive,
	}

	// The caller read the item at 90, but it has since moved to 100.
	err := store.BidRepo().Record(ctx, newBid, nil, 90)
	check.True(t, errors.Is(err, shared.ErrBidSuperseded))

	got, err := store.ItemRepo().GetByID(ctx, itm.ID)
	assert.Nil(t, err)
	check.Equal(t, 100.0, got.CurrentBid)
	check.Equal(t, 0, got.TotalBids)
}

func TestBidRepoRecord_AppliesBidAndCounters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	itm := seedItem(t, store, 100)

	first := &bid.Bid{ID: uuid.New(), ItemID: itm.ID, BidderID: uuid.New(), Amount: 150, Status: bid.StatusActive}
	assert.Nil(t, store.BidRepo().Record(ctx, first, nil, 100))

	first.Status = bid.StatusOutbid
	second := &bid.Bid{ID: uuid.New(), ItemID: itm.ID, BidderID: uuid.New(), Amount: 200, Status: bid.StatusActive}
	assert.Nil(t, store.BidRepo().Record(ctx, second, []*bid.Bid{first}, 150))

	got, err := store.ItemRepo().GetByID(ctx, itm.ID)
	assert.Nil(t, err)
	check.Equal(t, 200.0, got.CurrentBid)
	check.Equal(t, 2, got.TotalBids)

	stored, err := store.BidRepo().GetByID(ctx, first.ID)
	assert.Nil(t, err)
	check.Equal(t, bid.StatusOutbid, stored.Status)
}

func TestStoreCopiesRecordsOut(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	itm := seedItem(t, store, 100)

	got, err := store.ItemRepo().GetByID(ctx, itm.ID)
	assert.Nil(t, err)
	got.CurrentBid = 999

	// An un-written mutation must not leak into the store.
	again, err := store.ItemRepo().GetByID(ctx, itm.ID)
	assert.Nil(t, err)
	check.Equal(t, 100.0, again.CurrentBid)
}

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"eauction-service/internal/adapters/memory"
	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

// testStart is the fixed point every fixture clock starts from
var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture wires the three services over the in-memory store with a manual
// clock and recording dispatchers
type fixture struct {
	store    *memory.Store
	clock    *memory.ManualClock
	notifier *memory.RecordingNotifier
	emailer  *memory.RecordingEmailer
	items    *ItemService
	bids     *BidService
	auctions *AuctionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	clock := memory.NewManualClock(testStart)
	notifier := memory.NewRecordingNotifier()
	emailer := memory.NewRecordingEmailer()
	guard := NewItemGuard()
	logger := zerolog.Nop()

	f := &fixture{
		store:    store,
		clock:    clock,
		notifier: notifier,
		emailer:  emailer,
	}
	f.items = NewItemService(ItemServiceParams{
		ItemRepo:    store.ItemRepo(),
		AuctionRepo: store.AuctionRepo(),
		BidRepo:     store.BidRepo(),
		UserRepo:    store.UserRepo(),
		Guard:       guard,
		Clock:       clock,
		Logger:      logger,
	})
	f.bids = NewBidService(BidServiceParams{
		BidRepo:  store.BidRepo(),
		ItemRepo: store.ItemRepo(),
		UserRepo: store.UserRepo(),
		Notifier: notifier,
		Guard:    guard,
		Clock:    clock,
		Logger:   logger,
	})
	f.auctions = NewAuctionService(AuctionServiceParams{
		AuctionRepo: store.AuctionRepo(),
		ItemRepo:    store.ItemRepo(),
		BidRepo:     store.BidRepo(),
		UserRepo:    store.UserRepo(),
		Notifier:    notifier,
		Emailer:     emailer,
		Guard:       guard,
		Clock:       clock,
		Logger:      logger,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, name string) *shared.User {
	t.Helper()
	user := &shared.User{
		ID:    uuid.New(),
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
	}
	assert.Nil(t, f.store.UserRepo().Create(context.Background(), user))
	return user
}

// listItem creates an active listing ending at the given time
func (f *fixture) listItem(t *testing.T, sellerID uuid.UUID, minimumBid float64, end time.Time) *item.Item {
	t.Helper()
	itm, err := f.items.CreateItem(context.Background(), inbound.CreateItemRequest{
		SellerID:    sellerID,
		Title:       "Antique pocket watch",
		Description: "Silver case, working movement",
		Category:    "collectibles",
		MinimumBid:  minimumBid,
		EndTime:     end,
	})
	assert.Nil(t, err)
	return itm
}

func (f *fixture) placeBid(t *testing.T, itemID, bidderID uuid.UUID, amount float64) *inbound.PlaceBidResult {
	t.Helper()
	result, err := f.bids.PlaceBid(context.Background(), inbound.PlaceBidRequest{
		ItemID:   itemID,
		BidderID: bidderID,
		Amount:   amount,
	})
	assert.Nil(t, err)
	return result
}

func (f *fixture) getItem(t *testing.T, id uuid.UUID) *item.Item {
	t.Helper()
	itm, err := f.store.ItemRepo().GetByID(context.Background(), id)
	assert.Nil(t, err)
	return itm
}

func (f *fixture) getAuction(t *testing.T, id uuid.UUID) *auction.Auction {
	t.Helper()
	auc, err := f.store.AuctionRepo().GetByID(context.Background(), id)
	assert.Nil(t, err)
	return auc
}

func (f *fixture) bidsForItem(t *testing.T, itemID uuid.UUID) []*bid.Bid {
	t.Helper()
	bids, err := f.store.BidRepo().ListByItem(context.Background(), itemID)
	assert.Nil(t, err)
	return bids
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestCreateItem_PairsItemAndAuction(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")

	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	check.Equal(t, item.StatusActive, itm.Status)
	check.Equal(t, 100.0, itm.CurrentBid)
	check.Equal(t, defaultBidIncrement, itm.BidIncrement)
	check.Equal(t, seller.Name, itm.SellerName)

	// The auction record shares the item's ID and timeline.
	auc := f.getAuction(t, itm.ID)
	check.Equal(t, itm.ID, auc.ItemID)
	check.Equal(t, auction.StatusActive, auc.Status)
	check.True(t, auc.StartTime.Equal(itm.AuctionStart))
	check.True(t, auc.EndTime.Equal(itm.AuctionEnd))
}

func TestCreateItem_FutureStartIsScheduled(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")

	futureStart := testStart.Add(time.Hour)
	itm, err := f.items.CreateItem(context.Background(), inbound.CreateItemRequest{
		SellerID:   seller.ID,
		Title:      "Oil painting",
		MinimumBid: 500,
		StartTime:  &futureStart,
		EndTime:    testStart.Add(48 * time.Hour),
	})
	assert.Nil(t, err)

	check.Equal(t, item.StatusPending, itm.Status)
	check.Equal(t, auction.StatusScheduled, f.getAuction(t, itm.ID).Status)
}

func TestCreateItem_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")

	_, err := f.items.CreateItem(ctx, inbound.CreateItemRequest{
		SellerID:   uuid.New(),
		Title:      "Orphan",
		MinimumBid: 10,
		EndTime:    testStart.Add(time.Hour),
	})
	check.True(t, errors.Is(err, shared.ErrUserNotFound))

	_, err = f.items.CreateItem(ctx, inbound.CreateItemRequest{
		SellerID:   seller.ID,
		Title:      "Free stuff",
		MinimumBid: 0,
		EndTime:    testStart.Add(time.Hour),
	})
	check.True(t, errors.Is(err, shared.ErrInvalidMinimumBid))

	// End before start.
	lateStart := testStart.Add(2 * time.Hour)
	_, err = f.items.CreateItem(ctx, inbound.CreateItemRequest{
		SellerID:   seller.ID,
		Title:      "Backwards",
		MinimumBid: 10,
		StartTime:  &lateStart,
		EndTime:    testStart.Add(time.Hour),
	})
	check.True(t, errors.Is(err, shared.ErrInvalidEndTime))

	// End in the past.
	_, err = f.items.CreateItem(ctx, inbound.CreateItemRequest{
		SellerID:   seller.ID,
		Title:      "Expired",
		MinimumBid: 10,
		EndTime:    testStart.Add(-time.Hour),
	})
	check.True(t, errors.Is(err, shared.ErrInvalidEndTime))
}

func TestUpdateItem_OwnershipAndLocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	stranger := f.addUser(t, "Mallory")
	bob := f.addUser(t, "Bob")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	_, err := f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:   itm.ID,
		CallerID: stranger.ID,
		Title:    "Hijacked",
	})
	check.True(t, errors.Is(err, shared.ErrForbidden))

	// The auction already started, so the timeline is locked.
	newStart := testStart.Add(time.Hour)
	newEnd := testStart.Add(2 * time.Hour)
	_, err = f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:    itm.ID,
		CallerID:  seller.ID,
		Title:     itm.Title,
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	check.True(t, errors.Is(err, shared.ErrTimesLocked))

	// Plain field edits still go through.
	updated, err := f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:      itm.ID,
		CallerID:    seller.ID,
		Title:       "Antique pocket watch (engraved)",
		Description: itm.Description,
		Category:    itm.Category,
	})
	assert.Nil(t, err)
	check.Equal(t, "Antique pocket watch (engraved)", updated.Title)

	// Once a bid exists the minimum bid is frozen too.
	f.placeBid(t, itm.ID, bob.ID, 150)
	updated, err = f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:     itm.ID,
		CallerID:   seller.ID,
		Title:      updated.Title,
		MinimumBid: 500,
	})
	assert.Nil(t, err)
	check.Equal(t, 100.0, updated.MinimumBid)
	check.Equal(t, 150.0, updated.CurrentBid)
}

func TestUpdateItem_TimelineEditBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")

	start := testStart.Add(time.Hour)
	itm, err := f.items.CreateItem(ctx, inbound.CreateItemRequest{
		SellerID:   seller.ID,
		Title:      "Oil painting",
		MinimumBid: 500,
		StartTime:  &start,
		EndTime:    testStart.Add(2 * time.Hour),
	})
	assert.Nil(t, err)

	newStart := testStart.Add(3 * time.Hour)
	newEnd := testStart.Add(5 * time.Hour)
	updated, err := f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:    itm.ID,
		CallerID:  seller.ID,
		Title:     itm.Title,
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	assert.Nil(t, err)
	check.True(t, updated.AuctionStart.Equal(newStart))
	check.True(t, updated.AuctionEnd.Equal(newEnd))

	// The paired auction record follows the new timeline.
	auc := f.getAuction(t, itm.ID)
	check.True(t, auc.StartTime.Equal(newStart))
	check.True(t, auc.EndTime.Equal(newEnd))
}

func TestUpdateItem_StatusOverrideIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	closed := item.StatusClosed
	updated, err := f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:   itm.ID,
		CallerID: seller.ID,
		Title:    itm.Title,
		Status:   &closed,
	})
	assert.Nil(t, err)
	check.Equal(t, item.StatusActive, updated.Status)

	updated, err = f.items.UpdateItem(ctx, inbound.UpdateItemRequest{
		ItemID:   itm.ID,
		CallerID: seller.ID,
		IsAdmin:  true,
		Title:    itm.Title,
		Status:   &closed,
	})
	assert.Nil(t, err)
	check.Equal(t, item.StatusClosed, updated.Status)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	stranger := f.addUser(t, "Mallory")
	bob := f.addUser(t, "Bob")

	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	err := f.items.DeleteItem(ctx, itm.ID, stranger.ID, false)
	check.True(t, errors.Is(err, shared.ErrForbidden))

	// A bid pins the listing.
	f.placeBid(t, itm.ID, bob.ID, 150)
	err = f.items.DeleteItem(ctx, itm.ID, seller.ID, false)
	check.True(t, errors.Is(err, shared.ErrItemHasBids))

	// A fresh listing with no bids deletes cleanly, auction included.
	other := f.listItem(t, seller.ID, 50, testStart.Add(time.Hour))
	assert.Nil(t, f.items.DeleteItem(ctx, other.ID, seller.ID, false))

	_, err = f.items.GetItem(ctx, other.ID)
	check.True(t, errors.Is(err, shared.ErrItemNotFound))
	_, err = f.auctions.GetAuction(ctx, other.ID)
	check.True(t, errors.Is(err, shared.ErrAuctionNotFound))
}

func TestListOpenItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")

	soon := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))
	later := f.listItem(t, seller.ID, 100, testStart.Add(4*time.Hour))

	f.clock.Advance(2 * time.Hour)
	open, err := f.items.ListOpenItems(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(open))
	check.Equal(t, later.ID, open[0].ID)
	check.NotEqual(t, soon.ID, open[0].ID)

	// The seller listing is not filtered by the auction window.
	mine, err := f.items.ListItemsBySeller(ctx, seller.ID)
	assert.Nil(t, err)
	check.Equal(t, 2, len(mine))
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestPlaceBid_AdmissionAndOutbidCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	carol := f.addUser(t, "Carol")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(24*time.Hour))

	// First bid above the minimum is accepted.
	first := f.placeBid(t, itm.ID, bob.ID, 150)
	check.Equal(t, bid.StatusActive, first.Bid.Status)
	check.Nil(t, first.PreviousBidder)

	got := f.getItem(t, itm.ID)
	check.Equal(t, 150.0, got.CurrentBid)
	check.Equal(t, 1, got.TotalBids)

	// A bid below the current bid is rejected even though it clears the
	// minimum.
	_, err := f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: carol.ID, Amount: 120})
	check.True(t, errors.Is(err, shared.ErrBidTooLow))

	// A higher bid supersedes the previous one.
	second := f.placeBid(t, itm.ID, carol.ID, 200)
	assert.NotNil(t, second.PreviousBidder)
	check.Equal(t, bob.ID, *second.PreviousBidder)

	got = f.getItem(t, itm.ID)
	check.Equal(t, 200.0, got.CurrentBid)
	check.Equal(t, 2, got.TotalBids)

	auc := f.getAuction(t, itm.ID)
	check.Equal(t, 2, auc.TotalBids)

	bids := f.bidsForItem(t, itm.ID)
	assert.Equal(t, 2, len(bids))
	check.Equal(t, bid.StatusActive, bids[0].Status)
	check.Equal(t, carol.ID, bids[0].BidderID)
	check.Equal(t, bid.StatusOutbid, bids[1].Status)
	check.Equal(t, bob.ID, bids[1].BidderID)
}

func TestPlaceBid_EqualToCurrentBidRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	// The current bid starts at the minimum, so matching it exactly is
	// not enough.
	_, err := f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: bob.ID, Amount: 100})
	check.True(t, errors.Is(err, shared.ErrBidTooLow))

	f.placeBid(t, itm.ID, bob.ID, 150)
	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: bob.ID, Amount: 150})
	check.True(t, errors.Is(err, shared.ErrBidTooLow))

	check.Equal(t, 1, f.getItem(t, itm.ID).TotalBids)
}

func TestPlaceBid_SelfBidRejected(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	_, err := f.bids.PlaceBid(context.Background(), inbound.PlaceBidRequest{
		ItemID:   itm.ID,
		BidderID: seller.ID,
		Amount:   150,
	})
	check.True(t, errors.Is(err, shared.ErrSelfBid))
	check.Equal(t, 0, f.getItem(t, itm.ID).TotalBids)
}

func TestPlaceBid_ClosedWindows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")

	// Not started yet: the listing is pending until its start time.
	futureStart := testStart.Add(time.Hour)
	pending, err := f.items.CreateItem(ctx, inbound.CreateItemRequest{
		SellerID:   seller.ID,
		Title:      "Vintage radio",
		MinimumBid: 50,
		StartTime:  &futureStart,
		EndTime:    testStart.Add(2 * time.Hour),
	})
	assert.Nil(t, err)
	check.Equal(t, item.StatusPending, pending.Status)

	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: pending.ID, BidderID: bob.ID, Amount: 60})
	check.True(t, errors.Is(err, shared.ErrAuctionNotActive))

	// Past the end time: still marked active until the sweep closes it,
	// but bids are refused.
	expired := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))
	f.clock.Advance(2 * time.Hour)
	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: expired.ID, BidderID: bob.ID, Amount: 150})
	check.True(t, errors.Is(err, shared.ErrAuctionNotActive))
}

func TestPlaceBid_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	_, err := f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: uuid.Nil, Amount: 150})
	check.True(t, errors.Is(err, shared.ErrUnauthorized))

	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: bob.ID, Amount: 0})
	check.True(t, errors.Is(err, shared.ErrInvalidBid))

	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: bob.ID, Amount: -5})
	check.True(t, errors.Is(err, shared.ErrInvalidBid))

	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: uuid.New(), BidderID: bob.ID, Amount: 150})
	check.True(t, errors.Is(err, shared.ErrItemNotFound))

	_, err = f.bids.PlaceBid(ctx, inbound.PlaceBidRequest{ItemID: itm.ID, BidderID: uuid.New(), Amount: 150})
	check.True(t, errors.Is(err, shared.ErrUserNotFound))
}

func TestPlaceBid_SingleActiveBidInvariant(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	carol := f.addUser(t, "Carol")
	dave := f.addUser(t, "Dave")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	f.placeBid(t, itm.ID, bob.ID, 110)
	f.clock.Advance(time.Minute)
	f.placeBid(t, itm.ID, carol.ID, 130)
	f.clock.Advance(time.Minute)
	f.placeBid(t, itm.ID, dave.ID, 170)
	f.clock.Advance(time.Minute)
	f.placeBid(t, itm.ID, bob.ID, 210)

	active := 0
	for _, b := range f.bidsForItem(t, itm.ID) {
		if b.Status == bid.StatusActive {
			active++
			check.Equal(t, 210.0, b.Amount)
			check.Equal(t, bob.ID, b.BidderID)
		} else {
			check.Equal(t, bid.StatusOutbid, b.Status)
		}
	}
	check.Equal(t, 1, active)
}

func TestPlaceBid_Notifications(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	carol := f.addUser(t, "Carol")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	f.placeBid(t, itm.ID, bob.ID, 150)

	check.Equal(t, 1, len(f.notifier.SentOfType(shared.NotifTypeNewBidOnItem)))
	check.Equal(t, 1, len(f.notifier.SentOfType(shared.NotifTypeBidPlaced)))
	check.Equal(t, 0, len(f.notifier.SentOfType(shared.NotifTypeOutbid)))

	f.placeBid(t, itm.ID, carol.ID, 200)

	outbid := f.notifier.SentOfType(shared.NotifTypeOutbid)
	assert.Equal(t, 1, len(outbid))
	check.Equal(t, bob.ID, outbid[0].UserID)

	sellerNotifs := f.notifier.SentTo(seller.ID)
	assert.Equal(t, 2, len(sellerNotifs))
	for _, n := range sellerNotifs {
		check.Equal(t, shared.NotifTypeNewBidOnItem, n.Type)
	}
}

func TestPlaceBid_RaisingOwnBidSkipsOutbidNotification(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	f.placeBid(t, itm.ID, bob.ID, 150)
	result := f.placeBid(t, itm.ID, bob.ID, 200)

	assert.NotNil(t, result.PreviousBidder)
	check.Equal(t, bob.ID, *result.PreviousBidder)
	check.Equal(t, 0, len(f.notifier.SentOfType(shared.NotifTypeOutbid)))
}

func TestPlaceBid_NotifierFailureDoesNotFailBid(t *testing.T) {
	f := newFixture(t)
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	f.notifier.Err = errors.New("redis unavailable")

	result, err := f.bids.PlaceBid(context.Background(), inbound.PlaceBidRequest{
		ItemID:   itm.ID,
		BidderID: bob.ID,
		Amount:   150,
	})
	assert.Nil(t, err)
	check.Equal(t, 150.0, result.Bid.Amount)
	check.Equal(t, 150.0, f.getItem(t, itm.ID).CurrentBid)
}

func TestHighestBid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.addUser(t, "Sarah")
	bob := f.addUser(t, "Bob")
	carol := f.addUser(t, "Carol")
	itm := f.listItem(t, seller.ID, 100, testStart.Add(time.Hour))

	_, err := f.bids.HighestBid(ctx, itm.ID)
	check.True(t, errors.Is(err, shared.ErrNoBidsFound))

	f.placeBid(t, itm.ID, bob.ID, 150)
	f.placeBid(t, itm.ID, carol.ID, 175)

	highest, err := f.bids.HighestBid(ctx, itm.ID)
	assert.Nil(t, err)
	check.Equal(t, 175.0, highest.Amount)
	check.Equal(t, carol.ID, highest.BidderID)
}

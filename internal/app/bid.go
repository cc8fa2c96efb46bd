package app

import (
	"context"
	"errors"
	"fmt"

	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/inbound"
	"eauction-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BidService implements the bid ledger: it validates and records new bids,
// marks superseded bids and keeps the item/auction counters in step.
type BidService struct {
	bidRepo  outbound.BidRepository
	itemRepo outbound.ItemRepository
	userRepo outbound.UserRepository
	notifier outbound.Notifier
	guard    *ItemGuard
	clock    outbound.Clock
	logger   zerolog.Logger
}

type BidServiceParams struct {
	BidRepo  outbound.BidRepository
	ItemRepo outbound.ItemRepository
	UserRepo outbound.UserRepository
	Notifier outbound.Notifier
	Guard    *ItemGuard
	Clock    outbound.Clock
	Logger   zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		bidRepo:  params.BidRepo,
		itemRepo: params.ItemRepo,
		userRepo: params.UserRepo,
		notifier: params.Notifier,
		guard:    params.Guard,
		clock:    params.Clock,
		logger:   params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// PlaceBid places a new bid on an item. The previous highest bid (if any)
// is marked outbid and the item/auction counters advance in the same
// logical write as the new bid record.
func (client *BidService) PlaceBid(ctx context.Context, req inbound.PlaceBidRequest) (*inbound.PlaceBidResult, error) {
	client.logger.Info().
		Str("item_id", req.ItemID.String()).
		Str("bidder_id", req.BidderID.String()).
		Float64("amount", req.Amount).
		Msg("Attempting to place bid")

	if req.BidderID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	if req.Amount <= 0 {
		client.logger.Warn().Float64("amount", req.Amount).Msg("Invalid bid amount (must be > 0)")
		return nil, shared.ErrInvalidBid
	}

	// All per-item mutations run under the item's lock so the admission
	// check, the outbid cascade and the counter updates cannot interleave
	// with a concurrent bid or close on the same item.
	unlock := client.guard.Lock(req.ItemID)
	defer unlock()

	itm, err := client.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		client.logger.Error().Err(err).Str("item_id", req.ItemID.String()).Msg("Item not found")
		return nil, shared.ErrItemNotFound
	}

	now := client.clock.Now()
	if !itm.BiddingOpen(now) {
		client.logger.Warn().
			Str("item_id", itm.ID.String()).
			Str("status", string(itm.Status)).
			Time("auction_end", itm.AuctionEnd).
			Msg("Auction not accepting bids")
		return nil, shared.ErrAuctionNotActive
	}

	if itm.SellerID == req.BidderID {
		client.logger.Warn().Str("item_id", itm.ID.String()).Msg("Seller attempted to bid on own item")
		return nil, shared.ErrSelfBid
	}

	if req.Amount <= itm.CurrentBid {
		client.logger.Warn().
			Str("item_id", itm.ID.String()).
			Float64("current_bid", itm.CurrentBid).
			Float64("new_bid_amount", req.Amount).
			Msg("Bid amount too low (must be higher than current bid)")
		return nil, shared.ErrBidTooLow
	}

	bidder, err := client.userRepo.GetByID(ctx, req.BidderID)
	if err != nil {
		client.logger.Error().Err(err).Str("bidder_id", req.BidderID.String()).Msg("Bidder not found")
		return nil, shared.ErrUserNotFound
	}

	existing, err := client.bidRepo.ListByItem(ctx, req.ItemID)
	if err != nil {
		client.logger.Error().Err(err).Str("item_id", req.ItemID.String()).Msg("Failed to load existing bids")
		return nil, err
	}

	var previousHighest *bid.Bid
	if len(existing) > 0 {
		previousHighest = existing[0]
	}

	var outbid []*bid.Bid
	for _, existingBid := range existing {
		if existingBid.IsActive() {
			existingBid.MarkOutbid(now)
			outbid = append(outbid, existingBid)
		}
	}

	newBid := &bid.Bid{
		ID:        uuid.New(),
		ItemID:    itm.ID,
		BidderID:  bidder.ID,
		Amount:    req.Amount,
		BidTime:   now,
		Status:    bid.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := client.bidRepo.Record(ctx, newBid, outbid, itm.CurrentBid); err != nil {
		if errors.Is(err, shared.ErrBidSuperseded) {
			client.logger.Warn().
				Str("item_id", itm.ID.String()).
				Float64("expected_current_bid", itm.CurrentBid).
				Msg("Current bid moved while placing bid")
			return nil, shared.ErrBidTooLow
		}
		client.logger.Error().Err(err).Str("bid_id", newBid.ID.String()).Msg("Failed to record bid")
		return nil, err
	}

	itm.RecordBid(req.Amount, now)

	client.logger.Info().
		Str("bid_id", newBid.ID.String()).
		Str("item_id", itm.ID.String()).
		Str("bidder_id", bidder.ID.String()).
		Float64("amount", newBid.Amount).
		Int("total_bids", itm.TotalBids).
		Msg("Bid placed successfully")

	client.notifyBidParticipants(ctx, itm, bidder, previousHighest)

	result := &inbound.PlaceBidResult{Bid: newBid}
	if previousHighest != nil {
		result.PreviousBidder = &previousHighest.BidderID
	}
	return result, nil
}

// BidsForItem retrieves bids for an item, highest amount first
func (client *BidService) BidsForItem(ctx context.Context, itemID uuid.UUID) ([]*bid.Bid, error) {
	return client.bidRepo.ListByItem(ctx, itemID)
}

// HighestBid retrieves the highest bid for an item
func (client *BidService) HighestBid(ctx context.Context, itemID uuid.UUID) (*bid.Bid, error) {
	return client.bidRepo.HighestByItem(ctx, itemID)
}

// notifyBidParticipants emits the new-bid, confirmation and outbid
// notifications. Delivery failures are logged and never surfaced to the
// bidder.
func (client *BidService) notifyBidParticipants(ctx context.Context, itm *item.Item, bidder *shared.User, previousHighest *bid.Bid) {
	actionURL := fmt.Sprintf("/items/%s", itm.ID)
	amountStr := fmt.Sprintf("%.2f", itm.CurrentBid)

	client.notify(ctx, shared.Notification{
		UserID:    itm.SellerID,
		Title:     "New bid on " + itm.Title,
		Message:   fmt.Sprintf("%s placed a bid of %s", bidder.Name, amountStr),
		Type:      shared.NotifTypeNewBidOnItem,
		ItemID:    &itm.ID,
		ItemTitle: itm.Title,
		ActionURL: actionURL,
	})

	client.notify(ctx, shared.Notification{
		UserID:    bidder.ID,
		Title:     "Bid successful",
		Message:   fmt.Sprintf("You placed a bid of %s on %s", amountStr, itm.Title),
		Type:      shared.NotifTypeBidPlaced,
		ItemID:    &itm.ID,
		ItemTitle: itm.Title,
		ActionURL: actionURL,
	})

	if previousHighest != nil && previousHighest.BidderID != bidder.ID {
		client.notify(ctx, shared.Notification{
			UserID:    previousHighest.BidderID,
			Title:     "You've been outbid!",
			Message:   fmt.Sprintf("Someone bid higher on %s. Current bid: %s", itm.Title, amountStr),
			Type:      shared.NotifTypeOutbid,
			ItemID:    &itm.ID,
			ItemTitle: itm.Title,
			ActionURL: actionURL,
		})
	}
}

func (client *BidService) notify(ctx context.Context, notification shared.Notification) {
	if client.notifier == nil {
		return
	}
	if err := client.notifier.Notify(ctx, notification); err != nil {
		client.logger.Warn().Err(err).
			Str("user_id", notification.UserID.String()).
			Str("type", notification.Type).
			Msg("Failed to dispatch notification")
	}
}

package app

import (
	"context"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/inbound"
	"eauction-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultBidIncrement is applied when a listing does not specify one. The
// increment is informational; bid admission only enforces strictly-greater
// than the current bid.
const defaultBidIncrement = 10.0

// ItemService implements the item listing use cases. Creating an item also
// creates its auction record; the two share one ID and always agree on
// closed-ness.
type ItemService struct {
	itemRepo    outbound.ItemRepository
	auctionRepo outbound.AuctionRepository
	bidRepo     outbound.BidRepository
	userRepo    outbound.UserRepository
	guard       *ItemGuard
	clock       outbound.Clock
	logger      zerolog.Logger
}

type ItemServiceParams struct {
	ItemRepo    outbound.ItemRepository
	AuctionRepo outbound.AuctionRepository
	BidRepo     outbound.BidRepository
	UserRepo    outbound.UserRepository
	Guard       *ItemGuard
	Clock       outbound.Clock
	Logger      zerolog.Logger
}

// NewItemService creates a new item service
func NewItemService(params ItemServiceParams) *ItemService {
	return &ItemService{
		itemRepo:    params.ItemRepo,
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		userRepo:    params.UserRepo,
		guard:       params.Guard,
		clock:       params.Clock,
		logger:      params.Logger.With().Str("component", "item_service").Logger(),
	}
}

// CreateItem lists a new item and creates the paired auction record
func (client *ItemService) CreateItem(ctx context.Context, req inbound.CreateItemRequest) (*item.Item, error) {
	client.logger.Info().
		Str("seller_id", req.SellerID.String()).
		Str("title", req.Title).
		Float64("minimum_bid", req.MinimumBid).
		Time("end_time", req.EndTime).
		Msg("Attempting to create item")

	seller, err := client.userRepo.GetByID(ctx, req.SellerID)
	if err != nil {
		client.logger.Error().Err(err).Str("seller_id", req.SellerID.String()).Msg("Seller not found")
		return nil, shared.ErrUserNotFound
	}

	if req.MinimumBid <= 0 {
		client.logger.Warn().Float64("minimum_bid", req.MinimumBid).Msg("Minimum bid must be greater than 0")
		return nil, shared.ErrInvalidMinimumBid
	}

	now := client.clock.Now()
	start := now
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if err := validateAuctionTimes(start, req.EndTime, now); err != nil {
		client.logger.Warn().
			Time("start_time", start).
			Time("end_time", req.EndTime).
			Msg("Invalid auction times")
		return nil, err
	}

	increment := defaultBidIncrement
	if req.BidIncrement != nil {
		increment = *req.BidIncrement
	}

	status := item.StatusActive
	if start.After(now) {
		status = item.StatusPending
	}

	itm := &item.Item{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		MinimumBid:   req.MinimumBid,
		CurrentBid:   req.MinimumBid,
		BidIncrement: increment,
		SellerID:     seller.ID,
		SellerName:   seller.Name,
		AuctionStart: start,
		AuctionEnd:   req.EndTime,
		Status:       status,
		TotalBids:    0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := client.itemRepo.Create(ctx, itm); err != nil {
		client.logger.Error().Err(err).Str("item_id", itm.ID.String()).Msg("Failed to save item")
		return nil, err
	}

	if err := client.createAuctionForItem(ctx, itm, now); err != nil {
		client.logger.Error().Err(err).Str("item_id", itm.ID.String()).Msg("Failed to create auction for item")
		return nil, err
	}

	client.logger.Info().
		Str("item_id", itm.ID.String()).
		Str("status", string(itm.Status)).
		Time("auction_start", itm.AuctionStart).
		Time("auction_end", itm.AuctionEnd).
		Msg("Item created with auction")

	return itm, nil
}

// UpdateItem updates a listing. Auction times may only change before the
// auction starts and while no bids exist; the minimum bid only while no
// bids exist; a status override is admin-only.
func (client *ItemService) UpdateItem(ctx context.Context, req inbound.UpdateItemRequest) (*item.Item, error) {
	unlock := client.guard.Lock(req.ItemID)
	defer unlock()

	itm, err := client.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, shared.ErrItemNotFound
	}

	if itm.SellerID != req.CallerID && !req.IsAdmin {
		return nil, shared.ErrForbidden
	}

	now := client.clock.Now()
	bidCount, err := client.bidRepo.CountByItem(ctx, itm.ID)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil || req.EndTime != nil {
		if itm.AuctionStarted(now) || bidCount > 0 {
			return nil, shared.ErrTimesLocked
		}
		if req.StartTime == nil || req.EndTime == nil {
			return nil, shared.ErrInvalidEndTime
		}
		if err := validateAuctionTimes(*req.StartTime, *req.EndTime, now); err != nil {
			return nil, err
		}
		itm.AuctionStart = *req.StartTime
		itm.AuctionEnd = *req.EndTime
	}

	itm.Title = req.Title
	itm.Description = req.Description
	itm.Category = req.Category

	if bidCount == 0 && req.MinimumBid > 0 {
		itm.MinimumBid = req.MinimumBid
		if itm.CurrentBid < req.MinimumBid {
			itm.CurrentBid = req.MinimumBid
		}
	}
	if req.BidIncrement != nil {
		itm.BidIncrement = *req.BidIncrement
	}
	if req.Status != nil && req.IsAdmin {
		itm.Status = *req.Status
	}
	itm.UpdatedAt = now

	if err := client.itemRepo.Update(ctx, itm); err != nil {
		client.logger.Error().Err(err).Str("item_id", itm.ID.String()).Msg("Failed to update item")
		return nil, err
	}

	if err := client.syncAuctionTimeline(ctx, itm, now); err != nil {
		client.logger.Error().Err(err).Str("item_id", itm.ID.String()).Msg("Failed to sync auction timeline")
		return nil, err
	}

	client.logger.Info().Str("item_id", itm.ID.String()).Msg("Item updated")
	return itm, nil
}

// DeleteItem deletes an item and its auction. Guarded by "no bids exist".
func (client *ItemService) DeleteItem(ctx context.Context, itemID, callerID uuid.UUID, isAdmin bool) error {
	unlock := client.guard.Lock(itemID)
	defer unlock()

	itm, err := client.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return shared.ErrItemNotFound
	}

	if itm.SellerID != callerID && !isAdmin {
		return shared.ErrForbidden
	}

	bidCount, err := client.bidRepo.CountByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if bidCount > 0 {
		return shared.ErrItemHasBids
	}

	if err := client.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}
	if err := client.auctionRepo.Delete(ctx, itemID); err != nil {
		client.logger.Warn().Err(err).Str("item_id", itemID.String()).Msg("Failed to delete auction for item")
	}

	client.logger.Info().Str("item_id", itemID.String()).Msg("Item deleted")
	return nil
}

// GetItem retrieves an item by ID
func (client *ItemService) GetItem(ctx context.Context, itemID uuid.UUID) (*item.Item, error) {
	itm, err := client.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, shared.ErrItemNotFound
	}
	return itm, nil
}

// ListItemsByStatus retrieves items with the given status
func (client *ItemService) ListItemsByStatus(ctx context.Context, status item.Status, page, pageSize int) ([]*item.Item, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return client.itemRepo.ListByStatus(ctx, status, page, pageSize)
}

// ListItemsBySeller retrieves all items listed by a seller
func (client *ItemService) ListItemsBySeller(ctx context.Context, sellerID uuid.UUID) ([]*item.Item, error) {
	return client.itemRepo.ListBySeller(ctx, sellerID)
}

// ListOpenItems retrieves active and upcoming items whose auction has not
// ended yet
func (client *ItemService) ListOpenItems(ctx context.Context) ([]*item.Item, error) {
	return client.itemRepo.ListOpen(ctx, client.clock.Now())
}

func (client *ItemService) createAuctionForItem(ctx context.Context, itm *item.Item, now time.Time) error {
	status := auction.StatusScheduled
	if itm.Status == item.StatusActive {
		status = auction.StatusActive
	}
	auc := &auction.Auction{
		ID:        itm.ID,
		ItemID:    itm.ID,
		StartTime: itm.AuctionStart,
		EndTime:   itm.AuctionEnd,
		Status:    status,
		TotalBids: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return client.auctionRepo.Create(ctx, auc)
}

func (client *ItemService) syncAuctionTimeline(ctx context.Context, itm *item.Item, now time.Time) error {
	auc, err := client.auctionRepo.GetByID(ctx, itm.ID)
	if err != nil {
		return client.createAuctionForItem(ctx, itm, now)
	}
	auc.StartTime = itm.AuctionStart
	auc.EndTime = itm.AuctionEnd
	auc.UpdatedAt = now
	return client.auctionRepo.Update(ctx, auc)
}

// validateAuctionTimes checks that the bidding window is well-formed: the
// end must be strictly after the start and in the future.
func validateAuctionTimes(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.ErrInvalidStartTime
	}
	if !end.After(start) {
		return shared.ErrInvalidEndTime
	}
	if !end.After(now) {
		return shared.ErrInvalidEndTime
	}
	return nil
}

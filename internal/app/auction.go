package app

import (
	"context"
	"fmt"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/inbound"
	"eauction-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultEndingSoonWindow is how far ahead of an auction's end time the
// one-shot ending-soon notification fires.
const DefaultEndingSoonWindow = time.Hour

// AuctionService owns the auction lifecycle state machine: it enforces the
// scheduled -> active -> ended progression, finalizes the bid history on
// close and emits the resulting domain notifications.
type AuctionService struct {
	auctionRepo outbound.AuctionRepository
	itemRepo    outbound.ItemRepository
	bidRepo     outbound.BidRepository
	userRepo    outbound.UserRepository
	notifier    outbound.Notifier
	emailer     outbound.EmailDispatcher
	guard       *ItemGuard
	clock       outbound.Clock
	window      time.Duration
	logger      zerolog.Logger
}

type AuctionServiceParams struct {
	AuctionRepo      outbound.AuctionRepository
	ItemRepo         outbound.ItemRepository
	BidRepo          outbound.BidRepository
	UserRepo         outbound.UserRepository
	Notifier         outbound.Notifier
	Emailer          outbound.EmailDispatcher
	Guard            *ItemGuard
	Clock            outbound.Clock
	EndingSoonWindow time.Duration
	Logger           zerolog.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(params AuctionServiceParams) *AuctionService {
	window := params.EndingSoonWindow
	if window <= 0 {
		window = DefaultEndingSoonWindow
	}
	return &AuctionService{
		auctionRepo: params.AuctionRepo,
		itemRepo:    params.ItemRepo,
		bidRepo:     params.BidRepo,
		userRepo:    params.UserRepo,
		notifier:    params.Notifier,
		emailer:     params.Emailer,
		guard:       params.Guard,
		clock:       params.Clock,
		window:      window,
		logger:      params.Logger.With().Str("component", "auction_service").Logger(),
	}
}

// GetAuction retrieves an auction by ID
func (client *AuctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*auction.Auction, error) {
	return client.auctionRepo.GetByID(ctx, auctionID)
}

// Activate moves a scheduled auction whose start time has passed to active
// and cascades the item to active. Calling it on an auction that is already
// active or ended is a no-op, so overlapping sweeps cannot double-apply it.
func (client *AuctionService) Activate(ctx context.Context, auctionID uuid.UUID) error {
	unlock := client.guard.Lock(auctionID)
	defer unlock()

	auc, err := client.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	now := client.clock.Now()
	if !auc.DueForActivation(now) {
		return nil
	}

	auc.Activate(now)
	if err := client.auctionRepo.Update(ctx, auc); err != nil {
		client.logger.Error().Err(err).Str("auction_id", auc.ID.String()).Msg("Failed to activate auction")
		return err
	}

	itm, err := client.itemRepo.GetByID(ctx, auc.ItemID)
	if err != nil {
		client.logger.Error().Err(err).Str("item_id", auc.ItemID.String()).Msg("Item missing while activating auction")
		return err
	}
	itm.Status = item.StatusActive
	itm.UpdatedAt = now
	if err := client.itemRepo.Update(ctx, itm); err != nil {
		return err
	}

	client.logger.Info().Str("auction_id", auc.ID.String()).Msg("Auction moved to active")
	return nil
}

// CloseExpired finalizes an active auction whose end time has passed. It is
// idempotent: an already-ended auction is a silent no-op, and an auction
// whose end time has not arrived yet (for instance because its timeline was
// edited between sweep selection and execution) is left alone.
func (client *AuctionService) CloseExpired(ctx context.Context, auctionID uuid.UUID) (*shared.CloseResult, error) {
	unlock := client.guard.Lock(auctionID)
	defer unlock()

	auc, err := client.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	if auc.IsEnded() {
		return nil, nil
	}

	now := client.clock.Now()
	if !auc.DueForClose(now) {
		return nil, nil
	}

	return client.finalize(ctx, auc, now, auction.TriggerScheduled)
}

// CloseManually finalizes an auction on behalf of its seller or an
// administrator, regardless of the end time. A repeated manual close is an
// explicit error, not a no-op.
func (client *AuctionService) CloseManually(ctx context.Context, req inbound.CloseAuctionRequest) (*shared.CloseResult, error) {
	if req.CallerID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	unlock := client.guard.Lock(req.AuctionID)
	defer unlock()

	auc, err := client.auctionRepo.GetByID(ctx, req.AuctionID)
	if err != nil {
		return nil, err
	}

	if auc.IsEnded() {
		client.logger.Warn().Str("auction_id", auc.ID.String()).Msg("Manual close on already-ended auction")
		return nil, shared.ErrAuctionAlreadyClosed
	}

	itm, err := client.itemRepo.GetByID(ctx, auc.ItemID)
	if err != nil {
		return nil, shared.ErrItemNotFound
	}
	if itm.SellerID != req.CallerID && !req.IsAdmin {
		return nil, shared.ErrForbidden
	}

	return client.finalize(ctx, auc, client.clock.Now(), auction.TriggerManual)
}

// MarkEndingSoon flags an active auction ending within the notification
// window and emits one ending-soon notification to the seller and the
// current highest bidder. The flag makes the notification exactly-once no
// matter how many sweep ticks observe the window.
func (client *AuctionService) MarkEndingSoon(ctx context.Context, auctionID uuid.UUID) error {
	unlock := client.guard.Lock(auctionID)
	defer unlock()

	auc, err := client.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	now := client.clock.Now()
	if !auc.EndingSoon(now, client.window) {
		return nil
	}

	itm, err := client.itemRepo.GetByID(ctx, auc.ItemID)
	if err != nil {
		return err
	}

	auc.EndingSoonNotified = true
	auc.UpdatedAt = now
	if err := client.auctionRepo.Update(ctx, auc); err != nil {
		return err
	}

	actionURL := fmt.Sprintf("/items/%s", itm.ID)
	message := fmt.Sprintf("%s ends in 1 hour. Current bid: %.2f", itm.Title, itm.CurrentBid)

	client.notify(ctx, shared.Notification{
		UserID:    itm.SellerID,
		Title:     "Auction ending soon!",
		Message:   message,
		Type:      shared.NotifTypeEndingSoon,
		ItemID:    &itm.ID,
		ItemTitle: itm.Title,
		ActionURL: actionURL,
	})

	highest, err := client.bidRepo.HighestByItem(ctx, itm.ID)
	if err == nil && highest != nil {
		client.notify(ctx, shared.Notification{
			UserID:    highest.BidderID,
			Title:     "Auction ending soon!",
			Message:   message,
			Type:      shared.NotifTypeEndingSoon,
			ItemID:    &itm.ID,
			ItemTitle: itm.Title,
			ActionURL: actionURL,
		})
	}

	client.logger.Info().Str("auction_id", auc.ID.String()).Msg("Ending-soon notification sent")
	return nil
}

// finalize resolves the winner, ends the auction, settles every bid's final
// status and moves the item to sold or closed. The caller holds the item
// lock.
func (client *AuctionService) finalize(ctx context.Context, auc *auction.Auction, now time.Time, trigger auction.CloseTrigger) (*shared.CloseResult, error) {
	client.logger.Info().
		Str("auction_id", auc.ID.String()).
		Str("trigger", string(trigger)).
		Msg("Finalizing auction")

	bids, err := client.bidRepo.ListByItem(ctx, auc.ItemID)
	if err != nil {
		return nil, err
	}

	outcome := ResolveWinner(bids)

	var winnerID *uuid.UUID
	var winningBid *float64
	if outcome.HasWinner() {
		outcome.Winner.MarkWon(now)
		for _, loser := range outcome.Losers {
			loser.MarkLost(now)
		}
		finalized := append([]*bid.Bid{outcome.Winner}, outcome.Losers...)
		if err := client.bidRepo.FinalizeStatuses(ctx, finalized); err != nil {
			return nil, err
		}
		winnerID = &outcome.Winner.BidderID
		winningBid = &outcome.Winner.Amount
	}

	auc.End(winnerID, winningBid, now)
	if err := client.auctionRepo.Update(ctx, auc); err != nil {
		return nil, err
	}

	itm, err := client.itemRepo.GetByID(ctx, auc.ItemID)
	if err != nil {
		return nil, shared.ErrItemNotFound
	}
	if outcome.HasWinner() {
		itm.MarkSold(outcome.Winner.Amount, now)
	} else {
		itm.MarkClosed(now)
	}
	if err := client.itemRepo.Update(ctx, itm); err != nil {
		return nil, err
	}

	client.notifyCloseParticipants(ctx, itm, outcome)

	if outcome.HasWinner() {
		client.logger.Info().
			Str("auction_id", auc.ID.String()).
			Str("winner_id", winnerID.String()).
			Float64("winning_bid", *winningBid).
			Msg("Auction closed with winner")
	} else {
		client.logger.Info().Str("auction_id", auc.ID.String()).Msg("Auction closed with no bids")
	}

	return &shared.CloseResult{
		AuctionID:  auc.ID,
		WinnerID:   winnerID,
		WinningBid: winningBid,
		ItemStatus: string(itm.Status),
	}, nil
}

// notifyCloseParticipants fans out close notifications to the seller, the
// winner and every losing bidder, plus best-effort emails to the seller and
// winner when the item sold. None of it can fail the close.
func (client *AuctionService) notifyCloseParticipants(ctx context.Context, itm *item.Item, outcome WinnerOutcome) {
	actionURL := fmt.Sprintf("/items/%s", itm.ID)

	seller, err := client.userRepo.GetByID(ctx, itm.SellerID)
	if err != nil {
		client.logger.Warn().Err(err).Str("seller_id", itm.SellerID.String()).Msg("Seller not found for close notification")
	}

	if outcome.HasWinner() {
		winning := outcome.Winner
		amountStr := fmt.Sprintf("%.2f", winning.Amount)

		winner, err := client.userRepo.GetByID(ctx, winning.BidderID)
		if err != nil {
			client.logger.Warn().Err(err).Str("winner_id", winning.BidderID.String()).Msg("Winner not found for close notification")
		}

		if seller != nil {
			buyerName := "the winning bidder"
			if winner != nil {
				buyerName = winner.Name
			}
			client.notify(ctx, shared.Notification{
				UserID:    seller.ID,
				Title:     "Your item sold!",
				Message:   fmt.Sprintf("Your item %s sold to %s for %s", itm.Title, buyerName, amountStr),
				Type:      shared.NotifTypeItemSold,
				ItemID:    &itm.ID,
				ItemTitle: itm.Title,
				ActionURL: actionURL,
			})
			client.email(ctx, shared.EmailMessage{
				To:      seller.Email,
				Subject: "Your item was sold",
				Body:    fmt.Sprintf("Your item %s sold for %s.", itm.Title, amountStr),
			})
		}

		if winner != nil {
			client.notify(ctx, shared.Notification{
				UserID:    winner.ID,
				Title:     "Congratulations!",
				Message:   fmt.Sprintf("You won %s for %s", itm.Title, amountStr),
				Type:      shared.NotifTypeAuctionWon,
				ItemID:    &itm.ID,
				ItemTitle: itm.Title,
				ActionURL: actionURL,
			})
			client.email(ctx, shared.EmailMessage{
				To:      winner.Email,
				Subject: "You won the auction",
				Body:    fmt.Sprintf("Congratulations! You won %s for %s.", itm.Title, amountStr),
			})
		}

		for _, loser := range outcome.Losers {
			client.notify(ctx, shared.Notification{
				UserID:    loser.BidderID,
				Title:     "Auction ended",
				Message:   fmt.Sprintf("You didn't win %s. Final price: %s", itm.Title, amountStr),
				Type:      shared.NotifTypeAuctionLost,
				ItemID:    &itm.ID,
				ItemTitle: itm.Title,
				ActionURL: actionURL,
			})
		}
		return
	}

	if seller != nil {
		client.notify(ctx, shared.Notification{
			UserID:    seller.ID,
			Title:     "Auction ended",
			Message:   fmt.Sprintf("Your auction for %s ended without any winning bids.", itm.Title),
			Type:      shared.NotifTypeAuctionEnded,
			ItemID:    &itm.ID,
			ItemTitle: itm.Title,
			ActionURL: actionURL,
		})
	}
}

func (client *AuctionService) notify(ctx context.Context, notification shared.Notification) {
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

func (client *AuctionService) email(ctx context.Context, msg shared.EmailMessage) {
	if client.emailer == nil || msg.To == "" {
		return
	}
	if err := client.emailer.Send(ctx, msg); err != nil {
		client.logger.Warn().Err(err).Str("to", msg.To).Msg("Failed to send email")
	}
}

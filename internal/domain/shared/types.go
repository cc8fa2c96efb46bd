package shared

import "github.com/google/uuid"

// Notification types emitted by the core
const (
	NotifTypeNewBidOnItem = "NEW_BID_ON_ITEM"
	NotifTypeBidPlaced    = "BID_PLACED"
	NotifTypeOutbid       = "OUTBID"
	NotifTypeEndingSoon   = "AUCTION_ENDING_SOON"
	NotifTypeAuctionWon   = "AUCTION_WON"
	NotifTypeAuctionLost  = "AUCTION_LOST"
	NotifTypeItemSold     = "ITEM_SOLD"
	NotifTypeAuctionEnded = "AUCTION_CLOSED"
)

// CloseResult represents the outcome of finalizing an auction
type CloseResult struct {
	AuctionID  uuid.UUID
	WinnerID   *uuid.UUID
	WinningBid *float64
	ItemStatus string
}

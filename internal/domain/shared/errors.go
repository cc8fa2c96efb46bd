package shared

import "errors"

// Domain-specific errors
var (
	// Auction errors
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrAuctionAlreadyClosed = errors.New("auction already closed")
	ErrAuctionNotActive     = errors.New("auction is not active")
	ErrInvalidStartTime     = errors.New("auction start time is required")
	ErrInvalidEndTime       = errors.New("auction end time must be after start time and in the future")

	// Bid errors
	ErrBidTooLow     = errors.New("bid amount must be higher than current bid")
	ErrSelfBid       = errors.New("you cannot bid on your own item")
	ErrNoBidsFound   = errors.New("no bids found")
	ErrBidNotFound   = errors.New("bid not found")
	ErrInvalidBid    = errors.New("bid amount must be greater than 0")
	ErrBidSuperseded = errors.New("current bid changed while placing bid")

	// Item errors
	ErrItemNotFound      = errors.New("item not found")
	ErrItemHasBids       = errors.New("item has bids")
	ErrInvalidMinimumBid = errors.New("minimum bid must be greater than 0")
	ErrTimesLocked       = errors.New("cannot modify auction times after start or when bids exist")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("you are not allowed to perform this action")
	ErrUnauthorized = errors.New("caller identity is required")

	// Database errors
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseTransaction = errors.New("database transaction failed")
)

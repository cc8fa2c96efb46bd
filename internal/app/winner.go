package app

import (
	"sort"

	"eauction-service/internal/domain/bid"
)

// WinnerOutcome partitions a closed item's bid history into the winning bid
// and the rest
type WinnerOutcome struct {
	Winner *bid.Bid
	Losers []*bid.Bid
}

// HasWinner returns true when at least one bid was placed
func (o WinnerOutcome) HasWinner() bool {
	return o.Winner != nil
}

// ResolveWinner determines the winning bid from an item's bid history.
// The highest amount wins; equal amounts cannot be created through bid
// admission, but should they ever appear the earliest bid wins. The input
// slice is not modified and no statuses are changed here; the caller
// applies the outcome.
func ResolveWinner(bids []*bid.Bid) WinnerOutcome {
	if len(bids) == 0 {
		return WinnerOutcome{}
	}

	ranked := make([]*bid.Bid, len(bids))
	copy(ranked, bids)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].BidTime.Before(ranked[j].BidTime)
	})

	return WinnerOutcome{
		Winner: ranked[0],
		Losers: ranked[1:],
	}
}

package common

import "fmt"

// Trade records a single match. The buy and sell ids sit in fixed positions
// regardless of which side was the taker; the price is always the resting
// order's price.
type Trade struct {
	Price  uint64
	Size   uint64
	BuyID  uint64
	SellID uint64
}

func (t Trade) String() string {
	return fmt.Sprintf("%d@%d buy=#%d sell=#%d", t.Size, t.Price, t.BuyID, t.SellID)
}

// Quote is a top-of-book snapshot. Sizes are level aggregates, not top-order
// sizes. An empty side contributes zeros for both of its fields.
type Quote struct {
	BidPrice uint64
	BidSize  uint64
	AskPrice uint64
	AskSize  uint64
}

func (q Quote) String() string {
	return fmt.Sprintf("bid %d@%d / ask %d@%d", q.BidSize, q.BidPrice, q.AskSize, q.AskPrice)
}

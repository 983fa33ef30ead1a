package common

import "fmt"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

type Order struct {
	ArrivalSeq uint64 // Global arrival counter, final priority tiebreak
	Time       int64  // Event timestamp from the input feed
	ID         uint64 // Client-provided id, unique among live orders
	Side       Side   // Order side
	Price      uint64 // Limit price in ticks
	Size       uint64 // Remaining size, decremented by partial fills
}

func (o Order) String() string {
	return fmt.Sprintf("#%d %s %d@%d (t=%d seq=%d)",
		o.ID, o.Side, o.Size, o.Price, o.Time, o.ArrivalSeq)
}

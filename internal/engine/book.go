package engine

import (
	"skoll/internal/common"

	"github.com/tidwall/btree"
)

// Level is one price level of the aggregated book: the sum of remaining sizes
// of all live orders at that price, plus the live order count for depth
// reporting. A level exists iff its aggregate is strictly positive.
type Level struct {
	Price  uint64
	Size   uint64
	Orders uint64
}

type Levels = btree.BTreeG[*Level]

// sideBook is the price-indexed aggregate view of one side, sorted best
// price first (bids descending, asks ascending). It exists so top-of-book
// reporting is a lookup rather than a queue traversal.
type sideBook struct {
	levels *Levels
}

func newSideBook(side common.Side) *sideBook {
	var levels *Levels
	if side == common.Buy {
		levels = btree.NewBTreeG(func(a, b *Level) bool {
			return a.Price > b.Price
		})
	} else {
		levels = btree.NewBTreeG(func(a, b *Level) bool {
			return a.Price < b.Price
		})
	}
	return &sideBook{levels: levels}
}

func (b *sideBook) add(price, size uint64) {
	level, ok := b.levels.GetMut(&Level{Price: price})
	if ok {
		level.Size += size
		level.Orders++
		return
	}
	b.levels.Set(&Level{Price: price, Size: size, Orders: 1})
}

// subtract removes size from a level, dropping the level when it reaches
// zero. An absent price is a silent no-op: a cancel that raced a match has
// nothing left to undo. Going below zero means the books and the validity
// index have diverged.
func (b *sideBook) subtract(price, size uint64, closesOrder bool) error {
	level, ok := b.levels.GetMut(&Level{Price: price})
	if !ok {
		return nil
	}
	if size > level.Size {
		return ErrBookUndershoot
	}
	level.Size -= size
	if closesOrder {
		level.Orders--
	}
	if level.Size == 0 {
		b.levels.Delete(level)
	}
	return nil
}

func (b *sideBook) get(price uint64) (uint64, bool) {
	level, ok := b.levels.Get(&Level{Price: price})
	if !ok {
		return 0, false
	}
	return level.Size, true
}

// scan visits levels best to worst.
func (b *sideBook) scan(visit func(*Level) bool) {
	b.levels.Scan(visit)
}

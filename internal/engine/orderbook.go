package engine

import (
	"errors"
	"fmt"

	"skoll/internal/common"
)

var (
	ErrDuplicateOrder = errors.New("duplicate live order id")
	ErrBookUndershoot = errors.New("aggregated book undershoot")
	ErrCorruptQueue   = errors.New("queue top has no aggregated level")
)

// OrderBook holds both sides of the book for the session's single symbol.
//
// Three structures cover each side: the priority queue (who trades next),
// the aggregated level view (how much rests at a price), and the shared
// validity index (which ids are live at all). The index is the single source
// of truth for liveness; the queues are reconciled against it lazily.
type OrderBook struct {
	// Pointer to the owning engine, which routes emissions out.
	engine *Engine

	bids *orderQueue
	asks *orderQueue

	bidLevels *sideBook
	askLevels *sideBook

	// live maps order id to the queue's own entry, so a cancel can undo the
	// remaining size without searching the heap.
	live map[uint64]*common.Order
}

func newOrderBook(engine *Engine) OrderBook {
	return OrderBook{
		engine:    engine,
		bids:      newOrderQueue(common.Buy),
		asks:      newOrderQueue(common.Sell),
		bidLevels: newSideBook(common.Buy),
		askLevels: newSideBook(common.Sell),
		live:      make(map[uint64]*common.Order),
	}
}

func (book *OrderBook) isLive(id uint64) bool {
	_, ok := book.live[id]
	return ok
}

func (book *OrderBook) queues(side common.Side) (own, opp *orderQueue) {
	if side == common.Buy {
		return book.bids, book.asks
	}
	return book.asks, book.bids
}

func (book *OrderBook) sides(side common.Side) (own, opp *sideBook) {
	if side == common.Buy {
		return book.bidLevels, book.askLevels
	}
	return book.askLevels, book.bidLevels
}

// Insert makes the order live, posts its size to its side's aggregate view
// and resolves it against the opposite book. Exactly one quote is emitted
// per call, after all trades.
func (book *OrderBook) Insert(order *common.Order) error {
	if book.isLive(order.ID) {
		return fmt.Errorf("%w: #%d", ErrDuplicateOrder, order.ID)
	}
	book.live[order.ID] = order

	own, _ := book.sides(order.Side)
	own.add(order.Price, order.Size)

	quoted, err := book.cross(order)
	if err != nil {
		return err
	}
	if !quoted {
		return book.emitQuote()
	}
	return nil
}

// Cancel removes the order from the validity index and backs its remaining
// size out of the aggregate view. The queue entry is left in place; peekLive
// reclaims it when it surfaces. An unknown id changes nothing. Either way
// one quote is emitted.
func (book *OrderBook) Cancel(id uint64) (bool, error) {
	order, ok := book.live[id]
	if ok {
		delete(book.live, id)
		own, _ := book.sides(order.Side)
		if err := own.subtract(order.Price, order.Size, true); err != nil {
			return true, fmt.Errorf("cancel #%d: %w", id, err)
		}
	}
	return ok, book.emitQuote()
}

// crosses reports whether the incoming order's limit reaches the resting
// top of the opposite side.
func crosses(incoming, top *common.Order) bool {
	if incoming.Side == common.Buy {
		return incoming.Price >= top.Price
	}
	return incoming.Price <= top.Price
}

// cross resolves an incoming order against the opposite book until its limit
// no longer reaches the best resting price, then rests any remainder.
//
// Trades print at the resting order's price: price improvement goes to the
// taker. Returns whether the terminal quote was already emitted, so the
// caller emits it exactly once otherwise.
func (book *OrderBook) cross(incoming *common.Order) (bool, error) {
	own, opp := book.sides(incoming.Side)
	ownQueue, oppQueue := book.queues(incoming.Side)

	for {
		top := oppQueue.peekLive(book.isLive)
		if top == nil || !crosses(incoming, top) {
			break
		}

		switch {
		case incoming.Size > top.Size:
			// Resting order fully consumed; keep sweeping. The quote waits
			// until the incoming order has come to rest.
			qty := top.Size
			incoming.Size -= qty
			delete(book.live, top.ID)
			if err := own.subtract(incoming.Price, qty, false); err != nil {
				return false, err
			}
			if err := opp.subtract(top.Price, qty, true); err != nil {
				return false, err
			}
			if err := book.emitTrade(incoming, top, qty); err != nil {
				return false, err
			}
			oppQueue.pop()

		case incoming.Size < top.Size:
			// Incoming fully consumed; the resting order shrinks in place.
			// Size is not part of the heap key, so the root keeps its seat.
			qty := incoming.Size
			top.Size -= qty
			delete(book.live, incoming.ID)
			if err := own.subtract(incoming.Price, qty, true); err != nil {
				return false, err
			}
			if err := opp.subtract(top.Price, qty, false); err != nil {
				return false, err
			}
			if err := book.emitTrade(incoming, top, qty); err != nil {
				return false, err
			}
			return true, book.emitQuote()

		default:
			// Both consumed. The resting entry stays in its queue as a
			// stale record until it surfaces again.
			qty := incoming.Size
			delete(book.live, incoming.ID)
			delete(book.live, top.ID)
			if err := own.subtract(incoming.Price, qty, true); err != nil {
				return false, err
			}
			if err := opp.subtract(top.Price, qty, true); err != nil {
				return false, err
			}
			if err := book.emitTrade(incoming, top, qty); err != nil {
				return false, err
			}
			return true, book.emitQuote()
		}
	}

	// No cross left; the remainder rests. Its size is already on the
	// aggregate view from Insert.
	ownQueue.push(incoming)
	return false, nil
}

func (book *OrderBook) emitTrade(taker, maker *common.Order, qty uint64) error {
	trade := common.Trade{Price: maker.Price, Size: qty}
	if taker.Side == common.Buy {
		trade.BuyID, trade.SellID = taker.ID, maker.ID
	} else {
		trade.BuyID, trade.SellID = maker.ID, taker.ID
	}
	return book.engine.trade(trade)
}

// emitQuote prunes both queue tops and reports the top-of-book snapshot.
// Sizes are the level aggregates at the surviving top prices.
func (book *OrderBook) emitQuote() error {
	var quote common.Quote
	if top := book.bids.peekLive(book.isLive); top != nil {
		size, ok := book.bidLevels.get(top.Price)
		if !ok {
			return fmt.Errorf("bid %d: %w", top.Price, ErrCorruptQueue)
		}
		quote.BidPrice, quote.BidSize = top.Price, size
	}
	if top := book.asks.peekLive(book.isLive); top != nil {
		size, ok := book.askLevels.get(top.Price)
		if !ok {
			return fmt.Errorf("ask %d: %w", top.Price, ErrCorruptQueue)
		}
		quote.AskPrice, quote.AskSize = top.Price, size
	}
	return book.engine.quote(quote)
}

// Depth visits each side's levels best to worst.
func (book *OrderBook) Depth(side common.Side, visit func(*Level) bool) {
	levels, _ := book.sides(side)
	levels.scan(visit)
}

package engine

import (
	"skoll/internal/common"

	"github.com/rs/zerolog/log"
)

// Reporter receives the engine's emissions. The engine never reads back what
// it reported; implementations are append-only from its point of view.
type Reporter interface {
	Quote(common.Quote) error
	Trade(common.Trade) error
}

// Stats counts what a session processed, for the end-of-run summary.
type Stats struct {
	Events         uint64
	Inserts        uint64
	Cancels        uint64
	IgnoredCancels uint64
	Trades         uint64
	MatchedVolume  uint64
}

// Engine is the matching core. Events are applied strictly serially, each to
// quiescence before the next; there is no locking because there is no
// concurrent caller.
type Engine struct {
	book     OrderBook
	reporter Reporter

	// seq advances once per input event, insert or cancel, so priority
	// tiebreaks reflect global arrival order.
	seq   uint64
	stats Stats
}

func New() *Engine {
	engine := &Engine{}
	engine.book = newOrderBook(engine)
	return engine
}

// SetReporter wires the emission sink. Must be called before the first event.
func (engine *Engine) SetReporter(reporter Reporter) {
	engine.reporter = reporter
}

// Insert applies a new limit order: it becomes live, crosses as far as its
// limit reaches and rests any remainder. One quote is emitted.
func (engine *Engine) Insert(time int64, id uint64, side common.Side, price, size uint64) error {
	seq := engine.seq
	engine.seq++
	engine.stats.Events++
	engine.stats.Inserts++

	order := &common.Order{
		ArrivalSeq: seq,
		Time:       time,
		ID:         id,
		Side:       side,
		Price:      price,
		Size:       size,
	}
	return engine.book.Insert(order)
}

// Cancel removes a live order. An id that is unknown, already matched away
// or already cancelled is a no-op that still emits a quote.
func (engine *Engine) Cancel(time int64, id uint64) error {
	engine.seq++
	engine.stats.Events++
	engine.stats.Cancels++

	known, err := engine.book.Cancel(id)
	if !known {
		engine.stats.IgnoredCancels++
	}
	return err
}

func (engine *Engine) Stats() Stats {
	return engine.stats
}

func (engine *Engine) trade(trade common.Trade) error {
	engine.stats.Trades++
	engine.stats.MatchedVolume += trade.Size
	return engine.reporter.Trade(trade)
}

func (engine *Engine) quote(quote common.Quote) error {
	return engine.reporter.Quote(quote)
}

// LogBook logs both sides' resting depth, best to worst. Debug-level; meant
// for the end of a session, never between events.
func (engine *Engine) LogBook() {
	for _, side := range []common.Side{common.Buy, common.Sell} {
		engine.book.Depth(side, func(level *Level) bool {
			log.Debug().
				Stringer("side", side).
				Uint64("price", level.Price).
				Uint64("size", level.Size).
				Uint64("orders", level.Orders).
				Msg("book level")
			return true
		})
	}
}

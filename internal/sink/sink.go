// Package sink writes the engine's two output streams: top-of-book
// snapshots and trades. Both are CSV, header first, one row per emission,
// buffered until Flush.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"skoll/internal/common"
)

var nbboHeader = []string{"bid_price", "bid_size", "ask_price", "ask_size"}

type NBBO struct {
	csv *csv.Writer
}

func NewNBBO(w io.Writer) (*NBBO, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(nbboHeader); err != nil {
		return nil, fmt.Errorf("nbbo header: %w", err)
	}
	return &NBBO{csv: cw}, nil
}

func (n *NBBO) Write(quote common.Quote) error {
	return n.csv.Write([]string{
		strconv.FormatUint(quote.BidPrice, 10),
		strconv.FormatUint(quote.BidSize, 10),
		strconv.FormatUint(quote.AskPrice, 10),
		strconv.FormatUint(quote.AskSize, 10),
	})
}

func (n *NBBO) Flush() error {
	n.csv.Flush()
	return n.csv.Error()
}

var tradeHeader = []string{"trade_price", "trade_size", "buy_order_id", "sell_order_id"}

type Trades struct {
	csv *csv.Writer
}

func NewTrades(w io.Writer) (*Trades, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return nil, fmt.Errorf("trade header: %w", err)
	}
	return &Trades{csv: cw}, nil
}

func (t *Trades) Write(trade common.Trade) error {
	return t.csv.Write([]string{
		strconv.FormatUint(trade.Price, 10),
		strconv.FormatUint(trade.Size, 10),
		strconv.FormatUint(trade.BuyID, 10),
		strconv.FormatUint(trade.SellID, 10),
	})
}

func (t *Trades) Flush() error {
	t.csv.Flush()
	return t.csv.Error()
}

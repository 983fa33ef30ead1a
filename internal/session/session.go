// Package session drives one full run: it pumps events from the feed into
// the engine, routes the engine's emissions into the sinks and flushes
// everything at the end.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"skoll/internal/common"
	"skoll/internal/engine"
	"skoll/internal/feed"
	"skoll/internal/sink"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

var ErrUnknownEvent = errors.New("unknown event type")

type Session struct {
	engine *engine.Engine
	feed   *feed.Reader
	nbbo   *sink.NBBO
	trades *sink.Trades
	log    zerolog.Logger
}

func New(events *feed.Reader, nbbo *sink.NBBO, trades *sink.Trades) *Session {
	s := &Session{
		engine: engine.New(),
		feed:   events,
		nbbo:   nbbo,
		trades: trades,
		log:    log.With().Str("session", uuid.New().String()).Logger(),
	}
	// The session is the engine's reporter: emissions flow straight into
	// the sinks in emission order.
	s.engine.SetReporter(s)
	return s
}

// Quote implements engine.Reporter.
func (s *Session) Quote(quote common.Quote) error {
	return s.nbbo.Write(quote)
}

// Trade implements engine.Reporter.
func (s *Session) Trade(trade common.Trade) error {
	return s.trades.Write(trade)
}

// Run consumes the entire feed. Each event is processed to quiescence
// before the next is read; the tomb exists so an external cancellation
// (signal) aborts the run between events.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info().Msg("session starting")

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		return s.pump(ctx)
	})
	if err := t.Wait(); err != nil {
		s.flush()
		return err
	}

	if err := s.flush(); err != nil {
		return err
	}

	s.engine.LogBook()
	stats := s.engine.Stats()
	s.log.Info().
		Uint64("events", stats.Events).
		Uint64("inserts", stats.Inserts).
		Uint64("cancels", stats.Cancels).
		Uint64("ignoredCancels", stats.IgnoredCancels).
		Uint64("trades", stats.Trades).
		Uint64("matchedVolume", stats.MatchedVolume).
		Msg("session complete")
	return nil
}

func (s *Session) pump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := s.feed.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := s.dispatch(event); err != nil {
			return fmt.Errorf("line %d: %w", s.feed.Line(), err)
		}
	}
}

func (s *Session) dispatch(event feed.Event) error {
	switch event.Type() {
	case feed.Insert:
		insert, ok := event.(feed.InsertEvent)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnknownEvent, event)
		}
		return s.engine.Insert(insert.Time, insert.ID, insert.Side, insert.Price, insert.Size)
	case feed.Cancel:
		cancel, ok := event.(feed.CancelEvent)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnknownEvent, event)
		}
		return s.engine.Cancel(cancel.Time, cancel.ID)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
}

func (s *Session) flush() error {
	if err := s.nbbo.Flush(); err != nil {
		return fmt.Errorf("flush nbbo: %w", err)
	}
	if err := s.trades.Flush(); err != nil {
		return fmt.Errorf("flush trades: %w", err)
	}
	return nil
}

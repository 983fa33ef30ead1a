// Package feed turns the textual event stream into typed events for the
// matching engine. The stream is CSV: one header row, then one record per
// event, either an insert or a cancel.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"skoll/internal/common"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrMissingHeader  = errors.New("missing header row")
)

type EventType int

const (
	Insert EventType = iota
	Cancel
)

type Event interface {
	Type() EventType
}

type InsertEvent struct {
	Time  int64
	ID    uint64
	Side  common.Side
	Price uint64
	Size  uint64
}

func (InsertEvent) Type() EventType { return Insert }

type CancelEvent struct {
	Time int64
	ID   uint64
}

func (CancelEvent) Type() EventType { return Cancel }

const (
	insertFields = 6
	cancelFields = 3
)

// Reader yields events in arrival order. Any malformed record is fatal to
// the whole stream, reported with its 1-based line number.
type Reader struct {
	csv  *csv.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	// Record shapes differ by action, so field counts are checked per
	// record rather than by the csv layer.
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next returns the next event, io.EOF at end of stream. The header row is
// consumed and discarded on the first call.
func (r *Reader) Next() (Event, error) {
	if r.line == 0 {
		if _, err := r.csv.Read(); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: %s", ErrMalformedEvent, ErrMissingHeader)
			}
			return nil, err
		}
		r.line = 1
	}

	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("line %d: %w: %s", r.line+1, ErrMalformedEvent, err)
	}
	// encoding/csv skips blank lines, so take the line from the reader.
	r.line, _ = r.csv.FieldPos(0)

	event, err := parseEvent(record)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w: %s", r.line, ErrMalformedEvent, err)
	}
	return event, nil
}

// Line reports the 1-based input line of the event most recently returned.
func (r *Reader) Line() int { return r.line }

func parseEvent(record []string) (Event, error) {
	if len(record) < 2 {
		return nil, fmt.Errorf("want at least 2 fields, got %d", len(record))
	}
	switch record[1] {
	case "insert":
		return parseInsert(record)
	case "cancel":
		return parseCancel(record)
	default:
		return nil, fmt.Errorf("unknown action %q", record[1])
	}
}

func parseInsert(record []string) (InsertEvent, error) {
	if len(record) != insertFields {
		return InsertEvent{}, fmt.Errorf("insert wants %d fields, got %d", insertFields, len(record))
	}

	time, err := parseTime(record[0])
	if err != nil {
		return InsertEvent{}, err
	}
	id, err := parsePositive("id", record[2])
	if err != nil {
		return InsertEvent{}, err
	}
	side, err := parseSide(record[3])
	if err != nil {
		return InsertEvent{}, err
	}
	price, err := parsePositive("price", record[4])
	if err != nil {
		return InsertEvent{}, err
	}
	size, err := parsePositive("size", record[5])
	if err != nil {
		return InsertEvent{}, err
	}

	return InsertEvent{Time: time, ID: id, Side: side, Price: price, Size: size}, nil
}

func parseCancel(record []string) (CancelEvent, error) {
	if len(record) != cancelFields {
		return CancelEvent{}, fmt.Errorf("cancel wants %d fields, got %d", cancelFields, len(record))
	}

	time, err := parseTime(record[0])
	if err != nil {
		return CancelEvent{}, err
	}
	id, err := parsePositive("id", record[2])
	if err != nil {
		return CancelEvent{}, err
	}

	return CancelEvent{Time: time, ID: id}, nil
}

func parseTime(field string) (int64, error) {
	time, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q is not an integer", field)
	}
	return time, nil
}

func parsePositive(name, field string) (uint64, error) {
	value, err := strconv.ParseUint(field, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("%s %q is not a positive integer", name, field)
	}
	return value, nil
}

func parseSide(field string) (common.Side, error) {
	switch field {
	case "buy":
		return common.Buy, nil
	case "sell":
		return common.Sell, nil
	default:
		return 0, fmt.Errorf("invalid side %q", field)
	}
}

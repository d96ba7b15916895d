package orderbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the side of the book an order rests on or trades against.
type Side uint8

const (
	// Bid is the buy side.
	Bid Side = iota + 1
	// Offer is the sell side.
	Offer
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Offer:
		return "offer"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

func (s Side) Valid() bool {
	return s == Bid || s == Offer
}

func (s Side) opposite() Side {
	if s == Bid {
		return Offer
	}
	return Bid
}

// ParseSide maps an external side literal onto a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bid", "buy":
		return Bid, nil
	case "offer", "ask", "sell":
		return Offer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

func validateSide(side Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSide, side)
	}
	return nil
}

// Ticks is a price expressed as an integer number of tick increments.
type Ticks int64

// RestingOrder is a read-only view of an order sitting in the book.
type RestingOrder struct {
	ID     uint64
	Side   Side
	FirmID string
	Time   time.Time
	Price  decimal.Decimal
	Qty    int64
}

// order is the arena-resident form of a resting order. prev and next are
// slot indices of its neighbours in the price level queue.
type order struct {
	id     uint64
	side   Side
	firmID string
	time   time.Time
	price  Ticks
	qty    int64

	prev slot
	next slot
}

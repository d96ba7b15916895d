package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one execution between a resting order (maker) and an incoming
// order (taker). Trades are never modified once on the tape.
type Trade struct {
	Time         time.Time
	Price        decimal.Decimal
	Qty          int64
	MakerID      string
	TakerID      string
	BuyerID      string
	SellerID     string
	MakerOrderID uint64
	TakerSide    Side
}

// ExecutionReport is the outcome of one market or limit instruction.
type ExecutionReport struct {
	Trades []Trade

	// OrderInBook is set when a limit order remainder was posted; Order
	// describes it.
	OrderInBook bool
	Order       *RestingOrder
}

// FilledQty is the total quantity traded by the instruction.
func (r ExecutionReport) FilledQty() int64 {
	var total int64
	for _, t := range r.Trades {
		total += t.Qty
	}
	return total
}

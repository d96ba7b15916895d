package orderbook

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ten      = decimal.NewFromInt(10)
	maxTicks = decimal.NewFromInt(math.MaxInt64)
)

// tickSize converts between decimal prices at the API boundary and the
// integer tick counts used as price level keys.
type tickSize struct {
	size      decimal.Decimal
	precision int32
}

// newTickSize derives the display precision as log10(1/size) truncated
// toward zero, so a tick of 0.0001 prints prices with 4 decimals.
func newTickSize(size decimal.Decimal) (tickSize, error) {
	if !size.IsPositive() {
		return tickSize{}, fmt.Errorf("%w: %s", ErrInvalidTickSize, size)
	}

	inv := decimal.NewFromInt(1).DivRound(size, 32)
	var precision int32
	if inv.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		for inv.GreaterThanOrEqual(ten) {
			inv = inv.Div(ten)
			precision++
		}
	} else {
		for inv.Mul(ten).LessThanOrEqual(decimal.NewFromInt(1)) {
			inv = inv.Mul(ten)
			precision--
		}
	}

	return tickSize{size: size, precision: precision}, nil
}

// clip snaps price to the nearest tick, halves rounding up. Prices that are
// not positive after snapping, or whose tick count overflows int64, are
// rejected.
func (t tickSize) clip(price decimal.Decimal) (Ticks, error) {
	if !price.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}

	ticks := price.Div(t.size).Round(0)
	if ticks.GreaterThan(maxTicks) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidPrice, price)
	}
	if !ticks.IsPositive() {
		return 0, fmt.Errorf("%w: %s rounds to zero ticks", ErrInvalidPrice, price)
	}
	return Ticks(ticks.IntPart()), nil
}

func (t tickSize) toDecimal(p Ticks) decimal.Decimal {
	return decimal.NewFromInt(int64(p)).Mul(t.size)
}

// places is the number of decimals used when printing prices.
func (t tickSize) places() int32 {
	if t.precision < 0 {
		return 0
	}
	return t.precision
}

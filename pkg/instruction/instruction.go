// Package instruction parses the text form of order-entry instructions:
//
//	add market <pair> <size> <side>
//	add limit <pair> <size> <price> <side>
//	cancel <orderId>
package instruction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joripage/limit-orderbook/pkg/orderbook"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCommand = errors.New("unknown instruction")
	ErrMalformed      = errors.New("malformed instruction")
)

type Kind uint8

const (
	MarketOrder Kind = iota + 1
	LimitOrder
	Cancel
)

func (k Kind) String() string {
	switch k {
	case MarketOrder:
		return "market"
	case LimitOrder:
		return "limit"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Instruction is one parsed line. Fields not used by Kind are zero.
type Instruction struct {
	Kind    Kind
	Pair    string
	Side    orderbook.Side
	Qty     int64
	Price   decimal.Decimal
	OrderID uint64
}

// Parse reads a single instruction. Keywords and sides are case-insensitive;
// the pair is returned lower-cased.
func Parse(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	switch strings.ToLower(fields[0]) {
	case "add":
		return parseAdd(fields)
	case "cancel":
		return parseCancel(fields)
	default:
		return Instruction{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
}

func parseAdd(fields []string) (Instruction, error) {
	if len(fields) < 2 {
		return Instruction{}, fmt.Errorf("%w: add needs an order type", ErrMalformed)
	}

	var ins Instruction
	switch strings.ToLower(fields[1]) {
	case "market":
		if len(fields) != 5 {
			return Instruction{}, fmt.Errorf("%w: want 'add market <pair> <size> <side>'", ErrMalformed)
		}
		ins.Kind = MarketOrder
	case "limit":
		if len(fields) != 6 {
			return Instruction{}, fmt.Errorf("%w: want 'add limit <pair> <size> <price> <side>'", ErrMalformed)
		}
		ins.Kind = LimitOrder
		price, err := decimal.NewFromString(fields[4])
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: price %q: %v", ErrMalformed, fields[4], err)
		}
		ins.Price = price
	default:
		return Instruction{}, fmt.Errorf("%w: order type %q", ErrUnknownCommand, fields[1])
	}

	ins.Pair = strings.ToLower(fields[2])

	qty, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: size %q: %v", ErrMalformed, fields[3], err)
	}
	ins.Qty = qty

	side, err := orderbook.ParseSide(fields[len(fields)-1])
	if err != nil {
		return Instruction{}, err
	}
	ins.Side = side

	return ins, nil
}

func parseCancel(fields []string) (Instruction, error) {
	if len(fields) != 2 {
		return Instruction{}, fmt.Errorf("%w: want 'cancel <orderId>'", ErrMalformed)
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: order id %q: %v", ErrMalformed, fields[1], err)
	}
	return Instruction{Kind: Cancel, OrderID: id}, nil
}

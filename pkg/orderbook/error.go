package orderbook

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidSide     = errors.New("invalid order side")
	ErrInvalidQuantity = errors.New("invalid order quantity")
	ErrInvalidPrice    = errors.New("invalid order price")
	ErrInvalidTickSize = errors.New("invalid tick size")
)

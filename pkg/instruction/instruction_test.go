package instruction

import (
	"testing"

	"github.com/joripage/limit-orderbook/pkg/orderbook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		line string
		want Instruction
	}{
		{
			line: "add market eur/usd 1000 bid",
			want: Instruction{Kind: MarketOrder, Pair: "eur/usd", Side: orderbook.Bid, Qty: 1000},
		},
		{
			line: "ADD LIMIT EUR/USD 1000 1.6131 offer",
			want: Instruction{Kind: LimitOrder, Pair: "eur/usd", Side: orderbook.Offer, Qty: 1000, Price: decimal.RequireFromString("1.6131")},
		},
		{
			line: "  cancel   17 ",
			want: Instruction{Kind: Cancel, OrderID: 17},
		},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want.Kind, got.Kind)
			assert.Equal(t, tc.want.Pair, got.Pair)
			assert.Equal(t, tc.want.Side, got.Side)
			assert.Equal(t, tc.want.Qty, got.Qty)
			assert.Equal(t, tc.want.OrderID, got.OrderID)
			assert.True(t, tc.want.Price.Equal(got.Price), got.Price.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{"", ErrMalformed},
		{"modify 3", ErrUnknownCommand},
		{"add", ErrMalformed},
		{"add stop eur/usd 10 bid", ErrUnknownCommand},
		{"add market eur/usd 10", ErrMalformed},
		{"add market eur/usd ten bid", ErrMalformed},
		{"add limit eur/usd 10 bid", ErrMalformed},
		{"add limit eur/usd 10 one bid", ErrMalformed},
		{"add market eur/usd 10 up", orderbook.ErrInvalidSide},
		{"cancel", ErrMalformed},
		{"cancel -1", ErrMalformed},
	}

	for _, tc := range cases {
		_, err := Parse(tc.line)
		assert.ErrorIs(t, err, tc.want, tc.line)
	}
}

package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossingLimitOrdersTradeOnce(t *testing.T) {
	ob := newTestEngine(t, "0.0001")

	_, err := ob.ProcessLimitOrder(t0, Offer, 1000, px("1.6130"), "F1")
	require.NoError(t, err)
	report, err := ob.ProcessLimitOrder(t0, Bid, 1000, px("1.6130"), "F2")
	require.NoError(t, err)

	require.Len(t, report.Trades, 1)
	trade := report.Trades[0]
	assert.Equal(t, int64(1000), trade.Qty)
	assert.True(t, trade.Price.Equal(px("1.6130")), trade.Price.String())
	assert.Equal(t, "F1", trade.MakerID)
	assert.Equal(t, "F2", trade.TakerID)
	assert.Equal(t, "F2", trade.BuyerID)
	assert.Equal(t, "F1", trade.SellerID)
	assert.Equal(t, Bid, trade.TakerSide)
	assert.False(t, report.OrderInBook)

	for _, side := range []Side{Bid, Offer} {
		vol, _ := ob.VolumeOnSide(side)
		depth, _ := ob.Depth(side)
		assert.Zero(t, vol, side.String())
		assert.Zero(t, depth, side.String())
	}
	assert.Equal(t, report.Trades, ob.Tape())
}

func TestMarketOrderWalksOfferLevels(t *testing.T) {
	ob := newTestEngine(t, "0.0001")

	first, _ := ob.ProcessLimitOrder(t0, Offer, 500, px("1.6130"), "F1")
	second, _ := ob.ProcessLimitOrder(t0, Offer, 700, px("1.6131"), "F2")

	report, err := ob.ProcessMarketOrder(t0, Bid, 900, "T1")
	require.NoError(t, err)

	require.Len(t, report.Trades, 2)
	assert.Equal(t, int64(500), report.Trades[0].Qty)
	assert.True(t, report.Trades[0].Price.Equal(px("1.6130")))
	assert.Equal(t, "F1", report.Trades[0].MakerID)
	assert.Equal(t, first.Order.ID, report.Trades[0].MakerOrderID)
	assert.Equal(t, int64(400), report.Trades[1].Qty)
	assert.True(t, report.Trades[1].Price.Equal(px("1.6131")))
	assert.Equal(t, "F2", report.Trades[1].MakerID)
	assert.Equal(t, second.Order.ID, report.Trades[1].MakerOrderID)

	left, ok := ob.Order(second.Order.ID)
	require.True(t, ok)
	assert.Equal(t, int64(300), left.Qty)

	vol, _ := ob.VolumeAtPrice(Offer, px("1.6131"))
	assert.Equal(t, int64(300), vol)
	vol, _ = ob.VolumeAtPrice(Offer, px("1.6130"))
	assert.Zero(t, vol)

	bids, _ := ob.VolumeOnSide(Bid)
	depth, _ := ob.Depth(Bid)
	assert.Zero(t, bids)
	assert.Zero(t, depth)
}

func TestPartialFillKeepsHeadOrder(t *testing.T) {
	ob := newTestEngine(t, "0.01")
	head, _ := ob.ProcessLimitOrder(t0, Offer, 10, px("5"), "F1")
	ob.ProcessLimitOrder(t0, Offer, 10, px("5"), "F2")

	report, err := ob.ProcessLimitOrder(t0, Bid, 4, px("5"), "F3")
	require.NoError(t, err)

	require.Len(t, report.Trades, 1)
	assert.Equal(t, int64(4), report.Trades[0].Qty)

	levels, _ := ob.Levels(Offer)
	require.Len(t, levels, 1)
	require.Len(t, levels[0].Orders, 2)
	assert.Equal(t, head.Order.ID, levels[0].Orders[0].ID)
	assert.Equal(t, int64(6), levels[0].Orders[0].Qty)
	assert.Equal(t, int64(16), levels[0].Volume)

	vol, _ := ob.VolumeOnSide(Offer)
	assert.Equal(t, int64(16), vol)
}

func TestLimitPriceClippedToTick(t *testing.T) {
	ob := newTestEngine(t, "0.01")

	report, err := ob.ProcessLimitOrder(t0, Bid, 3, px("1.615"), "F1")
	require.NoError(t, err)
	require.True(t, report.OrderInBook)
	assert.True(t, report.Order.Price.Equal(px("1.62")), report.Order.Price.String())

	best, ok := ob.BestBid()
	require.True(t, ok)
	assert.True(t, best.Equal(px("1.62")))

	// queries clip the same way
	vol, err := ob.VolumeAtPrice(Bid, px("1.6151"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), vol)
}

func TestClippedPricesShareALevel(t *testing.T) {
	ob := newTestEngine(t, "0.0001")

	ob.ProcessLimitOrder(t0, Bid, 1, px("1.61304"), "F1")
	ob.ProcessLimitOrder(t0, Bid, 1, px("1.6130"), "F2")
	ob.ProcessLimitOrder(t0, Bid, 1, px("1.61296"), "F3")

	depth, _ := ob.Depth(Bid)
	assert.Equal(t, 1, depth)
	vol, _ := ob.VolumeAtPrice(Bid, px("1.613"))
	assert.Equal(t, int64(3), vol)
}

func TestCoarseTickSnapsToNearest(t *testing.T) {
	ob := newTestEngine(t, "5")

	report, err := ob.ProcessLimitOrder(t0, Bid, 1, px("17"), "F1")
	require.NoError(t, err)
	require.True(t, report.OrderInBook)
	assert.True(t, report.Order.Price.Equal(px("15")), report.Order.Price.String())

	report, err = ob.ProcessLimitOrder(t0, Offer, 1, px("18"), "F2")
	require.NoError(t, err)
	require.True(t, report.OrderInBook)
	assert.True(t, report.Order.Price.Equal(px("20")), report.Order.Price.String())

	vol, err := ob.VolumeAtPrice(Bid, px("16"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), vol)
}

func TestOutOfRangePriceRejected(t *testing.T) {
	ob := newTestEngine(t, "1")

	_, err := ob.ProcessLimitOrder(t0, Bid, 1, px("18446744073709551716"), "F1")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	n, _ := ob.OrderCount(Bid)
	assert.Zero(t, n)
	_, ok := ob.BestBid()
	assert.False(t, ok)

	_, err = ob.VolumeAtPrice(Bid, px("18446744073709551716"))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestRestOverwritesDuplicateID(t *testing.T) {
	ob := newTestEngine(t, "0.01")

	ob.mu.Lock()
	ob.rest(order{id: 42, side: Bid, firmID: "F1", price: 100, qty: 10})
	ob.rest(order{id: 42, side: Bid, firmID: "F1", price: 101, qty: 5})
	ob.mu.Unlock()

	levels, _ := ob.Levels(Bid)
	require.Len(t, levels, 1)
	assert.True(t, levels[0].Price.Equal(px("1.01")))
	assert.Equal(t, int64(5), levels[0].Volume)

	count, _ := ob.OrderCount(Bid)
	assert.Equal(t, 1, count)

	// same id moving to the other side leaves nothing behind
	ob.mu.Lock()
	ob.rest(order{id: 42, side: Offer, firmID: "F1", price: 110, qty: 2})
	ob.mu.Unlock()

	depth, _ := ob.Depth(Bid)
	assert.Zero(t, depth)
	o, ok := ob.Order(42)
	require.True(t, ok)
	assert.Equal(t, Offer, o.Side)
	assert.Equal(t, int64(2), o.Qty)
}

func TestTopOfBookQueries(t *testing.T) {
	ob := newTestEngine(t, "0.0001")

	_, ok := ob.BestBid()
	assert.False(t, ok)
	_, ok = ob.BestOffer()
	assert.False(t, ok)
	_, ok = ob.Spread()
	assert.False(t, ok)
	_, ok = ob.Mid()
	assert.False(t, ok)

	ob.ProcessLimitOrder(t0, Bid, 1, px("1.6100"), "F1")
	ob.ProcessLimitOrder(t0, Bid, 1, px("1.6120"), "F1")
	ob.ProcessLimitOrder(t0, Offer, 1, px("1.6130"), "F2")
	ob.ProcessLimitOrder(t0, Offer, 1, px("1.6170"), "F2")

	_, ok = ob.Spread()
	require.True(t, ok)

	bestBid, _ := ob.BestBid()
	worstBid, _ := ob.WorstBid()
	bestOffer, _ := ob.BestOffer()
	worstOffer, _ := ob.WorstOffer()
	spread, _ := ob.Spread()
	mid, _ := ob.Mid()

	assert.True(t, bestBid.Equal(px("1.612")), bestBid.String())
	assert.True(t, worstBid.Equal(px("1.61")), worstBid.String())
	assert.True(t, bestOffer.Equal(px("1.613")), bestOffer.String())
	assert.True(t, worstOffer.Equal(px("1.617")), worstOffer.String())
	assert.True(t, spread.Equal(px("0.001")), spread.String())
	assert.True(t, mid.Equal(px("1.6125")), mid.String())
	assert.True(t, ob.BidsAndAsksExist())
	assert.Equal(t, Offer, ob.LastOrderSide())
}

func TestSequentialOrderIDs(t *testing.T) {
	ob := newTestEngine(t, "0.01")

	a, _ := ob.ProcessLimitOrder(t0, Bid, 1, px("1"), "F1")
	// fully matched orders do not consume an id
	ob.ProcessLimitOrder(t0, Offer, 1, px("1"), "F2")
	b, _ := ob.ProcessLimitOrder(t0, Bid, 1, px("1"), "F1")

	assert.Equal(t, uint64(1), a.Order.ID)
	assert.Equal(t, uint64(2), b.Order.ID)
}

func TestNewMatchingEngineRejectsBadTick(t *testing.T) {
	for _, tick := range []string{"0", "-0.01"} {
		_, err := NewMatchingEngine(px(tick))
		assert.ErrorIs(t, err, ErrInvalidTickSize, tick)
	}
}

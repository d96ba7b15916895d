package orderbook

import "github.com/shopspring/decimal"

// LevelView summarizes one price level.
type LevelView struct {
	Price  decimal.Decimal
	Volume int64
	Orders []RestingOrder
}

// TickSize returns the price increment the book snaps prices to.
func (me *MatchingEngine) TickSize() decimal.Decimal {
	return me.tick.size
}

// PricePlaces is the number of decimals implied by the tick size.
func (me *MatchingEngine) PricePlaces() int32 {
	return me.tick.places()
}

// BestBid returns the highest bid price; ok is false when there are no bids.
func (me *MatchingEngine) BestBid() (price decimal.Decimal, ok bool) {
	return me.price(me.bids.bestPrice)
}

// WorstBid returns the lowest bid price.
func (me *MatchingEngine) WorstBid() (price decimal.Decimal, ok bool) {
	return me.price(me.bids.worstPrice)
}

// BestOffer returns the lowest offer price; ok is false when there are no
// offers.
func (me *MatchingEngine) BestOffer() (price decimal.Decimal, ok bool) {
	return me.price(me.asks.bestPrice)
}

// WorstOffer returns the highest offer price.
func (me *MatchingEngine) WorstOffer() (price decimal.Decimal, ok bool) {
	return me.price(me.asks.worstPrice)
}

func (me *MatchingEngine) price(fn func() (Ticks, bool)) (decimal.Decimal, bool) {
	me.mu.RLock()
	defer me.mu.RUnlock()

	p, ok := fn()
	if !ok {
		return decimal.Zero, false
	}
	return me.tick.toDecimal(p), true
}

// Spread is best offer minus best bid. It needs both sides.
func (me *MatchingEngine) Spread() (decimal.Decimal, bool) {
	bid, ask, ok := me.top()
	if !ok {
		return decimal.Zero, false
	}
	return me.tick.toDecimal(ask - bid), true
}

// Mid is best bid plus half the spread. It needs both sides.
func (me *MatchingEngine) Mid() (decimal.Decimal, bool) {
	bid, ask, ok := me.top()
	if !ok {
		return decimal.Zero, false
	}
	spread := me.tick.toDecimal(ask - bid)
	return me.tick.toDecimal(bid).Add(spread.Div(decimal.NewFromInt(2))), true
}

func (me *MatchingEngine) top() (bid, ask Ticks, ok bool) {
	me.mu.RLock()
	defer me.mu.RUnlock()

	bid, bidOK := me.bids.bestPrice()
	ask, askOK := me.asks.bestPrice()
	return bid, ask, bidOK && askOK
}

// VolumeOnSide is the total resting quantity on side.
func (me *MatchingEngine) VolumeOnSide(side Side) (int64, error) {
	if err := validateSide(side); err != nil {
		return 0, err
	}

	me.mu.RLock()
	defer me.mu.RUnlock()

	return me.book(side).volume, nil
}

// VolumeAtPrice is the resting quantity at price on side, after snapping
// price to the tick grid. A price without a level has zero volume.
func (me *MatchingEngine) VolumeAtPrice(side Side, price decimal.Decimal) (int64, error) {
	if err := validateSide(side); err != nil {
		return 0, err
	}
	ticks, err := me.tick.clip(price)
	if err != nil {
		return 0, err
	}

	me.mu.RLock()
	defer me.mu.RUnlock()

	q, ok := me.book(side).levelAt(ticks)
	if !ok {
		return 0, nil
	}
	return q.volume, nil
}

// Depth is the number of distinct price levels on side.
func (me *MatchingEngine) Depth(side Side) (int, error) {
	if err := validateSide(side); err != nil {
		return 0, err
	}

	me.mu.RLock()
	defer me.mu.RUnlock()

	return me.book(side).depth(), nil
}

// OrderCount is the number of resting orders on side.
func (me *MatchingEngine) OrderCount(side Side) (int, error) {
	if err := validateSide(side); err != nil {
		return 0, err
	}

	me.mu.RLock()
	defer me.mu.RUnlock()

	return me.book(side).nOrders, nil
}

// BidsAndAsksExist reports whether both sides have resting orders.
func (me *MatchingEngine) BidsAndAsksExist() bool {
	me.mu.RLock()
	defer me.mu.RUnlock()

	return me.bids.nOrders > 0 && me.asks.nOrders > 0
}

// LastOrderSide is the side of the most recent market or limit order.
func (me *MatchingEngine) LastOrderSide() Side {
	me.mu.RLock()
	defer me.mu.RUnlock()

	return me.lastSide
}

// Tape returns a copy of every trade since the engine was created or last
// reset, oldest first.
func (me *MatchingEngine) Tape() []Trade {
	me.mu.RLock()
	defer me.mu.RUnlock()

	tape := make([]Trade, len(me.tape))
	copy(tape, me.tape)
	return tape
}

// Order looks up a resting order by id.
func (me *MatchingEngine) Order(orderID uint64) (RestingOrder, bool) {
	me.mu.RLock()
	defer me.mu.RUnlock()

	side, ok := me.sides[orderID]
	if !ok {
		return RestingOrder{}, false
	}
	o, ok := me.book(side).lookup(orderID)
	if !ok {
		return RestingOrder{}, false
	}
	return *me.view(o), true
}

// Levels lists the price levels of side from best to worst, each with its
// orders in time priority.
func (me *MatchingEngine) Levels(side Side) ([]LevelView, error) {
	if err := validateSide(side); err != nil {
		return nil, err
	}

	me.mu.RLock()
	defer me.mu.RUnlock()

	book := me.book(side)
	levels := make([]LevelView, 0, book.depth())
	book.walkBestFirst(func(q *orderQueue) bool {
		lv := LevelView{
			Price:  me.tick.toDecimal(q.price),
			Volume: q.volume,
			Orders: make([]RestingOrder, 0, q.length),
		}
		q.each(book.orders, func(o *order) bool {
			lv.Orders = append(lv.Orders, *me.view(o))
			return true
		})
		levels = append(levels, lv)
		return true
	})
	return levels, nil
}

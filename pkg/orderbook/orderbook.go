package orderbook

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Option configures a MatchingEngine.
type Option func(*MatchingEngine)

// WithLogger sets the logger used for instruction and trade logs.
func WithLogger(logger *zap.Logger) Option {
	return func(me *MatchingEngine) {
		if logger != nil {
			me.logger = logger
		}
	}
}

// MatchingEngine is a limit order book for a single instrument matching
// under price-time priority.
//
// Instructions are serialized on an internal lock, so each one is applied
// completely before the next starts. Queries may run concurrently with each
// other.
type MatchingEngine struct {
	mu sync.RWMutex

	tick tickSize
	bids *priceLevelIndex
	asks *priceLevelIndex

	// sides routes cancels to the side an order id rests on.
	sides    map[uint64]Side
	tape     []Trade
	nextID   uint64
	lastSide Side

	callbacks []func([]Trade)
	logger    *zap.Logger
}

// NewMatchingEngine creates an empty book whose prices are snapped to
// tickSize.
func NewMatchingEngine(tickSize decimal.Decimal, opts ...Option) (*MatchingEngine, error) {
	tick, err := newTickSize(tickSize)
	if err != nil {
		return nil, err
	}

	me := &MatchingEngine{
		tick:   tick,
		bids:   newPriceLevelIndex(Bid),
		asks:   newPriceLevelIndex(Offer),
		sides:  make(map[uint64]Side),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(me)
	}
	me.resetLocked()

	return me, nil
}

// Reset drops every resting order and trade and restarts order ids.
func (me *MatchingEngine) Reset() {
	me.mu.Lock()
	defer me.mu.Unlock()

	me.resetLocked()
	me.logger.Debug("order book reset")
}

func (me *MatchingEngine) resetLocked() {
	me.tape = nil
	me.bids.reset()
	me.asks.reset()
	clear(me.sides)
	me.nextID = 0
	me.lastSide = Bid
}

// RegisterTradeCallback adds fn to the functions called with the trades of
// every instruction that produced at least one. Callbacks run after the
// instruction has been applied and must not block.
func (me *MatchingEngine) RegisterTradeCallback(fn func(trades []Trade)) {
	me.mu.Lock()
	defer me.mu.Unlock()

	me.callbacks = append(me.callbacks, fn)
}

// ProcessMarketOrder trades qty against the opposite side at whatever prices
// rest there. Quantity left once the opposite side is empty is dropped; a
// market order never rests.
func (me *MatchingEngine) ProcessMarketOrder(ts time.Time, side Side, qty int64, takerID string) (ExecutionReport, error) {
	if err := validateOrder(side, qty); err != nil {
		me.logger.Warn("market order rejected",
			zap.Stringer("side", side), zap.Int64("qty", qty), zap.String("taker", takerID), zap.Error(err))
		return ExecutionReport{}, err
	}

	me.mu.Lock()
	report := me.executeMarket(ts, side, qty, takerID)
	callbacks := me.callbacks
	me.mu.Unlock()

	me.logger.Debug("market order processed",
		zap.Stringer("side", side), zap.Int64("qty", qty), zap.String("taker", takerID),
		zap.Int("trades", len(report.Trades)), zap.Int64("filled", report.FilledQty()))
	notify(callbacks, report.Trades)

	return report, nil
}

// ProcessLimitOrder snaps price to the tick grid, trades qty against the
// opposite side while it is marketable and posts the remainder on side.
func (me *MatchingEngine) ProcessLimitOrder(ts time.Time, side Side, qty int64, price decimal.Decimal, firmID string) (ExecutionReport, error) {
	err := validateOrder(side, qty)
	var ticks Ticks
	if err == nil {
		ticks, err = me.tick.clip(price)
	}
	if err != nil {
		me.logger.Warn("limit order rejected",
			zap.Stringer("side", side), zap.Int64("qty", qty), zap.String("price", price.String()),
			zap.String("firm", firmID), zap.Error(err))
		return ExecutionReport{}, err
	}

	me.mu.Lock()
	report := me.executeLimit(ts, side, qty, ticks, firmID)
	callbacks := me.callbacks
	me.mu.Unlock()

	fields := []zap.Field{
		zap.Stringer("side", side), zap.Int64("qty", qty), zap.String("price", me.tick.toDecimal(ticks).String()),
		zap.String("firm", firmID), zap.Int("trades", len(report.Trades)), zap.Bool("in_book", report.OrderInBook),
	}
	if report.OrderInBook {
		fields = append(fields, zap.Uint64("order_id", report.Order.ID), zap.Int64("resting_qty", report.Order.Qty))
	}
	me.logger.Debug("limit order processed", fields...)
	notify(callbacks, report.Trades)

	return report, nil
}

// CancelOrder removes a resting order. Unknown ids, including orders that
// already filled, return ErrOrderNotFound and leave the book unchanged.
func (me *MatchingEngine) CancelOrder(orderID uint64) error {
	me.mu.Lock()
	defer me.mu.Unlock()

	side, ok := me.sides[orderID]
	if !ok {
		me.logger.Warn("cancel rejected", zap.Uint64("order_id", orderID), zap.Error(ErrOrderNotFound))
		return fmt.Errorf("%w: id=%d", ErrOrderNotFound, orderID)
	}

	removed, ok := me.book(side).remove(orderID)
	if !ok {
		// sides and the arenas are updated together; a miss here is a bug.
		panic(fmt.Sprintf("orderbook: order %d indexed on %s but not resting", orderID, side))
	}
	delete(me.sides, orderID)

	me.logger.Debug("order cancelled",
		zap.Uint64("order_id", orderID), zap.Stringer("side", side), zap.Int64("qty", removed.qty))
	return nil
}

func validateOrder(side Side, qty int64) error {
	if err := validateSide(side); err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	return nil
}

func notify(callbacks []func([]Trade), trades []Trade) {
	if len(trades) == 0 {
		return
	}
	for _, cb := range callbacks {
		cb(trades)
	}
}

func (me *MatchingEngine) book(side Side) *priceLevelIndex {
	if side == Bid {
		return me.bids
	}
	return me.asks
}

func (me *MatchingEngine) executeMarket(ts time.Time, side Side, qty int64, takerID string) ExecutionReport {
	me.lastSide = side
	counter := me.book(side.opposite())

	var trades []Trade
	remaining := qty
	for remaining > 0 && counter.nOrders > 0 {
		best, _ := counter.bestLevel()
		remaining, trades = me.processQueue(ts, counter, best, remaining, side, takerID, trades)
	}

	return ExecutionReport{Trades: trades}
}

func (me *MatchingEngine) executeLimit(ts time.Time, side Side, qty int64, price Ticks, firmID string) ExecutionReport {
	me.lastSide = side
	counter := me.book(side.opposite())

	var trades []Trade
	remaining := qty
	for remaining > 0 && counter.nOrders > 0 {
		best, _ := counter.bestLevel()
		if !crosses(side, price, best.price) {
			break
		}
		remaining, trades = me.processQueue(ts, counter, best, remaining, side, firmID, trades)
	}

	report := ExecutionReport{Trades: trades}
	if remaining > 0 {
		me.nextID++
		o := order{
			id:     me.nextID,
			side:   side,
			firmID: firmID,
			time:   ts,
			price:  price,
			qty:    remaining,
		}
		me.rest(o)
		report.OrderInBook = true
		report.Order = me.view(&o)
	}

	return report
}

// crosses reports whether an incoming limit at price can trade against a
// resting level at best.
func crosses(side Side, price, best Ticks) bool {
	switch side {
	case Bid:
		return price >= best
	case Offer:
		return price <= best
	default:
		return false
	}
}

// rest registers o on its side. An order already resting under the same id,
// on either side, is removed first.
func (me *MatchingEngine) rest(o order) {
	if prev, ok := me.sides[o.id]; ok && prev != o.side {
		me.book(prev).remove(o.id)
		me.logger.Warn("resting order overwritten", zap.Uint64("order_id", o.id), zap.Stringer("side", prev))
	}
	if me.book(o.side).insert(o) {
		me.logger.Warn("resting order overwritten", zap.Uint64("order_id", o.id), zap.Stringer("side", o.side))
	}
	me.sides[o.id] = o.side
}

// processQueue consumes the queue q of the counter side from its head until
// either qty or the queue runs out, appending one trade per fill. It returns
// the quantity still to be matched.
func (me *MatchingEngine) processQueue(
	ts time.Time,
	counter *priceLevelIndex,
	q *orderQueue,
	qty int64,
	side Side,
	takerID string,
	trades []Trade,
) (int64, []Trade) {
	for !q.empty() && qty > 0 {
		s, _ := q.front()
		head := *counter.orders.at(s)

		var traded int64
		if qty < head.qty {
			traded = qty
			counter.reduceAt(q, s, qty)
			qty = 0
		} else {
			traded = head.qty
			counter.removeAt(s)
			delete(me.sides, head.id)
			qty -= traded
		}

		trade := Trade{
			Time:         ts,
			Price:        me.tick.toDecimal(head.price),
			Qty:          traded,
			MakerID:      head.firmID,
			TakerID:      takerID,
			MakerOrderID: head.id,
			TakerSide:    side,
		}
		if counter.side == Offer {
			trade.BuyerID, trade.SellerID = takerID, head.firmID
		} else {
			trade.BuyerID, trade.SellerID = head.firmID, takerID
		}

		trades = append(trades, trade)
		me.tape = append(me.tape, trade)
		me.logger.Debug("trade",
			zap.String("price", trade.Price.String()), zap.Int64("qty", traded),
			zap.String("maker", head.firmID), zap.String("taker", takerID), zap.Uint64("maker_order_id", head.id))
	}

	return qty, trades
}

func (me *MatchingEngine) view(o *order) *RestingOrder {
	return &RestingOrder{
		ID:     o.id,
		Side:   o.side,
		FirmID: o.firmID,
		Time:   o.time,
		Price:  me.tick.toDecimal(o.price),
		Qty:    o.qty,
	}
}

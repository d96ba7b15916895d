package orderbook

import "github.com/google/btree"

const priceLevelsBTreeDegree = 32

// priceLevelIndex is one side of the book: price levels kept in ascending
// price order, each holding the FIFO of orders at that price.
//
// Invariants: every level is non-empty, volume is the sum of resting
// quantities, nOrders the number of resting orders, and depth() the number
// of levels.
type priceLevelIndex struct {
	side    Side
	levels  *btree.BTreeG[*orderQueue]
	orders  *orderArena
	volume  int64
	nOrders int
}

func newPriceLevelIndex(side Side) *priceLevelIndex {
	return &priceLevelIndex{
		side: side,
		levels: btree.NewG(priceLevelsBTreeDegree, func(a, b *orderQueue) bool {
			return a.price < b.price
		}),
		orders: newOrderArena(),
	}
}

func (t *priceLevelIndex) depth() int {
	return t.levels.Len()
}

func (t *priceLevelIndex) levelAt(price Ticks) (*orderQueue, bool) {
	return t.levels.Get(&orderQueue{price: price})
}

func (t *priceLevelIndex) priceExists(price Ticks) bool {
	return t.levels.Has(&orderQueue{price: price})
}

func (t *priceLevelIndex) maxLevel() (*orderQueue, bool) {
	return t.levels.Max()
}

func (t *priceLevelIndex) minLevel() (*orderQueue, bool) {
	return t.levels.Min()
}

func (t *priceLevelIndex) maxPrice() (Ticks, bool) {
	q, ok := t.levels.Max()
	if !ok {
		return 0, false
	}
	return q.price, true
}

func (t *priceLevelIndex) minPrice() (Ticks, bool) {
	q, ok := t.levels.Min()
	if !ok {
		return 0, false
	}
	return q.price, true
}

// bestLevel is the level that matches first: highest bid or lowest offer.
func (t *priceLevelIndex) bestLevel() (*orderQueue, bool) {
	if t.side == Bid {
		return t.maxLevel()
	}
	return t.minLevel()
}

func (t *priceLevelIndex) bestPrice() (Ticks, bool) {
	if t.side == Bid {
		return t.maxPrice()
	}
	return t.minPrice()
}

func (t *priceLevelIndex) worstPrice() (Ticks, bool) {
	if t.side == Bid {
		return t.minPrice()
	}
	return t.maxPrice()
}

// insert appends o at the tail of its price level, creating the level when
// needed. A resident order with the same id is removed first; the return
// value reports whether that happened.
func (t *priceLevelIndex) insert(o order) (replaced bool) {
	if _, ok := t.orders.lookup(o.id); ok {
		t.remove(o.id)
		replaced = true
	}

	q, ok := t.levelAt(o.price)
	if !ok {
		q = newOrderQueue(o.price)
		t.levels.ReplaceOrInsert(q)
	}

	s := t.orders.alloc(o)
	q.append(t.orders, s)
	t.volume += o.qty
	t.nOrders++
	return replaced
}

func (t *priceLevelIndex) lookup(id uint64) (*order, bool) {
	s, ok := t.orders.lookup(id)
	if !ok {
		return nil, false
	}
	return t.orders.at(s), true
}

// remove takes the order out of its level, dropping the level once empty,
// and returns a copy of what was removed.
func (t *priceLevelIndex) remove(id uint64) (order, bool) {
	s, ok := t.orders.lookup(id)
	if !ok {
		return order{}, false
	}
	return t.removeAt(s), true
}

func (t *priceLevelIndex) removeAt(s slot) order {
	o := *t.orders.at(s)
	q, ok := t.levelAt(o.price)
	if !ok {
		panic("orderbook: resting order without price level")
	}

	q.remove(t.orders, s)
	if q.empty() {
		t.levels.Delete(q)
	}
	t.orders.release(s)
	t.volume -= o.qty
	t.nOrders--
	return o
}

// reduceAt lowers the quantity of a partially filled order. It keeps its
// place at the head of its queue.
func (t *priceLevelIndex) reduceAt(q *orderQueue, s slot, qty int64) {
	q.reduce(t.orders, s, qty)
	t.volume -= qty
}

func (t *priceLevelIndex) ascend(fn func(q *orderQueue) bool) {
	t.levels.Ascend(fn)
}

func (t *priceLevelIndex) descend(fn func(q *orderQueue) bool) {
	t.levels.Descend(fn)
}

// walkBestFirst visits levels in matching priority order.
func (t *priceLevelIndex) walkBestFirst(fn func(q *orderQueue) bool) {
	if t.side == Bid {
		t.descend(fn)
		return
	}
	t.ascend(fn)
}

func (t *priceLevelIndex) reset() {
	t.levels.Clear(false)
	t.orders.reset()
	t.volume = 0
	t.nOrders = 0
}

package orderbook

// orderQueue is the FIFO of orders resting at one price. Arrival order is
// time priority; nothing is ever reordered, only removed.
type orderQueue struct {
	price  Ticks
	head   slot
	tail   slot
	volume int64
	length int
}

func newOrderQueue(price Ticks) *orderQueue {
	return &orderQueue{
		price: price,
		head:  nilSlot,
		tail:  nilSlot,
	}
}

func (q *orderQueue) empty() bool {
	return q.length == 0
}

func (q *orderQueue) front() (slot, bool) {
	if q.head == nilSlot {
		return nilSlot, false
	}
	return q.head, true
}

func (q *orderQueue) append(a *orderArena, s slot) {
	o := a.at(s)
	o.prev = q.tail
	o.next = nilSlot
	if q.tail == nilSlot {
		q.head = s
	} else {
		a.at(q.tail).next = s
	}
	q.tail = s
	q.volume += o.qty
	q.length++
}

// remove unlinks s from the queue. The caller still owns the arena slot.
func (q *orderQueue) remove(a *orderArena, s slot) {
	o := a.at(s)
	if o.prev == nilSlot {
		q.head = o.next
	} else {
		a.at(o.prev).next = o.next
	}
	if o.next == nilSlot {
		q.tail = o.prev
	} else {
		a.at(o.next).prev = o.prev
	}
	o.prev, o.next = nilSlot, nilSlot
	q.volume -= o.qty
	q.length--
}

// reduce takes qty off the order in s without touching its position.
func (q *orderQueue) reduce(a *orderArena, s slot, qty int64) {
	a.at(s).qty -= qty
	q.volume -= qty
}

func (q *orderQueue) each(a *orderArena, fn func(o *order) bool) {
	for s := q.head; s != nilSlot; s = a.at(s).next {
		if !fn(a.at(s)) {
			return
		}
	}
}

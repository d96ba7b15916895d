package orderbook

import "github.com/gammazero/deque"

// slot addresses an order inside an orderArena.
type slot int

const nilSlot slot = -1

// orderArena owns every resting order of one side of the book. Queues link
// orders by slot, so removing an order never needs a scan and no order holds
// a pointer back to its queue.
type orderArena struct {
	slots []order
	free  deque.Deque[slot]
	byID  map[uint64]slot
}

func newOrderArena() *orderArena {
	return &orderArena{
		byID: make(map[uint64]slot),
	}
}

func (a *orderArena) alloc(o order) slot {
	o.prev, o.next = nilSlot, nilSlot

	var s slot
	if a.free.Len() > 0 {
		s = a.free.PopFront()
		a.slots[s] = o
	} else {
		s = slot(len(a.slots))
		a.slots = append(a.slots, o)
	}
	a.byID[o.id] = s
	return s
}

func (a *orderArena) release(s slot) {
	delete(a.byID, a.slots[s].id)
	a.slots[s] = order{prev: nilSlot, next: nilSlot}
	a.free.PushBack(s)
}

// at returns the order stored in s. The pointer is only valid until the next
// alloc, which may grow the backing slice.
func (a *orderArena) at(s slot) *order {
	return &a.slots[s]
}

func (a *orderArena) lookup(id uint64) (slot, bool) {
	s, ok := a.byID[id]
	return s, ok
}

func (a *orderArena) len() int {
	return len(a.byID)
}

func (a *orderArena) reset() {
	a.slots = a.slots[:0]
	a.free.Clear()
	clear(a.byID)
}

package engine

import (
	"container/heap"

	"skoll/internal/common"
)

// orderQueue is the best-first ordered view of one side's resting orders.
// Priority is price, then event time, then arrival sequence; the final
// tiebreak makes the order strict, so identical timestamps cannot reorder
// output. Size is deliberately not part of the key: the crossing loop
// decrements the root's size in place without disturbing heap order.
//
// Cancellation is lazy. Cancelled or fully-matched orders stay in the queue
// until they surface at the top, where peekLive discards them.
type orderQueue struct {
	orders []*common.Order
	buy    bool
}

func newOrderQueue(side common.Side) *orderQueue {
	return &orderQueue{buy: side == common.Buy}
}

func (q *orderQueue) Len() int { return len(q.orders) }

func (q *orderQueue) Less(i, j int) bool {
	a, b := q.orders[i], q.orders[j]
	if a.Price != b.Price {
		if q.buy {
			return a.Price > b.Price // Highest buy first
		}
		return a.Price < b.Price // Lowest sell first
	}
	if a.Time != b.Time {
		return a.Time < b.Time // Earliest first
	}
	return a.ArrivalSeq < b.ArrivalSeq
}

func (q *orderQueue) Swap(i, j int) {
	q.orders[i], q.orders[j] = q.orders[j], q.orders[i]
}

func (q *orderQueue) Push(x any) {
	q.orders = append(q.orders, x.(*common.Order))
}

func (q *orderQueue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return o
}

func (q *orderQueue) push(o *common.Order) {
	heap.Push(q, o)
}

func (q *orderQueue) pop() *common.Order {
	return heap.Pop(q).(*common.Order)
}

// peekLive discards stale tops until the queue is empty or a live order
// surfaces, and returns that order without popping it. The returned pointer
// is the queue's own entry, so callers may mutate its size.
func (q *orderQueue) peekLive(live func(id uint64) bool) *common.Order {
	for len(q.orders) > 0 {
		top := q.orders[0]
		if live(top.ID) {
			return top
		}
		heap.Pop(q)
	}
	return nil
}

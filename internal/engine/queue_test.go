package engine

import (
	"testing"

	"skoll/internal/common"

	"github.com/stretchr/testify/assert"
)

func alwaysLive(uint64) bool { return true }

func TestOrderQueue_BuyOrdering(t *testing.T) {
	q := newOrderQueue(common.Buy)
	q.push(&common.Order{ID: 1, Price: 100, Time: 2, ArrivalSeq: 0})
	q.push(&common.Order{ID: 2, Price: 101, Time: 3, ArrivalSeq: 1})
	q.push(&common.Order{ID: 3, Price: 101, Time: 1, ArrivalSeq: 2})

	// Highest price first, then earliest time.
	assert.Equal(t, uint64(3), q.pop().ID)
	assert.Equal(t, uint64(2), q.pop().ID)
	assert.Equal(t, uint64(1), q.pop().ID)
}

func TestOrderQueue_SellOrdering(t *testing.T) {
	q := newOrderQueue(common.Sell)
	q.push(&common.Order{ID: 1, Price: 100, Time: 2, ArrivalSeq: 0})
	q.push(&common.Order{ID: 2, Price: 99, Time: 3, ArrivalSeq: 1})
	q.push(&common.Order{ID: 3, Price: 99, Time: 3, ArrivalSeq: 2})

	// Lowest price first; identical timestamps fall back to arrival order.
	assert.Equal(t, uint64(2), q.pop().ID)
	assert.Equal(t, uint64(3), q.pop().ID)
	assert.Equal(t, uint64(1), q.pop().ID)
}

func TestOrderQueue_PeekLivePrunesStaleTops(t *testing.T) {
	q := newOrderQueue(common.Sell)
	q.push(&common.Order{ID: 1, Price: 99, ArrivalSeq: 0})
	q.push(&common.Order{ID: 2, Price: 99, ArrivalSeq: 1})
	q.push(&common.Order{ID: 3, Price: 100, ArrivalSeq: 2})

	dead := map[uint64]bool{1: true, 2: true}
	top := q.peekLive(func(id uint64) bool { return !dead[id] })

	assert.Equal(t, uint64(3), top.ID)
	assert.Equal(t, 1, q.Len(), "stale entries discarded on surfacing")
}

func TestOrderQueue_PeekLiveEmpty(t *testing.T) {
	q := newOrderQueue(common.Buy)
	assert.Nil(t, q.peekLive(alwaysLive))

	q.push(&common.Order{ID: 1, Price: 100})
	assert.Nil(t, q.peekLive(func(uint64) bool { return false }))
	assert.Zero(t, q.Len())
}

func TestOrderQueue_PeekDoesNotPopLiveTop(t *testing.T) {
	q := newOrderQueue(common.Buy)
	q.push(&common.Order{ID: 1, Price: 100})

	top := q.peekLive(alwaysLive)
	assert.Equal(t, uint64(1), top.ID)
	assert.Equal(t, 1, q.Len())

	// Mutating the returned entry mutates the queue's own copy.
	top.Size = 42
	assert.Equal(t, uint64(42), q.peekLive(alwaysLive).Size)
}

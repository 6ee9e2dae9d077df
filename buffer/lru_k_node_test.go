package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLrukNode(t *testing.T) {
	t.Run("returns true once it has k accesses", func(t *testing.T) {
		node := &lrukNode{k: 3}
		assert.False(t, node.hasKHistory())

		node.addTimestamp(1)
		node.addTimestamp(2)
		node.addTimestamp(3)

		assert.True(t, node.hasKHistory())
	})

	t.Run("records timestamp, evicting the oldest once full", func(t *testing.T) {
		node := &lrukNode{k: 3}

		node.addTimestamp(1)
		node.addTimestamp(2)
		node.addTimestamp(3)
		assert.Equal(t, node.history, []int{1, 2, 3})

		node.addTimestamp(4)
		assert.Equal(t, node.history, []int{2, 3, 4})
	})

	t.Run("returns earliest access", func(t *testing.T) {
		node := &lrukNode{k: 3}
		assert.Equal(t, node.earliestAccess(), -1)

		node.addTimestamp(1)
		node.addTimestamp(2)
		assert.Equal(t, node.earliestAccess(), 1)
	})

	t.Run("a node with < k accesses always outranks one with k accesses", func(t *testing.T) {
		full := &lrukNode{k: 2}
		full.addTimestamp(1)
		full.addTimestamp(2)

		partial := &lrukNode{k: 2}
		partial.addTimestamp(100)

		assert.True(t, partial.hasHigherPriority(full))
		assert.False(t, full.hasHigherPriority(partial))
	})

	t.Run("among nodes with < k accesses, the older earliest access wins", func(t *testing.T) {
		older := &lrukNode{k: 3}
		older.addTimestamp(1)

		newer := &lrukNode{k: 3}
		newer.addTimestamp(5)

		assert.True(t, older.hasHigherPriority(newer))
		assert.False(t, newer.hasHigherPriority(older))
	})

	t.Run("among nodes with k accesses, the smaller k-th-most-recent timestamp wins", func(t *testing.T) {
		a := &lrukNode{k: 2}
		a.addTimestamp(1)
		a.addTimestamp(10)

		b := &lrukNode{k: 2}
		b.addTimestamp(5)
		b.addTimestamp(6)

		assert.True(t, a.hasHigherPriority(b))
	})
}

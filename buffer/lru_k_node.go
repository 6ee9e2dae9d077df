package buffer

const INVALID_FRAME_ID = -1

// lrukNode is a per-tracked-frame access history record: the frame it
// belongs to, whether it is currently a candidate for eviction, and a
// bounded FIFO of its K most recent access timestamps (oldest first).
type lrukNode struct {
	prev        *lrukNode
	next        *lrukNode
	frameId     int
	k           int
	history     []int
	isEvictable bool
}

// hasKHistory reports whether the node has recorded at least K accesses,
// i.e. whether it has a finite backward K-distance.
func (n *lrukNode) hasKHistory() bool {
	return len(n.history) >= n.k
}

// earliestAccess returns the oldest timestamp still in the node's history:
// the K-th-most-recent access once the history is full, or simply the first
// access recorded while the node has fewer than K accesses.
func (n *lrukNode) earliestAccess() int {
	if len(n.history) == 0 {
		return -1
	}
	return n.history[0]
}

func (n *lrukNode) addTimestamp(timestamp int) {
	if len(n.history) < n.k {
		n.history = append(n.history, timestamp)
		return
	}

	n.history = n.history[1:]
	n.history = append(n.history, timestamp)
}

// hasHigherPriority reports whether n should be evicted before other,
// following spec.md §4.2's ordering discipline: a node with fewer than K
// accesses (backward K-distance = +∞) outranks any node with a full
// history; among two nodes in the same bucket (both infinite or both
// finite), the one whose earliest tracked access is older wins, since that
// is either the oldest single access (infinite case) or the smallest
// K-th-most-recent timestamp, i.e. the largest K-distance (finite case).
func (n *lrukNode) hasHigherPriority(other *lrukNode) bool {
	nInfinite := !n.hasKHistory()
	otherInfinite := !other.hasKHistory()

	if nInfinite != otherInfinite {
		return nInfinite
	}

	return n.earliestAccess() < other.earliestAccess()
}

package buffer

import (
	"sync"
)

// lrukReplacer tracks per-frame access histories and nominates eviction
// victims by backward K-distance (spec.md §4.2). Its nodes live on a
// doubly linked list kept sorted by eviction priority at every externally
// observable moment (highest-priority victim at the front), bracketed by
// head/tail sentinels so insertion never has to special-case the ends.
type lrukReplacer struct {
	mu            sync.Mutex
	nodeStore     map[int]*lrukNode
	replacerSize  int
	currSize      int
	currTimestamp int
	k             int
	head          *lrukNode
	tail          *lrukNode
}

func NewLrukReplacer(capacity, k int) *lrukReplacer {
	head := &lrukNode{frameId: INVALID_FRAME_ID}
	tail := &lrukNode{frameId: INVALID_FRAME_ID}

	head.next = tail
	tail.prev = head

	return &lrukReplacer{
		k:            k,
		nodeStore:    map[int]*lrukNode{},
		head:         head,
		tail:         tail,
		replacerSize: capacity,
	}
}

// recordAccess records an access against frameId, creating its node on
// first sight (not evictable by default), and re-establishes priority
// order. It increments the global timestamp and, if more nodes are tracked
// than the replacer's capacity, immediately evicts one.
func (lru *lrukReplacer) recordAccess(frameId int, accessType AccessType) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.nodeStore[frameId]
	if !ok {
		node = &lrukNode{frameId: frameId, k: lru.k}
		lru.nodeStore[frameId] = node
	} else {
		lru.unlinkNode(node)
	}

	node.addTimestamp(lru.currTimestamp)
	lru.insertNode(node)
	lru.currTimestamp++

	if len(lru.nodeStore) > lru.replacerSize {
		lru.evictLocked()
	}
}

// evict walks the ordered list front-to-back and evicts the first evictable
// node. Returns false without mutating state if no node is evictable.
func (lru *lrukReplacer) evict() (int, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	return lru.evictLocked()
}

func (lru *lrukReplacer) evictLocked() (int, bool) {
	for cur := lru.head.next; cur != lru.tail; cur = cur.next {
		if cur.isEvictable {
			lru.unlinkNode(cur)
			delete(lru.nodeStore, cur.frameId)
			lru.currSize--
			return cur.frameId, true
		}
	}

	return INVALID_FRAME_ID, false
}

// setEvictable flips a node's evictability flag, adjusting currSize by ±1
// on an actual transition. It is a no-op on an unknown frame.
func (lru *lrukReplacer) setEvictable(frameId int, setEvictable bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.nodeStore[frameId]
	if !ok {
		return
	}

	before := node.isEvictable
	node.isEvictable = setEvictable

	if !before && setEvictable {
		lru.currSize++
	}
	if before && !setEvictable {
		lru.currSize--
	}
}

// remove unconditionally removes a tracked, evictable node. Removing a node
// that exists but is not evictable is a caller bug — a pinned frame must
// never be forgotten by the replacer — and is treated as a fatal invariant
// violation rather than a recoverable error, per spec.md §7.
func (lru *lrukReplacer) remove(frameId int) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.nodeStore[frameId]
	if !ok {
		return
	}

	if !node.isEvictable {
		panic("removing a non-evictable frame violates an invariant")
	}

	lru.unlinkNode(node)
	delete(lru.nodeStore, frameId)
	lru.currSize--
}

func (lru *lrukReplacer) size() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	return lru.currSize
}

func (lru *lrukReplacer) unlinkNode(node *lrukNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

// insertNode inserts node into the list at the position that keeps the list
// sorted by descending eviction priority.
func (lru *lrukReplacer) insertNode(node *lrukNode) {
	cur := lru.head.next
	for cur != lru.tail && cur.hasHigherPriority(node) {
		cur = cur.next
	}

	prev := cur.prev
	prev.next = node
	node.prev = prev
	node.next = cur
	cur.prev = node
}

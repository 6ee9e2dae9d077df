package buffer

import "sync/atomic"

// BasicPageGuard is a scoped, move-only handle on a pinned frame: it
// guarantees the pin acquired by whichever Fetch/New call produced it is
// released exactly once, however the caller's scope exits. Guards must not
// outlive the pool that produced them. Calling Drop a second time is a
// no-op.
type BasicPageGuard struct {
	bpm     *BufferPoolManager
	frame   *Frame
	pageId  int64
	isDirty bool
	dropped atomic.Bool
}

func newBasicPageGuard(bpm *BufferPoolManager, frame *Frame) *BasicPageGuard {
	return &BasicPageGuard{bpm: bpm, frame: frame, pageId: frame.pageId}
}

// PageId returns the id of the page this guard is holding a pin on.
func (g *BasicPageGuard) PageId() int64 { return g.pageId }

// SetDirty marks the underlying frame dirty; the mark is applied when the
// guard drops.
func (g *BasicPageGuard) SetDirty() { g.isDirty = true }

// GetData returns the frame's contents for reading.
func (g *BasicPageGuard) GetData() []byte { return g.frame.data }

// GetDataMut returns the frame's contents for mutation and marks the guard
// dirty, since any caller reaching for mutable access intends to write.
func (g *BasicPageGuard) GetDataMut() []byte {
	g.isDirty = true
	return g.frame.data
}

// Drop releases the guard's pin. Safe to call multiple times and safe to
// defer unconditionally.
func (g *BasicPageGuard) Drop() {
	if g == nil || !g.dropped.CompareAndSwap(false, true) {
		return
	}

	g.bpm.UnpinPage(g.pageId, g.isDirty, AccessUnknown)
}

// ReadPageGuard additionally holds a shared latch on the page for its
// lifetime, so no writer can observe a torn read.
type ReadPageGuard struct {
	BasicPageGuard
}

func newReadPageGuard(bpm *BufferPoolManager, frame *Frame) *ReadPageGuard {
	frame.latch.RLock()
	return &ReadPageGuard{BasicPageGuard: *newBasicPageGuard(bpm, frame)}
}

func (g *ReadPageGuard) Drop() {
	if g == nil || !g.dropped.CompareAndSwap(false, true) {
		return
	}

	g.frame.latch.RUnlock()
	g.bpm.UnpinPage(g.pageId, g.isDirty, AccessUnknown)
}

// WritePageGuard additionally holds the exclusive latch on the page for its
// lifetime.
type WritePageGuard struct {
	BasicPageGuard
}

func newWritePageGuard(bpm *BufferPoolManager, frame *Frame) *WritePageGuard {
	frame.latch.Lock()
	return &WritePageGuard{BasicPageGuard: *newBasicPageGuard(bpm, frame)}
}

func (g *WritePageGuard) Drop() {
	if g == nil || !g.dropped.CompareAndSwap(false, true) {
		return
	}

	g.frame.latch.Unlock()
	g.bpm.UnpinPage(g.pageId, g.isDirty, AccessUnknown)
}

package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/fhxu00/bustub/storage/disk"
)

// Frame is one in-memory slot of the buffer pool's frame array. Frames are
// allocated once at pool construction and never move; only the page id they
// host, their contents, and their pin/dirty state change over a frame's
// lifetime. latch is the per-page reader/writer lock acquired by
// ReadPageGuard and WritePageGuard; it is independent of the pool-wide
// latch, which only ever protects the pool's metadata (frame table, page
// table, free list).
type Frame struct {
	latch  sync.RWMutex
	id     int
	data   []byte
	pins   atomic.Int32
	dirty  bool
	pageId int64
}

func newFrame(id int) *Frame {
	return &Frame{
		id:     id,
		data:   make([]byte, disk.PAGE_SIZE),
		pageId: disk.INVALID_PAGE_ID,
	}
}

func (f *Frame) PageId() int64   { return f.pageId }
func (f *Frame) PinCount() int32 { return f.pins.Load() }
func (f *Frame) IsDirty() bool   { return f.dirty }
func (f *Frame) Data() []byte    { return f.data }

func (f *Frame) pin() {
	f.pins.Add(1)
}

// unpin decrements the pin count and returns the count after decrementing.
func (f *Frame) unpin() int32 {
	return f.pins.Add(-1)
}

// reset clears a frame's contents and metadata before it is assigned a new
// page id, per spec.md §3: "is_dirty = false immediately after ... fresh
// allocation."
func (f *Frame) reset(pageId int64) {
	for i := range f.data {
		f.data[i] = 0
	}
	f.pageId = pageId
	f.dirty = false
	f.pins.Store(0)
}

package buffer

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/fhxu00/bustub/logmgr"
	"github.com/fhxu00/bustub/storage/disk"
)

// BufferPoolManager owns the frame array, page table, free list, the LRU-K
// replacer, and the disk scheduler. A single pool-wide mutex serializes
// every public operation's metadata manipulation, including the synchronous
// wait on disk completion (spec.md §5) — this implementation takes the
// spec's documented default rather than the "release during I/O" optimization
// it calls out as allowed but not required.
type BufferPoolManager struct {
	mu         sync.Mutex
	frames     []*Frame
	pageTable  map[int64]int
	freeList   []int
	nextPageId atomic.Int64
	scheduler  *disk.DiskScheduler
	replacer   *lrukReplacer
	logManager *logmgr.LogManager
}

// NewBufferPoolManager allocates poolSize frames and an LRU-K replacer with
// history depth k. logManager may be nil; if non-nil it is retained for
// future WAL integration but never invoked by this package (spec.md §6.2).
func NewBufferPoolManager(poolSize, k int, scheduler *disk.DiskScheduler, logManager *logmgr.LogManager) *BufferPoolManager {
	frames := make([]*Frame, poolSize)
	freeList := make([]int, poolSize)

	for i := range poolSize {
		frames[i] = newFrame(i)
		freeList[i] = i
	}

	slog.Debug("buffer pool constructed",
		"frames", poolSize,
		"k", k,
		"footprint", humanize.Bytes(uint64(poolSize*disk.PAGE_SIZE)),
	)

	return &BufferPoolManager{
		frames:     frames,
		pageTable:  make(map[int64]int),
		freeList:   freeList,
		scheduler:  scheduler,
		replacer:   NewLrukReplacer(poolSize, k),
		logManager: logManager,
	}
}

// NewPage allocates a fresh page id and pins it into a frame, taking one
// from the free list if available or asking the replacer for a victim
// otherwise. Returns (disk.INVALID_PAGE_ID, nil) if every frame is
// currently pinned.
func (b *BufferPoolManager) NewPage() (int64, *Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	frame, ok := b.claimFrame()
	if !ok {
		slog.Warn("buffer pool exhausted on NewPage")
		return disk.INVALID_PAGE_ID, nil
	}

	pageId := b.allocatePage()
	delete(b.pageTable, frame.pageId)
	frame.reset(pageId)
	frame.pin()
	b.pageTable[pageId] = frame.id

	b.replacer.recordAccess(frame.id, AccessUnknown)
	b.replacer.setEvictable(frame.id, false)

	return pageId, frame
}

// FetchPage returns the frame hosting pageId, reading it from disk if it is
// not already resident. Every successful call increments the frame's pin
// count by one; callers must match each successful Fetch with exactly one
// Unpin. Returns nil if pageId is not resident and every frame is pinned.
func (b *BufferPoolManager) FetchPage(pageId int64, accessType AccessType) *Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameId, ok := b.pageTable[pageId]; ok {
		frame := b.frames[frameId]
		frame.pin()
		b.replacer.recordAccess(frameId, accessType)
		b.replacer.setEvictable(frameId, false)
		return frame
	}

	frame, ok := b.claimFrame()
	if !ok {
		slog.Warn("buffer pool exhausted on FetchPage", "page_id", pageId)
		return nil
	}

	delete(b.pageTable, frame.pageId)
	frame.reset(pageId)
	frame.pin()
	b.pageTable[pageId] = frame.id

	b.replacer.recordAccess(frame.id, accessType)
	b.replacer.setEvictable(frame.id, false)

	req := disk.NewRequest(pageId, nil, disk.OpRead)
	resp := <-b.scheduler.Schedule(req)
	if resp.Success {
		copy(frame.data, resp.Data)
	}

	return frame
}

// claimFrame must be called with b.mu held. It takes a frame from the free
// list if one exists, otherwise asks the replacer for a victim, writing it
// back first if dirty. Returns ok=false if the pool is fully pinned.
func (b *BufferPoolManager) claimFrame() (*Frame, bool) {
	if len(b.freeList) > 0 {
		frameId := b.freeList[0]
		b.freeList = b.freeList[1:]
		return b.frames[frameId], true
	}

	frameId, ok := b.replacer.evict()
	if !ok {
		return nil, false
	}

	frame := b.frames[frameId]
	if frame.dirty {
		b.writeBack(frame)
	}

	return frame, true
}

// UnpinPage decrements pageId's pin count. If isDirty is true the frame's
// dirty bit is OR'd to true; passing false never clears an already-dirty
// bit. Once the pin count reaches zero the frame becomes evictable. Returns
// false if the page is not resident or its pin count is already zero.
func (b *BufferPoolManager) UnpinPage(pageId int64, isDirty bool, accessType AccessType) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameId, ok := b.pageTable[pageId]
	if !ok {
		return false
	}

	frame := b.frames[frameId]
	if frame.pins.Load() <= 0 {
		return false
	}

	if isDirty {
		frame.dirty = true
	}

	if frame.unpin() == 0 {
		b.replacer.setEvictable(frameId, true)
	}

	return true
}

// FlushPage writes pageId to disk unconditionally and clears its dirty bit.
// Returns false if pageId is not resident.
func (b *BufferPoolManager) FlushPage(pageId int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameId, ok := b.pageTable[pageId]
	if !ok {
		return false
	}

	b.flushFrameLocked(b.frames[frameId])
	return true
}

// FlushAllPages flushes every resident page. It walks the frame table under
// b.mu and flushes each resident frame through flushFrameLocked, which does
// not take b.mu itself, rather than recursively taking b.mu, avoiding the deadlock the naive "call FlushPage while holding the
// latch" approach would hit under a non-recursive mutex (spec.md §9).
func (b *BufferPoolManager) FlushAllPages() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, frame := range b.frames {
		if frame.pageId != disk.INVALID_PAGE_ID {
			b.flushFrameLocked(frame)
		}
	}
}

// flushFrameLocked must be called with b.mu held.
func (b *BufferPoolManager) flushFrameLocked(frame *Frame) {
	b.writeBack(frame)
	frame.dirty = false
}

// writeBack synchronously writes a frame's contents to disk via the
// scheduler, regardless of its dirty bit. Must be called with b.mu held.
func (b *BufferPoolManager) writeBack(frame *Frame) {
	req := disk.NewRequest(frame.pageId, frame.data, disk.OpWrite)
	resp := <-b.scheduler.Schedule(req)
	if !resp.Success {
		slog.Error("failed to write page back to disk", "page_id", frame.pageId)
	}
}

// DeletePage removes pageId from the pool and returns its frame to the free
// list, writing the page back first if it is dirty. Returns false if the
// page is currently pinned. Deleting a page that is not resident is a no-op
// that returns true.
func (b *BufferPoolManager) DeletePage(pageId int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameId, ok := b.pageTable[pageId]
	if !ok {
		return true
	}

	frame := b.frames[frameId]
	if frame.pins.Load() > 0 {
		return false
	}

	if frame.dirty {
		b.flushFrameLocked(frame)
	}

	req := disk.NewRequest(pageId, nil, disk.OpDelete)
	<-b.scheduler.Schedule(req)

	delete(b.pageTable, pageId)
	b.replacer.remove(frameId)
	frame.reset(disk.INVALID_PAGE_ID)
	b.freeList = append(b.freeList, frameId)

	return true
}

// allocatePage returns and post-increments the page id counter. Must be
// called with b.mu held. Page ids, once allocated, are never recycled.
func (b *BufferPoolManager) allocatePage() int64 {
	return b.nextPageId.Add(1) - 1
}

// FetchPageBasic returns a scoped guard on pageId holding only a pin, no
// page-level latch.
func (b *BufferPoolManager) FetchPageBasic(pageId int64) *BasicPageGuard {
	frame := b.FetchPage(pageId, AccessUnknown)
	if frame == nil {
		return nil
	}
	return newBasicPageGuard(b, frame)
}

// FetchPageRead returns a scoped guard on pageId holding a pin and a shared
// latch on the page for the guard's lifetime.
func (b *BufferPoolManager) FetchPageRead(pageId int64) *ReadPageGuard {
	frame := b.FetchPage(pageId, AccessUnknown)
	if frame == nil {
		return nil
	}
	return newReadPageGuard(b, frame)
}

// FetchPageWrite returns a scoped guard on pageId holding a pin and the
// exclusive latch on the page for the guard's lifetime.
func (b *BufferPoolManager) FetchPageWrite(pageId int64) *WritePageGuard {
	frame := b.FetchPage(pageId, AccessUnknown)
	if frame == nil {
		return nil
	}
	return newWritePageGuard(b, frame)
}

// NewPageGuarded allocates a fresh page and returns a scoped guard on it.
func (b *BufferPoolManager) NewPageGuarded() (int64, *BasicPageGuard) {
	pageId, frame := b.NewPage()
	if frame == nil {
		return disk.INVALID_PAGE_ID, nil
	}
	return pageId, newBasicPageGuard(b, frame)
}

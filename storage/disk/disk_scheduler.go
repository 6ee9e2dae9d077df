package disk

import "log/slog"

// OpCode distinguishes the three operations the disk scheduler can dispatch
// onto a DiskManager.
type OpCode int

const (
	OpRead OpCode = iota
	OpWrite
	OpDelete
)

// DiskReq is an immutable disk request: a direction, a target page id, a
// data buffer reference (for writes), and a one-shot completion channel the
// worker fires exactly once.
type DiskReq struct {
	Op     OpCode
	PageId int64
	Data   []byte
	RespCh chan DiskResp
}

// DiskResp is the completion value fired for a DiskReq: Success carries the
// outcome spec.md §7 calls for (disk I/O failures surface here as false,
// never as an out-of-band panic), Data carries the page bytes for reads.
type DiskResp struct {
	Success bool
	Data    []byte
}

func NewRequest(pageId int64, data []byte, op OpCode) DiskReq {
	return DiskReq{
		Op:     op,
		PageId: pageId,
		Data:   data,
		RespCh: make(chan DiskResp, 1),
	}
}

// DiskScheduler is a single-producer/single-consumer asynchronous I/O queue
// fronting a BlockDevice. Multiple producers may call Schedule concurrently;
// a single background worker drains the queue in FIFO order, so two
// requests submitted in order A, B complete in order A, B. The worker never
// touches buffer pool metadata — it only ever talks to the DiskManager.
type DiskScheduler struct {
	reqCh       chan DiskReq
	diskManager *DiskManager
	done        chan struct{}
}

func NewScheduler(diskManager *DiskManager) *DiskScheduler {
	ds := &DiskScheduler{
		reqCh:       make(chan DiskReq, 256),
		diskManager: diskManager,
		done:        make(chan struct{}),
	}

	go ds.startWorker()
	return ds
}

// Schedule enqueues a request and returns immediately; the caller reads the
// request's RespCh to await completion.
func (ds *DiskScheduler) Schedule(req DiskReq) <-chan DiskResp {
	ds.reqCh <- req
	return req.RespCh
}

// Close enqueues the shutdown sentinel and waits for the worker to drain and
// exit. No request may be scheduled after Close returns.
func (ds *DiskScheduler) Close() {
	close(ds.reqCh)
	<-ds.done
}

func (ds *DiskScheduler) startWorker() {
	defer close(ds.done)

	for req := range ds.reqCh {
		switch req.Op {
		case OpWrite:
			if err := ds.diskManager.WritePage(req.PageId, req.Data); err != nil {
				slog.Error("disk write failed", "page_id", req.PageId, "err", err)
				req.RespCh <- DiskResp{Success: false}
				continue
			}
			req.RespCh <- DiskResp{Success: true}

		case OpDelete:
			ds.diskManager.deletePage(req.PageId)
			req.RespCh <- DiskResp{Success: true}

		default: // OpRead
			buf := make([]byte, PAGE_SIZE)
			if err := ds.diskManager.ReadPage(req.PageId, buf); err != nil {
				slog.Error("disk read failed", "page_id", req.PageId, "err", err)
				req.RespCh <- DiskResp{Success: false}
				continue
			}
			req.RespCh <- DiskResp{Success: true, Data: buf}
		}
	}
}

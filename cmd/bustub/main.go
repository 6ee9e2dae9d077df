package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fhxu00/bustub/buffer"
	"github.com/fhxu00/bustub/logmgr"
	"github.com/fhxu00/bustub/storage/disk"
	"github.com/fhxu00/bustub/util"
)

// poolSize and lookback are the fixed pool size and LRU-K depth the process
// runs with; no flag changes them. They mirror BusTub's own lab defaults, not any
// production sizing.
const (
	poolSize = 64
	lookback = 2
)

func main() {
	slog.SetDefault(util.NewLogger())

	dbPath := "bustub.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	dbFile, err := os.OpenFile(dbPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		slog.Error("failed to open database file", "path", dbPath, "err", err)
		os.Exit(1)
	}
	defer dbFile.Close()

	diskManager := disk.NewDiskManager(dbFile)
	scheduler := disk.NewScheduler(diskManager)
	defer scheduler.Close()

	logManager := logmgr.NewLogManager(filepath.Dir(dbPath))
	pool := buffer.NewBufferPoolManager(poolSize, lookback, scheduler, logManager)

	slog.Info("buffer pool ready", "path", dbPath, "pool_size", poolSize, "k", lookback)

	pageId, guard := pool.NewPageGuarded()
	if guard == nil {
		slog.Error("failed to allocate the first page")
		os.Exit(1)
	}
	slog.Info("allocated page", "page_id", pageId)
	guard.Drop()

	if err := pool.WriteHeaderPage(); err != nil {
		slog.Error("failed to persist header page", "err", err)
	}

	pool.FlushAllPages()
}

package disk

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/fhxu00/bustub/util"
)

// DiskManager is the BlockDevice backing a single database file: it maps
// page ids onto byte offsets, grows the file on demand, and recycles the
// offsets of deleted pages. The DiskScheduler's single worker is its only
// caller, but the mutex guards against any other use of the same manager
// (e.g. an owner Schedule()ing a request while also directly inspecting it
// in tests).
type DiskManager struct {
	mu           sync.Mutex
	dbFile       *os.File
	pages        map[int64]int
	freeSlots    []int
	pageCapacity int
	checksums    map[int64]uint64
}

func NewDiskManager(file *os.File) *DiskManager {
	return &DiskManager{
		dbFile:       file,
		pageCapacity: DEFAULT_PAGE_CAPACITY,
		freeSlots:    []int{},
		pages:        map[int64]int{},
		checksums:    map[int64]uint64{},
	}
}

func (dm *DiskManager) WritePage(pageId int64, data []byte) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset, pageFound := dm.pages[pageId]
	if !pageFound {
		var err error
		offset, err = dm.allocatePage()
		if err != nil {
			return err
		}
		dm.pages[pageId] = offset
	}

	if _, err := dm.dbFile.WriteAt(data, int64(offset)); err != nil {
		return fmt.Errorf("error writing at offset %d: %w", offset, err)
	}

	dm.checksums[pageId] = xxhash.Sum64(data)
	return nil
}

func (dm *DiskManager) ReadPage(pageId int64, buf []byte) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset, pageFound := dm.pages[pageId]
	if !pageFound {
		var err error
		offset, err = dm.allocatePage()
		if err != nil {
			return err
		}
		dm.pages[pageId] = offset
	}

	if _, err := dm.dbFile.ReadAt(buf[:PAGE_SIZE], int64(offset)); err != nil {
		return fmt.Errorf("error reading from offset %d: %w", offset, err)
	}

	if want, ok := dm.checksums[pageId]; ok {
		if got := xxhash.Sum64(buf[:PAGE_SIZE]); got != want {
			slog.Error("page checksum mismatch", "page_id", pageId, "offset", offset)
			return util.NewChecksumMismatchError(pageId)
		}
	}

	return nil
}

func (dm *DiskManager) deletePage(pageId int64) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if offset, ok := dm.pages[pageId]; ok {
		dm.freeSlots = append(dm.freeSlots, offset)
		delete(dm.pages, pageId)
		delete(dm.checksums, pageId)
	}
}

// allocatePage must be called with dm.mu held.
func (dm *DiskManager) allocatePage() (int, error) {
	if len(dm.freeSlots) > 0 {
		offset := dm.freeSlots[0]
		dm.freeSlots = dm.freeSlots[1:]
		return offset, nil
	}

	if len(dm.pages)+1 > dm.pageCapacity {
		dm.pageCapacity *= 2
		if err := os.Truncate(dm.dbFile.Name(), int64(dm.pageCapacity)*PAGE_SIZE); err != nil {
			return -1, fmt.Errorf("error resizing db file: %w", err)
		}
	}

	return dm.getNextOffset(), nil
}

func (dm *DiskManager) getNextOffset() int {
	return len(dm.pages) * PAGE_SIZE
}

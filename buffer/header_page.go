package buffer

import (
	"github.com/fhxu00/bustub/storage/disk"
	"github.com/fhxu00/bustub/util"
)

// HeaderPage is the fixed-format metadata record stored in page 0 of every
// database file: the pool configuration it was created under and the next
// page id the pool would hand out, so a reopened file can validate its pool
// was sized compatibly and resume page id allocation past what's on disk.
type HeaderPage struct {
	PoolSize   int
	LookbackK  int
	NextPageId int64
}

// EncodeHeaderPage serializes a HeaderPage into a page-sized buffer suitable
// for WritePage/FlushPage.
func EncodeHeaderPage(h HeaderPage) ([]byte, error) {
	return util.ToByteSlice(h, disk.PAGE_SIZE)
}

// DecodeHeaderPage parses a page-sized buffer previously produced by
// EncodeHeaderPage.
func DecodeHeaderPage(data []byte) (HeaderPage, error) {
	return util.ToStruct[HeaderPage](data)
}

// WriteHeaderPage encodes and persists the pool's current configuration to
// page 0 via a write guard, so a later process opening the same file can
// call DecodeHeaderPage on the bytes FetchPageRead(0) returns.
func (b *BufferPoolManager) WriteHeaderPage() error {
	guard := b.FetchPageWrite(0)
	if guard == nil {
		return util.NewBufferpoolExhaustedError()
	}
	defer guard.Drop()

	header := HeaderPage{
		PoolSize:   len(b.frames),
		LookbackK:  b.replacer.k,
		NextPageId: b.nextPageId.Load(),
	}

	encoded, err := EncodeHeaderPage(header)
	if err != nil {
		return err
	}

	copy(guard.GetDataMut(), encoded)
	return nil
}

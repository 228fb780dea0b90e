package heapfile

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/SimonWaldherr/slotpage/page"
)

// crcSize is the width of the checksum prefix written before every
// on-disk page frame.
const crcSize = 4

// frameSize is the total on-disk footprint of one page: its checksum
// plus the page payload itself.
const frameSize = crcSize + page.Size

// crcTable is the CRC32 (Castagnoli) table used for page checksums,
// matching the teacher's choice of polynomial for on-disk integrity
// checks.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// diskFile is the thin os.File wrapper that knows the on-disk frame
// layout. It performs no caching; HeapFile's buffer pool sits above
// it.
type diskFile struct {
	f *os.File
}

func openDiskFile(path string) (*diskFile, int64, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, 0, fmt.Errorf("open heap file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return &diskFile{f: f}, info.Size(), nil
}

func (d *diskFile) readFrame(id uint16) (*page.Page, error) {
	buf := make([]byte, frameSize)
	off := int64(id) * int64(frameSize)
	if _, err := d.f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("read page %d: %w", id, err)
	}
	stored := binary.LittleEndian.Uint32(buf[:crcSize])
	payload := buf[crcSize:]
	if crc32.Checksum(payload, crcTable) != stored {
		return nil, fmt.Errorf("%w: page %d", ErrCorrupt, id)
	}
	// FromBytes wraps the slice in place; copy it so the page owns its
	// own storage independent of this read buffer.
	owned := make([]byte, page.Size)
	copy(owned, payload)
	return page.FromBytes(owned)
}

func (d *diskFile) writeFrame(id uint16, p *page.Page) error {
	frame := make([]byte, frameSize)
	payload := p.Bytes()
	copy(frame[crcSize:], payload)
	binary.LittleEndian.PutUint32(frame[:crcSize], crc32.Checksum(payload, crcTable))
	off := int64(id) * int64(frameSize)
	if _, err := d.f.WriteAt(frame, off); err != nil {
		return fmt.Errorf("write page %d: %w", id, err)
	}
	return nil
}

func (d *diskFile) sync() error  { return d.f.Sync() }
func (d *diskFile) close() error { return d.f.Close() }

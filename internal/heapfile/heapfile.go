package heapfile

import (
	"fmt"
	"sync"

	"github.com/SimonWaldherr/slotpage/page"
)

// Config configures a HeapFile.
type Config struct {
	Path string
	// MaxCachedPages bounds the buffer pool; 0 selects a default of 256
	// pages (1 MiB at the page package's 4 KiB page size).
	MaxCachedPages int
}

// HeapFile is a flat, growable file of fixed-size slotted pages
// fronted by a pinning buffer pool. It is the "external collaborator"
// a single page.Page never manages on its own: allocation of new page
// ids, durable storage, and corruption detection across many pages.
//
// A HeapFile is safe for concurrent use.
type HeapFile struct {
	mu       sync.Mutex
	disk     *diskFile
	pool     *bufferPool
	nextID   uint16
	numPages uint16
	closed   bool
}

// Open opens or creates the heap file at cfg.Path.
func Open(cfg Config) (*HeapFile, error) {
	disk, size, err := openDiskFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	hf := &HeapFile{
		disk: disk,
		pool: newBufferPool(cfg.MaxCachedPages),
	}
	if size%frameSize != 0 {
		disk.close()
		return nil, fmt.Errorf("heapfile: %s has truncated trailing frame (size %d not a multiple of %d)", cfg.Path, size, frameSize)
	}
	hf.numPages = uint16(size / frameSize)
	hf.nextID = hf.numPages
	return hf, nil
}

// Allocate creates a new, empty page, assigns it the next page id, and
// returns it pinned (the caller must Unpin it). The page is written to
// disk immediately so NumPages and future Fetch calls observe it even
// before the caller unpins or dirties it.
func (hf *HeapFile) Allocate() (*page.Page, error) {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	if hf.closed {
		return nil, ErrClosed
	}
	if hf.numPages == 65535 {
		return nil, ErrPagesExhausted
	}
	id := hf.nextID
	p := page.New(id)
	if err := hf.disk.writeFrame(id, p); err != nil {
		return nil, err
	}
	hf.nextID++
	hf.numPages++
	fr := &frame{id: id, p: p, pinned: 1}
	if evicted := hf.pool.put(fr); evicted != nil {
		if err := hf.flushFrame(evicted); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Fetch returns the page with the given id, pinned against eviction.
// The caller must call Unpin when done. A corrupt on-disk page (bad
// CRC) surfaces as ErrCorrupt rather than a silently wrong read.
func (hf *HeapFile) Fetch(id uint16) (*page.Page, error) {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	if hf.closed {
		return nil, ErrClosed
	}
	if id >= hf.numPages {
		return nil, ErrNoSuchPage
	}
	if f, ok := hf.pool.get(id); ok {
		f.pinned++
		return f.p, nil
	}
	p, err := hf.disk.readFrame(id)
	if err != nil {
		return nil, err
	}
	fr := &frame{id: id, p: p, pinned: 1}
	if evicted := hf.pool.put(fr); evicted != nil {
		if err := hf.flushFrame(evicted); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Unpin releases one pin on id, acquired by Allocate or Fetch, and
// records whether the caller mutated the page. A page with dirty==true
// is written back on eviction or Flush.
func (hf *HeapFile) Unpin(id uint16, dirty bool) error {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	f, ok := hf.pool.get(id)
	if !ok {
		return ErrNoSuchPage
	}
	if f.pinned > 0 {
		f.pinned--
	}
	if dirty {
		f.dirty = true
	}
	return nil
}

// NumPages reports how many pages have been allocated.
func (hf *HeapFile) NumPages() uint16 {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	return hf.numPages
}

// Flush writes every dirty cached page back to disk and syncs the
// file.
func (hf *HeapFile) Flush() error {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	return hf.flushLocked()
}

func (hf *HeapFile) flushLocked() error {
	for _, f := range hf.pool.all() {
		if err := hf.flushFrame(f); err != nil {
			return err
		}
	}
	return hf.disk.sync()
}

func (hf *HeapFile) flushFrame(f *frame) error {
	if !f.dirty {
		return nil
	}
	if err := hf.disk.writeFrame(f.id, f.p); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// Close flushes outstanding dirty pages and closes the underlying
// file.
func (hf *HeapFile) Close() error {
	hf.mu.Lock()
	defer hf.mu.Unlock()
	if hf.closed {
		return nil
	}
	if err := hf.flushLocked(); err != nil {
		return err
	}
	hf.closed = true
	return hf.disk.close()
}

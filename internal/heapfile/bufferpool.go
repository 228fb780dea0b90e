package heapfile

import "github.com/SimonWaldherr/slotpage/page"

// frame is an in-memory cached page, with a pin count guarding it
// against eviction while a caller holds it.
type frame struct {
	id     uint16
	p      *page.Page
	dirty  bool
	pinned int
	prev   *frame
	next   *frame
}

// bufferPool is a bounded LRU page cache with pin-count eviction
// guards, adapted from the teacher's PageBufferPool: same doubly
// linked list, same "skip pinned frames from the tail" eviction walk,
// narrowed to a single pool (no WAL interaction, no dirty-page
// checkpoint scan beyond Flush).
type bufferPool struct {
	maxPages int
	frames   map[uint16]*frame
	head     *frame
	tail     *frame
}

func newBufferPool(maxPages int) *bufferPool {
	if maxPages <= 0 {
		maxPages = 256
	}
	return &bufferPool{
		maxPages: maxPages,
		frames:   make(map[uint16]*frame, maxPages),
	}
}

func (bp *bufferPool) get(id uint16) (*frame, bool) {
	f, ok := bp.frames[id]
	if ok {
		bp.moveToFront(f)
	}
	return f, ok
}

// put inserts f, evicting the least-recently-used unpinned frame first
// if the pool is at capacity. It returns the evicted frame, if any, so
// the caller can flush it before it's discarded.
func (bp *bufferPool) put(f *frame) *frame {
	var evicted *frame
	if len(bp.frames) >= bp.maxPages {
		// At most one frame is evicted per put, so no evicted frame is
		// discarded without being returned to the caller for flushing.
		// If every cached frame is pinned, nothing is evicted.
		evicted = bp.evictOne()
	}
	bp.frames[f.id] = f
	bp.pushFront(f)
	return evicted
}

func (bp *bufferPool) evictOne() *frame {
	for f := bp.tail; f != nil; f = f.prev {
		if f.pinned == 0 {
			bp.unlink(f)
			delete(bp.frames, f.id)
			return f
		}
	}
	return nil
}

func (bp *bufferPool) all() []*frame {
	out := make([]*frame, 0, len(bp.frames))
	for _, f := range bp.frames {
		out = append(out, f)
	}
	return out
}

func (bp *bufferPool) pushFront(f *frame) {
	f.prev = nil
	f.next = bp.head
	if bp.head != nil {
		bp.head.prev = f
	}
	bp.head = f
	if bp.tail == nil {
		bp.tail = f
	}
}

func (bp *bufferPool) unlink(f *frame) {
	if f.prev != nil {
		f.prev.next = f.next
	} else {
		bp.head = f.next
	}
	if f.next != nil {
		f.next.prev = f.prev
	} else {
		bp.tail = f.prev
	}
	f.prev = nil
	f.next = nil
}

func (bp *bufferPool) moveToFront(f *frame) {
	bp.unlink(f)
	bp.pushFront(f)
}

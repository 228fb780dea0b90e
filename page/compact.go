package page

import "sort"

// liveSlot pairs a slot id with its current directory entry, used while
// sorting for compaction.
type liveSlot struct {
	id  int
	off uint16
	len uint16
}

// Compact slides every live payload toward the start of the body to
// reclaim holes left by deletions, then advances FreeStart to just past
// the last live payload. It is exported so callers (a buffer pool or
// heap file layer) can force reclamation outside of an Insert that
// happens to need it.
//
// Compact is idempotent: if every live slot's offset already equals its
// post-compaction position, no bytes are copied.
func (p *Page) Compact() error {
	if err := p.checkLive(); err != nil {
		return err
	}
	p.compact()
	return nil
}

func (p *Page) compact() {
	n := p.numSlots()
	live := make([]liveSlot, 0, n)
	for s := 0; s < n; s++ {
		e := p.getSlot(s)
		if e.InUse {
			live = append(live, liveSlot{id: s, off: e.Offset, len: e.Length})
		}
	}
	// Sort by current offset so a single left-directed walk never
	// overwrites a still-unread source region, even though the copy
	// below writes into the same buffer it reads from.
	sort.Slice(live, func(i, j int) bool { return live[i].off < live[j].off })

	write := p.bodyStart()
	for _, s := range live {
		if int(s.off) != write {
			copy(p.buf[write:write+int(s.len)], p.buf[int(s.off):int(s.off)+int(s.len)])
		}
		e := p.getSlot(s.id)
		e.Offset = uint16(write)
		p.setSlot(s.id, e)
		write += int(s.len)
	}
	p.setFreeStartRaw(write)
}

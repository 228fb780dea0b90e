package page

// Get returns a copy of the payload stored at slotID. It never mutates
// the page. It fails with ErrSlotOutOfRange if slotID is not a valid
// directory index, ErrSlotNotLive if the slot has been deleted, or
// ErrSlotNotLive if the stored range is corrupt (offset+length exceeds
// the page size) — a corrupt range is treated identically to "not
// found" rather than read out of bounds.
func (p *Page) Get(slotID uint16) ([]byte, error) {
	if err := p.checkLive(); err != nil {
		return nil, err
	}
	if int(slotID) >= p.numSlots() {
		return nil, ErrSlotOutOfRange
	}
	e := p.getSlot(int(slotID))
	if !e.InUse {
		return nil, ErrSlotNotLive
	}
	end := int(e.Offset) + int(e.Length)
	if end > Size {
		return nil, ErrSlotNotLive
	}
	out := make([]byte, e.Length)
	copy(out, p.buf[e.Offset:end])
	return out, nil
}

// Delete marks slotID free so that a future Insert may reuse it. The
// payload bytes are left in place and FreeStart is not moved; the hole
// is reclaimed the next time an Insert needs contiguous space and
// triggers Compact. Delete fails with ErrSlotOutOfRange if slotID is
// not a valid directory index, or ErrSlotNotLive if the slot is already
// free; unlike Get, it does not check the stored range.
func (p *Page) Delete(slotID uint16) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if int(slotID) >= p.numSlots() {
		return ErrSlotOutOfRange
	}
	if !p.getSlot(int(slotID)).InUse {
		return ErrSlotNotLive
	}
	p.setSlotInUse(int(slotID), false)
	return nil
}

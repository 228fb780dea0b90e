package page

// growDirectory makes room for one new 6-byte slot entry by shifting
// the record body one entry-width to the right, then patching every
// live slot's stored offset. The caller is responsible for bumping
// NumSlots afterward; growDirectory itself only moves bytes and zeroes
// the 6 bytes that will become the new entry's header.
//
// Called only when at least one slot already exists — on the very
// first insert into an empty page the body is empty, so there is
// nothing to shift.
func (p *Page) growDirectory() {
	oldBodyStart := p.bodyStart()
	newBodyStart := oldBodyStart + slotEntrySize

	bodyLen := p.freeStart() - oldBodyStart
	if bodyLen < 0 {
		bodyLen = 0
	}
	shiftLen := Size - newBodyStart
	if shiftLen > bodyLen {
		shiftLen = bodyLen
	}

	if shiftLen > 0 {
		// The builtin copy handles the overlap between source and
		// destination, so the right shift is correct.
		copy(p.buf[newBodyStart:newBodyStart+shiftLen], p.buf[oldBodyStart:oldBodyStart+shiftLen])
	}

	// The 6 bytes at oldBodyStart become the new slot's directory
	// entry; zero them so no stale body content leaks into it.
	for i := 0; i < slotEntrySize; i++ {
		p.buf[oldBodyStart+i] = 0
	}

	n := p.numSlots()
	for s := 0; s < n; s++ {
		e := p.getSlot(s)
		if e.InUse {
			e.Offset += slotEntrySize
			p.setSlot(s, e)
		}
	}

	fs := p.freeStart() + slotEntrySize
	p.setFreeStartRaw(fs)
}

package page

// Record is one (payload, slot id) pair yielded by an Iterator.
type Record struct {
	SlotID  uint16
	Payload []byte
}

// Iterator walks the live records of a page in ascending slot-id order.
// It owns the page's buffer: once an Iterator has been created, the
// Page it was built from is consumed and every further call on it that
// returns an error returns ErrPageConsumed. The iterator itself is finite (bounded by
// the slot count at construction time), single-pass, and not
// restartable.
type Iterator struct {
	p        *Page
	numSlots int
	next     int
}

// Iter consumes p and returns an Iterator over its live records.
func (p *Page) Iter() (*Iterator, error) {
	if err := p.checkLive(); err != nil {
		return nil, err
	}
	it := &Iterator{p: p, numSlots: p.numSlots(), next: 0}
	p.consumed = true
	return it, nil
}

// Next returns the next live record in ascending slot-id order. The
// second return value is false once the iterator is exhausted.
func (it *Iterator) Next() (Record, bool) {
	for it.next < it.numSlots {
		s := it.next
		it.next++
		e := it.p.getSlot(s)
		if !e.InUse {
			continue
		}
		end := int(e.Offset) + int(e.Length)
		if end > Size {
			continue
		}
		payload := make([]byte, e.Length)
		copy(payload, it.p.buf[e.Offset:end])
		return Record{SlotID: uint16(s), Payload: payload}, true
	}
	return Record{}, false
}

// Live drains the iterator, calling fn for every record in ascending
// slot-id order until fn returns false or the records are exhausted.
// It is a convenience for callers that want early termination without
// hand-rolling the Next loop.
func (it *Iterator) Live(fn func(slotID uint16, payload []byte) bool) {
	for {
		rec, ok := it.Next()
		if !ok {
			return
		}
		if !fn(rec.SlotID, rec.Payload) {
			return
		}
	}
}

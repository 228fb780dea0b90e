package page

import (
	"bytes"
	"errors"
	"testing"
)

func TestNew_EmptyPage(t *testing.T) {
	p := New(0)
	id, err := p.PageID()
	if err != nil || id != 0 {
		t.Fatalf("PageID: got (%d,%v) want (0,nil)", id, err)
	}
	hs, _ := p.HeaderSize()
	if hs != 8 {
		t.Fatalf("HeaderSize: got %d want 8", hs)
	}
	fs, _ := p.FreeSpace()
	if fs != Size-8 {
		t.Fatalf("FreeSpace: got %d want %d", fs, Size-8)
	}
}

func TestInsert_Simple(t *testing.T) {
	p := New(0)
	b0 := bytes.Repeat([]byte{0xAB}, 10)
	s0, err := p.Insert(b0)
	if err != nil || s0 != 0 {
		t.Fatalf("insert b0: got (%d,%v)", s0, err)
	}
	hs, _ := p.HeaderSize()
	if hs != 14 {
		t.Fatalf("HeaderSize after 1 insert: got %d want 14", hs)
	}
	fs, _ := p.FreeSpace()
	if fs != Size-14-10 {
		t.Fatalf("FreeSpace after 1 insert: got %d want %d", fs, Size-14-10)
	}
	got, err := p.Get(s0)
	if err != nil || !bytes.Equal(got, b0) {
		t.Fatalf("get s0: got (%q,%v)", got, err)
	}

	b1 := bytes.Repeat([]byte{0xCD}, 10)
	s1, err := p.Insert(b1)
	if err != nil || s1 != 1 {
		t.Fatalf("insert b1: got (%d,%v)", s1, err)
	}
	fs, _ = p.FreeSpace()
	if fs != Size-20-20 {
		t.Fatalf("FreeSpace after 2 inserts: got %d want %d", fs, Size-20-20)
	}
}

func TestInsert_FillAndReject(t *testing.T) {
	p := New(0)
	for i := 0; i < 3; i++ {
		if _, err := p.Insert(make([]byte, 1024)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	fs, _ := p.FreeSpace()
	want := Size - (8 + 3*6) - 3*1024
	if fs != want {
		t.Fatalf("FreeSpace: got %d want %d", fs, want)
	}
	if _, err := p.Insert(make([]byte, 1024)); !errors.Is(err, ErrNoFit) {
		t.Fatalf("expected ErrNoFit, got %v", err)
	}
	fsAfter, _ := p.FreeSpace()
	if fsAfter != fs {
		t.Fatalf("failed insert changed free space: before %d after %d", fs, fsAfter)
	}
	s3, err := p.Insert(make([]byte, 256))
	if err != nil || s3 != 3 {
		t.Fatalf("256-byte insert: got (%d,%v)", s3, err)
	}
}

func TestDelete_AndReuse(t *testing.T) {
	p := New(0)
	s0, _ := p.Insert(bytes.Repeat([]byte{1}, 20))
	s1, _ := p.Insert(bytes.Repeat([]byte{2}, 20))
	s2, _ := p.Insert(bytes.Repeat([]byte{3}, 20))

	if err := p.Delete(s1); err != nil {
		t.Fatalf("delete s1: %v", err)
	}
	if _, err := p.Get(s1); !errors.Is(err, ErrSlotNotLive) {
		t.Fatalf("get deleted slot: got %v want ErrSlotNotLive", err)
	}
	if _, err := p.Get(s0); err != nil {
		t.Fatalf("get s0 after unrelated delete: %v", err)
	}
	if _, err := p.Get(s2); err != nil {
		t.Fatalf("get s2 after unrelated delete: %v", err)
	}

	s3, err := p.Insert(bytes.Repeat([]byte{4}, 20))
	if err != nil || s3 != s1 {
		t.Fatalf("reuse insert: got (%d,%v) want (%d,nil)", s3, err, s1)
	}

	if err := p.Delete(s0); err != nil {
		t.Fatalf("delete s0: %v", err)
	}
	s4, err := p.Insert(bytes.Repeat([]byte{5}, 40))
	if err != nil || s4 != s0 {
		t.Fatalf("second reuse insert: got (%d,%v) want (%d,nil)", s4, err, s0)
	}
}

func TestDelete_NotFoundCases(t *testing.T) {
	p := New(0)
	if err := p.Delete(0); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("delete out of range: got %v", err)
	}
	s0, _ := p.Insert([]byte("x"))
	if err := p.Delete(s0); err != nil {
		t.Fatalf("delete s0: %v", err)
	}
	if err := p.Delete(s0); !errors.Is(err, ErrSlotNotLive) {
		t.Fatalf("double delete: got %v want ErrSlotNotLive", err)
	}
}

func TestCompactionPath(t *testing.T) {
	p := New(0)
	var slots []uint16
	for i := 0; i < 6; i++ {
		s, err := p.Insert(make([]byte, 800))
		if err != nil {
			if i != 5 {
				t.Fatalf("insert %d unexpectedly failed: %v", i, err)
			}
			continue
		}
		slots = append(slots, s)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 successful inserts, got %d", len(slots))
	}

	if err := p.Delete(slots[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	payload := bytes.Repeat([]byte{0x42}, 800)
	s, err := p.Insert(payload)
	if err != nil {
		t.Fatalf("insert after delete: %v", err)
	}
	if s != slots[1] {
		t.Fatalf("expected reused slot %d, got %d", slots[1], s)
	}
	got, err := p.Get(s)
	if err != nil || !bytes.Equal(got, payload) {
		t.Fatalf("read back after compaction: got (%q,%v)", got, err)
	}
}

func TestRoundTripAfterMutations(t *testing.T) {
	p := New(7)
	payloads := [][]byte{
		bytes.Repeat([]byte{0x11}, 100),
		bytes.Repeat([]byte{0x22}, 100),
		bytes.Repeat([]byte{0x33}, 100),
	}
	var slots []uint16
	for _, pl := range payloads {
		s, err := p.Insert(pl)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		slots = append(slots, s)
	}

	buf := append([]byte(nil), p.Bytes()...)
	p2, err := FromBytes(buf)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	for i, s := range slots {
		got, err := p2.Get(s)
		if err != nil || !bytes.Equal(got, payloads[i]) {
			t.Fatalf("slot %d after round-trip: got (%q,%v) want %q", s, got, err, payloads[i])
		}
	}
	s3, err := p2.Insert(bytes.Repeat([]byte{0x44}, 100))
	if err != nil || s3 != 3 {
		t.Fatalf("insert after round-trip: got (%d,%v) want (3,nil)", s3, err)
	}
}

func TestInsert_EmptyPayload(t *testing.T) {
	p := New(0)
	s, err := p.Insert(nil)
	if err != nil {
		t.Fatalf("insert empty payload: %v", err)
	}
	got, err := p.Get(s)
	if err != nil || len(got) != 0 {
		t.Fatalf("get empty payload: got (%q,%v)", got, err)
	}
	hs, _ := p.HeaderSize()
	if hs != 14 {
		t.Fatalf("HeaderSize after empty insert: got %d want 14", hs)
	}
}

func TestInsert_OversizedPayload(t *testing.T) {
	p := New(0)
	if _, err := p.Insert(make([]byte, Size+1)); !errors.Is(err, ErrOversizedPayload) {
		t.Fatalf("expected ErrOversizedPayload, got %v", err)
	}
}

func TestGet_OutOfRangeAndCorruptRange(t *testing.T) {
	p := New(0)
	if _, err := p.Get(0); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("get on empty page: got %v want ErrSlotOutOfRange", err)
	}
	s, _ := p.Insert([]byte("abc"))
	// Corrupt the stored length so offset+length exceeds Size.
	off := slotMetaOffset(int(s))
	p.buf[off+2] = 0xFF
	p.buf[off+3] = 0xFF
	if _, err := p.Get(s); !errors.Is(err, ErrSlotNotLive) {
		t.Fatalf("get on corrupt range: got %v want ErrSlotNotLive", err)
	}
}

func TestIterator_AscendingLiveOnly(t *testing.T) {
	p := New(0)
	s0, _ := p.Insert([]byte("a"))
	s1, _ := p.Insert([]byte("b"))
	s2, _ := p.Insert([]byte("c"))
	_ = p.Delete(s1)

	it, err := p.Iter()
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	var got []Record
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, rec)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].SlotID != s0 || string(got[0].Payload) != "a" {
		t.Fatalf("record 0: %+v", got[0])
	}
	if got[1].SlotID != s2 || string(got[1].Payload) != "c" {
		t.Fatalf("record 1: %+v", got[1])
	}

	if _, err := p.Get(s0); !errors.Is(err, ErrPageConsumed) {
		t.Fatalf("page should be consumed after Iter, got %v", err)
	}
}

func TestIterator_Live_EarlyTermination(t *testing.T) {
	p := New(0)
	for i := 0; i < 5; i++ {
		p.Insert([]byte{byte(i)})
	}
	it, _ := p.Iter()
	var seen []uint16
	it.Live(func(slotID uint16, payload []byte) bool {
		seen = append(seen, slotID)
		return slotID < 2
	})
	if len(seen) != 3 {
		t.Fatalf("expected early termination after 3 records, got %d: %v", len(seen), seen)
	}
}

func TestFromBytes_WrongSize(t *testing.T) {
	if _, err := FromBytes(make([]byte, Size-1)); !errors.Is(err, ErrBadBufferSize) {
		t.Fatalf("expected ErrBadBufferSize, got %v", err)
	}
}

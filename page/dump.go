package page

import (
	"fmt"
	"strings"
)

const bytesPerDumpLine = 40

// Dump renders the page as a hex listing, one bytesPerDumpLine-byte
// row per line, with runs of full-width all-zero rows collapsed to a
// count (a shorter final row is always printed). It is
// meant for debug output (cmd/pagectl, test failure messages), not for
// the on-disk format.
func (p *Page) Dump() string {
	var b strings.Builder
	id, _ := p.PageID()
	fmt.Fprintf(&b, "page %d\n", id)

	buf := p.buf
	zero := make([]byte, bytesPerDumpLine)
	emptyRun := 0
	flushEmptyRun := func() {
		if emptyRun == 0 {
			return
		}
		fmt.Fprintf(&b, "%d empty lines hidden\n", emptyRun)
		emptyRun = 0
	}

	for pos := 0; pos < len(buf); pos += bytesPerDumpLine {
		end := pos + bytesPerDumpLine
		if end > len(buf) {
			end = len(buf)
		}
		row := buf[pos:end]
		if len(row) == len(zero) && isZero(row) {
			emptyRun++
			continue
		}
		flushEmptyRun()
		fmt.Fprintf(&b, "[%4d] ", pos)
		for _, c := range row {
			switch c {
			case 0x00:
				b.WriteString(".  ")
			case 0xff:
				b.WriteString("## ")
			default:
				fmt.Fprintf(&b, "%02x ", c)
			}
		}
		b.WriteByte('\n')
	}
	flushEmptyRun()
	return b.String()
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// ByteRange is one contiguous span of differing bytes found by Diff.
type ByteRange struct {
	Start int
	Bytes []byte // the bytes from a at this range
}

// Diff reports the contiguous byte ranges where equal-length buffers a
// and b differ, in ascending offset order. It panics if len(a) !=
// len(b), since it's meant to compare two snapshots of the same page
// size. Useful for turning a CRC mismatch into a precise report of
// which bytes changed rather than just "page N is corrupt".
func Diff(a, b []byte) []ByteRange {
	if len(a) != len(b) {
		panic("page: Diff requires equal-length buffers")
	}
	var out []ByteRange
	inDiff := false
	start := 0
	var cur []byte
	for i := range a {
		if a[i] != b[i] {
			if !inDiff {
				inDiff = true
				start = i
				cur = nil
			}
			cur = append(cur, a[i])
		} else if inDiff {
			out = append(out, ByteRange{Start: start, Bytes: cur})
			inDiff = false
		}
	}
	if inDiff {
		out = append(out, ByteRange{Start: start, Bytes: cur})
	}
	return out
}

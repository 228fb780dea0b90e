// Package page implements a slotted heap page: a fixed-size,
// self-describing byte buffer that stores variable-length opaque
// records behind a stable slot directory.
//
// Layout (little-endian throughout):
//
//	[0:2]   PageID       uint16
//	[2:4]   SlotCount    uint16
//	[4:6]   FreeStart    uint16
//	[6:8]   Reserved     uint16
//	[8:...] Slot directory, 6 bytes per slot:
//	          [0:2] record offset  uint16
//	          [2:4] record length  uint16
//	          [4]   in-use flag    (1 = live, 0 = free)
//	          [5]   padding
//	...     Record body, packed forward from the end of the directory.
//
// A Page owns its buffer exclusively and has no internal concurrency
// control: callers that share a Page across goroutines must serialize
// writers themselves, same as the teacher's own slotted-page type.
package page

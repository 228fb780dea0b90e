package heapfile

import "errors"

var (
	// ErrClosed is returned by Allocate and Fetch on a HeapFile after
	// Close.
	ErrClosed = errors.New("heapfile: closed")

	// ErrCorrupt is returned when a page's on-disk CRC does not match
	// its payload.
	ErrCorrupt = errors.New("heapfile: page checksum mismatch")

	// ErrNoSuchPage is returned when fetching a page id beyond the
	// file's allocated range.
	ErrNoSuchPage = errors.New("heapfile: no such page")

	// ErrPagesExhausted is returned by Allocate once the file holds
	// 65535 pages (ids 0 through 65534); the page count is a uint16, so
	// id 65535 is never handed out.
	ErrPagesExhausted = errors.New("heapfile: page id space exhausted")

	// ErrNotFound is returned by Catalog lookups that miss.
	ErrNotFound = errors.New("heapfile: catalog entry not found")
)

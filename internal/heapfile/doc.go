// Package heapfile implements the multi-page collaborator a slotted
// page never manages itself: a CRC-checked on-disk file of fixed-size
// pages, a bounded LRU buffer pool with pin counts, and a table
// catalog mapping names to page ids.
//
// A HeapFile is a flat array of page.Page-sized frames, each prefixed
// on disk by a CRC32-C checksum of its page payload. It has no WAL, no
// transactions, and no secondary indexing: those are out of scope for
// a heap of slotted pages, which only needs allocation, pinned
// fetch/flush, and corruption detection.
package heapfile

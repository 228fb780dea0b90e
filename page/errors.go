package page

import "errors"

// Failure taxonomy. Every mutating or reading operation that fails
// returns one of these, never a panic, never a retry.
var (
	// ErrSlotOutOfRange is returned when a slot id falls outside
	// [0, SlotCount()).
	ErrSlotOutOfRange = errors.New("page: slot id out of range")

	// ErrSlotNotLive is returned when a slot id is in range but the
	// slot has been deleted (or was never allocated).
	ErrSlotNotLive = errors.New("page: slot not live")

	// ErrNoFit is returned by Insert when neither the current free
	// tail nor a post-compaction layout can hold the payload plus any
	// required new directory entry.
	ErrNoFit = errors.New("page: record does not fit")

	// ErrOversizedPayload is returned by Insert when the payload alone
	// is larger than the page, so no amount of compaction could help.
	ErrOversizedPayload = errors.New("page: payload exceeds page size")

	// ErrPageConsumed is returned by every error-returning method of a
	// Page whose buffer has already been handed to an Iterator via Iter.
	// Bytes and Dump do not check for this.
	ErrPageConsumed = errors.New("page: page consumed by iterator")

	// ErrBadBufferSize is returned by FromBytes when the supplied
	// buffer is not exactly Size bytes long.
	ErrBadBufferSize = errors.New("page: buffer has wrong size")
)

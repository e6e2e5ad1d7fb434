// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import (
	"math/bits"
	"unsafe"
)

// Event states. A slot is in exactly one of these at any time outside
// the critical section.
const (
	stateFree      uint8 = 0
	statePending   uint8 = 1
	stateInflight  uint8 = 2
	stateCancelled uint8 = 3
)

// noOffset is the sentinel for "no link" in next/sibling fields and for
// an empty free/pending list head.
const noOffset int32 = -1

// alignment is the byte granularity slots are rounded to. All header
// field types below are naturally aligned within it.
const alignment = 8

// eventHeader is the fixed-layout bookkeeping prefix of every arena
// slot. It holds only plain numeric fields: a Go func value contains a
// pointer the garbage collector must track, and storing one inside a
// raw []byte arena via unsafe would hide that pointer from the
// collector. handler and dtor therefore live in Queue.handlers, a
// side table keyed by byte offset, kept consistent with the header
// under the same critical section. generation is changed only by free,
// which increments it; nothing else may touch it.
type eventHeader struct {
	next       int32
	sibling    int32
	targetMs   uint32
	periodMs   int32
	generation uint32
	size       int32
	state      uint8
	_          [7]byte // pad to alignment
}

const headerSize = int(unsafe.Sizeof(eventHeader{}))

// minSlotSize is the smallest region the allocator will hand out or
// leave behind after a split: a header with zero payload.
const minSlotSize = headerSize

// handlerSlot is the side-table entry shadowing a PENDING header.
type handlerSlot struct {
	handler func(unsafe.Pointer)
	dtor    func(unsafe.Pointer)
}

// idOffsetBits returns the number of bits reserved for the byte offset
// portion of an identifier, given an arena of arenaSize bytes.
func idOffsetBits(arenaSize int) uint {
	if arenaSize <= 1 {
		return 1
	}
	return uint(bits.Len32(uint32(arenaSize)))
}

// encodeID packs a byte offset and generation into a non-zero
// identifier. offsetBits must be the value returned by idOffsetBits for
// the owning arena.
func encodeID(offset int32, generation uint32, offsetBits uint) uint32 {
	return ((generation << offsetBits) | uint32(offset)) + 1
}

// decodeID unpacks an identifier produced by encodeID. ok is false only
// when id is zero.
func decodeID(id uint32, offsetBits uint) (offset int32, generation uint32, ok bool) {
	if id == 0 {
		return 0, 0, false
	}
	v := id - 1
	mask := uint32(1)<<offsetBits - 1
	return int32(v & mask), v >> offsetBits, true
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "unsafe"

// arena is a fixed-size byte region carved into variable-length event
// slots by an address-ordered free list with coalescing. All mutation
// happens under the owning Queue's critical section; arena itself holds
// no lock.
type arena struct {
	buf        []byte
	freeHead   int32
	offsetBits uint
}

func (a *arena) init(buf []byte) {
	a.buf = buf
	a.offsetBits = idOffsetBits(len(buf))
	h := a.header(0)
	*h = eventHeader{next: noOffset, sibling: noOffset, size: int32(len(buf)), state: stateFree}
	a.freeHead = 0
}

func (a *arena) header(offset int32) *eventHeader {
	return (*eventHeader)(unsafe.Pointer(&a.buf[offset]))
}

func align(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// alloc reserves a slot able to hold an event header plus payloadSize
// bytes, splitting the first free region that fits. Returns
// ErrArenaExhausted if no region is large enough.
func (a *arena) alloc(payloadSize int) (int32, error) {
	need := align(headerSize + payloadSize)
	if need < minSlotSize {
		need = minSlotSize
	}

	var prev int32 = noOffset
	cur := a.freeHead
	for cur != noOffset {
		h := a.header(cur)
		sz := int(h.size)
		if sz >= need {
			remainder := sz - need
			if remainder >= minSlotSize {
				newOffset := cur + int32(need)
				nh := a.header(newOffset)
				nh.next = h.next
				nh.sibling = noOffset
				nh.size = int32(remainder)
				nh.state = stateFree

				h.size = int32(need)
				if prev == noOffset {
					a.freeHead = newOffset
				} else {
					a.header(prev).next = newOffset
				}
			} else {
				if prev == noOffset {
					a.freeHead = h.next
				} else {
					a.header(prev).next = h.next
				}
			}
			h.next = noOffset
			h.sibling = noOffset
			h.state = stateFree
			return cur, nil
		}
		prev = cur
		cur = h.next
	}
	return 0, ErrArenaExhausted
}

// free returns offset's slot to the free list, merging with adjacent
// free neighbours in address order, and increments the slot's
// generation so any outstanding identifier for it becomes invalid. It
// is the only operation permitted to change generation.
func (a *arena) free(offset int32) {
	h := a.header(offset)
	h.generation++
	h.state = stateFree
	h.sibling = noOffset

	var prev int32 = noOffset
	cur := a.freeHead
	for cur != noOffset && cur < offset {
		prev = cur
		cur = a.header(cur).next
	}

	h.next = cur
	if prev == noOffset {
		a.freeHead = offset
	} else {
		a.header(prev).next = offset
	}

	if cur != noOffset && offset+h.size == cur {
		ch := a.header(cur)
		h.size += ch.size
		h.next = ch.next
	}
	if prev != noOffset {
		ph := a.header(prev)
		if prev+ph.size == offset {
			ph.size += h.size
			ph.next = h.next
		}
	}
}

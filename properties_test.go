// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import (
	"testing"
	"unsafe"
)

// freeListTotal walks a's free list and sums region sizes, also
// asserting the list stays address-ordered.
func freeListTotal(t *testing.T, a *arena) int {
	t.Helper()
	total := 0
	prev := int32(-1)
	cur := a.freeHead
	for cur != noOffset {
		if prev != noOffset && cur <= prev {
			t.Fatalf("free list not address-ordered: %d then %d", prev, cur)
		}
		h := a.header(cur)
		total += int(h.size)
		prev = cur
		cur = h.next
	}
	return total
}

// TestArenaNoLeaksNoOverlap exercises P5: free-list sizes plus live slot
// sizes must always equal arena capacity.
func TestArenaNoLeaksNoOverlap(t *testing.T) {
	var a arena
	const capacity = 2048
	a.init(make([]byte, capacity))

	var live []int32
	for i := 0; i < 10; i++ {
		off, err := a.alloc(24)
		if err != nil {
			break
		}
		live = append(live, off)
	}

	liveTotal := 0
	for _, off := range live {
		liveTotal += int(a.header(off).size)
	}
	if got := freeListTotal(t, &a) + liveTotal; got != capacity {
		t.Fatalf("free+live = %d, want %d", got, capacity)
	}

	// free half, re-check, then free the rest.
	for i := 0; i < len(live)/2; i++ {
		a.free(live[i])
	}
	liveTotal = 0
	for i := len(live) / 2; i < len(live); i++ {
		liveTotal += int(a.header(live[i]).size)
	}
	if got := freeListTotal(t, &a) + liveTotal; got != capacity {
		t.Fatalf("after partial free: free+live = %d, want %d", got, capacity)
	}

	for i := len(live) / 2; i < len(live); i++ {
		a.free(live[i])
	}
	if got := freeListTotal(t, &a); got != capacity {
		t.Fatalf("after freeing everything: free = %d, want %d", got, capacity)
	}
}

// TestStaleIDRejectedAfterReuse exercises P3/P4: an identifier survives
// decoding until its slot is freed, and never validates again
// afterwards, even if the slot offset is immediately reused.
func TestStaleIDRejectedAfterReuse(t *testing.T) {
	q := NewQueue(1024)

	id1 := q.PostRaw(1000, 0, func(unsafe.Pointer) {}, nil, 0)
	if id1 == 0 {
		t.Fatalf("PostRaw: got id 0")
	}
	if !q.Cancel(id1) {
		t.Fatalf("Cancel(id1): got false, want true")
	}

	id2 := q.PostRaw(1000, 0, func(unsafe.Pointer) {}, nil, 0)
	if id2 == 0 {
		t.Fatalf("second PostRaw: got id 0")
	}

	if q.Cancel(id1) {
		t.Fatalf("stale id1 validated after its slot was reused as id2")
	}
	if !q.Cancel(id2) {
		t.Fatalf("Cancel(id2): got false, want true")
	}
}

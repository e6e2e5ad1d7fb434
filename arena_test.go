// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "testing"

func TestArenaAllocFree(t *testing.T) {
	var a arena
	a.init(make([]byte, 1024))

	off, err := a.alloc(32)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	h := a.header(off)
	if h.state != stateFree {
		t.Fatalf("alloc left state = %d, want stateFree pending transition by caller", h.state)
	}
	if int(h.size) < headerSize+32 {
		t.Fatalf("size = %d, want >= %d", h.size, headerSize+32)
	}

	a.free(off)
	h = a.header(off)
	if h.state != stateFree {
		t.Fatalf("after free state = %d, want stateFree", h.state)
	}
}

func TestArenaGenerationIncrementsOnFree(t *testing.T) {
	var a arena
	a.init(make([]byte, 1024))

	off, err := a.alloc(16)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	gen0 := a.header(off).generation
	a.free(off)
	gen1 := a.header(off).generation
	if gen1 != gen0+1 {
		t.Fatalf("generation after free = %d, want %d", gen1, gen0+1)
	}
}

func TestArenaCoalescesAdjacentFreeRegions(t *testing.T) {
	var a arena
	a.init(make([]byte, 512))

	off1, err := a.alloc(16)
	if err != nil {
		t.Fatalf("alloc 1: %v", err)
	}
	off2, err := a.alloc(16)
	if err != nil {
		t.Fatalf("alloc 2: %v", err)
	}
	off3, err := a.alloc(16)
	if err != nil {
		t.Fatalf("alloc 3: %v", err)
	}

	a.free(off1)
	a.free(off3)
	a.free(off2) // merges with both neighbours into a single free region

	// The whole arena should now be one free region again.
	h := a.header(a.freeHead)
	if int(h.size) != 512 {
		t.Fatalf("coalesced free size = %d, want 512", h.size)
	}
	if h.next != noOffset {
		t.Fatalf("expected a single free region, found another at %d", h.next)
	}
}

func TestArenaExhaustion(t *testing.T) {
	var a arena
	a.init(make([]byte, 64))

	if _, err := a.alloc(1000); !IsArenaExhausted(err) {
		t.Fatalf("alloc over capacity: err = %v, want ErrArenaExhausted", err)
	}
}

func TestArenaAllocFreeAllocRoundTrip(t *testing.T) {
	var a arena
	a.init(make([]byte, 256))

	var offs []int32
	for {
		off, err := a.alloc(8)
		if err != nil {
			break
		}
		offs = append(offs, off)
	}
	if len(offs) == 0 {
		t.Fatalf("expected at least one allocation to succeed")
	}

	for _, off := range offs {
		a.free(off)
	}

	// Freeing everything must recover full capacity: the arena should
	// accept exactly as many allocations again.
	var recovered int
	for {
		if _, err := a.alloc(8); err != nil {
			break
		}
		recovered++
	}
	if recovered != len(offs) {
		t.Fatalf("recovered %d slots after freeing all, want %d", recovered, len(offs))
	}
}

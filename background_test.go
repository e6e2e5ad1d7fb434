// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue_test

import (
	"sync"
	"testing"
	"unsafe"

	"code.hybscloud.com/equeue"
)

func TestBackgroundUpdateHook(t *testing.T) {
	q := equeue.NewQueue(4096)

	var mu sync.Mutex
	var timeouts []int32
	q.Background(func(timeoutMs int32) {
		mu.Lock()
		timeouts = append(timeouts, timeoutMs)
		mu.Unlock()
	})

	mu.Lock()
	initial := len(timeouts)
	mu.Unlock()
	if initial == 0 {
		t.Fatalf("Background did not invoke update on install")
	}

	id := q.PostRaw(50, 0, func(unsafe.Pointer) {}, nil, 0)

	mu.Lock()
	afterPost := len(timeouts)
	last := timeouts[afterPost-1]
	mu.Unlock()
	if afterPost <= initial {
		t.Fatalf("Background update not invoked after PostRaw")
	}
	if last < 0 {
		t.Fatalf("update(timeout) = %d after posting a pending event, want >= 0", last)
	}

	if !q.Cancel(id) {
		t.Fatalf("Cancel: got false, want true")
	}

	mu.Lock()
	afterCancel := timeouts[len(timeouts)-1]
	mu.Unlock()
	if afterCancel != -1 {
		t.Fatalf("update(timeout) after draining to empty = %d, want -1", afterCancel)
	}
}

func TestBackgroundSkipsInternalWait(t *testing.T) {
	q := equeue.NewQueue(4096)
	q.Background(func(int32) {})

	fired := false
	q.PostRaw(5000, 0, func(unsafe.Pointer) { fired = true }, nil, 0)

	// In background mode Dispatch never parks internally; a bounded
	// Dispatch(0) call should return promptly without having to wait
	// out the 5s delay.
	q.Dispatch(0)

	if fired {
		t.Fatalf("handler fired before its due time")
	}
}

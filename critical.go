// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// critical is the queue's interrupt-safe mutual exclusion primitive.
//
// It is a CAS-with-backoff spinlock built from atomix and spin, rather
// than an OS-level mutex: a goroutine standing in for interrupt
// context must never be descheduled while holding a lock another
// context is waiting on. All critical-section bodies are short and
// non-blocking by construction (arena and pending-list bookkeeping
// only; handler invocation always happens outside it).
type critical struct {
	locked atomix.Bool
}

func (c *critical) lock() {
	if c.locked.CompareAndSwapAcqRel(false, true) {
		return
	}
	sw := spin.Wait{}
	for !c.locked.CompareAndSwapAcqRel(false, true) {
		sw.Once()
	}
}

func (c *critical) unlock() {
	c.locked.StoreRelease(false)
}

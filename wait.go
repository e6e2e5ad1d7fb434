// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "time"

// waiter is the blocking/non-blocking wait primitive behind Dispatch's
// internal sleep. A single buffered token stands in for a condition
// variable: multiple signals while nobody is waiting collapse to one
// pending wake, and signal is itself non-blocking so it is safe to call
// from a goroutine standing in for interrupt context.
type waiter struct {
	wake chan struct{}
}

func (w *waiter) init() {
	w.wake = make(chan struct{}, 1)
}

// signal wakes a blocked wait, or leaves a pending wake for the next
// one if nobody is currently waiting. Idempotent within an epoch.
func (w *waiter) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// wait blocks up to ms milliseconds, returning early if signal is
// called. ms == 0 returns immediately without blocking. ms < 0 blocks
// until signalled.
func (w *waiter) wait(ms int32) {
	if ms == 0 {
		select {
		case <-w.wake:
		default:
		}
		return
	}
	if ms < 0 {
		<-w.wake
		return
	}
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-w.wake:
	case <-t.C:
	}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "time"

// clock is a monotonic millisecond tick source that wraps at 2^32, as
// called for by modular due-time comparisons throughout the pending
// list and dispatch loop.
type clock struct {
	start time.Time
}

func (c *clock) init() {
	c.start = time.Now()
}

func (c *clock) now() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// elapsedSince returns now-then under unsigned 32-bit modular
// subtraction, so a single wraparound during a long-running Dispatch
// call is tolerated.
func elapsedSince(then, now uint32) uint32 {
	return now - then
}

// delta returns t-now reinterpreted as a signed distance, the standard
// sequence-number-comparison idiom for modular clocks: a negative
// result means t is due, a positive one means t is still ahead. Valid
// for distances within +/-2^31 ms (~24 days), comfortably beyond any
// delay this queue is meant to schedule.
func delta(now, t uint32) int32 {
	return int32(t - now)
}

// before reports whether a precedes b under modular due-time ordering
// relative to now: a precedes b iff a is due sooner, wraparound-safe.
func before(now, a, b uint32) bool {
	return delta(now, a) < delta(now, b)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

// Dispatch runs the queue's dispatcher: it waits for due events and
// invokes their handlers, until either ms milliseconds have elapsed
// since entry or [Queue.BreakDispatch] is called. ms == 0 never waits:
// it drains every event currently due, one at a time, and returns as
// soon as none remain. ms < 0 dispatches indefinitely.
//
// Break and budget are checked after every individual event, not once
// per drained batch: if two events are due at the same instant and the
// first calls BreakDispatch, the second stays PENDING for a later call.
//
// Exactly one goroutine should be inside Dispatch for a given queue at
// a time; handlers may themselves call PostRaw, Cancel, or
// BreakDispatch on this queue.
func (q *Queue) Dispatch(ms int32) {
	entry := q.clock.now()
	unbounded := ms < 0
	drainDue := ms == 0

	for {
		q.cs.lock()
		backgroundMode := q.update != nil
		headDelay := q.headDelayLocked()
		q.cs.unlock()

		if headDelay != 0 && !backgroundMode && !drainDue {
			budget := headDelay
			if !unbounded {
				remaining := remainingBudget(entry, q.clock.now(), ms)
				if remaining <= 0 {
					return
				}
				if budget < 0 || budget > remaining {
					budget = remaining
				}
			}
			q.wait.wait(budget)
		}

		ran := q.popDueOne()

		if q.breakRequested.LoadAcquire() {
			q.breakRequested.StoreRelease(false)
			return
		}

		if drainDue {
			if !ran {
				return
			}
			continue
		}

		if !unbounded {
			remaining := remainingBudget(entry, q.clock.now(), ms)
			if remaining <= 0 {
				return
			}
		}
	}
}

// remainingBudget returns the milliseconds left in a dispatch call that
// started at entry with budget ms, given the current tick now.
func remainingBudget(entry, now uint32, ms int32) int32 {
	elapsed := int32(elapsedSince(entry, now))
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := ms - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// popDueOne pops and runs the pending list's head if it is currently
// due, reinserting it if periodic or freeing it if one-shot. Returns
// whether an event ran.
func (q *Queue) popDueOne() bool {
	q.cs.lock()
	now := q.clock.now()
	if q.pendingHead == noOffset {
		q.cs.unlock()
		return false
	}
	h := q.arena.header(q.pendingHead)
	if delta(now, h.targetMs) > 0 {
		q.cs.unlock()
		return false
	}

	offset := q.pendingHead
	successor := h.sibling
	if successor != noOffset {
		sh := q.arena.header(successor)
		sh.next = h.next
		q.pendingHead = successor
	} else {
		q.pendingHead = h.next
	}
	h.state = stateInflight
	hs, hasHandler := q.handlers[offset]
	q.cs.unlock()

	if hasHandler && hs.handler != nil {
		hs.handler(q.payload(offset))
	}

	q.cs.lock()
	h = q.arena.header(offset)
	if h.periodMs > 0 {
		h.targetMs = h.targetMs + uint32(h.periodMs)
		h.state = statePending
		q.insertPendingLocked(offset, q.clock.now())
		q.cs.unlock()
		q.wait.signal()
		q.notifyUpdate()
	} else {
		delete(q.handlers, offset)
		q.cs.unlock()
		if hasHandler && hs.dtor != nil {
			hs.dtor(q.payload(offset))
		}
		q.cs.lock()
		q.arena.free(offset)
		q.cs.unlock()
		q.wait.signal()
		q.notifyUpdate()
	}
	return true
}

// BreakDispatch requests that the nearest in-progress or future
// Dispatch call return after its current event (if any) finishes. It is
// lock-free and IRQ-safe.
func (q *Queue) BreakDispatch() {
	q.breakRequested.StoreRelease(true)
	q.wait.signal()
}

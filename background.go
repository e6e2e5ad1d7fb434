// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "unsafe"

// Background installs update as the queue's external wake hook. Once
// installed, Dispatch never parks in its internal wait primitive;
// instead update is invoked, outside the critical section, after every
// structural change to the pending list with the delay to the new head
// (or -1 if the list is empty); for PostRaw, only when the new event
// becomes the head. The caller is expected to arrange a
// call to Dispatch(0) when that delay elapses. Passing nil reverts the
// queue to waiting internally.
//
// update invocations for a given queue are serialized by construction,
// even when triggered by concurrent posters on different goroutines, so
// update never needs to guard against reentrancy from this queue.
func (q *Queue) Background(update func(timeoutMs int32)) {
	q.cs.lock()
	q.update = update
	q.cs.unlock()
	if update != nil {
		q.notifyUpdate()
	}
}

// notifyUpdate invokes the installed update hook, if any, with the
// current delay to the pending list head. Safe to call from any
// goroutine; serializes concurrent callers so update never overlaps
// itself.
func (q *Queue) notifyUpdate() {
	q.cs.lock()
	upd := q.update
	delay := q.headDelayLocked()
	q.cs.unlock()
	if upd == nil {
		return
	}
	q.updateMu.Lock()
	upd(delay)
	q.updateMu.Unlock()
}

// Chain registers q to be driven from inside target's Dispatch: q is
// installed in background mode with an update hook that posts (or
// reschedules) a zero-payload trampoline event on target whose handler
// runs q.Dispatch(0). Passing nil unregisters q, reverting it to
// internal waiting.
//
// Returns [ErrChainSelf] if target is q, or [ErrChainCycle] if chaining
// would create a cycle through target's own chain ancestors.
func (q *Queue) Chain(target *Queue) error {
	if target == nil {
		q.chainMu.Lock()
		prev := q.chainedTo
		q.chainedTo = nil
		q.chainMu.Unlock()
		q.Background(nil)
		if prev != nil {
			prev.cancelTrampolineFor(q)
		}
		return nil
	}
	if target == q {
		return ErrChainSelf
	}
	for p := target; p != nil; p = p.chainAncestor() {
		if p == q {
			return ErrChainCycle
		}
	}

	q.chainMu.Lock()
	prev := q.chainedTo
	q.chainedTo = target
	q.chainMu.Unlock()

	q.Background(func(timeoutMs int32) {
		target.rescheduleTrampoline(q, timeoutMs)
	})
	if prev != nil && prev != target {
		prev.cancelTrampolineFor(q)
	}
	return nil
}

func (q *Queue) chainAncestor() *Queue {
	q.chainMu.Lock()
	defer q.chainMu.Unlock()
	return q.chainedTo
}

// rescheduleTrampoline maintains the single outstanding trampoline
// event that drives child's dispatch from inside q's own Dispatch. A
// previous trampoline for the same child is cancelled before a new one
// is posted; a negative timeoutMs (child's pending list now empty)
// leaves no trampoline outstanding.
func (q *Queue) rescheduleTrampoline(child *Queue, timeoutMs int32) {
	q.cancelTrampolineFor(child)
	if timeoutMs < 0 {
		return
	}
	id := q.PostRaw(timeoutMs, 0, func(unsafe.Pointer) {
		child.Dispatch(0)
	}, nil, 0)
	if id == 0 {
		q.logger.Warn().Msg("equeue: failed to post chain trampoline, parent arena exhausted")
		return
	}
	q.chainMu.Lock()
	if q.trampolines == nil {
		q.trampolines = make(map[*Queue]uint32)
	}
	q.trampolines[child] = id
	q.chainMu.Unlock()
}

// cancelTrampolineFor cancels and forgets any trampoline event q is
// currently holding on child's behalf. Called when child unregisters,
// re-chains elsewhere, or reschedules its own trampoline.
func (q *Queue) cancelTrampolineFor(child *Queue) {
	q.chainMu.Lock()
	id, ok := q.trampolines[child]
	if ok {
		delete(q.trampolines, child)
	}
	q.chainMu.Unlock()
	if ok && id != 0 {
		q.Cancel(id)
	}
}

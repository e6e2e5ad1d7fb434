// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package equeue implements a bounded-memory, interrupt-safe event
// queue: a scheduler that accepts callable work items from arbitrary
// execution contexts, including goroutines standing in for interrupt
// handlers, and dispatches them sequentially on a single dispatcher
// goroutine.
//
// Events carry a delay, an optional period, a handler, and an optional
// destructor. All events live in a fixed-size byte arena owned by the
// Queue; there is no dynamic growth. Posting, cancelling, and querying
// time-to-due are safe to call from any goroutine, concurrently with the
// dispatcher. Without a Background update hook they never block beyond a
// short spin-protected critical section; with one installed, PostRaw and
// Cancel also run the hook under a per-queue sync.Mutex and can wait for
// another goroutine's hook call to finish.
//
// # Basic usage
//
//	q := equeue.NewQueue(4096)
//	id := q.PostRaw(0, 0, func(unsafe.Pointer) {
//		fmt.Println("fired")
//	}, nil, 0)
//	q.Dispatch(10)
//
// # Periodic events
//
//	q.PostRaw(30, 30, tick, nil, 0) // fires at t=30, 60, 90, ...
//
// # Cancellation
//
//	id := q.PostRaw(1000, 0, work, nil, 0)
//	if !q.Cancel(id) {
//		// already dispatched, or never existed
//	}
//
// # Driving dispatch from an external timer
//
// Background mode lets an external timer own the wait:
//
//	q.Background(func(timeoutMs int32) {
//		externalTimer.ArmOrCancel(timeoutMs)
//	})
//	// externalTimer's callback calls q.Dispatch(0) on expiry.
//
// # Chaining queues
//
// A queue can be driven from inside another queue's dispatch loop:
//
//	parent := equeue.NewQueue(4096)
//	child := equeue.NewQueue(4096)
//	if err := child.Chain(parent); err != nil {
//		// self-chain or cycle
//	}
//	// child.PostRaw(...) events now run when parent.Dispatch runs.
//
// # Concurrency model
//
// Exactly one goroutine may be inside Dispatch for a given queue at a
// time; handlers run strictly outside the internal critical section, so
// a handler is free to Post, Cancel, or BreakDispatch on its own queue.
// Posters may be any number of concurrent goroutines, including ones
// simulating interrupt context — TimeLeft takes only the spinlock, and
// PostRaw and Cancel take a mutex only to serialize Background update
// hook calls.
//
// # Dependencies
//
// The critical section is a CAS-with-backoff spinlock built from
// code.hybscloud.com/atomix and code.hybscloud.com/spin. Allocation
// exhaustion is reported via the code.hybscloud.com/iox control-flow
// error convention. Diagnostic logging uses github.com/rs/zerolog,
// defaulting to a no-op logger.
//
// # Limitations
//
// The arena is fixed-size and never grows; exhaustion returns identifier
// zero rather than blocking. A running handler cannot be preempted or
// cancelled. There is no cross-queue fairness beyond chaining's
// trampoline ordering.
package equeue

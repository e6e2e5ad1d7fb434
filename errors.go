// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrArenaExhausted indicates the event arena has no free region large
// enough to satisfy an allocation.
//
// It is a control flow signal, not a failure: callers observe it via a
// zero identifier returned from PostRaw, and may retry once the
// dispatcher has freed capacity.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrArenaExhausted = iox.ErrWouldBlock

// ErrChainSelf is returned by Chain when a queue is chained to itself.
var ErrChainSelf = errors.New("equeue: cannot chain queue to itself")

// ErrChainCycle is returned by Chain when chaining would create a cycle
// among queues.
var ErrChainCycle = errors.New("equeue: chain would create a cycle")

// IsArenaExhausted reports whether err indicates the arena is exhausted.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsArenaExhausted(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal rather than a
// failure. Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

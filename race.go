// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package equeue

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent assertions that are sound by
// construction but synchronized through the critical section's
// spinlock rather than a mutex or channel, which the race detector
// cannot observe.
const RaceEnabled = true

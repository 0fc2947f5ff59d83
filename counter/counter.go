// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Counter - a gauge that is synchronously incremented or decremented,
// used to track the number of live client connections
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Acquire - take a slot if fewer than maximum are in use
//
// returns false, leaving the counter unchanged, when the limit is reached
func (ic *Counter) Acquire(maximum uint64) bool {
	if ic.Increment() <= maximum {
		return true
	}
	ic.Decrement()
	return false
}

// Release - give back a slot taken by Acquire
func (ic *Counter) Release() {
	ic.Decrement()
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// IsZero - check if zero
func (ic *Counter) IsZero() bool {
	return ic.Uint64() == 0
}

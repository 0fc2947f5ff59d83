// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerkit/ledgerd/counter"
)

func TestCounter(t *testing.T) {
	var c counter.Counter

	assert.True(t, c.IsZero(), "counter is not zero at start")

	for i := 0; i < 5; i += 1 {
		c.Increment()
	}
	assert.Equal(t, uint64(5), c.Uint64())

	c.Decrement()
	assert.Equal(t, uint64(4), c.Uint64())
}

func TestAcquireLimit(t *testing.T) {
	var c counter.Counter

	assert.True(t, c.Acquire(2))
	assert.True(t, c.Acquire(2))
	assert.False(t, c.Acquire(2), "third slot must be refused")
	assert.Equal(t, uint64(2), c.Uint64())

	c.Release()
	assert.True(t, c.Acquire(2))
}

func TestAcquireConcurrent(t *testing.T) {
	var c counter.Counter
	var wg sync.WaitGroup

	const maximum = 10
	granted := make(chan bool, 100)
	for i := 0; i < 100; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			granted <- c.Acquire(maximum)
		}()
	}
	wg.Wait()
	close(granted)

	n := 0
	for g := range granted {
		if g {
			n += 1
		}
	}
	assert.Equal(t, maximum, n)
	assert.Equal(t, uint64(maximum), c.Uint64())
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/rpc/ratelimit"
)

func TestLimit(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(20*time.Millisecond), 2)

	start := time.Now()
	assert.Nil(t, ratelimit.Limit(limiter))
	assert.Nil(t, ratelimit.Limit(limiter))
	assert.Less(t, int64(time.Since(start)), int64(10*time.Millisecond), "burst should not wait")

	assert.Nil(t, ratelimit.Limit(limiter))
	assert.GreaterOrEqual(t, int64(time.Since(start)), int64(15*time.Millisecond), "third call should wait")
}

func TestLimitNeverGranted(t *testing.T) {
	limiter := rate.NewLimiter(0, 0)
	assert.Equal(t, fault.ErrRateLimiting, ratelimit.Limit(limiter))
}

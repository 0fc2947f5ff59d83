// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ledgerkit/ledgerd/fault"
)

// tracker - remembers the commit sequence at which each key was last
// written so that commits can be validated against what a transaction
// has read
//
// the lock serialises commits
type tracker struct {
	sync.Mutex
	sequence  uint64
	retention time.Duration
	modified  *cache.Cache
}

func newTracker(retention time.Duration) *tracker {
	return &tracker{
		retention: retention,
		modified:  cache.New(retention, retention/2),
	}
}

// snapshot - sequence number a new transaction starts from
func (t *tracker) snapshot() uint64 {
	t.Lock()
	defer t.Unlock()
	return t.sequence
}

// validate - caller must hold the lock
func (t *tracker) validate(tx *Transaction) error {
	if 0 == len(tx.reads) && 0 == len(tx.ranges) {
		return nil
	}

	// older entries may already have been evicted
	if time.Since(tx.started) >= t.retention {
		return fmt.Errorf("%w: transaction: %s exceeded retention: %s", fault.ErrConflict, tx.id, t.retention)
	}

	for key := range tx.reads {
		if sequence, found := t.modified.Get(key); found && sequence.(uint64) > tx.start {
			return fmt.Errorf("%w: transaction: %s read key modified at: %d", fault.ErrConflict, tx.id, sequence)
		}
	}

	if 0 == len(tx.ranges) {
		return nil
	}

	for key, item := range t.modified.Items() {
		if item.Object.(uint64) <= tx.start {
			continue
		}
		for _, r := range tx.ranges {
			if inRange([]byte(key), r) {
				return fmt.Errorf("%w: transaction: %s scanned range modified at: %d", fault.ErrConflict, tx.id, item.Object)
			}
		}
	}
	return nil
}

// advance - caller must hold the lock
func (t *tracker) advance(operations []operation) {
	t.sequence += 1
	for _, op := range operations {
		t.modified.Set(string(op.key), t.sequence, cache.DefaultExpiration)
	}
}

func inRange(key []byte, r ldb_util.Range) bool {
	if bytes.Compare(key, r.Start) < 0 {
		return false
	}
	return nil == r.Limit || bytes.Compare(key, r.Limit) < 0
}

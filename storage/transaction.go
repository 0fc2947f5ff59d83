// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ledgerkit/ledgerd/fault"
)

// tags on values in the pending write set
const (
	pendingPut    = 'P'
	pendingDelete = 'D'
)

// Transaction - a single invocation's view of one namespace
//
// not safe for concurrent use
type Transaction struct {
	db      *Database
	id      string
	prefix  []byte
	pending *memdb.DB
	reads   map[string]struct{}
	ranges  []ldb_util.Range
	start   uint64
	started time.Time
	closed  bool
}

// Begin - start a transaction on a namespace
func (db *Database) Begin(namespace string) (*Transaction, error) {
	db.RLock()
	closed := nil == db.store
	db.RUnlock()
	if closed {
		return nil, fault.ErrDatabaseIsNotSet
	}
	if "" == namespace || !utf8.ValidString(namespace) || strings.ContainsRune(namespace, 0) {
		return nil, fmt.Errorf("%w: %q", fault.ErrInvalidNamespace, namespace)
	}

	prefix := make([]byte, 0, len(namespace)+1)
	prefix = append(prefix, namespace...)
	prefix = append(prefix, 0x00)

	return &Transaction{
		db:      db,
		id:      uuid.New().String(),
		prefix:  prefix,
		pending: memdb.New(comparer.DefaultComparer, 0),
		reads:   make(map[string]struct{}),
		start:   db.tracker.snapshot(),
		started: time.Now(),
	}, nil
}

// ID - unique transaction identifier
func (tx *Transaction) ID() string {
	return tx.id
}

func (tx *Transaction) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 0, len(tx.prefix)+len(key))
	prefixedKey = append(prefixedKey, tx.prefix...)
	return append(prefixedKey, key...)
}

// Get - read a value, pending writes first
//
// returns nil for an absent key
func (tx *Transaction) Get(key []byte) ([]byte, error) {
	if tx.closed {
		return nil, fault.ErrTransactionClosed
	}

	prefixedKey := tx.prefixKey(key)
	tx.reads[string(prefixedKey)] = struct{}{}

	value, err := tx.pending.Get(prefixedKey)
	switch err {
	case nil:
		if pendingDelete == value[0] {
			return nil, nil
		}
		return copyBytes(value[1:]), nil
	case memdb.ErrNotFound:
		return tx.db.get(prefixedKey)
	default:
		return nil, err
	}
}

// Put - store a value at Commit
func (tx *Transaction) Put(key []byte, value []byte) error {
	if tx.closed {
		return fault.ErrTransactionClosed
	}
	tagged := make([]byte, 0, len(value)+1)
	tagged = append(tagged, pendingPut)
	tagged = append(tagged, value...)
	return tx.pending.Put(tx.prefixKey(key), tagged)
}

// Delete - remove a key at Commit, absent keys are not an error
func (tx *Transaction) Delete(key []byte) error {
	if tx.closed {
		return fault.ErrTransactionClosed
	}
	return tx.pending.Put(tx.prefixKey(key), []byte{pendingDelete})
}

// Iterate - all keys starting with prefix in byte order
//
// keys are returned without the namespace, the caller must Release
// the iterator
func (tx *Transaction) Iterate(prefix []byte) (Iterator, error) {
	if tx.closed {
		return nil, fault.ErrTransactionClosed
	}

	searchRange := ldb_util.BytesPrefix(tx.prefixKey(prefix))
	tx.ranges = append(tx.ranges, *searchRange)

	committed, err := tx.db.iterator(searchRange)
	if nil != err {
		return nil, err
	}
	pending := tx.pending.NewIterator(searchRange)

	return newMergedIterator(committed, pending, len(tx.prefix)), nil
}

// Commit - validate against concurrent commits and write atomically
//
// the transaction is closed whatever the result
func (tx *Transaction) Commit() error {
	if tx.closed {
		return fault.ErrTransactionClosed
	}
	defer tx.Abort()

	operations := make([]operation, 0, tx.pending.Len())
	iter := tx.pending.NewIterator(nil)
	for iter.Next() {
		value := iter.Value()
		op := operation{
			key:    copyBytes(iter.Key()),
			delete: pendingDelete == value[0],
		}
		if !op.delete {
			op.value = copyBytes(value[1:])
		}
		operations = append(operations, op)
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return err
	}

	t := tx.db.tracker
	t.Lock()
	defer t.Unlock()

	if err := t.validate(tx); nil != err {
		tx.db.log.Debugf("commit refused: %s", err)
		return err
	}

	if 0 == len(operations) {
		return nil
	}

	if err := tx.db.write(operations); nil != err {
		tx.db.log.Errorf("transaction: %s  write error: %s", tx.id, err)
		return err
	}
	t.advance(operations)

	tx.db.log.Debugf("transaction: %s  committed: %d writes", tx.id, len(operations))
	return nil
}

// Abort - discard all pending writes, safe to call more than once
func (tx *Transaction) Abort() {
	if tx.closed {
		return
	}
	tx.closed = true
	tx.pending.Reset()
	tx.reads = nil
	tx.ranges = nil
}

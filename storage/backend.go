// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// Iterator - ordered sequence of key/value pairs
//
// Key and Value are only valid until the next call to Next, Release
// must always be called
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// a single committed write
type operation struct {
	key    []byte
	value  []byte
	delete bool
}

// what each storage engine provides
type backend interface {
	// nil value, nil error for an absent key
	get(key []byte) ([]byte, error)
	iterator(searchRange *ldb_util.Range) (Iterator, error)
	// atomic and durable
	write(operations []operation) error
	close() error
}

type levelBackend struct {
	db *leveldb.DB
}

func openLevelDB(name string) (backend, error) {
	db, err := leveldb.OpenFile(name, nil)
	if nil != err {
		return nil, err
	}
	return &levelBackend{db: db}, nil
}

func openMemory() (backend, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return &levelBackend{db: db}, nil
}

func (l *levelBackend) get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	return copyBytes(value), nil
}

func (l *levelBackend) iterator(searchRange *ldb_util.Range) (Iterator, error) {
	return l.db.NewIterator(searchRange, nil), nil
}

func (l *levelBackend) write(operations []operation) error {
	batch := new(leveldb.Batch)
	for _, op := range operations {
		if op.delete {
			batch.Delete(op.key)
		} else {
			batch.Put(op.key, op.value)
		}
	}
	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

func (l *levelBackend) close() error {
	return l.db.Close()
}

// present values are never nil, even when empty
func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

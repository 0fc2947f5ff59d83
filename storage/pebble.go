// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"errors"

	"github.com/cockroachdb/pebble/v2"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

type pebbleBackend struct {
	db *pebble.DB
}

func openPebble(name string) (backend, error) {
	db, err := pebble.Open(name, &pebble.Options{})
	if nil != err {
		return nil, err
	}
	return &pebbleBackend{db: db}, nil
}

func (p *pebbleBackend) get(key []byte) ([]byte, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	defer closer.Close()
	return copyBytes(value), nil
}

func (p *pebbleBackend) iterator(searchRange *ldb_util.Range) (Iterator, error) {
	options := &pebble.IterOptions{}
	if nil != searchRange {
		options.LowerBound = searchRange.Start
		options.UpperBound = searchRange.Limit
	}
	iter, err := p.db.NewIter(options)
	if nil != err {
		return nil, err
	}
	return &pebbleIterator{iter: iter}, nil
}

func (p *pebbleBackend) write(operations []operation) error {
	batch := p.db.NewBatch()
	defer batch.Close()

	for _, op := range operations {
		var err error
		if op.delete {
			err = batch.Delete(op.key, nil)
		} else {
			err = batch.Set(op.key, op.value, nil)
		}
		if nil != err {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *pebbleBackend) close() error {
	return p.db.Close()
}

// adapt the pebble positioning calls to Next/Release
type pebbleIterator struct {
	iter    *pebble.Iterator
	started bool
	err     error
}

func (i *pebbleIterator) Next() bool {
	if !i.started {
		i.started = true
		return i.iter.First()
	}
	return i.iter.Next()
}

func (i *pebbleIterator) Key() []byte {
	return i.iter.Key()
}

func (i *pebbleIterator) Value() []byte {
	return i.iter.Value()
}

func (i *pebbleIterator) Release() {
	if nil == i.iter {
		return
	}
	if err := i.iter.Close(); nil != err && nil == i.err {
		i.err = err
	}
	i.iter = nil
}

func (i *pebbleIterator) Error() error {
	if nil != i.err {
		return i.err
	}
	if nil == i.iter {
		return nil
	}
	return i.iter.Error()
}

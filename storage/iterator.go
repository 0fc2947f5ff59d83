// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// mergedIterator - committed entries overlaid with a transaction's
// pending writes, in key order, with the namespace prefix removed
//
// a pending entry hides a committed entry with the same key and a
// pending delete hides it completely
type mergedIterator struct {
	committed Iterator
	pending   iterator.Iterator
	strip     int

	started     bool
	committedOK bool
	pendingOK   bool
	key         []byte
	value       []byte
	released    bool
}

func newMergedIterator(committed Iterator, pending iterator.Iterator, strip int) *mergedIterator {
	return &mergedIterator{
		committed: committed,
		pending:   pending,
		strip:     strip,
	}
}

func (m *mergedIterator) Next() bool {
	if m.released {
		return false
	}
	if !m.started {
		m.started = true
		m.committedOK = m.committed.Next()
		m.pendingOK = m.pending.Next()
	}

	for m.committedOK || m.pendingOK {

		usePending := false
		shadowed := false

		switch {
		case !m.committedOK:
			usePending = true
		case !m.pendingOK:
			usePending = false
		default:
			c := bytes.Compare(m.pending.Key(), m.committed.Key())
			usePending = c <= 0
			shadowed = 0 == c
		}

		if usePending {
			key := copyBytes(m.pending.Key())
			value := m.pending.Value()
			deleted := pendingDelete == value[0]
			if !deleted {
				value = copyBytes(value[1:])
			}

			m.pendingOK = m.pending.Next()
			if shadowed {
				m.committedOK = m.committed.Next()
			}
			if deleted {
				continue
			}
			m.key = key[m.strip:]
			m.value = value
			return true
		}

		m.key = copyBytes(m.committed.Key())[m.strip:]
		m.value = copyBytes(m.committed.Value())
		m.committedOK = m.committed.Next()
		return true
	}

	m.key = nil
	m.value = nil
	return false
}

func (m *mergedIterator) Key() []byte {
	return m.key
}

func (m *mergedIterator) Value() []byte {
	return m.value
}

func (m *mergedIterator) Release() {
	if m.released {
		return
	}
	m.released = true
	m.committed.Release()
	m.pending.Release()
}

func (m *mergedIterator) Error() error {
	if err := m.committed.Error(); nil != err {
		return err
	}
	return m.pending.Error()
}

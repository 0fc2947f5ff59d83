// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/storage"
)

// Stub - the store as seen by one contract invocation
type Stub interface {
	// nil for an absent key
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	// absent keys are not an error
	Delete(key string) error
	// ordered by key bytes, must be released
	Iterate(prefix string) (storage.Iterator, error)

	Identity() identity.Identity
	TxID() string

	// at most one event per invocation, a later call replaces it
	SetEvent(name string, payload []byte) error
}

// Transaction - the storage operations behind a TransactionStub
type Transaction interface {
	ID() string
	Get(key []byte) ([]byte, error)
	Put(key []byte, value []byte) error
	Delete(key []byte) error
	Iterate(prefix []byte) (storage.Iterator, error)
}

// Event - notification set by an invocation, published after commit
type Event struct {
	Name    string
	TxID    string
	Payload []byte
}

// TransactionStub - Stub over a storage transaction
type TransactionStub struct {
	tx     Transaction
	caller identity.Identity
	event  *Event
}

// NewStub - bind a transaction to the calling identity
func NewStub(tx Transaction, caller identity.Identity) *TransactionStub {
	return &TransactionStub{
		tx:     tx,
		caller: caller,
	}
}

func (s *TransactionStub) Get(key string) ([]byte, error) {
	return s.tx.Get([]byte(key))
}

func (s *TransactionStub) Put(key string, value []byte) error {
	return s.tx.Put([]byte(key), value)
}

func (s *TransactionStub) Delete(key string) error {
	return s.tx.Delete([]byte(key))
}

func (s *TransactionStub) Iterate(prefix string) (storage.Iterator, error) {
	return s.tx.Iterate([]byte(prefix))
}

func (s *TransactionStub) Identity() identity.Identity {
	return s.caller
}

func (s *TransactionStub) TxID() string {
	return s.tx.ID()
}

func (s *TransactionStub) SetEvent(name string, payload []byte) error {
	s.event = &Event{
		Name:    name,
		TxID:    s.tx.ID(),
		Payload: payload,
	}
	return nil
}

// Event - the event set during the invocation, if any
func (s *TransactionStub) Event() (Event, bool) {
	if nil == s.event {
		return Event{}, false
	}
	return *s.event, true
}

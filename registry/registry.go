// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - typed records under composite keys
//
// every record is JSON, decoded strictly and validated on the way in
// and out of the store; bytes that do not decode to a valid record are
// reported as fault.ErrCorruptRecord
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ledgerkit/ledgerd/compositekey"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
)

// payload of an index marker record
var marker = []byte{0x00}

// Record - a stored entity
type Record interface {
	Validate() error
}

// ScanFunc - called for each record found by a scan, with the key
// attributes after the object type
type ScanFunc func(attributes []string, value []byte) error

// Registry - record access for one invocation
type Registry struct {
	stub Stub
}

// New - wrap a stub
func New(stub Stub) *Registry {
	return &Registry{stub: stub}
}

// Caller - identity of the invoking client
func (r *Registry) Caller() identity.Identity {
	return r.stub.Identity()
}

// TxID - identifier of the current transaction
func (r *Registry) TxID() string {
	return r.stub.TxID()
}

// Get - read and decode a record
//
// returns false if the record does not exist
func (r *Registry) Get(objectType string, attributes []string, record Record) (bool, error) {
	key, err := compositekey.Create(objectType, attributes)
	if nil != err {
		return false, err
	}
	value, err := r.stub.Get(key)
	if nil != err {
		return false, err
	}
	if nil == value {
		return false, nil
	}
	if err := Decode(value, record); nil != err {
		return false, fmt.Errorf("%w: key: %q", err, key)
	}
	return true, nil
}

// Exists - check for a record without decoding it
func (r *Registry) Exists(objectType string, attributes []string) (bool, error) {
	key, err := compositekey.Create(objectType, attributes)
	if nil != err {
		return false, err
	}
	value, err := r.stub.Get(key)
	if nil != err {
		return false, err
	}
	return nil != value, nil
}

// Put - validate, encode and write a record
func (r *Registry) Put(objectType string, attributes []string, record Record) error {
	key, err := compositekey.Create(objectType, attributes)
	if nil != err {
		return err
	}
	if err := record.Validate(); nil != err {
		return err
	}
	value, err := json.Marshal(record)
	if nil != err {
		return err
	}
	return r.stub.Put(key, value)
}

// PutMarker - write an index entry that carries no data
func (r *Registry) PutMarker(objectType string, attributes []string) error {
	key, err := compositekey.Create(objectType, attributes)
	if nil != err {
		return err
	}
	return r.stub.Put(key, marker)
}

// Delete - remove a record, absent records are not an error
func (r *Registry) Delete(objectType string, attributes []string) error {
	key, err := compositekey.Create(objectType, attributes)
	if nil != err {
		return err
	}
	return r.stub.Delete(key)
}

// GetSimple - read a singleton record
func (r *Registry) GetSimple(key string) ([]byte, error) {
	if err := compositekey.ValidateSimpleKey(key); nil != err {
		return nil, err
	}
	return r.stub.Get(key)
}

// PutSimple - write a singleton record
func (r *Registry) PutSimple(key string, value []byte) error {
	if err := compositekey.ValidateSimpleKey(key); nil != err {
		return err
	}
	return r.stub.Put(key, value)
}

// Scan - visit every record whose key starts with the type and the
// partial attributes, in key order
//
// stops at the first error from fn; the store iterator is always released
func (r *Registry) Scan(objectType string, partial []string, fn ScanFunc) error {
	prefix, err := compositekey.Create(objectType, partial)
	if nil != err {
		return err
	}

	iter, err := r.stub.Iterate(prefix)
	if nil != err {
		return err
	}
	defer iter.Release()

	for iter.Next() {
		_, attributes, err := compositekey.Split(string(iter.Key()))
		if nil != err {
			return err
		}
		if err := fn(attributes, iter.Value()); nil != err {
			return err
		}
	}
	return iter.Error()
}

// Count - number of records under a partial key
func (r *Registry) Count(objectType string, partial []string) (int, error) {
	n := 0
	err := r.Scan(objectType, partial, func([]string, []byte) error {
		n += 1
		return nil
	})
	return n, err
}

// DeleteAll - remove every record under a partial key
func (r *Registry) DeleteAll(objectType string, partial []string) (int, error) {
	keys := [][]string{}
	err := r.Scan(objectType, partial, func(attributes []string, _ []byte) error {
		keys = append(keys, attributes)
		return nil
	})
	if nil != err {
		return 0, err
	}

	for _, attributes := range keys {
		if err := r.Delete(objectType, attributes); nil != err {
			return 0, err
		}
	}
	return len(keys), nil
}

// Emit - JSON encode and attach an event to the invocation
func (r *Registry) Emit(name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if nil != err {
		return err
	}
	return r.stub.SetEvent(name, data)
}

// Decode - strict JSON decode followed by validation
func Decode(data []byte, record Record) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(record); nil != err {
		return fmt.Errorf("%w: %s", fault.ErrCorruptRecord, err)
	}
	if decoder.More() {
		return fmt.Errorf("%w: trailing data", fault.ErrCorruptRecord)
	}
	if err := record.Validate(); nil != err {
		return fmt.Errorf("%w: %s", fault.ErrCorruptRecord, err)
	}
	return nil
}

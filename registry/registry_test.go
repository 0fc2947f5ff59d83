// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/fixtures"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/registry"
	"github.com/ledgerkit/ledgerd/registry/mocks"
	"github.com/ledgerkit/ledgerd/storage"
	storageMocks "github.com/ledgerkit/ledgerd/storage/mocks"
)

type item struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

func (i *item) Validate() error {
	if "" == i.ID {
		return fault.ErrInvalidArgument
	}
	if i.Count < 0 {
		return fault.ErrInvalidArgument
	}
	return nil
}

var caller = identity.Identity{ID: "x509::/CN=alice::/CN=ca", MSPID: "Org1MSP"}

func setup(t *testing.T) (*storage.Database, *storage.Transaction, *registry.TransactionStub) {
	fixtures.SetupTestLogger()
	db, err := storage.OpenMemory()
	require.NoError(t, err)
	tx, err := db.Begin("test")
	require.NoError(t, err)
	return db, tx, registry.NewStub(tx, caller)
}

func teardown(db *storage.Database, tx *storage.Transaction) {
	tx.Abort()
	_ = db.Close()
	fixtures.TeardownTestLogger()
}

func TestPutGet(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	r := registry.New(stub)
	assert.Equal(t, caller, r.Caller())
	assert.Equal(t, tx.ID(), r.TxID())

	found, err := r.Get("item", []string{"a"}, &item{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.Put("item", []string{"a"}, &item{ID: "a", Count: 3}))

	var got item
	found, err = r.Get("item", []string{"a"}, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: "a", Count: 3}, got)

	exists, err := r.Exists("item", []string{"a"})
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, r.Delete("item", []string{"a"}))
	require.NoError(t, r.Delete("item", []string{"never-there"}))

	exists, err = r.Exists("item", []string{"a"})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPutInvalidRecord(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	r := registry.New(stub)
	err := r.Put("item", []string{"a"}, &item{ID: "a", Count: -1})
	assert.True(t, fault.IsErrInvalid(err))

	exists, err := r.Exists("item", []string{"a"})
	require.NoError(t, err)
	assert.False(t, exists, "invalid record must not be written")
}

func TestCorruptRecord(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	r := registry.New(stub)
	corrupt := map[string]string{
		"garbage":  "not json",
		"unknown":  `{"id":"x","count":1,"extra":true}`,
		"invalid":  `{"id":"","count":1}`,
		"negative": `{"id":"x","count":-5}`,
		"trailing": `{"id":"x","count":1} {}`,
		"marker":   "\x00",
	}
	for name, value := range corrupt {
		require.NoError(t, stub.Put("\x00item\x00"+name+"\x00", []byte(value)))

		_, err := r.Get("item", []string{name}, &item{})
		assert.True(t, fault.IsErrCorruptRecord(err), "%s: %v", name, err)
	}
}

func TestKeyEncodingError(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	r := registry.New(stub)
	err := r.Put("item", []string{"bad\x00id"}, &item{ID: "x"})
	assert.True(t, fault.IsErrKeyEncoding(err))

	_, err = r.Get("item", []string{"bad\x00id"}, &item{})
	assert.True(t, fault.IsErrKeyEncoding(err))

	err = r.Scan("item", []string{"\U0010FFFF"}, func([]string, []byte) error { return nil })
	assert.True(t, fault.IsErrKeyEncoding(err))

	assert.True(t, fault.IsErrKeyEncoding(r.PutSimple("\x00name", []byte("x"))))
}

func TestScanAndCount(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	r := registry.New(stub)
	require.NoError(t, r.PutMarker("owner", []string{"bob", "2"}))
	require.NoError(t, r.PutMarker("owner", []string{"alice", "7"}))
	require.NoError(t, r.PutMarker("owner", []string{"alice", "3"}))
	require.NoError(t, r.PutMarker("owner", []string{"alicea", "1"}))
	require.NoError(t, r.Put("item", []string{"z"}, &item{ID: "z"}))
	require.NoError(t, r.PutSimple("name", []byte("collection")))

	n, err := r.Count("owner", []string{"alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.Count("owner", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	seen := [][]string{}
	err = r.Scan("owner", []string{"alice"}, func(attributes []string, value []byte) error {
		assert.Equal(t, []byte{0x00}, value)
		seen = append(seen, attributes)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"alice", "3"}, {"alice", "7"}}, seen)

	value, err := r.GetSimple("name")
	require.NoError(t, err)
	assert.Equal(t, []byte("collection"), value)
}

func TestDeleteAll(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	r := registry.New(stub)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Put("item", []string{id}, &item{ID: id}))
	}
	require.NoError(t, r.PutMarker("other", []string{"a"}))

	n, err := r.DeleteAll("item", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = r.Count("item", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = r.Count("other", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEmit(t *testing.T) {
	db, tx, stub := setup(t)
	defer teardown(db, tx)

	_, ok := stub.Event()
	assert.False(t, ok)

	r := registry.New(stub)
	require.NoError(t, r.Emit("First", map[string]int{"n": 1}))
	require.NoError(t, r.Emit("Second", map[string]int{"n": 2}))

	event, ok := stub.Event()
	require.True(t, ok)
	assert.Equal(t, "Second", event.Name, "last event wins")
	assert.Equal(t, tx.ID(), event.TxID)
	assert.JSONEq(t, `{"n":2}`, string(event.Payload))
}

func TestScanReleasesOnCallbackError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	stub := mocks.NewMockStub(ctl)
	iter := storageMocks.NewMockIterator(ctl)

	stub.EXPECT().Iterate("\x00item\x00").Return(iter, nil).Times(1)
	iter.EXPECT().Next().Return(true).Times(1)
	iter.EXPECT().Key().Return([]byte("\x00item\x00a\x00")).Times(1)
	iter.EXPECT().Value().Return([]byte(`{"id":"a","count":1}`)).Times(1)
	iter.EXPECT().Release().Times(1)

	stop := errors.New("stop")
	err := registry.New(stub).Scan("item", nil, func([]string, []byte) error {
		return stop
	})
	assert.Equal(t, stop, err)
}

func TestScanReportsIteratorError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	stub := mocks.NewMockStub(ctl)
	iter := storageMocks.NewMockIterator(ctl)

	failed := errors.New("disk error")
	stub.EXPECT().Iterate("\x00item\x00").Return(iter, nil).Times(1)
	iter.EXPECT().Next().Return(false).Times(1)
	iter.EXPECT().Error().Return(failed).Times(1)
	iter.EXPECT().Release().Times(1)

	n, err := registry.New(stub).Count("item", nil)
	assert.Equal(t, failed, err)
	assert.Equal(t, 0, n)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/ledgerd/contract"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/fixtures"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/registry"
	"github.com/ledgerkit/ledgerd/storage"
	"github.com/ledgerkit/ledgerd/token"
)

var caller = identity.Identity{ID: "x509::/O=org1/CN=user::/O=org1/CN=ca.org1", MSPID: "Org1MSP"}

var errBroken = errors.New("broken")

// a contract with one operation per dispatcher behaviour
type kv struct {
	d *contract.Dispatcher
}

type pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (k *kv) Name() string {
	return "kv"
}

func (k *kv) Operations() map[string]contract.Operation {
	return map[string]contract.Operation{
		"set": {2, func(r *registry.Registry, a []string) (interface{}, error) {
			if err := r.PutSimple(a[0], []byte(a[1])); nil != err {
				return nil, err
			}
			return nil, r.Emit("Set", pair{Key: a[0], Value: a[1]})
		}},
		"get": {1, func(r *registry.Registry, a []string) (interface{}, error) {
			value, err := r.GetSimple(a[0])
			if nil != err {
				return nil, err
			}
			if nil == value {
				return nil, fault.ErrNotFound
			}
			return string(value), nil
		}},
		"pair": {1, func(r *registry.Registry, a []string) (interface{}, error) {
			value, err := r.GetSimple(a[0])
			return pair{Key: a[0], Value: string(value)}, err
		}},
		"broken": {1, func(r *registry.Registry, a []string) (interface{}, error) {
			if err := r.PutSimple(a[0], []byte("partial")); nil != err {
				return nil, err
			}
			return nil, errBroken
		}},
		// read a key, let another invocation change it, then write
		"race": {1, func(r *registry.Registry, a []string) (interface{}, error) {
			if _, err := r.GetSimple(a[0]); nil != err {
				return nil, err
			}
			if _, err := k.d.Invoke(caller, "kv", "set", []string{a[0], "interloper"}, contract.Submit); nil != err {
				return nil, err
			}
			return nil, r.PutSimple(a[0], []byte("race"))
		}},
	}
}

type fixture struct {
	db     *storage.Database
	events *messagebus.Queue
	d      *contract.Dispatcher
}

func setup(t *testing.T) *fixture {
	fixtures.SetupTestLogger()

	db, err := storage.OpenMemory()
	require.NoError(t, err)

	tokens, err := token.New(nil)
	require.NoError(t, err)

	k := &kv{}
	events := messagebus.NewQueue(10)
	d, err := contract.NewDispatcher(db, events, k, tokens)
	require.NoError(t, err)
	k.d = d

	return &fixture{db: db, events: events, d: d}
}

func (f *fixture) teardown() {
	_ = f.db.Close()
	fixtures.TeardownTestLogger()
}

func TestSubmitCommitsAndPublishes(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	reply, err := f.d.Invoke(caller, "kv", "set", []string{"colour", "blue"}, contract.Submit)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.TxID)
	assert.Empty(t, reply.Payload)

	require.Len(t, f.events.Chan(), 1)
	message := <-f.events.Chan()
	assert.Equal(t, "Set", message.Command)
	assert.Equal(t, [][]byte{[]byte(reply.TxID), []byte(`{"key":"colour","value":"blue"}`)}, message.Parameters)

	reply, err = f.d.Invoke(caller, "kv", "get", []string{"colour"}, contract.Evaluate)
	require.NoError(t, err)
	assert.Equal(t, "blue", string(reply.Payload))
}

func TestEvaluateNeverCommits(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	_, err := f.d.Invoke(caller, "kv", "set", []string{"colour", "red"}, contract.Evaluate)
	require.NoError(t, err)
	assert.Empty(t, f.events.Chan(), "no event without commit")

	_, err = f.d.Invoke(caller, "kv", "get", []string{"colour"}, contract.Evaluate)
	assert.True(t, fault.IsErrNotFound(err))
}

func TestFailureLeavesNoTrace(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	_, err := f.d.Invoke(caller, "kv", "broken", []string{"colour"}, contract.Submit)
	assert.Equal(t, errBroken, err)

	_, err = f.d.Invoke(caller, "kv", "get", []string{"colour"}, contract.Evaluate)
	assert.True(t, fault.IsErrNotFound(err))
	assert.Empty(t, f.events.Chan())
}

func TestResultEncoding(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	_, err := f.d.Invoke(caller, "kv", "set", []string{"k", "v"}, contract.Submit)
	require.NoError(t, err)

	reply, err := f.d.Invoke(caller, "kv", "get", []string{"k"}, contract.Evaluate)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), reply.Payload)

	reply, err = f.d.Invoke(caller, "kv", "pair", []string{"k"}, contract.Evaluate)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"k","value":"v"}`, string(reply.Payload))
}

func TestInvalidInvocations(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	_, err := f.d.Invoke(caller, "nothing", "get", []string{"k"}, contract.Evaluate)
	assert.True(t, fault.IsErrInvalid(err))
	assert.True(t, errors.Is(err, fault.ErrUnknownContract))

	_, err = f.d.Invoke(caller, "kv", "nothing", []string{"k"}, contract.Evaluate)
	assert.True(t, errors.Is(err, fault.ErrUnknownOperation))

	_, err = f.d.Invoke(caller, "kv", "get", []string{"k", "extra"}, contract.Evaluate)
	assert.True(t, errors.Is(err, fault.ErrArgumentCount))
	assert.Equal(t, "InvalidArgument", fault.Kind(err))
}

func TestConflictIsReported(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	_, err := f.d.Invoke(caller, "kv", "race", []string{"k"}, contract.Submit)
	assert.True(t, fault.IsErrConflict(err), "error: %v", err)

	// the inner invocation committed, the outer did not
	reply, err := f.d.Invoke(caller, "kv", "get", []string{"k"}, contract.Evaluate)
	require.NoError(t, err)
	assert.Equal(t, "interloper", string(reply.Payload))
	assert.Len(t, f.events.Chan(), 1)
}

func TestContracts(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	names := f.d.Contracts()
	sort.Strings(names)
	assert.Equal(t, []string{"kv", token.Name}, names)

	// contracts are isolated by namespace
	_, err := f.d.Invoke(caller, token.Name, "Name", nil, contract.Evaluate)
	assert.True(t, fault.IsErrNotInitialized(err))

	reply, err := f.d.Invoke(caller, token.Name, "ping", nil, contract.Evaluate)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(reply.Payload))
}

func TestDuplicateContract(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db, err := storage.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	_, err = contract.NewDispatcher(db, nil, &kv{}, &kv{})
	assert.True(t, fault.IsErrExists(err))

	_, err = contract.NewDispatcher(nil, nil)
	assert.True(t, fault.IsErrProcess(err))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "submit", contract.Submit.String())
	assert.Equal(t, "evaluate", contract.Evaluate.String())
}

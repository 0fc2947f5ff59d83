// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/contract"
	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/fixtures"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/marketplace"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/rpc/ledger"
	"github.com/ledgerkit/ledgerd/rpc/node"
	"github.com/ledgerkit/ledgerd/rpc/server"
	"github.com/ledgerkit/ledgerd/storage"
	"github.com/ledgerkit/ledgerd/token"
)

var (
	issuer = identity.Identity{ID: "x509::/O=org1/CN=issuer::/O=org1/CN=ca.org1", MSPID: "Org1MSP"}
	user   = identity.Identity{ID: "x509::/O=org2/CN=user::/O=org2/CN=ca.org2", MSPID: "Org2MSP"}
)

type environment struct {
	db       *storage.Database
	events   *messagebus.Queue
	services *server.Services
}

func setup(t *testing.T) *environment {
	fixtures.SetupTestLogger()

	db, err := storage.OpenMemory()
	require.NoError(t, err)

	tokens, err := token.New(nil)
	require.NoError(t, err)
	market, err := marketplace.New(nil)
	require.NoError(t, err)

	events := messagebus.NewQueue(10)
	dispatcher, err := contract.NewDispatcher(db, events, tokens, market)
	require.NoError(t, err)

	count := counter.Counter(1)
	return &environment{
		db:     db,
		events: events,
		services: &server.Services{
			Log:         logger.New(fixtures.LogCategory),
			Invoker:     dispatcher,
			Limiter:     rate.NewLimiter(rate.Inf, 1),
			Retries:     2,
			Start:       time.Now(),
			Version:     "1.0",
			Contracts:   dispatcher.Contracts(),
			Fingerprint: "0123",
			Events:      events,
			Count:       &count,
		},
	}
}

func (e *environment) teardown() {
	_ = e.db.Close()
	fixtures.TeardownTestLogger()
}

// a JSON-RPC client talking to a server bound to caller
func (e *environment) connect(caller identity.Identity) *rpc.Client {
	serverConn, clientConn := net.Pipe()
	go server.Create(e.services, caller).ServeCodec(jsonrpc.NewServerCodec(serverConn))
	return jsonrpc.NewClient(clientConn)
}

func TestLedgerSubmitAndEvaluate(t *testing.T) {
	e := setup(t)
	defer e.teardown()

	client := e.connect(issuer)
	defer client.Close()

	var reply ledger.InvokeReply
	err := client.Call("Ledger.Submit", &ledger.InvokeArguments{
		Contract:  "token",
		Operation: "Initialize",
		Arguments: []string{"Collection", "COL"},
	}, &reply)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.TxID)
	assert.Equal(t, "true", reply.Payload)

	err = client.Call("Ledger.Submit", &ledger.InvokeArguments{
		Contract:  "token",
		Operation: "Mint",
		Arguments: []string{"7", "https://example.com/7", "seven", "the seventh"},
	}, &reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tokenId":7,"owner":"`+issuer.ID+`","approved":"","tokenURI":"https://example.com/7","name":"seven","description":"the seventh"}`, reply.Payload)

	message := <-e.events.Chan()
	assert.Equal(t, "Transfer", message.Command)
	assert.Equal(t, reply.TxID, string(message.Parameters[0]))

	err = client.Call("Ledger.Evaluate", &ledger.InvokeArguments{
		Contract:  "token",
		Operation: "OwnerOf",
		Arguments: []string{"7"},
	}, &reply)
	require.NoError(t, err)
	assert.Equal(t, issuer.ID, reply.Payload)
}

func TestCallerComesFromConnection(t *testing.T) {
	e := setup(t)
	defer e.teardown()

	client := e.connect(user)
	defer client.Close()

	var reply ledger.InvokeReply
	err := client.Call("Ledger.Evaluate", &ledger.InvokeArguments{
		Contract:  "marketplace",
		Operation: "getMyIdentity",
	}, &reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+user.ID+`","mspId":"Org2MSP"}`, reply.Payload)

	err = client.Call("Ledger.Submit", &ledger.InvokeArguments{
		Contract:  "token",
		Operation: "Initialize",
		Arguments: []string{"Collection", "COL"},
	}, &reply)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Unauthorized: "), "error: %s", err)
}

func TestErrorKinds(t *testing.T) {
	e := setup(t)
	defer e.teardown()

	client := e.connect(user)
	defer client.Close()

	var reply ledger.InvokeReply
	err := client.Call("Ledger.Evaluate", &ledger.InvokeArguments{
		Contract:  "token",
		Operation: "Name",
	}, &reply)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "NotInitialized: "), "error: %s", err)

	err = client.Call("Ledger.Evaluate", &ledger.InvokeArguments{
		Contract:  "nothing",
		Operation: "Name",
	}, &reply)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "InvalidArgument: "), "error: %s", err)

	err = client.Call("Ledger.Evaluate", &ledger.InvokeArguments{
		Contract:  "marketplace",
		Operation: "getProduct",
		Arguments: []string{"p1"},
	}, &reply)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "NotFound: "), "error: %s", err)
}

func TestNodeInfo(t *testing.T) {
	e := setup(t)
	defer e.teardown()

	client := e.connect(user)
	defer client.Close()

	var reply node.InfoReply
	err := client.Call("Node.Info", &node.InfoArguments{}, &reply)
	require.NoError(t, err)
	assert.Equal(t, "1.0", reply.Version)
	assert.Equal(t, []string{"marketplace", "token"}, reply.Contracts)
	assert.Equal(t, user, reply.Caller)
	assert.Equal(t, uint64(1), reply.RPCs)
	assert.Equal(t, "0123", reply.Fingerprint)
}

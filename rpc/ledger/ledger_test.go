// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/contract"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/fixtures"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/rpc/ledger"
	"github.com/ledgerkit/ledgerd/rpc/ledger/mocks"
)

var caller = identity.Identity{ID: "x509::/O=org1/CN=user::/O=org1/CN=ca.org1", MSPID: "Org1MSP"}

func setup(t *testing.T, retries uint64) (*ledger.Ledger, *mocks.MockInvoker, *gomock.Controller) {
	fixtures.SetupTestLogger()
	ctl := gomock.NewController(t)
	invoker := mocks.NewMockInvoker(ctl)
	l := ledger.New(logger.New(fixtures.LogCategory), rate.NewLimiter(rate.Inf, 1), invoker, caller, retries)
	return l, invoker, ctl
}

func teardown(ctl *gomock.Controller) {
	ctl.Finish()
	fixtures.TeardownTestLogger()
}

func TestSubmit(t *testing.T) {
	l, invoker, ctl := setup(t, 3)
	defer teardown(ctl)

	invoker.EXPECT().
		Invoke(caller, "token", "Mint", []string{"1", "uri", "name", "description"}, contract.Submit).
		Return(&contract.Reply{TxID: "tx-1", Payload: []byte(`{"tokenId":1}`)}, nil).
		Times(1)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{
		Contract:  "token",
		Operation: "Mint",
		Arguments: []string{"1", "uri", "name", "description"},
	}, &reply)
	assert.Nil(t, err)
	assert.Equal(t, ledger.InvokeReply{TxID: "tx-1", Payload: `{"tokenId":1}`}, reply)
}

func TestSubmitRetriesConflicts(t *testing.T) {
	l, invoker, ctl := setup(t, 3)
	defer teardown(ctl)

	conflict := fmt.Errorf("%w: read key modified", fault.ErrConflict)
	gomock.InOrder(
		invoker.EXPECT().Invoke(caller, "marketplace", "comprar", gomock.Any(), contract.Submit).Return(nil, conflict),
		invoker.EXPECT().Invoke(caller, "marketplace", "comprar", gomock.Any(), contract.Submit).Return(nil, conflict),
		invoker.EXPECT().Invoke(caller, "marketplace", "comprar", gomock.Any(), contract.Submit).Return(&contract.Reply{TxID: "tx-3", Payload: []byte("{}")}, nil),
	)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{Contract: "marketplace", Operation: "comprar", Arguments: []string{"p1", "1"}}, &reply)
	assert.Nil(t, err)
	assert.Equal(t, "tx-3", reply.TxID)
}

func TestSubmitGivesUpOnConflict(t *testing.T) {
	l, invoker, ctl := setup(t, 2)
	defer teardown(ctl)

	invoker.EXPECT().
		Invoke(caller, "marketplace", "comprar", gomock.Any(), contract.Submit).
		Return(nil, fault.ErrConflict).
		Times(3)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{Contract: "marketplace", Operation: "comprar", Arguments: []string{"p1", "1"}}, &reply)
	assert.True(t, fault.IsErrConflict(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Conflict: "), "error: %s", err)
}

func TestSubmitWithoutRetries(t *testing.T) {
	l, invoker, ctl := setup(t, 0)
	defer teardown(ctl)

	invoker.EXPECT().
		Invoke(caller, "marketplace", "comprar", gomock.Any(), contract.Submit).
		Return(nil, fault.ErrConflict).
		Times(1)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{Contract: "marketplace", Operation: "comprar", Arguments: []string{"p1", "1"}}, &reply)
	assert.True(t, fault.IsErrConflict(err))
}

func TestSubmitDoesNotRetryOtherErrors(t *testing.T) {
	l, invoker, ctl := setup(t, 5)
	defer teardown(ctl)

	invoker.EXPECT().
		Invoke(caller, "marketplace", "comprar", gomock.Any(), contract.Submit).
		Return(nil, fmt.Errorf("%w: balance: 5  cost: 10", fault.ErrInsufficientFunds)).
		Times(1)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{Contract: "marketplace", Operation: "comprar", Arguments: []string{"p1", "1"}}, &reply)
	assert.True(t, fault.IsErrInsufficientFunds(err))
	assert.Equal(t, "InsufficientFunds: insufficient funds: balance: 5  cost: 10", err.Error())
}

func TestEvaluate(t *testing.T) {
	l, invoker, ctl := setup(t, 3)
	defer teardown(ctl)

	invoker.EXPECT().
		Invoke(caller, "token", "OwnerOf", []string{"1"}, contract.Evaluate).
		Return(&contract.Reply{TxID: "tx-2", Payload: []byte("x509::/CN=owner")}, nil).
		Times(1)
	invoker.EXPECT().
		Invoke(caller, "token", "OwnerOf", []string{"2"}, contract.Evaluate).
		Return(nil, fault.ErrNotFound).
		Times(1)

	var reply ledger.InvokeReply
	err := l.Evaluate(&ledger.InvokeArguments{Contract: "token", Operation: "OwnerOf", Arguments: []string{"1"}}, &reply)
	assert.Nil(t, err)
	assert.Equal(t, "x509::/CN=owner", reply.Payload)

	err = l.Evaluate(&ledger.InvokeArguments{Contract: "token", Operation: "OwnerOf", Arguments: []string{"2"}}, &reply)
	assert.Equal(t, "NotFound: not found", err.Error())
}

func TestMissingParameters(t *testing.T) {
	l, _, ctl := setup(t, 3)
	defer teardown(ctl)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{Operation: "Mint"}, &reply)
	assert.Equal(t, fault.ErrMissingParameters, err)

	err = l.Evaluate(&ledger.InvokeArguments{Contract: "token"}, &reply)
	assert.Equal(t, fault.ErrMissingParameters, err)

	err = l.Evaluate(nil, &reply)
	assert.Equal(t, fault.ErrMissingParameters, err)
}

func TestRateLimited(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	l := ledger.New(logger.New(fixtures.LogCategory), rate.NewLimiter(0, 0), mocks.NewMockInvoker(ctl), caller, 0)

	var reply ledger.InvokeReply
	err := l.Submit(&ledger.InvokeArguments{Contract: "token", Operation: "ping"}, &reply)
	assert.True(t, errors.Is(err, fault.ErrRateLimiting))
}

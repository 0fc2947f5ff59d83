// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/contract"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/rpc/ratelimit"
)

const (
	conflictBackoff = 5 * time.Millisecond
)

// Invoker - runs contract operations
type Invoker interface {
	Invoke(caller identity.Identity, contractName string, operationName string, arguments []string, mode contract.Mode) (*contract.Reply, error)
}

// Ledger - type for the RPC, bound to the caller of one connection
type Ledger struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Invoker Invoker
	Caller  identity.Identity
	Retries uint64
}

// InvokeArguments - an operation and its string arguments
type InvokeArguments struct {
	Contract  string   `json:"contract"`
	Operation string   `json:"operation"`
	Arguments []string `json:"arguments"`
}

// InvokeReply - result from Submit or Evaluate
type InvokeReply struct {
	TxID    string `json:"txId"`
	Payload string `json:"payload"`
}

// New - create the RPC receiver for one connection
//
// the limiter is shared by every connection
func New(log *logger.L, limiter *rate.Limiter, invoker Invoker, caller identity.Identity, retries uint64) *Ledger {
	return &Ledger{
		Log:     log,
		Limiter: limiter,
		Invoker: invoker,
		Caller:  caller,
		Retries: retries,
	}
}

// Submit - run an operation and commit its writes
//
// a transaction that loses to a concurrent commit is run again
func (ledger *Ledger) Submit(arguments *InvokeArguments, reply *InvokeReply) error {
	if err := ratelimit.Limit(ledger.Limiter); nil != err {
		return err
	}
	if nil == arguments || "" == arguments.Contract || "" == arguments.Operation {
		return fault.ErrMissingParameters
	}

	var result *contract.Reply
	backoff := retry.WithMaxRetries(ledger.Retries, retry.NewExponential(conflictBackoff))
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		r, err := ledger.Invoker.Invoke(ledger.Caller, arguments.Contract, arguments.Operation, arguments.Arguments, contract.Submit)
		if fault.IsErrConflict(err) {
			ledger.Log.Debugf("submit: %s.%s  retry after: %s", arguments.Contract, arguments.Operation, err)
			return retry.RetryableError(err)
		}
		if nil != err {
			return err
		}
		result = r
		return nil
	})
	if nil != err {
		ledger.Log.Infof("submit: %s.%s  caller: %q  error: %s", arguments.Contract, arguments.Operation, ledger.Caller.ID, err)
		return describe(err)
	}

	reply.TxID = result.TxID
	reply.Payload = string(result.Payload)
	return nil
}

// Evaluate - run an operation and discard its writes
func (ledger *Ledger) Evaluate(arguments *InvokeArguments, reply *InvokeReply) error {
	if err := ratelimit.Limit(ledger.Limiter); nil != err {
		return err
	}
	if nil == arguments || "" == arguments.Contract || "" == arguments.Operation {
		return fault.ErrMissingParameters
	}

	result, err := ledger.Invoker.Invoke(ledger.Caller, arguments.Contract, arguments.Operation, arguments.Arguments, contract.Evaluate)
	if nil != err {
		ledger.Log.Debugf("evaluate: %s.%s  caller: %q  error: %s", arguments.Contract, arguments.Operation, ledger.Caller.ID, err)
		return describe(err)
	}

	reply.TxID = result.TxID
	reply.Payload = string(result.Payload)
	return nil
}

// kind first so that a client can tell failures apart by prefix
func describe(err error) error {
	return fmt.Errorf("%s: %w", fault.Kind(err), err)
}

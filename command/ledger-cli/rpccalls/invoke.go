// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/ledgerkit/ledgerd/rpc/ledger"
)

// Submit - run an operation and commit it
func (client *Client) Submit(contractName string, operation string, arguments []string) (*ledger.InvokeReply, error) {
	return client.invoke("Ledger.Submit", contractName, operation, arguments)
}

// Evaluate - run an operation without committing
func (client *Client) Evaluate(contractName string, operation string, arguments []string) (*ledger.InvokeReply, error) {
	return client.invoke("Ledger.Evaluate", contractName, operation, arguments)
}

func (client *Client) invoke(method string, contractName string, operation string, arguments []string) (*ledger.InvokeReply, error) {
	if nil == arguments {
		arguments = []string{}
	}
	args := ledger.InvokeArguments{
		Contract:  contractName,
		Operation: operation,
		Arguments: arguments,
	}

	_ = client.printJson(method+" Request", args)

	var reply ledger.InvokeReply
	if err := client.client.Call(method, &args, &reply); nil != err {
		return nil, err
	}

	_ = client.printJson(method+" Reply", reply)

	return &reply, nil
}

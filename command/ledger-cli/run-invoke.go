// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"

	"github.com/ledgerkit/ledgerd/command/ledger-cli/rpccalls"
	"github.com/ledgerkit/ledgerd/rpc/ledger"
)

type invokeResult struct {
	TxID    string      `json:"txId"`
	Payload interface{} `json:"payload"`
}

func runSubmit(c *cli.Context) error {
	return invoke(c, (*rpccalls.Client).Submit)
}

func runEvaluate(c *cli.Context) error {
	return invoke(c, (*rpccalls.Client).Evaluate)
}

type invokeFunc func(*rpccalls.Client, string, string, []string) (*ledger.InvokeReply, error)

func invoke(c *cli.Context, call invokeFunc) error {

	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() < 2 {
		return fmt.Errorf("contract and operation are required")
	}
	args := c.Args()
	contractName := args.Get(0)
	operation := args.Get(1)
	arguments := []string(args.Tail()[1:])

	client, err := rpccalls.NewClient(m.connect, m.tlsConfig, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := call(client, contractName, operation, arguments)
	if nil != err {
		return err
	}

	return printJson(m.w, decodeReply(reply))
}

// JSON payloads are shown as values, anything else as a string
func decodeReply(reply *ledger.InvokeReply) invokeResult {
	result := invokeResult{
		TxID: reply.TxID,
	}

	if "" == reply.Payload {
		return result
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(reply.Payload), &payload); nil == err {
		result.Payload = payload
	} else {
		result.Payload = reply.Payload
	}
	return result
}

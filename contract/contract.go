// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contract - named operations and their invocation
//
// each invocation runs in its own storage transaction on the
// contract's namespace; a submitted invocation commits and publishes
// its event, an evaluated one is always rolled back
package contract

import (
	"github.com/ledgerkit/ledgerd/registry"
)

// Function - implementation of an operation
//
// a string result is returned to the caller as is, anything else is
// JSON encoded
type Function func(r *registry.Registry, arguments []string) (interface{}, error)

// Operation - an entry point with a fixed number of string arguments
type Operation struct {
	Arguments int
	Function  Function
}

// Contract - a set of operations sharing one namespace
type Contract interface {
	Name() string
	Operations() map[string]Operation
}

// Mode - how the result of an invocation is treated
type Mode int

// invocation modes
const (
	Submit   Mode = iota // commit and publish the event
	Evaluate             // query only, never commit
)

func (m Mode) String() string {
	switch m {
	case Submit:
		return "submit"
	case Evaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// Reply - result of an invocation
type Reply struct {
	TxID    string
	Payload []byte
}

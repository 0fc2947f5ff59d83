// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/registry"
	"github.com/ledgerkit/ledgerd/storage"
)

// EventQueue - where committed events go
type EventQueue interface {
	Send(command string, parameters ...[]byte)
}

// Dispatcher - routes invocations to contracts
type Dispatcher struct {
	log       *logger.L
	db        *storage.Database
	events    EventQueue
	contracts map[string]Contract
}

// NewDispatcher - register a set of contracts
func NewDispatcher(db *storage.Database, events EventQueue, contracts ...Contract) (*Dispatcher, error) {
	log := logger.New("dispatcher")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == db {
		return nil, fault.ErrDatabaseIsNotSet
	}

	d := &Dispatcher{
		log:       log,
		db:        db,
		events:    events,
		contracts: make(map[string]Contract, len(contracts)),
	}
	for _, c := range contracts {
		name := c.Name()
		if _, ok := d.contracts[name]; ok {
			return nil, fmt.Errorf("%w: duplicate contract: %q", fault.ErrAlreadyExists, name)
		}
		d.contracts[name] = c
		log.Infof("contract: %q  operations: %d", name, len(c.Operations()))
	}
	return d, nil
}

// Invoke - run one operation to completion
//
// all validation happens before any write so a failed invocation
// leaves no trace; in Submit mode a store conflict is returned as
// fault.ErrConflict and the whole invocation may be retried
func (d *Dispatcher) Invoke(caller identity.Identity, contractName string, operationName string, arguments []string, mode Mode) (*Reply, error) {
	c, ok := d.contracts[contractName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fault.ErrUnknownContract, contractName)
	}
	operation, ok := c.Operations()[operationName]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", fault.ErrUnknownOperation, contractName, operationName)
	}
	if operation.Arguments != len(arguments) {
		return nil, fmt.Errorf("%w: %s.%s expects: %d  received: %d", fault.ErrArgumentCount, contractName, operationName, operation.Arguments, len(arguments))
	}

	tx, err := d.db.Begin(contractName)
	if nil != err {
		return nil, err
	}
	defer tx.Abort()

	stub := registry.NewStub(tx, caller)
	d.log.Debugf("%s: %s.%s  tx: %s  caller: %q", mode, contractName, operationName, tx.ID(), caller.ID)

	result, err := operation.Function(registry.New(stub), arguments)
	if nil != err {
		d.log.Debugf("tx: %s  failed: %s", tx.ID(), err)
		return nil, err
	}

	payload, err := encodeResult(result)
	if nil != err {
		return nil, err
	}

	if Submit == mode {
		if err := tx.Commit(); nil != err {
			return nil, err
		}
		if event, ok := stub.Event(); ok && nil != d.events {
			d.events.Send(event.Name, []byte(event.TxID), event.Payload)
		}
	}

	return &Reply{
		TxID:    tx.ID(),
		Payload: payload,
	}, nil
}

// Contracts - names of registered contracts
func (d *Dispatcher) Contracts() []string {
	names := make([]string, 0, len(d.contracts))
	for name := range d.contracts {
		names = append(names, name)
	}
	return names
}

func encodeResult(result interface{}) ([]byte, error) {
	switch r := result.(type) {
	case nil:
		return []byte{}, nil
	case string:
		return []byte(r), nil
	case []byte:
		return r, nil
	default:
		return json.Marshal(r)
	}
}

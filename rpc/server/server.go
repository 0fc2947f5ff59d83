// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/rpc/ledger"
	"github.com/ledgerkit/ledgerd/rpc/node"
)

// Services - state shared by the servers of every connection
type Services struct {
	Log         *logger.L
	Invoker     ledger.Invoker
	Limiter     *rate.Limiter
	Retries     uint64
	Start       time.Time
	Version     string
	Contracts   []string
	Fingerprint string
	Events      *messagebus.Queue
	Count       *counter.Counter
}

// Create - an RPC server for one connection with the services bound
// to its caller
func Create(services *Services, caller identity.Identity) *rpc.Server {
	server := rpc.NewServer()

	_ = server.Register(ledger.New(services.Log, services.Limiter, services.Invoker, caller, services.Retries))
	_ = server.Register(node.New(services.Log, services.Start, services.Version, services.Contracts, caller, services.Fingerprint, services.Events, services.Count))

	return server
}

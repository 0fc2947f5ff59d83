// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log         *logger.L
	Limiter     *rate.Limiter
	Start       time.Time
	Version     string
	Contracts   []string
	Caller      identity.Identity
	Fingerprint string
	Events      *messagebus.Queue
	counter     *counter.Counter
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version     string            `json:"version"`
	Uptime      string            `json:"uptime"`
	RPCs        uint64            `json:"rpcs"`
	Contracts   []string          `json:"contracts"`
	Caller      identity.Identity `json:"caller"`
	Fingerprint string            `json:"fingerprint"`
	Events      EventCounters     `json:"events"`
}

// EventCounters - state of the outgoing event queue
type EventCounters struct {
	Queued  int    `json:"queued"`
	Dropped uint64 `json:"dropped"`
}

// New - create the node RPC for one connection
func New(log *logger.L, start time.Time, version string, contracts []string, caller identity.Identity, fingerprint string, events *messagebus.Queue, counter *counter.Counter) *Node {
	names := append([]string{}, contracts...)
	sort.Strings(names)

	return &Node{
		Log:         log,
		Limiter:     rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:       start,
		Version:     version,
		Contracts:   names,
		Caller:      caller,
		Fingerprint: fingerprint,
		Events:      events,
		counter:     counter,
	}
}

// Info - return some information about this node
// and how it sees the caller
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.RPCs = node.counter.Uint64()
	reply.Contracts = node.Contracts
	reply.Caller = node.Caller
	reply.Fingerprint = node.Fingerprint
	if nil != node.Events {
		reply.Events.Queued = len(node.Events.Chan())
		reply.Events.Dropped = node.Events.Dropped()
	}
	return nil
}

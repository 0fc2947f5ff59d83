// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"fmt"
	netrpc "net/rpc"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/rpc/certificate"
	"github.com/ledgerkit/ledgerd/rpc/ledger"
	"github.com/ledgerkit/ledgerd/rpc/listeners"
	"github.com/ledgerkit/ledgerd/rpc/server"
)

const (
	tlsName = "client_rpc"

	defaultRate  = 200
	defaultBurst = 100
)

// Configuration - client_rpc section of the configuration file
//
// Retries is the number of extra attempts after a transaction
// conflict, zero turns conflict retry off
type Configuration struct {
	MaximumConnections uint64                  `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string                `gluamapper:"listen" json:"listen"`
	Certificate        string                  `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string                  `gluamapper:"private_key" json:"private_key"`
	Organisations      []identity.Organisation `gluamapper:"organisations" json:"organisations"`
	Rate               float64                 `gluamapper:"rate" json:"rate"`
	Burst              int                     `gluamapper:"burst" json:"burst"`
	Retries            uint64                  `gluamapper:"retries" json:"retries"`
}

// Invoker - the contract runtime seen by the RPC layer
type Invoker interface {
	ledger.Invoker
	Contracts() []string
}

// globals
type rpcData struct {
	sync.RWMutex

	log *logger.L

	listener listeners.Listener
	count    counter.Counter

	// set once during initialise
	initialised bool
}

var globalData rpcData

// Initialise - start the client RPC listeners
func Initialise(configuration *Configuration, invoker Invoker, version string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("rpc")
	if nil == log {
		return fault.ErrInvalidLoggerChannel
	}
	globalData.log = log
	log.Info("starting…")

	resolver, err := identity.LoadResolver(configuration.Organisations)
	if nil != err {
		log.Errorf("organisations error: %s", err)
		return err
	}

	certificatePEM, keyPEM, err := certificate.ReadFiles(configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		log.Errorf("%s certificate error: %s", tlsName, err)
		return err
	}
	tlsConfig, fingerprint, err := certificate.Get(log, tlsName, certificatePEM, keyPEM, resolver.Pool())
	if nil != err {
		return err
	}
	log.Infof("%s: SHA3-256 fingerprint: %x", tlsName, fingerprint)

	rateLimit := configuration.Rate
	if rateLimit <= 0 {
		rateLimit = defaultRate
	}
	burst := configuration.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	services := &server.Services{
		Log:         log,
		Invoker:     invoker,
		Limiter:     rate.NewLimiter(rate.Limit(rateLimit), burst),
		Retries:     configuration.Retries,
		Start:       time.Now(),
		Version:     version,
		Contracts:   invoker.Contracts(),
		Fingerprint: fmt.Sprintf("%x", fingerprint),
		Events:      messagebus.Bus.Events,
		Count:       &globalData.count,
	}

	listener, err := listeners.NewRPC(
		log,
		configuration.Listen,
		configuration.MaximumConnections,
		&globalData.count,
		tlsConfig,
		resolver,
		func(caller identity.Identity) *netrpc.Server {
			return server.Create(services, caller)
		},
	)
	if nil != err {
		return err
	}
	if err := listener.Serve(); nil != err {
		return err
	}
	globalData.listener = listener

	globalData.initialised = true

	return nil
}

// Finalise - stop accepting clients
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	_ = globalData.listener.Close()
	globalData.listener = nil

	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

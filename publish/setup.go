// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - committed contract events on a ZeroMQ PUB socket
//
// each event is a three part message: event name, transaction id and
// the JSON payload
package publish

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/background"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/zmqutil"
)

// Configuration - publishing section of the configuration file
//
// keys are optional; with both set the socket is a CURVE server
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// globals for background proccess
type publishData struct {
	sync.RWMutex

	log *logger.L

	brdc broadcaster

	background *background.T

	// set once during initialise
	initialised bool
}

var globalData publishData

// Initialise - bind the broadcast addresses and start draining the
// event queue
func Initialise(configuration *Configuration) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("publish")
	if nil == globalData.log {
		return fault.ErrInvalidLoggerChannel
	}
	globalData.log.Info("starting…")

	var privateKey, publicKey []byte
	if "" != configuration.PrivateKey || "" != configuration.PublicKey {
		var err error
		privateKey, err = zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
		if nil != err {
			globalData.log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
			return err
		}
		publicKey, err = zmqutil.ReadPublicKeyFile(configuration.PublicKey)
		if nil != err {
			globalData.log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
			return err
		}
	}

	if err := globalData.brdc.initialise(globalData.log, messagebus.Bus.Events, privateKey, publicKey, configuration.Broadcast); nil != err {
		return err
	}

	globalData.initialised = true

	globalData.log.Info("start background…")
	processes := background.Processes{
		&globalData.brdc,
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.background.Stop()

	globalData.initialised = false

	globalData.log.Infof("finished  published: %d", globalData.brdc.Published())
	globalData.log.Flush()

	return nil
}

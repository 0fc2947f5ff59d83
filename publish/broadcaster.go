// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/messagebus"
	"github.com/ledgerkit/ledgerd/zmqutil"
)

const zapDomain = "publish"

type sender interface {
	SendMessage(parts ...interface{}) (int, error)
	Close() error
}

type broadcaster struct {
	log       *logger.L
	queue     *messagebus.Queue
	sockets   []sender
	published counter.Counter
}

func (brdc *broadcaster) initialise(log *logger.L, queue *messagebus.Queue, privateKey []byte, publicKey []byte, broadcast []string) error {
	brdc.log = log
	brdc.queue = queue
	brdc.sockets = nil

	if 0 == len(broadcast) {
		log.Warn("no broadcast addresses, events are only logged")
		return nil
	}

	socket4, socket6, err := zmqutil.NewBind(log, zmq.PUB, zapDomain, privateKey, publicKey, broadcast)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}
	if nil != socket4 {
		brdc.sockets = append(brdc.sockets, socket4)
	}
	if nil != socket6 {
		brdc.sockets = append(brdc.sockets, socket6)
	}
	return nil
}

// Published - number of events taken from the queue
func (brdc *broadcaster) Published() uint64 {
	return brdc.published.Uint64()
}

// Run - wait for events until shutdown
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := brdc.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-brdc.queue.Chan():
			brdc.process(item)
		}
	}

	for _, socket := range brdc.sockets {
		_ = socket.Close()
	}
	log.Info("stopped")
}

func (brdc *broadcaster) process(item messagebus.Message) {
	brdc.published.Increment()

	parts := make([]interface{}, 0, 1+len(item.Parameters))
	parts = append(parts, item.Command)
	for _, p := range item.Parameters {
		parts = append(parts, p)
	}

	if 2 == len(item.Parameters) {
		brdc.log.Infof("event: %s  tx: %s  payload: %s", item.Command, item.Parameters[0], item.Parameters[1])
	} else {
		brdc.log.Infof("event: %s  parameters: %d", item.Command, len(item.Parameters))
	}

	for i, socket := range brdc.sockets {
		if _, err := socket.SendMessage(parts...); nil != err {
			brdc.log.Errorf("socket[%d]: send error: %s", i, err)
		}
	}
}

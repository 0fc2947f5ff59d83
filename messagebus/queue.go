// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"github.com/ledgerkit/ledgerd/counter"
)

// internal constants
const (
	queueSize = 1000
)

// Message - a single queued item
type Message struct {
	Command    string   // event name
	Parameters [][]byte // transaction id, payload
}

// Queue - buffered, non-blocking
type Queue struct {
	c       chan Message
	dropped counter.Counter
}

// BusType - the set of queues
type BusType struct {
	Events *Queue // committed contract events
}

// Bus - the process wide queues
var Bus = BusType{
	Events: NewQueue(queueSize),
}

// NewQueue - a queue holding up to size messages
func NewQueue(size int) *Queue {
	return &Queue{
		c: make(chan Message, size),
	}
}

// Send - queue a message; a full queue drops it rather than stall
// the sender
func (queue *Queue) Send(command string, parameters ...[]byte) {
	select {
	case queue.c <- Message{Command: command, Parameters: parameters}:
	default:
		queue.dropped.Increment()
	}
}

// Chan - channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Dropped - number of messages discarded because the queue was full
func (queue *Queue) Dropped() uint64 {
	return queue.dropped.Uint64()
}

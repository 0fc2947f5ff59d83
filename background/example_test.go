// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"

	"github.com/ledgerkit/ledgerd/background"
	"github.com/ledgerkit/ledgerd/messagebus"
)

type drain struct {
	received int
}

func Example() {
	queue := messagebus.NewQueue(10)
	queue.Send("Transfer", []byte("tx-1"), []byte("{}"))
	queue.Send("Approval", []byte("tx-2"), []byte("{}"))

	proc := &drain{}
	p := background.Start(background.Processes{proc}, queue)
	p.Stop()
	fmt.Printf("drained: %d\n", proc.received)
}

func (state *drain) Run(args interface{}, shutdown <-chan struct{}) {
	queue := args.(*messagebus.Queue)
	for {
		select {
		case <-shutdown:
			// take whatever is left before returning
			for {
				select {
				case <-queue.Chan():
					state.received += 1
				default:
					return
				}
			}
		case <-queue.Chan():
			state.received += 1
		}
	}
}

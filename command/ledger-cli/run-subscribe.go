// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"

	"github.com/ledgerkit/ledgerd/zmqutil"
)

type event struct {
	Event   string          `json:"event"`
	TxID    string          `json:"txId"`
	Payload json.RawMessage `json:"payload"`
}

func runSubscribe(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	publisher := c.String("publisher")
	if "" == publisher {
		return fmt.Errorf("publisher is required")
	}

	var serverKey []byte
	if keyFile := c.String("server-key"); "" != keyFile {
		var err error
		serverKey, err = zmqutil.ReadPublicKeyFile(keyFile)
		if nil != err {
			return err
		}
	}

	socket, err := zmqutil.NewSubscriber(publisher, serverKey)
	if nil != err {
		return err
	}
	defer socket.Close()

	if m.verbose {
		fmt.Fprintf(m.e, "subscribed to: %s\n", publisher)
	}

	count := c.Int("count")
	for n := 0; 0 == count || n < count; n += 1 {
		parts, err := socket.RecvMessageBytes(0)
		if nil != err {
			return err
		}
		e, err := decodeEvent(parts)
		if nil != err {
			fmt.Fprintf(m.e, "ignored: %s\n", err)
			continue
		}
		if err := printJson(m.w, e); nil != err {
			return err
		}
	}
	return nil
}

func decodeEvent(parts [][]byte) (*event, error) {
	if 3 != len(parts) {
		return nil, fmt.Errorf("event has %d parts, expected 3", len(parts))
	}
	e := &event{
		Event: string(parts[0]),
		TxID:  string(parts[1]),
	}
	if json.Valid(parts[2]) {
		e.Payload = parts[2]
	} else {
		quoted, _ := json.Marshal(string(parts[2]))
		e.Payload = quoted
	}
	return e, nil
}

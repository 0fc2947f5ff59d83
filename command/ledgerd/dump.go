// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ledgerkit/ledgerd/compositekey"
	"github.com/ledgerkit/ledgerd/storage"
)

type dumpedRecord struct {
	Key        string          `json:"key,omitempty"`
	ObjectType string          `json:"objectType,omitempty"`
	Attributes []string        `json:"attributes,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
	Text       string          `json:"text,omitempty"`
}

// write every record of one contract namespace as a JSON array
//
// the transaction is only read, never committed
func dumpContract(db *storage.Database, contractName string, w io.Writer) (int, error) {
	tx, err := db.Begin(contractName)
	if nil != err {
		return 0, err
	}
	defer tx.Abort()

	iter, err := tx.Iterate(nil)
	if nil != err {
		return 0, err
	}
	defer iter.Release()

	n := 0
	fmt.Fprintf(w, "[\n")
	for iter.Next() {
		record := dumpedRecord{}

		key := string(iter.Key())
		if compositekey.IsComposite(key) {
			objectType, attributes, err := compositekey.Split(key)
			if nil != err {
				return n, err
			}
			record.ObjectType = objectType
			record.Attributes = attributes
		} else {
			record.Key = key
		}

		// index markers have no value
		switch value := iter.Value(); {
		case 0 == len(value):
		case json.Valid(value):
			record.Value = append(json.RawMessage(nil), value...)
		default:
			record.Text = string(value)
		}

		s, err := json.MarshalIndent(record, "  ", "  ")
		if nil != err {
			return n, err
		}
		if n > 0 {
			fmt.Fprintf(w, ",\n")
		}
		fmt.Fprintf(w, "  %s", s)
		n += 1
	}
	fmt.Fprintf(w, "\n]\n")

	return n, iter.Error()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - transactional key/value store for contract state
//
// A database holds one key space per contract namespace:
//
//   namespace 0x00 key  →  value
//
// all reads and writes go through a Transaction.  Writes are held in
// a private write set until Commit, reads see the write set first
// (including range scans, which merge committed and pending entries)
// and Commit is all or nothing.
//
// Concurrency is optimistic: a transaction whose read keys or scanned
// ranges were changed by another transaction that committed after it
// began is refused at Commit with fault.ErrConflict.  The caller may
// simply run the whole invocation again.
//
// Backends:
//   leveldb - goleveldb files in a directory (default)
//   memory  - goleveldb on memory storage, for tests and sandboxes
//   pebble  - cockroachdb pebble files in a directory
package storage

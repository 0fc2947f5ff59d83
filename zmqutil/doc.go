// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - ZeroMQ sockets for the event stream
//
// sockets are plain unless a CURVE keypair is configured, in which
// case the publisher is a CURVE server accepting any client key
package zmqutil

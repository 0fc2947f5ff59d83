// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/ledgerkit/ledgerd/util"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
	lingerTime        = 100 * time.Millisecond
)

var oneTimeAuthStart sync.Once
var authError error

// StartAuthentication - ZAP handler for CURVE servers, started once
func StartAuthentication() error {
	oneTimeAuthStart.Do(func() {
		zmq.AuthSetVerbose(false)
		authError = zmq.AuthStart()
	})
	return authError
}

// NewBind - bind a list of addresses
//
// creates up to 2 sockets for separate IPv4 and IPv6 traffic; an
// empty private key gives plain sockets
func NewBind(log *logger.L, socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, listen []string) (*zmq.Socket, *zmq.Socket, error) {
	socket4 := (*zmq.Socket)(nil) // IPv4 traffic
	socket6 := (*zmq.Socket)(nil) // IPv6 traffic

	fail := func(err error) (*zmq.Socket, *zmq.Socket, error) {
		if nil != socket4 {
			_ = socket4.Close()
		}
		if nil != socket6 {
			_ = socket6.Close()
		}
		return nil, nil, err
	}

	for i, address := range listen {
		bindTo, v6, err := util.CanonicalIPandPort("tcp://", address)
		if nil != err {
			log.Errorf("invalid bind[%d]: %q  error: %s", i, address, err)
			return fail(err)
		}

		socket := &socket4
		if v6 {
			socket = &socket6
		}
		if nil == *socket {
			*socket, err = NewServerSocket(socketType, zapDomain, privateKey, publicKey, v6)
			if nil != err {
				return fail(err)
			}
		}

		if err := (*socket).Bind(bindTo); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			return fail(err)
		}
		log.Infof("bind[%d]: %q  IPv6: %v", i, bindTo, v6)
	}
	return socket4, socket6, nil
}

// NewServerSocket - a socket suitable for the server side of a connection
func NewServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, v6 bool) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if len(privateKey) > 0 {
		if err := StartAuthentication(); nil != err {
			_ = socket.Close()
			return nil, err
		}

		// allow any client to connect
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)

		if err := socket.SetCurveServer(1); nil != err {
			_ = socket.Close()
			return nil, err
		}
		if err := socket.SetCurveSecretkey(string(privateKey)); nil != err {
			_ = socket.Close()
			return nil, err
		}
		if err := socket.SetZapDomain(zapDomain); nil != err {
			_ = socket.Close()
			return nil, err
		}
		_ = socket.SetIdentity(string(publicKey))
	}

	_ = socket.SetIpv6(v6)
	_ = socket.SetLinger(lingerTime)

	_ = socket.SetHeartbeatIvl(heartbeatInterval)
	_ = socket.SetHeartbeatTimeout(heartbeatTimeout)
	_ = socket.SetHeartbeatTtl(heartbeatTTL)

	return socket, nil
}

// NewSubscriber - SUB socket connected to a publisher, receiving
// every event
//
// a non-empty server key makes this a CURVE client with a fresh
// keypair
func NewSubscriber(address string, serverKey []byte) (*zmq.Socket, error) {
	connectTo, v6, err := util.CanonicalIPandPort("tcp://", address)
	if nil != err {
		return nil, err
	}

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}

	if len(serverKey) > 0 {
		publicKey, privateKey, err := zmq.NewCurveKeypair()
		if nil != err {
			_ = socket.Close()
			return nil, err
		}
		_ = socket.SetCurveServerkey(string(serverKey))
		_ = socket.SetCurvePublickey(publicKey)
		_ = socket.SetCurveSecretkey(privateKey)
	}

	_ = socket.SetIpv6(v6)
	_ = socket.SetLinger(0)

	if err := socket.SetSubscribe(""); nil != err {
		_ = socket.Close()
		return nil, err
	}
	if err := socket.Connect(connectTo); nil != err {
		_ = socket.Close()
		return nil, err
	}
	return socket, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/util"
)

const (
	logName            = "client_rpc"
	minConnectionCount = 1
	handshakeTimeout   = 10 * time.Second
)

// Listener - accepts connections until closed
type Listener interface {
	Serve() error
	Addresses() []net.Addr
	Close() error
}

// Resolver - decides the caller from a verified certificate chain
type Resolver interface {
	Resolve(chain []*x509.Certificate) (identity.Identity, error)
}

// ServerFactory - an RPC server bound to one caller
type ServerFactory func(caller identity.Identity) *rpc.Server

type rpcListener struct {
	sync.Mutex
	log            *logger.L
	listeners      []net.Listener
	count          *counter.Counter
	factory        ServerFactory
	resolver       Resolver
	maxConnections uint64
	tlsConfig      *tls.Config
	listen         []string
}

// NewRPC - validate the listen addresses; nothing is bound until Serve
func NewRPC(
	log *logger.L,
	listen []string,
	maximumConnections uint64,
	count *counter.Counter,
	tlsConfig *tls.Config,
	resolver Resolver,
	factory ServerFactory,
) (Listener, error) {
	if maximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, maximumConnections)
		return nil, fault.ErrMissingParameters
	}
	if 0 == len(listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.ErrMissingParameters
	}

	addresses := make([]string, len(listen))
	for i, l := range listen {
		address, err := util.ListenAddress(l)
		if nil != err {
			log.Errorf("%s listen[%d]: %q  error: %s", logName, i, l, err)
			return nil, err
		}
		addresses[i] = address
	}

	return &rpcListener{
		log:            log,
		count:          count,
		factory:        factory,
		resolver:       resolver,
		maxConnections: maximumConnections,
		tlsConfig:      tlsConfig,
		listen:         addresses,
	}, nil
}

// Serve - bind every address and accept in the background
func (r *rpcListener) Serve() error {
	r.Lock()
	defer r.Unlock()

	for _, listen := range r.listen {
		r.log.Infof("starting RPC server: %s", listen)
		l, err := tls.Listen("tcp", listen, r.tlsConfig)
		if nil != err {
			r.log.Errorf("rpc server listen error: %s", err)
			for _, opened := range r.listeners {
				_ = opened.Close()
			}
			r.listeners = nil
			return err
		}
		r.listeners = append(r.listeners, l)
		go r.accept(l)
	}
	return nil
}

// Addresses - where the listener is bound
func (r *rpcListener) Addresses() []net.Addr {
	r.Lock()
	defer r.Unlock()

	addresses := make([]net.Addr, len(r.listeners))
	for i, l := range r.listeners {
		addresses[i] = l.Addr()
	}
	return addresses
}

// Close - stop accepting; open connections finish on their own
func (r *rpcListener) Close() error {
	r.Lock()
	defer r.Unlock()

	for _, l := range r.listeners {
		_ = l.Close()
	}
	r.listeners = nil
	return nil
}

func (r *rpcListener) accept(listen net.Listener) {
	for {
		conn, err := listen.Accept()
		if nil != err {
			r.log.Infof("rpc accept terminated: %s", err)
			break
		}
		if !r.count.Acquire(r.maxConnections) {
			r.log.Warnf("connection limit: %d reached, rejecting: %s", r.maxConnections, conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		go func() {
			defer r.count.Release()
			r.serve(conn)
		}()
	}
	_ = listen.Close()
}

func (r *rpcListener) serve(conn net.Conn) {
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		r.log.Errorf("not a TLS connection from: %s", conn.RemoteAddr())
		return
	}

	_ = tlsConn.SetDeadline(time.Now().Add(handshakeTimeout))
	if err := tlsConn.Handshake(); nil != err {
		r.log.Warnf("handshake from: %s  error: %s", conn.RemoteAddr(), err)
		return
	}
	_ = tlsConn.SetDeadline(time.Time{})

	caller, err := r.resolver.Resolve(tlsConn.ConnectionState().PeerCertificates)
	if nil != err {
		r.log.Warnf("client: %s  rejected: %s", conn.RemoteAddr(), err)
		return
	}
	r.log.Debugf("client: %s  caller: %q  MSP: %q", conn.RemoteAddr(), caller.ID, caller.MSPID)

	r.factory(caller).ServeCodec(jsonrpc.NewServerCodec(conn))
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math/rand"
	"net/rpc"
	"net/rpc/jsonrpc"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/ledgerd/counter"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/fixtures"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/rpc/certificate"
	"github.com/ledgerkit/ledgerd/rpc/listeners"
)

type Whoami struct {
	caller identity.Identity
}

type WhoamiArguments struct{}

func (w *Whoami) Get(_ *WhoamiArguments, reply *identity.Identity) error {
	*reply = w.caller
	return nil
}

func factory(caller identity.Identity) *rpc.Server {
	server := rpc.NewServer()
	_ = server.Register(&Whoami{caller: caller})
	return server
}

type setup struct {
	org1     *fixtures.Authority
	org2     *fixtures.Authority
	resolver *identity.Resolver
	config   *tls.Config
	roots    *x509.CertPool
}

func newSetup(t *testing.T) *setup {
	org1, err := fixtures.NewAuthority("org1")
	require.NoError(t, err)
	org2, err := fixtures.NewAuthority("org2")
	require.NoError(t, err)

	resolver, err := identity.NewResolver(map[string][]byte{
		"Org1MSP": org1.PEM,
		"Org2MSP": org2.PEM,
	})
	require.NoError(t, err)

	serverCertificate, serverKey, err := org1.IssuePEM("peer0.org1")
	require.NoError(t, err)
	config, _, err := certificate.Get(logger.New(fixtures.LogCategory), "test", string(serverCertificate), string(serverKey), resolver.Pool())
	require.NoError(t, err)

	return &setup{
		org1:     org1,
		org2:     org2,
		resolver: resolver,
		config:   config,
		roots:    org1.Pool(),
	}
}

func (s *setup) dial(t *testing.T, address string, client *fixtures.Authority, name string) (*rpc.Client, error) {
	pair, _, err := client.Issue(name)
	require.NoError(t, err)

	conn, err := tls.Dial("tcp", address, &tls.Config{
		Certificates: []tls.Certificate{pair},
		RootCAs:      s.roots,
		ServerName:   "localhost",
	})
	if nil != err {
		return nil, err
	}
	return jsonrpc.NewClient(conn), nil
}

func TestRpcListenerServe(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	count := counter.Counter(0)
	listen := fmt.Sprintf("127.0.0.1:%d", rand.Intn(30000)+30000)

	l, err := listeners.NewRPC(logger.New(fixtures.LogCategory), []string{listen}, 5, &count, s.config, s.resolver, factory)
	require.NoError(t, err)
	require.NoError(t, l.Serve())
	defer l.Close()

	assert.Equal(t, 1, len(l.Addresses()))

	client, err := s.dial(t, listen, s.org2, "jane")
	require.NoError(t, err)
	defer client.Close()

	var reply identity.Identity
	err = client.Call("Whoami.Get", &WhoamiArguments{}, &reply)
	require.NoError(t, err)
	assert.Equal(t, "Org2MSP", reply.MSPID)
	assert.Equal(t, "x509::/O=org2/CN=jane::/O=org2/CN=ca.org2", reply.ID)

	other, err := s.dial(t, listen, s.org1, "issuer")
	require.NoError(t, err)
	defer other.Close()

	err = other.Call("Whoami.Get", &WhoamiArguments{}, &reply)
	require.NoError(t, err)
	assert.Equal(t, "Org1MSP", reply.MSPID)
	assert.Equal(t, "x509::/O=org1/CN=issuer::/O=org1/CN=ca.org1", reply.ID)
}

func TestRpcListenerRejectsUnknownOrganisation(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	stranger, err := fixtures.NewAuthority("stranger")
	require.NoError(t, err)

	count := counter.Counter(0)
	listen := fmt.Sprintf("127.0.0.1:%d", rand.Intn(30000)+30000)

	l, err := listeners.NewRPC(logger.New(fixtures.LogCategory), []string{listen}, 5, &count, s.config, s.resolver, factory)
	require.NoError(t, err)
	require.NoError(t, l.Serve())
	defer l.Close()

	client, err := s.dial(t, listen, stranger, "mallory")
	if nil != err {
		return
	}
	defer client.Close()

	var reply identity.Identity
	err = client.Call("Whoami.Get", &WhoamiArguments{}, &reply)
	assert.Error(t, err, "unverifiable client was served")
}

func TestNewRPCChecks(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	count := counter.Counter(0)

	_, err := listeners.NewRPC(log, []string{"127.0.0.1:2130"}, 0, &count, nil, nil, factory)
	assert.Equal(t, fault.ErrMissingParameters, err, "zero connections")

	_, err = listeners.NewRPC(log, nil, 5, &count, nil, nil, factory)
	assert.Equal(t, fault.ErrMissingParameters, err, "no listen")

	_, err = listeners.NewRPC(log, []string{"localhost:2130"}, 5, &count, nil, nil, factory)
	assert.Equal(t, fault.ErrInvalidIPAddress, err, "host name")

	_, err = listeners.NewRPC(log, []string{"127.0.0.1:99999"}, 5, &count, nil, nil, factory)
	assert.Equal(t, fault.ErrInvalidPortNumber, err, "bad port")

	_, err = listeners.NewRPC(log, []string{"*:2130"}, 5, &count, nil, nil, factory)
	assert.NoError(t, err, "wildcard")
}

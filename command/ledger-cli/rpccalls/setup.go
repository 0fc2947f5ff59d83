// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/rpc/certificate"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// TLSConfig - client side TLS from PEM files
//
// the server is verified against the CA file when given, otherwise
// against the SHA3-256 fingerprint when given, otherwise not at all
func TLSConfig(certificateFile string, keyFile string, caFile string, fingerprint string) (*tls.Config, error) {
	if "" == certificateFile || "" == keyFile {
		return nil, fault.ErrMissingParameters
	}

	keyPair, err := tls.LoadX509KeyPair(certificateFile, keyFile)
	if nil != err {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{keyPair},
		MinVersion:   tls.VersionTLS12,
	}

	switch {
	case "" != caFile:
		data, err := os.ReadFile(caFile)
		if nil != err {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("%w: no certificates in: %q", fault.ErrMissingParameters, caFile)
		}
		tlsConfig.RootCAs = pool

	case "" != fingerprint:
		expected, err := hex.DecodeString(fingerprint)
		if nil != err || 32 != len(expected) {
			return nil, fmt.Errorf("%w: fingerprint: %q", fault.ErrInvalidArgument, fingerprint)
		}
		tlsConfig.InsecureSkipVerify = true
		tlsConfig.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if 0 == len(rawCerts) {
				return fault.ErrMissingParameters
			}
			actual := certificate.Fingerprint(rawCerts[0])
			if !bytes.Equal(expected, actual[:]) {
				return fmt.Errorf("%w: server fingerprint: %x", fault.ErrUnauthorized, actual)
			}
			return nil
		}

	default:
		tlsConfig.InsecureSkipVerify = true
	}

	return tlsConfig, nil
}

// NewClient - create a RPC connection to a ledgerd
func NewClient(connect string, tlsConfig *tls.Config, verbose bool, handle io.Writer) (*Client, error) {

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	r := &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}
	return r, nil
}

// Close - shutdown the ledgerd connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/fault"
)

// Get - server TLS configuration from a PEM keypair
//
// with a non-nil client pool every client must present a certificate
// that verifies against it
func Get(log *logger.L, name string, certificate string, key string, clients *x509.CertPool) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if nil != err {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		MinVersion: tls.VersionTLS12,
	}
	if nil != clients {
		tlsConfiguration.ClientAuth = tls.RequireAndVerifyClientCert
		tlsConfiguration.ClientCAs = clients
	}

	fin = Fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// ReadFiles - certificate and key PEM text from their files
func ReadFiles(certificateFileName string, keyFileName string) (string, string, error) {
	if "" == certificateFileName || "" == keyFileName {
		return "", "", fault.ErrMissingParameters
	}
	certificate, err := os.ReadFile(certificateFileName)
	if nil != err {
		return "", "", err
	}
	key, err := os.ReadFile(keyFileName)
	if nil != err {
		return "", "", err
	}
	return string(certificate), string(key), nil
}

// Fingerprint - SHA3-256 of a DER certificate
//
// FreeBSD: openssl x509 -outform DER -in ledgerd-local-rpc.crt | sha3sum -a 256
func Fingerprint(certificate []byte) [32]byte {
	return sha3.Sum256(certificate)
}

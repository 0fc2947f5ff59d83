// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/pem"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/rpc/certificate"
	"github.com/ledgerkit/ledgerd/util"
)

const certificateLifetime = 10 * 365 * 24 * time.Hour

// create a self-signed certificate
func makeSelfSignedCertificate(name string, certificateFileName string, privateKeyFileName string, override bool, extraHosts []string) error {

	if util.EnsureFileExists(certificateFileName) {
		return fault.ErrCertificateFileAlreadyExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	org := "ledgerd self signed cert for: " + name
	validUntil := time.Now().Add(certificateLifetime)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if nil != err {
		return err
	}

	if err = os.WriteFile(certificateFileName, cert, 0o666); nil != err {
		return err
	}

	if err = os.WriteFile(privateKeyFileName, key, 0o600); nil != err {
		_ = os.Remove(certificateFileName)
		return err
	}

	return nil
}

// SHA3-256 of the first certificate in a PEM file
//
// FreeBSD: openssl x509 -outform DER -in rpc.crt | sha3sum -a 256
func certificateFingerprint(data []byte) ([32]byte, error) {
	for {
		block, rest := pem.Decode(data)
		if nil == block {
			return [32]byte{}, fault.ErrMissingParameters
		}
		if "CERTIFICATE" == block.Type {
			return certificate.Fingerprint(block.Bytes), nil
		}
		data = rest
	}
}

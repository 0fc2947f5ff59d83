// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - authenticated callers
//
// a caller is named by its X.509 client certificate and belongs to
// the organisation (MSP) whose certificate authority issued it
package identity

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"os"
	"sort"

	"github.com/ledgerkit/ledgerd/fault"
)

// Zero - the "nobody" identity, source of a mint and target of a burn
const Zero = "0x0"

// Identity - the caller of a contract operation
type Identity struct {
	ID    string `json:"id"`
	MSPID string `json:"mspId"`
}

// Organisation - configuration for one membership service provider
type Organisation struct {
	MSPID       string `gluamapper:"msp_id" json:"msp_id"`
	Certificate string `gluamapper:"certificate" json:"certificate"`
}

// FromCertificate - identity of a certificate holder
func FromCertificate(mspID string, certificate *x509.Certificate) Identity {
	return Identity{
		ID:    "x509::" + distinguishedName(certificate.Subject) + "::" + distinguishedName(certificate.Issuer),
		MSPID: mspID,
	}
}

// slash form: /C=ES/O=Org1/CN=user1
func distinguishedName(name pkix.Name) string {
	s := ""
	for _, attribute := range name.ToRDNSequence() {
		for _, a := range attribute {
			label, ok := attributeLabels[a.Type.String()]
			if !ok {
				label = a.Type.String()
			}
			s += fmt.Sprintf("/%s=%v", label, a.Value)
		}
	}
	return s
}

var attributeLabels = map[string]string{
	"2.5.4.3":  "CN",
	"2.5.4.5":  "SERIALNUMBER",
	"2.5.4.6":  "C",
	"2.5.4.7":  "L",
	"2.5.4.8":  "ST",
	"2.5.4.9":  "STREET",
	"2.5.4.10": "O",
	"2.5.4.11": "OU",
	"2.5.4.17": "POSTALCODE",
}

// Resolver - maps client certificates to organisations
type Resolver struct {
	organisations []organisation
	all           *x509.CertPool
}

type organisation struct {
	mspID string
	roots *x509.CertPool
}

// NewResolver - from PEM encoded CA certificates, keyed by MSP id
func NewResolver(authorities map[string][]byte) (*Resolver, error) {
	r := &Resolver{
		all: x509.NewCertPool(),
	}

	// fixed order so that resolution is deterministic
	names := make([]string, 0, len(authorities))
	for mspID := range authorities {
		names = append(names, mspID)
	}
	sort.Strings(names)

	for _, mspID := range names {
		if "" == mspID {
			return nil, fmt.Errorf("%w: empty MSP id", fault.ErrMissingParameters)
		}
		roots := x509.NewCertPool()
		if !roots.AppendCertsFromPEM(authorities[mspID]) {
			return nil, fmt.Errorf("%w: MSP: %q has no usable CA certificate", fault.ErrMissingParameters, mspID)
		}
		r.all.AppendCertsFromPEM(authorities[mspID])
		r.organisations = append(r.organisations, organisation{
			mspID: mspID,
			roots: roots,
		})
	}
	return r, nil
}

// LoadResolver - read each organisation's CA certificate file
func LoadResolver(organisations []Organisation) (*Resolver, error) {
	authorities := make(map[string][]byte, len(organisations))
	for _, o := range organisations {
		data, err := os.ReadFile(o.Certificate)
		if nil != err {
			return nil, err
		}
		authorities[o.MSPID] = append(authorities[o.MSPID], data...)
	}
	return NewResolver(authorities)
}

// Pool - every known CA, for verifying TLS clients
func (r *Resolver) Pool() *x509.CertPool {
	return r.all
}

// Resolve - identity of a verified client certificate chain
func (r *Resolver) Resolve(chain []*x509.Certificate) (Identity, error) {
	if 0 == len(chain) {
		return Identity{}, fault.ErrMissingClientCertificate
	}

	leaf := chain[0]
	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c)
	}

	for _, o := range r.organisations {
		options := x509.VerifyOptions{
			Roots:         o.roots,
			Intermediates: intermediates,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		}
		if _, err := leaf.Verify(options); nil == err {
			return FromCertificate(o.mspID, leaf), nil
		}
	}
	return Identity{}, fault.ErrUnknownOrganisation
}

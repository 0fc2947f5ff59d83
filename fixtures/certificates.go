// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"time"
)

// Authority - a throwaway certificate authority for one organisation
type Authority struct {
	Certificate *x509.Certificate
	PEM         []byte
	key         *ecdsa.PrivateKey
	serial      int64
}

// NewAuthority - create a self signed CA
func NewAuthority(organisation string) (*Authority, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if nil != err {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{organisation}, CommonName: "ca." + organisation},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if nil != err {
		return nil, err
	}
	certificate, err := x509.ParseCertificate(der)
	if nil != err {
		return nil, err
	}

	return &Authority{
		Certificate: certificate,
		PEM:         pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		key:         key,
		serial:      1,
	}, nil
}

// Pool - a certificate pool holding only this authority
func (a *Authority) Pool() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(a.Certificate)
	return pool
}

// IssuePEM - a leaf certificate usable for both TLS client and server,
// PEM encoded with its private key
func (a *Authority) IssuePEM(commonName string) ([]byte, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if nil != err {
		return nil, nil, err
	}

	a.serial += 1
	template := &x509.Certificate{
		SerialNumber: big.NewInt(a.serial),
		Subject:      pkix.Name{Organization: a.Certificate.Subject.Organization, CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, a.Certificate, &key.PublicKey, a.key)
	if nil != err {
		return nil, nil, err
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if nil != err {
		return nil, nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
		nil
}

// Issue - a leaf certificate as a TLS keypair and its parsed form
func (a *Authority) Issue(commonName string) (tls.Certificate, *x509.Certificate, error) {
	certificatePEM, keyPEM, err := a.IssuePEM(commonName)
	if nil != err {
		return tls.Certificate{}, nil, err
	}
	pair, err := tls.X509KeyPair(certificatePEM, keyPEM)
	if nil != err {
		return tls.Certificate{}, nil, err
	}
	certificate, err := x509.ParseCertificate(pair.Certificate[0])
	if nil != err {
		return tls.Certificate{}, nil, err
	}
	return pair, certificate, nil
}

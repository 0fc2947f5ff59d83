// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/fixtures"
	"github.com/ledgerkit/ledgerd/rpc/certificate"
)

func TestGet(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	authority, err := fixtures.NewAuthority("org1")
	require.NoError(t, err)
	cer, key, err := authority.IssuePEM("server")
	require.NoError(t, err)

	tlsConfig, fingerprint, err := certificate.Get(
		logger.New(fixtures.LogCategory),
		"test",
		string(cer),
		string(key),
		nil,
	)
	assert.Nil(t, err, "wrong Get")

	pair, _ := tls.X509KeyPair(cer, key)

	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair.Certificate, tlsConfig.Certificates[0].Certificate, "wrong config")
	assert.Equal(t, tls.NoClientCert, tlsConfig.ClientAuth)
}

func TestGetWithClients(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	authority, err := fixtures.NewAuthority("org1")
	require.NoError(t, err)
	cer, key, err := authority.IssuePEM("server")
	require.NoError(t, err)

	tlsConfig, _, err := certificate.Get(logger.New(fixtures.LogCategory), "test", string(cer), string(key), authority.Pool())
	require.NoError(t, err)
	assert.Equal(t, tls.RequireAndVerifyClientCert, tlsConfig.ClientAuth)
	assert.NotNil(t, tlsConfig.ClientCAs)

	_, _, err = certificate.Get(logger.New(fixtures.LogCategory), "test", string(cer), "garbage", nil)
	assert.Error(t, err)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	cer := filepath.Join(dir, "rpc.crt")
	key := filepath.Join(dir, "rpc.key")
	require.NoError(t, os.WriteFile(cer, []byte("certificate"), 0o600))
	require.NoError(t, os.WriteFile(key, []byte("key"), 0o600))

	c, k, err := certificate.ReadFiles(cer, key)
	require.NoError(t, err)
	assert.Equal(t, "certificate", c)
	assert.Equal(t, "key", k)

	_, _, err = certificate.ReadFiles("", key)
	assert.Equal(t, fault.ErrMissingParameters, err)

	_, _, err = certificate.ReadFiles(cer, filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(err))
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/util"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
)

// MakeKeyPair - create a CURVE keypair and write each half to its own file
//
// existing files are never overwritten
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) || util.EnsureFileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	// Z85 from the library, stored as hex
	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	public := taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	private := taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err := os.WriteFile(publicKeyFileName, []byte(public), 0o666); nil != err {
		return err
	}
	if err := os.WriteFile(privateKeyFileName, []byte(private), 0o600); nil != err {
		_ = os.Remove(publicKeyFileName)
		return err
	}
	return nil
}

// ReadPublicKeyFile - 32 byte public key from a file
func ReadPublicKeyFile(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	key, private, err := ParseKey(string(data))
	if nil != err {
		return nil, err
	}
	if private {
		return nil, fault.ErrInvalidPublicKeyFile
	}
	return key, nil
}

// ReadPrivateKeyFile - 32 byte private key from a file
func ReadPrivateKeyFile(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	key, private, err := ParseKey(string(data))
	if nil != err {
		return nil, err
	}
	if !private {
		return nil, fault.ErrInvalidPrivateKeyFile
	}
	return key, nil
}

// ParseKey - decode a tagged key, the boolean is true for a private key
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)

	tag, private, fail := taggedPublic, false, fault.ErrInvalidPublicKeyFile
	if strings.HasPrefix(s, taggedPrivate) {
		tag, private, fail = taggedPrivate, true, fault.ErrInvalidPrivateKeyFile
	} else if !strings.HasPrefix(s, taggedPublic) {
		return nil, false, fault.ErrInvalidPublicKeyFile
	}

	key, err := hex.DecodeString(s[len(tag):])
	if nil != err || keyLength != len(key) {
		return nil, false, fail
	}
	return key, private, nil
}

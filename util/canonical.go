// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/ledgerkit/ledgerd/fault"
)

// CanonicalIPandPort - make the IP:Port canonical and add a prefix
//
// the boolean result is true for an IPv6 address
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
func CanonicalIPandPort(prefix string, hostPort string) (string, bool, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", false, fault.ErrInvalidIPAddress
	}

	IP := net.ParseIP(strings.TrimSpace(host))
	if nil == IP {
		return "", false, fault.ErrInvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err || numericPort < 1 || numericPort > 65535 {
		return "", false, fault.ErrInvalidPortNumber
	}

	if nil != IP.To4() {
		return prefix + IP.String() + ":" + strconv.Itoa(numericPort), false, nil
	}
	return prefix + "[" + IP.String() + "]:" + strconv.Itoa(numericPort), true, nil
}

// ListenAddress - "*:PORT" means every interface, anything else must
// be canonical
func ListenAddress(listen string) (string, error) {
	if strings.HasPrefix(listen, "*:") {
		port, err := strconv.Atoi(listen[2:])
		if nil != err || port < 1 || port > 65535 {
			return "", fault.ErrInvalidPortNumber
		}
		return "[::]:" + strconv.Itoa(port), nil
	}
	address, _, err := CanonicalIPandPort("", listen)
	return address, err
}

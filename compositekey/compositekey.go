// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package compositekey - encode a record type and an ordered list of
// attributes into a single store key
//
// layout:
//   0x00 type 0x00 attribute-1 0x00 … attribute-N 0x00
//
// every component is terminated by the separator, so the key built
// from a leading subset of attributes is a byte prefix of every key
// that extends it, which is what makes partial-key range scans work
package compositekey

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledgerkit/ledgerd/fault"
)

const (
	namespace = "\x00"
	separator = "\x00"

	minUnicodeRuneValue = 0
	maxUnicodeRuneValue = utf8.MaxRune
)

// Create - build a composite key from a type and attributes
//
// fewer attributes than a full key gives the prefix for a range scan
func Create(objectType string, attributes []string) (string, error) {
	if "" == objectType {
		return "", fmt.Errorf("%w: empty object type", fault.ErrKeyEncoding)
	}
	if err := validateComponent(objectType); nil != err {
		return "", err
	}

	var b strings.Builder
	b.WriteString(namespace)
	b.WriteString(objectType)
	b.WriteString(separator)
	for _, a := range attributes {
		if err := validateComponent(a); nil != err {
			return "", err
		}
		b.WriteString(a)
		b.WriteString(separator)
	}
	return b.String(), nil
}

// Split - the exact inverse of Create
//
// attributes is never nil, a key with no attributes gives an empty slice
func Split(key string) (string, []string, error) {
	if !IsComposite(key) {
		return "", nil, fmt.Errorf("%w: not a composite key: %q", fault.ErrKeyEncoding, key)
	}

	components := strings.Split(key[len(namespace):len(key)-len(separator)], separator)
	if "" == components[0] {
		return "", nil, fmt.Errorf("%w: empty object type", fault.ErrKeyEncoding)
	}
	return components[0], components[1:], nil
}

// IsComposite - check the framing of a key
func IsComposite(key string) bool {
	return len(key) >= len(namespace)+len(separator) &&
		strings.HasPrefix(key, namespace) &&
		strings.HasSuffix(key, separator)
}

// ValidateSimpleKey - a plain key must never fall inside the range of
// a composite key scan
func ValidateSimpleKey(key string) error {
	if "" == key {
		return fmt.Errorf("%w: empty key", fault.ErrKeyEncoding)
	}
	if strings.HasPrefix(key, namespace) {
		return fmt.Errorf("%w: simple key: %q starts with the composite namespace", fault.ErrKeyEncoding, key)
	}
	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: simple key: %q is not valid UTF-8", fault.ErrKeyEncoding, key)
	}
	return nil
}

func validateComponent(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q is not valid UTF-8", fault.ErrKeyEncoding, s)
	}
	for _, r := range s {
		if minUnicodeRuneValue == r || maxUnicodeRuneValue == r {
			return fmt.Errorf("%w: %q contains reserved rune U+%04X", fault.ErrKeyEncoding, s, r)
		}
	}
	return nil
}

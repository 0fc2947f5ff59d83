// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerkit/ledgerd/fault"
)

var (
	ErrExistsOne   = fault.ExistsError("exists one")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrProcessOne  = fault.ProcessError("process one")
)

// test that the various classes can be subclassed and survive wrapping
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		notFound bool
		process  bool
	}{
		{ErrExistsOne, true, false, false, false},
		{fmt.Errorf("%w: wrapped", ErrExistsOne), true, false, false, false},
		{ErrInvalidOne, false, true, false, false},
		{ErrNotFoundOne, false, false, true, false},
		{fmt.Errorf("outer: %w", fmt.Errorf("%w: inner", ErrNotFoundOne)), false, false, true, false},
		{ErrProcessOne, false, false, false, true},
		{fault.ErrInvalidConfiguration, false, true, false, false},
		{fault.ErrDatabaseIsNotSet, false, false, false, true},
		{errors.New("plain"), false, false, false, false},
	}

	for i, e := range errorList {
		assert.Equal(t, e.exists, fault.IsErrExists(e.err), "%d: exists for: %v", i, e.err)
		assert.Equal(t, e.invalid, fault.IsErrInvalid(e.err), "%d: invalid for: %v", i, e.err)
		assert.Equal(t, e.notFound, fault.IsErrNotFound(e.err), "%d: not found for: %v", i, e.err)
		assert.Equal(t, e.process, fault.IsErrProcess(e.err), "%d: process for: %v", i, e.err)
	}
}

func TestKind(t *testing.T) {
	items := []struct {
		err  error
		kind string
	}{
		{nil, ""},
		{fault.ErrUnauthorized, "Unauthorized"},
		{fmt.Errorf("%w: token: %q", fault.ErrNotFound, "1"), "NotFound"},
		{fault.ErrAlreadyExists, "AlreadyExists"},
		{fmt.Errorf("%w: name", fault.ErrAlreadyInitialized), "AlreadyInitialized"},
		{fmt.Errorf("%w: price", fault.ErrInvalidArgument), "InvalidArgument"},
		{fault.ErrInsufficientInventory, "InsufficientInventory"},
		{fault.ErrInsufficientFunds, "InsufficientFunds"},
		{fault.ErrNotInitialized, "NotInitialized"},
		{fault.ErrKeyEncoding, "KeyEncodingError"},
		{fault.ErrCorruptRecord, "CorruptRecord"},
		{fault.ErrConflict, "Conflict"},
		{fault.ErrTransactionClosed, "Internal"},
	}

	for _, item := range items {
		assert.Equal(t, item.kind, fault.Kind(item.err), "error: %v", item.err)
	}
}

func TestAlreadyInitializedIsExists(t *testing.T) {
	assert.True(t, fault.IsErrExists(fault.ErrAlreadyInitialized))
	assert.False(t, errors.Is(fault.ErrAlreadyExists, fault.ErrAlreadyInitialized))
}

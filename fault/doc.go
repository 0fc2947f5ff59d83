// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  Contract
// operations add detail by wrapping an instance:
//
//   fmt.Errorf("%w: token: %q", fault.ErrNotFound, tokenID)
//
// and the IsErrXXX functions still classify the wrapped error.
package fault

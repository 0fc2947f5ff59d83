// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ConflictError GenericError
type ExistsError GenericError
type FundsError GenericError
type InventoryError GenericError
type InvalidError GenericError
type KeyError GenericError
type NotFoundError GenericError
type NotInitializedError GenericError
type ProcessError GenericError
type RecordError GenericError
type UnauthorizedError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyExists                = ExistsError("already exists")
	ErrAlreadyInitialised           = ProcessError("already initialised")
	ErrAlreadyInitialized           = ExistsError("contract options are already set")
	ErrArgumentCount                = InvalidError("incorrect number of arguments")
	ErrCertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ErrConflict                     = ConflictError("transaction conflict")
	ErrCorruptRecord                = RecordError("corrupt record")
	ErrDatabaseIsNotSet             = ProcessError("database is not set")
	ErrIncompatibleDatabase         = ProcessError("incompatible database version")
	ErrInsufficientFunds            = FundsError("insufficient funds")
	ErrInsufficientInventory        = InventoryError("insufficient inventory")
	ErrInvalidArgument              = InvalidError("invalid argument")
	ErrInvalidBackend               = InvalidError("invalid database backend")
	ErrInvalidConfiguration         = InvalidError("configuration file must return a table")
	ErrInvalidIPAddress             = InvalidError("invalid IP address")
	ErrInvalidLoggerChannel         = ProcessError("invalid logger channel")
	ErrInvalidNamespace             = InvalidError("invalid namespace")
	ErrInvalidPortNumber            = InvalidError("invalid port number")
	ErrInvalidPrivateKeyFile        = InvalidError("invalid private key file")
	ErrInvalidPublicKeyFile         = InvalidError("invalid public key file")
	ErrInvalidStructPointer         = InvalidError("invalid struct pointer")
	ErrKeyEncoding                  = KeyError("key encoding error")
	ErrKeyFileAlreadyExists         = ExistsError("key file already exists")
	ErrMissingClientCertificate     = UnauthorizedError("missing client certificate")
	ErrMissingParameters            = InvalidError("missing parameters")
	ErrNotFound                     = NotFoundError("not found")
	ErrNotInitialised               = ProcessError("not initialised")
	ErrNotInitialized               = NotInitializedError("contract options need to be set before calling any function")
	ErrRateLimiting                 = InvalidError("rate limiting")
	ErrTransactionClosed            = ProcessError("transaction is already closed")
	ErrUnauthorized                 = UnauthorizedError("unauthorized")
	ErrUnknownContract              = InvalidError("unknown contract")
	ErrUnknownOperation             = InvalidError("unknown operation")
	ErrUnknownOrganisation          = UnauthorizedError("certificate is not issued by a known organisation")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ConflictError) Error() string       { return string(e) }
func (e ExistsError) Error() string         { return string(e) }
func (e FundsError) Error() string          { return string(e) }
func (e InventoryError) Error() string      { return string(e) }
func (e InvalidError) Error() string        { return string(e) }
func (e KeyError) Error() string            { return string(e) }
func (e NotFoundError) Error() string       { return string(e) }
func (e NotInitializedError) Error() string { return string(e) }
func (e ProcessError) Error() string        { return string(e) }
func (e RecordError) Error() string         { return string(e) }
func (e UnauthorizedError) Error() string   { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrConflict(e error) bool       { var x ConflictError; return errors.As(e, &x) }
func IsErrCorruptRecord(e error) bool  { var x RecordError; return errors.As(e, &x) }
func IsErrExists(e error) bool         { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool        { var x InvalidError; return errors.As(e, &x) }
func IsErrKeyEncoding(e error) bool    { var x KeyError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool       { var x NotFoundError; return errors.As(e, &x) }
func IsErrNotInitialized(e error) bool { var x NotInitializedError; return errors.As(e, &x) }
func IsErrProcess(e error) bool        { var x ProcessError; return errors.As(e, &x) }
func IsErrUnauthorized(e error) bool   { var x UnauthorizedError; return errors.As(e, &x) }

func IsErrInsufficientFunds(e error) bool     { var x FundsError; return errors.As(e, &x) }
func IsErrInsufficientInventory(e error) bool { var x InventoryError; return errors.As(e, &x) }

// Kind - the name of the class of an error as reported to a caller
func Kind(e error) string {
	switch {
	case nil == e:
		return ""
	case errors.Is(e, ErrAlreadyInitialized):
		return "AlreadyInitialized"
	case IsErrExists(e):
		return "AlreadyExists"
	case IsErrUnauthorized(e):
		return "Unauthorized"
	case IsErrNotFound(e):
		return "NotFound"
	case IsErrInvalid(e):
		return "InvalidArgument"
	case IsErrInsufficientInventory(e):
		return "InsufficientInventory"
	case IsErrInsufficientFunds(e):
		return "InsufficientFunds"
	case IsErrNotInitialized(e):
		return "NotInitialized"
	case IsErrKeyEncoding(e):
		return "KeyEncodingError"
	case IsErrCorruptRecord(e):
		return "CorruptRecord"
	case IsErrConflict(e):
		return "Conflict"
	default:
		return "Internal"
	}
}

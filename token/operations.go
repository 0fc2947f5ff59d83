// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token

import (
	"fmt"
	"strconv"

	"github.com/ledgerkit/ledgerd/contract"
	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/registry"
)

// Operations - the invocation names and argument lists
func (c *Contract) Operations() map[string]contract.Operation {
	return map[string]contract.Operation{
		"Initialize": {Arguments: 2, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return ok(c.Initialize(r, a[0], a[1]))
		}},
		"Mint": {Arguments: 4, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.Mint(r, a[0], a[1], a[2], a[3])
		}},
		"TransferFrom": {Arguments: 3, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return ok(c.TransferFrom(r, a[0], a[1], a[2]))
		}},
		"Approve": {Arguments: 2, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return ok(c.Approve(r, a[0], a[1]))
		}},
		"SetApprovalForAll": {Arguments: 2, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			approved, err := strconv.ParseBool(a[1])
			if nil != err {
				return nil, fmt.Errorf("%w: approved: %q is not a boolean", fault.ErrInvalidArgument, a[1])
			}
			return ok(c.SetApprovalForAll(r, a[0], approved))
		}},
		"Burn": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return ok(c.Burn(r, a[0]))
		}},
		"BalanceOf": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.BalanceOf(r, a[0])
		}},
		"OwnerOf": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.OwnerOf(r, a[0])
		}},
		"GetApproved": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.GetApproved(r, a[0])
		}},
		"IsApprovedForAll": {Arguments: 2, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.IsApprovedForAll(r, a[0], a[1])
		}},
		"Name": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.CollectionName(r)
		}},
		"Symbol": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.Symbol(r)
		}},
		"TokenURI": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.TokenURI(r, a[0])
		}},
		"GetToken": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.GetToken(r, a[0])
		}},
		"GetTokens": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.GetTokens(r)
		}},
		"TotalSupply": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.TotalSupply(r)
		}},
		"ClientAccountBalance": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.ClientAccountBalance(r)
		}},
		"ClientAccountID": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.ClientAccountID(r)
		}},
		"ping": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return "pong", nil
		}},
		"limpiarChaincode": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			if err := c.Clear(r); nil != err {
				return nil, err
			}
			return "OK", nil
		}},
	}
}

// mutations answer true on success
func ok(err error) (interface{}, error) {
	if nil != err {
		return nil, err
	}
	return true, nil
}

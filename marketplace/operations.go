// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketplace

import (
	"github.com/ledgerkit/ledgerd/contract"
	"github.com/ledgerkit/ledgerd/registry"
)

// Operations - the invocation names and argument lists
func (c *Contract) Operations() map[string]contract.Operation {
	return map[string]contract.Operation{
		"Ping": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.Ping(), nil
		}},
		"getMyIdentity": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.MyIdentity(r), nil
		}},
		"createProduct": {Arguments: 5, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.CreateProduct(r, a[0], a[1], a[2], a[3], a[4])
		}},
		"getProduct": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.GetProduct(r, a[0])
		}},
		"updateProduct": {Arguments: 5, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.UpdateProduct(r, a[0], a[1], a[2], a[3], a[4])
		}},
		"deleteProduct": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return nil, c.DeleteProduct(r, a[0])
		}},
		"getMyBalance": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.MyBalance(r)
		}},
		"setMyBalance": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.SetMyBalance(r, a[0])
		}},
		"comprar": {Arguments: 2, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.Purchase(r, a[0], a[1])
		}},
		"getVenta": {Arguments: 1, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.GetSale(r, a[0])
		}},
		"getMyVentas": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			return c.MySales(r)
		}},
		"limpiarChaincode": {Arguments: 0, Function: func(r *registry.Registry, a []string) (interface{}, error) {
			if err := c.Clear(r); nil != err {
				return nil, err
			}
			return "OK", nil
		}},
	}
}

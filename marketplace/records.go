// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketplace

import (
	"fmt"

	"github.com/ledgerkit/ledgerd/fault"
)

// key prefixes
const (
	productPrefix = "product"
	balancePrefix = "balance"
	salePrefix    = "venta"
)

// Product - inventory item keyed by (product, id)
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	CreatedBy   string `json:"createdBy"`
}

// Validate - price and quantity are never negative
func (p *Product) Validate() error {
	if "" == p.ID {
		return fmt.Errorf("%w: product id is empty", fault.ErrInvalidArgument)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product: %q negative price: %d", fault.ErrInvalidArgument, p.ID, p.Price)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: product: %q negative quantity: %d", fault.ErrInvalidArgument, p.ID, p.Quantity)
	}
	return nil
}

// Balance - funds of one identity keyed by (balance, owner)
type Balance struct {
	Balance int64 `json:"balance"`
}

// Validate - a balance is never negative
func (b *Balance) Validate() error {
	if b.Balance < 0 {
		return fmt.Errorf("%w: negative balance: %d", fault.ErrInvalidArgument, b.Balance)
	}
	return nil
}

// Sale - immutable purchase record keyed by (venta, buyer, id)
type Sale struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
	Buyer    string `json:"buyer"`
}

// Validate - a sale names its buyer and moves at least one item
func (s *Sale) Validate() error {
	if "" == s.ID || "" == s.Buyer {
		return fmt.Errorf("%w: sale needs id and buyer", fault.ErrInvalidArgument)
	}
	if s.Quantity <= 0 {
		return fmt.Errorf("%w: sale: %q quantity: %d", fault.ErrInvalidArgument, s.ID, s.Quantity)
	}
	return nil
}

// SaleEntry - one item of the caller's sale listing
type SaleEntry struct {
	Key    string `json:"Key"`
	Record Sale   `json:"Record"`
}

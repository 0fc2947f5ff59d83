// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package marketplace - product inventory and account balances with
// an atomic purchase
//
// a purchase debits the buyer, decrements the inventory and appends a
// sale record in one transaction; every check runs before the first
// write, so a failed purchase changes nothing
package marketplace

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/registry"
)

// Name - namespace and contract name
const Name = "marketplace"

// namespace of the version 5 sale identifiers
var saleNamespace = uuid.MustParse("1b671a64-40d5-491e-99b0-da01ff1f3341")

// Configuration - marketplace section of the configuration file
//
// an empty list leaves the corresponding operations open to any caller
type Configuration struct {
	CreatorMSPs []string `gluamapper:"creator_msps" json:"creator_msps"`
	BuyerMSPs   []string `gluamapper:"buyer_msps" json:"buyer_msps"`
}

// Contract - the marketplace ledger
type Contract struct {
	log      *logger.L
	creators map[string]struct{}
	buyers   map[string]struct{}
}

// New - create the contract
func New(configuration *Configuration) (*Contract, error) {
	log := logger.New("marketplace")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	var creators, buyers []string
	if nil != configuration {
		creators = configuration.CreatorMSPs
		buyers = configuration.BuyerMSPs
	}

	c := &Contract{
		log:      log,
		creators: make(map[string]struct{}),
		buyers:   make(map[string]struct{}),
	}
	for _, msp := range creators {
		c.creators[msp] = struct{}{}
	}
	for _, msp := range buyers {
		c.buyers[msp] = struct{}{}
	}
	log.Infof("creators: %v  buyers: %v", creators, buyers)

	return c, nil
}

// Name - namespace of the marketplace records
func (c *Contract) Name() string {
	return Name
}

func permitted(allowed map[string]struct{}, caller identity.Identity, action string) error {
	if 0 == len(allowed) {
		return nil
	}
	if _, ok := allowed[caller.MSPID]; ok {
		return nil
	}
	return fmt.Errorf("%w: client: %q of: %q is not permitted to %s", fault.ErrUnauthorized, caller.ID, caller.MSPID, action)
}

func parseAmount(name string, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if nil != err {
		return 0, fmt.Errorf("%w: %s: %q is not an integer", fault.ErrInvalidArgument, name, value)
	}
	return n, nil
}

// Ping - liveness
func (c *Contract) Ping() string {
	c.log.Debug("ping")
	return "pong"
}

// MyIdentity - the caller as seen by the ledger
func (c *Contract) MyIdentity(r *registry.Registry) identity.Identity {
	return r.Caller()
}

// CreateProduct - create or replace a product
func (c *Contract) CreateProduct(r *registry.Registry, id string, name string, description string, price string, quantity string) (*Product, error) {
	return c.putProduct(r, "create products", id, name, description, price, quantity)
}

// UpdateProduct - replace a product; identical to CreateProduct
func (c *Contract) UpdateProduct(r *registry.Registry, id string, name string, description string, price string, quantity string) (*Product, error) {
	return c.putProduct(r, "update products", id, name, description, price, quantity)
}

func (c *Contract) putProduct(r *registry.Registry, action string, id string, name string, description string, price string, quantity string) (*Product, error) {
	caller := r.Caller()
	if err := permitted(c.creators, caller, action); nil != err {
		return nil, err
	}
	p, err := parseAmount("price", price)
	if nil != err {
		return nil, err
	}
	q, err := parseAmount("quantity", quantity)
	if nil != err {
		return nil, err
	}

	product := &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       p,
		Quantity:    q,
		CreatedBy:   caller.ID,
	}
	if err := r.Put(productPrefix, []string{id}, product); nil != err {
		return nil, err
	}
	c.log.Infof("product: %q  price: %d  quantity: %d  by: %q", id, p, q, caller.ID)
	return product, nil
}

// GetProduct - read a product
func (c *Contract) GetProduct(r *registry.Registry, id string) (*Product, error) {
	product := &Product{}
	found, err := r.Get(productPrefix, []string{id}, product)
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: product: %q", fault.ErrNotFound, id)
	}
	return product, nil
}

// DeleteProduct - remove a product, absent products are not an error
func (c *Contract) DeleteProduct(r *registry.Registry, id string) error {
	if err := permitted(c.creators, r.Caller(), "delete products"); nil != err {
		return err
	}
	return r.Delete(productPrefix, []string{id})
}

// MyBalance - the caller's balance
func (c *Contract) MyBalance(r *registry.Registry) (*Balance, error) {
	caller := r.Caller()
	balance := &Balance{}
	found, err := r.Get(balancePrefix, []string{caller.ID}, balance)
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: balance of: %q", fault.ErrNotFound, caller.ID)
	}
	return balance, nil
}

// SetMyBalance - overwrite the caller's balance
//
// there is no source of funds, the caller simply states a balance
func (c *Contract) SetMyBalance(r *registry.Registry, amount string) (*Balance, error) {
	n, err := parseAmount("balance", amount)
	if nil != err {
		return nil, err
	}
	balance := &Balance{Balance: n}
	if err := r.Put(balancePrefix, []string{r.Caller().ID}, balance); nil != err {
		return nil, err
	}
	return balance, nil
}

// Purchase - buy a quantity of a product with the caller's balance
func (c *Contract) Purchase(r *registry.Registry, id string, quantity string) (*Sale, error) {
	caller := r.Caller()
	if err := permitted(c.buyers, caller, "purchase"); nil != err {
		return nil, err
	}

	q, err := parseAmount("quantity", quantity)
	if nil != err {
		return nil, err
	}
	if q <= 0 {
		return nil, fmt.Errorf("%w: quantity: %d must be positive", fault.ErrInvalidArgument, q)
	}

	product, err := c.GetProduct(r, id)
	if nil != err {
		return nil, err
	}
	if q > product.Quantity {
		return nil, fmt.Errorf("%w: product: %q  available: %d  requested: %d", fault.ErrInsufficientInventory, id, product.Quantity, q)
	}

	balance, err := c.MyBalance(r)
	if nil != err {
		return nil, err
	}
	if product.Price > 0 && q > math.MaxInt64/product.Price {
		return nil, fmt.Errorf("%w: cost of: %d * %d overflows", fault.ErrInsufficientFunds, q, product.Price)
	}
	cost := product.Price * q
	if balance.Balance < cost {
		return nil, fmt.Errorf("%w: balance: %d  cost: %d", fault.ErrInsufficientFunds, balance.Balance, cost)
	}

	balance.Balance -= cost
	if err := r.Put(balancePrefix, []string{caller.ID}, balance); nil != err {
		return nil, err
	}
	product.Quantity -= q
	if err := r.Put(productPrefix, []string{id}, product); nil != err {
		return nil, err
	}

	// deterministic: the same transaction, buyer and quantity give the same id
	saleID := uuid.NewSHA1(saleNamespace, []byte(r.TxID()+caller.ID+quantity)).String()
	sale := &Sale{
		ID:       saleID,
		Quantity: q,
		Buyer:    caller.ID,
	}
	if err := r.Put(salePrefix, []string{caller.ID, saleID}, sale); nil != err {
		return nil, err
	}

	c.log.Infof("sale: %s  product: %q  quantity: %d  cost: %d  buyer: %q", saleID, id, q, cost, caller.ID)
	return sale, nil
}

// GetSale - one of the caller's sales
func (c *Contract) GetSale(r *registry.Registry, saleID string) (*Sale, error) {
	caller := r.Caller()
	sale := &Sale{}
	found, err := r.Get(salePrefix, []string{caller.ID, saleID}, sale)
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: sale: %q of: %q", fault.ErrNotFound, saleID, caller.ID)
	}
	return sale, nil
}

// MySales - every sale of the caller in sale id order
func (c *Contract) MySales(r *registry.Registry) ([]SaleEntry, error) {
	sales := []SaleEntry{}
	err := r.Scan(salePrefix, []string{r.Caller().ID}, func(attributes []string, value []byte) error {
		if 2 != len(attributes) {
			return fmt.Errorf("%w: sale key attributes: %q", fault.ErrCorruptRecord, attributes)
		}
		entry := SaleEntry{Key: attributes[1]}
		if err := registry.Decode(value, &entry.Record); nil != err {
			return err
		}
		sales = append(sales, entry)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return sales, nil
}

// Clear - remove every product, balance and sale
func (c *Contract) Clear(r *registry.Registry) error {
	caller := r.Caller()
	if err := permitted(c.creators, caller, "clear the ledger"); nil != err {
		return err
	}

	total := 0
	for _, prefix := range []string{productPrefix, balancePrefix, salePrefix} {
		n, err := r.DeleteAll(prefix, nil)
		if nil != err {
			return err
		}
		total += n
	}
	c.log.Warnf("cleared: %d records  by: %q", total, caller.ID)
	return nil
}

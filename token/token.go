// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - ERC-721 style non-fungible token registry
//
// states of a token id:
//   nonexistent → minted (owner, optional approved) → burned
//
// a balance index of marker records keyed by (balance, owner, tokenId)
// mirrors NFT.owner exactly, so that BalanceOf is a prefix count
package token

import (
	"fmt"
	"strconv"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/fault"
	"github.com/ledgerkit/ledgerd/identity"
	"github.com/ledgerkit/ledgerd/registry"
)

// Name - namespace and contract name
const Name = "token"

const defaultIssuerMSP = "Org1MSP"

// Configuration - token section of the configuration file
type Configuration struct {
	IssuerMSP string `gluamapper:"issuer_msp" json:"issuer_msp"`
}

// Contract - the token ledger
type Contract struct {
	log       *logger.L
	issuerMSP string
}

// New - create the contract
func New(configuration *Configuration) (*Contract, error) {
	log := logger.New("token")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	issuer := defaultIssuerMSP
	if nil != configuration && "" != configuration.IssuerMSP {
		issuer = configuration.IssuerMSP
	}
	log.Infof("issuer MSP: %q", issuer)

	return &Contract{
		log:       log,
		issuerMSP: issuer,
	}, nil
}

// Name - namespace of the token records
func (c *Contract) Name() string {
	return Name
}

func (c *Contract) requireIssuer(r *registry.Registry, action string) error {
	if caller := r.Caller(); caller.MSPID != c.issuerMSP {
		return fmt.Errorf("%w: client: %q of: %q is not authorized to %s", fault.ErrUnauthorized, caller.ID, caller.MSPID, action)
	}
	return nil
}

func checkInitialized(r *registry.Registry) error {
	value, err := r.GetSimple(nameKey)
	if nil != err {
		return err
	}
	if nil == value {
		return fault.ErrNotInitialized
	}
	return nil
}

func readNFT(r *registry.Registry, tokenID string) (*NFT, error) {
	nft := &NFT{}
	found, err := r.Get(nftPrefix, []string{tokenID}, nft)
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: token: %q", fault.ErrNotFound, tokenID)
	}
	return nft, nil
}

// Initialize - set the collection name and symbol, once only
func (c *Contract) Initialize(r *registry.Registry, name string, symbol string) error {
	if err := c.requireIssuer(r, "initialize contract"); nil != err {
		return err
	}

	value, err := r.GetSimple(nameKey)
	if nil != err {
		return err
	}
	if nil != value {
		return fault.ErrAlreadyInitialized
	}

	if err := r.PutSimple(nameKey, []byte(name)); nil != err {
		return err
	}
	if err := r.PutSimple(symbolKey, []byte(symbol)); nil != err {
		return err
	}
	c.log.Infof("initialized: name: %q  symbol: %q", name, symbol)
	return nil
}

// Mint - create a token owned by the caller
func (c *Contract) Mint(r *registry.Registry, tokenID string, tokenURI string, name string, description string) (*NFT, error) {
	if err := checkInitialized(r); nil != err {
		return nil, err
	}
	if err := c.requireIssuer(r, "mint new tokens"); nil != err {
		return nil, err
	}

	exists, err := r.Exists(nftPrefix, []string{tokenID})
	if nil != err {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: token: %q is already minted", fault.ErrAlreadyExists, tokenID)
	}

	// one spelling per integer, so "+1" and "01" cannot shadow "1"
	n, err := strconv.ParseInt(tokenID, 10, 64)
	if nil != err || strconv.FormatInt(n, 10) != tokenID {
		return nil, fmt.Errorf("%w: token id: %q is not a canonical integer", fault.ErrInvalidArgument, tokenID)
	}

	minter := r.Caller().ID
	nft := &NFT{
		TokenID:     n,
		Owner:       minter,
		TokenURI:    tokenURI,
		Name:        name,
		Description: description,
	}
	if err := r.Put(nftPrefix, []string{tokenID}, nft); nil != err {
		return nil, err
	}
	if err := r.PutMarker(balancePrefix, []string{minter, tokenID}); nil != err {
		return nil, err
	}

	err = r.Emit("Transfer", transferEvent{From: identity.Zero, To: minter, TokenID: n})
	return nft, err
}

// TransferFrom - move a token between owners
//
// the caller is the owner, the token's approved identity or an
// operator approved by the owner; from must be the current owner
func (c *Contract) TransferFrom(r *registry.Registry, from string, to string, tokenID string) error {
	if err := checkInitialized(r); nil != err {
		return err
	}

	sender := r.Caller().ID
	nft, err := readNFT(r, tokenID)
	if nil != err {
		return err
	}

	owner := nft.Owner
	operatorApproval, err := c.isApprovedForAll(r, owner, sender)
	if nil != err {
		return err
	}
	if owner != sender && nft.Approved != sender && !operatorApproval {
		return fmt.Errorf("%w: sender: %q is not the owner, approved or an operator of token: %q", fault.ErrUnauthorized, sender, tokenID)
	}
	if owner != from {
		return fmt.Errorf("%w: from: %q is not the current owner of token: %q", fault.ErrInvalidArgument, from, tokenID)
	}
	if "" == to {
		return fmt.Errorf("%w: empty recipient", fault.ErrInvalidArgument)
	}

	nft.Approved = ""
	nft.Owner = to
	if err := r.Put(nftPrefix, []string{tokenID}, nft); nil != err {
		return err
	}
	if err := r.Delete(balancePrefix, []string{from, tokenID}); nil != err {
		return err
	}
	if err := r.PutMarker(balancePrefix, []string{to, tokenID}); nil != err {
		return err
	}

	return r.Emit("Transfer", transferEvent{From: from, To: to, TokenID: nft.TokenID})
}

// Approve - set or replace the single approved identity of a token
func (c *Contract) Approve(r *registry.Registry, approved string, tokenID string) error {
	if err := checkInitialized(r); nil != err {
		return err
	}

	sender := r.Caller().ID
	nft, err := readNFT(r, tokenID)
	if nil != err {
		return err
	}

	owner := nft.Owner
	operatorApproval, err := c.isApprovedForAll(r, owner, sender)
	if nil != err {
		return err
	}
	if owner != sender && !operatorApproval {
		return fmt.Errorf("%w: sender: %q is not the owner or an operator of token: %q", fault.ErrUnauthorized, sender, tokenID)
	}

	nft.Approved = approved
	if err := r.Put(nftPrefix, []string{tokenID}, nft); nil != err {
		return err
	}

	return r.Emit("Approval", approvalEvent{Owner: owner, Approved: approved, TokenID: nft.TokenID})
}

// SetApprovalForAll - grant or revoke management of all the caller's tokens
func (c *Contract) SetApprovalForAll(r *registry.Registry, operator string, approved bool) error {
	if err := checkInitialized(r); nil != err {
		return err
	}

	sender := r.Caller().ID
	approval := &Approval{
		Owner:    sender,
		Operator: operator,
		Approved: approved,
	}
	if err := r.Put(approvalPrefix, []string{sender, operator}, approval); nil != err {
		return err
	}

	return r.Emit("ApprovalForAll", approvalForAllEvent{Owner: sender, Operator: operator, Approved: approved})
}

// Burn - destroy a token, only its owner may do this
func (c *Contract) Burn(r *registry.Registry, tokenID string) error {
	if err := checkInitialized(r); nil != err {
		return err
	}

	owner := r.Caller().ID
	nft, err := readNFT(r, tokenID)
	if nil != err {
		return err
	}
	if nft.Owner != owner {
		return fmt.Errorf("%w: token: %q is not owned by: %q", fault.ErrUnauthorized, tokenID, owner)
	}

	if err := r.Delete(nftPrefix, []string{tokenID}); nil != err {
		return err
	}
	if err := r.Delete(balancePrefix, []string{owner, tokenID}); nil != err {
		return err
	}

	return r.Emit("Transfer", transferEvent{From: owner, To: identity.Zero, TokenID: nft.TokenID})
}

// BalanceOf - number of tokens held by an owner
func (c *Contract) BalanceOf(r *registry.Registry, owner string) (int, error) {
	if err := checkInitialized(r); nil != err {
		return 0, err
	}
	return r.Count(balancePrefix, []string{owner})
}

// OwnerOf - current owner of a token
func (c *Contract) OwnerOf(r *registry.Registry, tokenID string) (string, error) {
	if err := checkInitialized(r); nil != err {
		return "", err
	}
	nft, err := readNFT(r, tokenID)
	if nil != err {
		return "", err
	}
	return nft.Owner, nil
}

// GetApproved - the approved identity of a token, empty if none
func (c *Contract) GetApproved(r *registry.Registry, tokenID string) (string, error) {
	if err := checkInitialized(r); nil != err {
		return "", err
	}
	nft, err := readNFT(r, tokenID)
	if nil != err {
		return "", err
	}
	return nft.Approved, nil
}

// IsApprovedForAll - false when no approval was ever set
func (c *Contract) IsApprovedForAll(r *registry.Registry, owner string, operator string) (bool, error) {
	if err := checkInitialized(r); nil != err {
		return false, err
	}
	return c.isApprovedForAll(r, owner, operator)
}

func (c *Contract) isApprovedForAll(r *registry.Registry, owner string, operator string) (bool, error) {
	approval := &Approval{}
	found, err := r.Get(approvalPrefix, []string{owner, operator}, approval)
	if nil != err || !found {
		return false, err
	}
	return approval.Approved, nil
}

// CollectionName - the name set by Initialize
func (c *Contract) CollectionName(r *registry.Registry) (string, error) {
	return c.metadata(r, nameKey)
}

// Symbol - the symbol set by Initialize
func (c *Contract) Symbol(r *registry.Registry) (string, error) {
	return c.metadata(r, symbolKey)
}

func (c *Contract) metadata(r *registry.Registry, key string) (string, error) {
	if err := checkInitialized(r); nil != err {
		return "", err
	}
	value, err := r.GetSimple(key)
	if nil != err {
		return "", err
	}
	return string(value), nil
}

// TokenURI - metadata URI of a token
func (c *Contract) TokenURI(r *registry.Registry, tokenID string) (string, error) {
	if err := checkInitialized(r); nil != err {
		return "", err
	}
	nft, err := readNFT(r, tokenID)
	if nil != err {
		return "", err
	}
	return nft.TokenURI, nil
}

// GetToken - the full token record
func (c *Contract) GetToken(r *registry.Registry, tokenID string) (*NFT, error) {
	if err := checkInitialized(r); nil != err {
		return nil, err
	}
	return readNFT(r, tokenID)
}

// GetTokens - every live token in key order
func (c *Contract) GetTokens(r *registry.Registry) ([]NFT, error) {
	if err := checkInitialized(r); nil != err {
		return nil, err
	}

	tokens := []NFT{}
	err := r.Scan(nftPrefix, nil, func(_ []string, value []byte) error {
		var nft NFT
		if err := registry.Decode(value, &nft); nil != err {
			return err
		}
		tokens = append(tokens, nft)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return tokens, nil
}

// TotalSupply - number of live tokens
func (c *Contract) TotalSupply(r *registry.Registry) (int, error) {
	if err := checkInitialized(r); nil != err {
		return 0, err
	}
	return r.Count(nftPrefix, nil)
}

// ClientAccountBalance - BalanceOf the caller
func (c *Contract) ClientAccountBalance(r *registry.Registry) (int, error) {
	return c.BalanceOf(r, r.Caller().ID)
}

// ClientAccountID - identity string of the caller
func (c *Contract) ClientAccountID(r *registry.Registry) (string, error) {
	if err := checkInitialized(r); nil != err {
		return "", err
	}
	return r.Caller().ID, nil
}

// Clear - remove every token, balance index entry and approval
//
// the collection metadata is kept so the contract stays initialized
func (c *Contract) Clear(r *registry.Registry) error {
	if err := checkInitialized(r); nil != err {
		return err
	}
	if err := c.requireIssuer(r, "clear the ledger"); nil != err {
		return err
	}

	total := 0
	for _, prefix := range []string{nftPrefix, balancePrefix, approvalPrefix} {
		n, err := r.DeleteAll(prefix, nil)
		if nil != err {
			return err
		}
		total += n
	}
	c.log.Warnf("cleared: %d records  by: %q", total, r.Caller().ID)
	return nil
}

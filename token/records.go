// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token

import (
	"fmt"

	"github.com/ledgerkit/ledgerd/fault"
)

// key prefixes
const (
	nftPrefix      = "nft"
	balancePrefix  = "balance"
	approvalPrefix = "approval"

	nameKey   = "name"
	symbolKey = "symbol"
)

// NFT - a non-fungible token keyed by (nft, tokenId)
type NFT struct {
	TokenID     int64  `json:"tokenId"`
	Owner       string `json:"owner"`
	Approved    string `json:"approved"`
	TokenURI    string `json:"tokenURI"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate - every live token has an owner
func (n *NFT) Validate() error {
	if "" == n.Owner {
		return fmt.Errorf("%w: token: %d has no owner", fault.ErrInvalidArgument, n.TokenID)
	}
	return nil
}

// Approval - blanket operator approval keyed by (approval, owner, operator)
type Approval struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// Validate - both parties are named
func (a *Approval) Validate() error {
	if "" == a.Owner || "" == a.Operator {
		return fmt.Errorf("%w: approval needs owner and operator", fault.ErrInvalidArgument)
	}
	return nil
}

// event payloads
type transferEvent struct {
	From    string `json:"from"`
	To      string `json:"to"`
	TokenID int64  `json:"tokenId"`
}

type approvalEvent struct {
	Owner    string `json:"owner"`
	Approved string `json:"approved"`
	TokenID  int64  `json:"tokenId"`
}

type approvalForAllEvent struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

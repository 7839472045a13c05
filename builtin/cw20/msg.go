// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw20

import (
	"encoding/json"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

type InitialBalance struct {
	Address cw.Addr    `json:"address"`
	Amount  cw.Uint128 `json:"amount"`
}

type MinterResponse struct {
	Minter cw.Addr     `json:"minter"`
	Cap    *cw.Uint128 `json:"cap,omitempty" rlp:"nilString"`
}

type InstantiateMsg struct {
	Name            string           `json:"name"`
	Symbol          string           `json:"symbol"`
	Decimals        uint8            `json:"decimals"`
	InitialBalances []InitialBalance `json:"initial_balances"`
	Mint            *MinterResponse  `json:"mint,omitempty"`
}

type ExecuteMsg struct {
	Transfer     *TransferMsg     `json:"transfer,omitempty"`
	Send         *SendMsg         `json:"send,omitempty"`
	Burn         *BurnMsg         `json:"burn,omitempty"`
	Mint         *MintMsg         `json:"mint,omitempty"`
	UpdateMinter *UpdateMinterMsg `json:"update_minter,omitempty"`
}

type TransferMsg struct {
	Recipient cw.Addr    `json:"recipient"`
	Amount    cw.Uint128 `json:"amount"`
}

// SendMsg moves tokens to a contract and calls its receive hook with Msg.
type SendMsg struct {
	Contract cw.Addr         `json:"contract"`
	Amount   cw.Uint128      `json:"amount"`
	Msg      json.RawMessage `json:"msg"`
}

type BurnMsg struct {
	Amount cw.Uint128 `json:"amount"`
}

type MintMsg struct {
	Recipient cw.Addr    `json:"recipient"`
	Amount    cw.Uint128 `json:"amount"`
}

type UpdateMinterMsg struct {
	NewMinter *cw.Addr `json:"new_minter"`
}

// ReceiveMsg is delivered to the target of a Send.
type ReceiveMsg struct {
	Sender cw.Addr         `json:"sender"`
	Amount cw.Uint128      `json:"amount"`
	Msg    json.RawMessage `json:"msg"`
}

// ReceiveHook wraps ReceiveMsg for receiving contracts' execute enums.
type ReceiveHook struct {
	Receive *ReceiveMsg `json:"receive,omitempty"`
}

type QueryMsg struct {
	Balance   *BalanceQuery `json:"balance,omitempty"`
	TokenInfo *struct{}     `json:"token_info,omitempty"`
	Minter    *struct{}     `json:"minter,omitempty"`
}

type BalanceQuery struct {
	Address cw.Addr `json:"address"`
}

type BalanceResponse struct {
	Balance cw.Uint128 `json:"balance"`
}

type TokenInfoResponse struct {
	Name        string     `json:"name"`
	Symbol      string     `json:"symbol"`
	Decimals    uint8      `json:"decimals"`
	TotalSupply cw.Uint128 `json:"total_supply"`
}

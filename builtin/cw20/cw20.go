// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cw20 implements a fungible token contract with send-with-hook.
package cw20

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

type tokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply cw.Uint128
	Minter      *MinterResponse `rlp:"nil"`
}

var (
	tokenInfoItem = storage.NewItem[*tokenInfo]("token_info")
	balances      = storage.NewMap[cw.Addr, cw.Uint128]("balance")
)

// Token is the cw20 contract code.
type Token struct{}

var _ runtime.Contract = Token{}

func (Token) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid instantiate msg: %v", err)
	}
	if msg.Symbol == "" {
		return nil, reverts.InvalidInputf("symbol is required")
	}
	supply := cw.Uint128{}
	for _, b := range msg.InitialBalances {
		if _, err := deps.API.AddrValidate(b.Address.String()); err != nil {
			return nil, reverts.InvalidInputf("invalid address: %v", err)
		}
		var err error
		if supply, err = supply.Add(b.Amount); err != nil {
			return nil, reverts.Math(err)
		}
		if err := credit(deps.Storage, b.Address, b.Amount); err != nil {
			return nil, err
		}
	}
	if msg.Mint != nil && msg.Mint.Cap != nil {
		if msg.Mint.Cap.IsZero() {
			return nil, reverts.InvalidInputf("minter cap must be greater than 0")
		}
		if supply.Gt(*msg.Mint.Cap) {
			return nil, reverts.InvalidInputf("initial supply greater than cap")
		}
	}
	t := &tokenInfo{Name: msg.Name, Symbol: msg.Symbol, Decimals: msg.Decimals, TotalSupply: supply, Minter: msg.Mint}
	if err := tokenInfoItem.Save(deps.Storage, t); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "instantiate").AddAttribute("symbol", msg.Symbol), nil
}

func (Token) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid execute msg: %v", err)
	}
	switch {
	case msg.Transfer != nil:
		if err := move(deps.Storage, info.Sender, msg.Transfer.Recipient, msg.Transfer.Amount); err != nil {
			return nil, err
		}
		return cw.NewResponse().
			AddAttribute("action", "transfer").
			AddAttribute("from", info.Sender.String()).
			AddAttribute("to", msg.Transfer.Recipient.String()).
			AddAttribute("amount", msg.Transfer.Amount.String()), nil
	case msg.Send != nil:
		if err := move(deps.Storage, info.Sender, msg.Send.Contract, msg.Send.Amount); err != nil {
			return nil, err
		}
		hook, err := cw.NewWasmExecute(msg.Send.Contract, ReceiveHook{Receive: &ReceiveMsg{
			Sender: info.Sender,
			Amount: msg.Send.Amount,
			Msg:    msg.Send.Msg,
		}})
		if err != nil {
			return nil, err
		}
		return cw.NewResponse().
			AddMessage(hook).
			AddAttribute("action", "send").
			AddAttribute("from", info.Sender.String()).
			AddAttribute("to", msg.Send.Contract.String()).
			AddAttribute("amount", msg.Send.Amount.String()), nil
	case msg.Burn != nil:
		return burn(deps.Storage, info.Sender, msg.Burn.Amount)
	case msg.Mint != nil:
		return mint(deps, info.Sender, msg.Mint)
	case msg.UpdateMinter != nil:
		return updateMinter(deps.Storage, info.Sender, msg.UpdateMinter.NewMinter)
	}
	return nil, reverts.InvalidInputf("unknown execute msg")
}

func (Token) Query(deps cw.Deps, env cw.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid query msg: %v", err)
	}
	switch {
	case msg.Balance != nil:
		bal, err := balances.Get(deps.Storage, msg.Balance.Address)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(BalanceResponse{Balance: bal})
	case msg.TokenInfo != nil:
		t, err := tokenInfoItem.Load(deps.Storage)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(TokenInfoResponse{Name: t.Name, Symbol: t.Symbol, Decimals: t.Decimals, TotalSupply: t.TotalSupply})
	case msg.Minter != nil:
		t, err := tokenInfoItem.Load(deps.Storage)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(t.Minter)
	}
	return nil, reverts.InvalidInputf("unknown query msg")
}

func credit(s cw.Storage, addr cw.Addr, amount cw.Uint128) error {
	bal, err := balances.Get(s, addr)
	if err != nil {
		return err
	}
	if bal, err = bal.Add(amount); err != nil {
		return reverts.Math(err)
	}
	return balances.Set(s, addr, bal)
}

func debit(s cw.Storage, addr cw.Addr, amount cw.Uint128) error {
	bal, err := balances.Get(s, addr)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.Invariantf("insufficient balance: %s has %s, needs %s", addr, bal, amount)
	}
	bal, err = bal.Sub(amount)
	if err != nil {
		return reverts.Math(err)
	}
	if bal.IsZero() {
		return balances.Remove(s, addr)
	}
	return balances.Set(s, addr, bal)
}

func move(s cw.Storage, from, to cw.Addr, amount cw.Uint128) error {
	if amount.IsZero() {
		return reverts.InvalidInputf("invalid zero amount")
	}
	if err := debit(s, from, amount); err != nil {
		return err
	}
	return credit(s, to, amount)
}

func burn(s cw.Storage, sender cw.Addr, amount cw.Uint128) (*cw.Response, error) {
	if amount.IsZero() {
		return nil, reverts.InvalidInputf("invalid zero amount")
	}
	if err := debit(s, sender, amount); err != nil {
		return nil, err
	}
	t, err := tokenInfoItem.Load(s)
	if err != nil {
		return nil, err
	}
	if t.TotalSupply, err = t.TotalSupply.Sub(amount); err != nil {
		return nil, reverts.Math(err)
	}
	if err := tokenInfoItem.Save(s, t); err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddAttribute("action", "burn").
		AddAttribute("from", sender.String()).
		AddAttribute("amount", amount.String()), nil
}

func mint(deps cw.Deps, sender cw.Addr, msg *MintMsg) (*cw.Response, error) {
	if msg.Amount.IsZero() {
		return nil, reverts.InvalidInputf("invalid zero amount")
	}
	t, err := tokenInfoItem.Load(deps.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "load token info")
	}
	if t.Minter == nil || t.Minter.Minter != sender {
		return nil, reverts.Unauthorizedf("unauthorized")
	}
	if t.TotalSupply, err = t.TotalSupply.Add(msg.Amount); err != nil {
		return nil, reverts.Math(err)
	}
	if t.Minter.Cap != nil && t.TotalSupply.Gt(*t.Minter.Cap) {
		return nil, reverts.Invariantf("minting cannot exceed the cap")
	}
	if err := tokenInfoItem.Save(deps.Storage, t); err != nil {
		return nil, err
	}
	if err := credit(deps.Storage, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddAttribute("action", "mint").
		AddAttribute("to", msg.Recipient.String()).
		AddAttribute("amount", msg.Amount.String()), nil
}

func updateMinter(s cw.Storage, sender cw.Addr, newMinter *cw.Addr) (*cw.Response, error) {
	t, err := tokenInfoItem.Load(s)
	if err != nil {
		return nil, err
	}
	if t.Minter == nil || t.Minter.Minter != sender {
		return nil, reverts.Unauthorizedf("unauthorized")
	}
	if newMinter == nil {
		t.Minter = nil
	} else {
		t.Minter.Minter = *newMinter
	}
	if err := tokenInfoItem.Save(s, t); err != nil {
		return nil, err
	}
	minter := "none"
	if newMinter != nil {
		minter = newMinter.String()
	}
	return cw.NewResponse().AddAttribute("action", "update_minter").AddAttribute("new_minter", minter), nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw20

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Balance returns the cw20 balance of addr in token.
func Balance(q cw.Querier, token, addr cw.Addr) (cw.Uint128, error) {
	res, err := cw.QuerySmart[BalanceResponse](q, token, QueryMsg{Balance: &BalanceQuery{Address: addr}})
	if err != nil {
		return cw.Uint128{}, err
	}
	return res.Balance, nil
}

// AssetBalance returns the balance of addr in either a native denom or a cw20 token.
func AssetBalance(q cw.Querier, info cw.AssetInfo, addr cw.Addr) (cw.Uint128, error) {
	if info.IsNative() {
		c, err := q.QueryBalance(addr, info.Denom)
		if err != nil {
			return cw.Uint128{}, errors.Wrapf(err, "query %s balance", info.Denom)
		}
		return c.Amount, nil
	}
	return Balance(q, info.ContractAddr, addr)
}

// Transfer builds a transfer of amount token to recipient.
func Transfer(token, recipient cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error) {
	return cw.NewWasmExecute(token, ExecuteMsg{Transfer: &TransferMsg{Recipient: recipient, Amount: amount}})
}

// Send builds a send of amount token to contract carrying hook as the receive msg.
func Send(token, contract cw.Addr, amount cw.Uint128, hook any) (cw.CosmosMsg, error) {
	raw, err := json.Marshal(hook)
	if err != nil {
		return cw.CosmosMsg{}, errors.Wrap(err, "marshal hook msg")
	}
	return cw.NewWasmExecute(token, ExecuteMsg{Send: &SendMsg{Contract: contract, Amount: amount, Msg: raw}})
}

// TransferAsset builds a bank send or a cw20 transfer depending on the asset kind.
func TransferAsset(asset cw.Asset, recipient cw.Addr) (cw.CosmosMsg, error) {
	if asset.Info.IsNative() {
		return cw.NewBankSend(recipient, cw.Coin{Denom: asset.Info.Denom, Amount: asset.Amount}), nil
	}
	return Transfer(asset.Info.ContractAddr, recipient, asset.Amount)
}

// ParseHook decodes a receive msg's payload.
func ParseHook(msg *ReceiveMsg, out any) error {
	if err := json.Unmarshal(msg.Msg, out); err != nil {
		return errors.Wrap(err, "invalid hook msg")
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pair

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// InstantiateMsg configures a pair over two native denoms. LiquidityToken must
// be a cw20 whose minter is handed over to the pair after instantiation.
type InstantiateMsg struct {
	AssetInfos     []cw.AssetInfo `json:"asset_infos"`
	LiquidityToken cw.Addr        `json:"liquidity_token"`
	Incentives     *cw.Addr       `json:"incentives,omitempty"`
}

type ExecuteMsg struct {
	ProvideLiquidity *ProvideLiquidityMsg `json:"provide_liquidity,omitempty"`
	Receive          *cw20.ReceiveMsg     `json:"receive,omitempty"`
}

type ProvideLiquidityMsg struct {
	Assets            []cw.Asset  `json:"assets"`
	SlippageTolerance *cw.Decimal `json:"slippage_tolerance,omitempty"`
	AutoStake         *bool       `json:"auto_stake,omitempty"`
	Receiver          *cw.Addr    `json:"receiver,omitempty"`
}

// HookMsg is carried by a cw20 send of LP tokens to the pair.
type HookMsg struct {
	WithdrawLiquidity *struct{} `json:"withdraw_liquidity,omitempty"`
}

type QueryMsg struct {
	Pool  *struct{}   `json:"pool,omitempty"`
	Pair  *struct{}   `json:"pair,omitempty"`
	Share *ShareQuery `json:"share,omitempty"`
}

type ShareQuery struct {
	Amount cw.Uint128 `json:"amount"`
}

type PoolResponse struct {
	Assets     []cw.Asset `json:"assets"`
	TotalShare cw.Uint128 `json:"total_share"`
}

type PairInfo struct {
	AssetInfos     []cw.AssetInfo `json:"asset_infos"`
	ContractAddr   cw.Addr        `json:"contract_addr"`
	LiquidityToken cw.Addr        `json:"liquidity_token"`
}

// QueryPair returns the pair info of contract.
func QueryPair(q cw.Querier, contract cw.Addr) (PairInfo, error) {
	return cw.QuerySmart[PairInfo](q, contract, QueryMsg{Pair: &struct{}{}})
}

// WithdrawLiquidity builds the cw20 send that returns amount of LP to the pair.
func WithdrawLiquidity(lpToken, pair cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error) {
	return cw20.Send(lpToken, pair, amount, HookMsg{WithdrawLiquidity: &struct{}{}})
}

// ProvideLiquidity builds a provide call funded with the native assets.
func ProvideLiquidity(pair cw.Addr, msg ProvideLiquidityMsg) (cw.CosmosMsg, error) {
	funds := make([]cw.Coin, 0, len(msg.Assets))
	for _, a := range msg.Assets {
		if !a.Info.IsNative() || a.Amount.IsZero() {
			continue
		}
		funds = append(funds, cw.Coin{Denom: a.Info.Denom, Amount: a.Amount})
	}
	return cw.NewWasmExecute(pair, ExecuteMsg{ProvideLiquidity: &msg}, funds...)
}

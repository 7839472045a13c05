// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pair implements a constant product pool over two native denoms.
// Shares are a cw20 token minted by the pair.
package pair

import (
	"encoding/json"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

var logger = log.WithContext("pkg", "pair")

type config struct {
	Denoms         []string
	LiquidityToken cw.Addr
	Incentives     *cw.Addr `rlp:"nil"`
}

var configItem = storage.NewItem[*config]("config")

// maxSlippage bounds the tolerance a provider may ask for.
var maxSlippage = cw.MustParseDecimal("0.5")

// Pair is the pair contract code.
type Pair struct{}

var _ runtime.Contract = Pair{}

func (Pair) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid instantiate msg: %v", err)
	}
	if len(msg.AssetInfos) != 2 {
		return nil, reverts.InvalidInputf("pair needs exactly two assets")
	}
	c := &config{LiquidityToken: msg.LiquidityToken, Incentives: msg.Incentives}
	for _, a := range msg.AssetInfos {
		if !a.IsNative() {
			return nil, reverts.InvalidInputf("only native assets are supported, got %s", a)
		}
		c.Denoms = append(c.Denoms, a.Denom)
	}
	if c.Denoms[0] == c.Denoms[1] {
		return nil, reverts.InvalidInputf("doubling assets in asset infos")
	}
	if _, err := deps.API.AddrValidate(msg.LiquidityToken.String()); err != nil {
		return nil, reverts.InvalidInputf("invalid liquidity token: %v", err)
	}
	if err := configItem.Save(deps.Storage, c); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "instantiate").AddAttribute("pair", c.Denoms[0]+"-"+c.Denoms[1]), nil
}

func (Pair) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid execute msg: %v", err)
	}
	c, err := configItem.Load(deps.Storage)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.ProvideLiquidity != nil:
		return provide(deps, env, info, c, msg.ProvideLiquidity)
	case msg.Receive != nil:
		if info.Sender != c.LiquidityToken {
			return nil, reverts.Unauthorizedf("unauthorized")
		}
		var hook HookMsg
		if err := cw20.ParseHook(msg.Receive, &hook); err != nil || hook.WithdrawLiquidity == nil {
			return nil, reverts.InvalidInputf("unknown hook msg")
		}
		return withdraw(deps, env, c, msg.Receive.Sender, msg.Receive.Amount)
	}
	return nil, reverts.InvalidInputf("unknown execute msg")
}

func (Pair) Query(deps cw.Deps, env cw.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid query msg: %v", err)
	}
	c, err := configItem.Load(deps.Storage)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.Pair != nil:
		return cw.ToJSON(PairInfo{
			AssetInfos:     c.assetInfos(),
			ContractAddr:   env.Contract.Address,
			LiquidityToken: c.LiquidityToken,
		})
	case msg.Pool != nil:
		pools, total, err := reserves(deps, env, c)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(PoolResponse{Assets: c.assets(pools), TotalShare: total})
	case msg.Share != nil:
		pools, total, err := reserves(deps, env, c)
		if err != nil {
			return nil, err
		}
		refund, err := refundAmounts(pools, total, msg.Share.Amount)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(c.assets(refund))
	}
	return nil, reverts.InvalidInputf("unknown query msg")
}

func (c *config) assetInfos() []cw.AssetInfo {
	out := make([]cw.AssetInfo, len(c.Denoms))
	for i, d := range c.Denoms {
		out[i] = cw.NativeAsset(d)
	}
	return out
}

func (c *config) assets(amounts [2]cw.Uint128) []cw.Asset {
	out := make([]cw.Asset, len(c.Denoms))
	for i, d := range c.Denoms {
		out[i] = cw.Asset{Info: cw.NativeAsset(d), Amount: amounts[i]}
	}
	return out
}

func totalShare(deps cw.Deps, c *config) (cw.Uint128, error) {
	res, err := cw.QuerySmart[cw20.TokenInfoResponse](deps.Querier, c.LiquidityToken, cw20.QueryMsg{TokenInfo: &struct{}{}})
	if err != nil {
		return cw.Uint128{}, err
	}
	return res.TotalSupply, nil
}

// reserves returns the pool balances held by the pair and the LP supply.
func reserves(deps cw.Deps, env cw.Env, c *config) (pools [2]cw.Uint128, total cw.Uint128, err error) {
	for i, d := range c.Denoms {
		coin, err := deps.Querier.QueryBalance(env.Contract.Address, d)
		if err != nil {
			return pools, total, err
		}
		pools[i] = coin.Amount
	}
	total, err = totalShare(deps, c)
	return pools, total, err
}

func refundAmounts(pools [2]cw.Uint128, total, amount cw.Uint128) (out [2]cw.Uint128, err error) {
	if total.IsZero() {
		return out, nil
	}
	for i := range pools {
		if out[i], err = pools[i].MulDiv(amount, total); err != nil {
			return out, reverts.Math(err)
		}
	}
	return out, nil
}

func provide(deps cw.Deps, env cw.Env, info cw.MessageInfo, c *config, msg *ProvideLiquidityMsg) (*cw.Response, error) {
	var deposits [2]cw.Uint128
	for _, a := range msg.Assets {
		i := -1
		for j, d := range c.Denoms {
			if a.Info.IsNative() && a.Info.Denom == d {
				i = j
			}
		}
		if i < 0 {
			return nil, reverts.InvalidInputf("asset %s is not in the pool", a.Info)
		}
		deposits[i] = a.Amount
	}
	for _, coin := range info.Funds {
		if coin.Denom != c.Denoms[0] && coin.Denom != c.Denoms[1] {
			return nil, reverts.InvalidInputf("unexpected funds %s", coin)
		}
	}
	for i, d := range c.Denoms {
		if !info.Funds.AmountOf(d).Eq(deposits[i]) {
			return nil, reverts.InvalidInputf("native token balance mismatch between the argument and the transferred")
		}
	}

	balances, total, err := reserves(deps, env, c)
	if err != nil {
		return nil, err
	}
	// funds are credited before execution, so reserves include the deposit
	var pools [2]cw.Uint128
	for i := range balances {
		if pools[i], err = balances[i].Sub(deposits[i]); err != nil {
			return nil, reverts.Math(err)
		}
	}

	var share cw.Uint128
	if total.IsZero() {
		if deposits[0].IsZero() || deposits[1].IsZero() {
			return nil, reverts.InvalidInputf("both assets are required for the initial provide")
		}
		prod, err := deposits[0].Uint256().Mul(deposits[1].Uint256())
		if err != nil {
			return nil, reverts.Math(err)
		}
		if share, err = prod.Sqrt().Uint128(); err != nil {
			return nil, reverts.Math(err)
		}
	} else {
		if err := assertSlippage(msg.SlippageTolerance, deposits, pools); err != nil {
			return nil, err
		}
		var shares [2]cw.Uint128
		for i := range deposits {
			if pools[i].IsZero() {
				return nil, reverts.Invariantf("pool %s is empty", c.Denoms[i])
			}
			if shares[i], err = deposits[i].MulDiv(total, pools[i]); err != nil {
				return nil, reverts.Math(err)
			}
		}
		share = shares[0].Min(shares[1])
	}
	if share.IsZero() {
		return nil, reverts.InvalidInputf("insufficient amount of liquidity")
	}

	receiver := info.Sender
	if msg.Receiver != nil {
		receiver = *msg.Receiver
	}
	resp := cw.NewResponse()
	autoStake := msg.AutoStake != nil && *msg.AutoStake
	if autoStake {
		if c.Incentives == nil {
			return nil, reverts.InvalidInputf("auto stake is not available")
		}
		mint, err := cw.NewWasmExecute(c.LiquidityToken, cw20.ExecuteMsg{Mint: &cw20.MintMsg{Recipient: env.Contract.Address, Amount: share}})
		if err != nil {
			return nil, err
		}
		stake, err := incentives.Deposit(c.LiquidityToken, *c.Incentives, share, &receiver)
		if err != nil {
			return nil, err
		}
		resp.AddMessage(mint, stake)
	} else {
		mint, err := cw.NewWasmExecute(c.LiquidityToken, cw20.ExecuteMsg{Mint: &cw20.MintMsg{Recipient: receiver, Amount: share}})
		if err != nil {
			return nil, err
		}
		resp.AddMessage(mint)
	}
	logger.Debug("provide liquidity", "pair", env.Contract.Address, "receiver", receiver, "share", share, "auto_stake", autoStake)
	return resp.
		AddAttribute("action", "provide_liquidity").
		AddAttribute("sender", info.Sender.String()).
		AddAttribute("receiver", receiver.String()).
		AddAttribute("assets", deposits[0].String()+c.Denoms[0]+", "+deposits[1].String()+c.Denoms[1]).
		AddAttribute("share", share.String()), nil
}

// assertSlippage rejects deposits whose ratio deviates from the pool ratio by
// more than the tolerance.
func assertSlippage(tolerance *cw.Decimal, deposits, pools [2]cw.Uint128) error {
	if tolerance == nil {
		return nil
	}
	if tolerance.Cmp(maxSlippage) > 0 {
		return reverts.InvalidInputf("slippage tolerance must be less than or equal to %s", maxSlippage)
	}
	oneMinus, err := cw.DecimalOne().Sub(*tolerance)
	if err != nil {
		return reverts.Math(err)
	}
	lhs, err := deposits[0].Uint256().Mul(pools[1].Uint256())
	if err != nil {
		return reverts.Math(err)
	}
	rhs, err := deposits[1].Uint256().Mul(pools[0].Uint256())
	if err != nil {
		return reverts.Math(err)
	}
	lhsMin, err := oneMinus.MulUint256(lhs)
	if err != nil {
		return reverts.Math(err)
	}
	rhsMin, err := oneMinus.MulUint256(rhs)
	if err != nil {
		return reverts.Math(err)
	}
	if rhs.Lt(lhsMin) || lhs.Lt(rhsMin) {
		return reverts.Invariantf("operation exceeds max slippage tolerance")
	}
	return nil
}

func withdraw(deps cw.Deps, env cw.Env, c *config, sender cw.Addr, amount cw.Uint128) (*cw.Response, error) {
	pools, total, err := reserves(deps, env, c)
	if err != nil {
		return nil, err
	}
	refund, err := refundAmounts(pools, total, amount)
	if err != nil {
		return nil, err
	}
	var coins cw.Coins
	for i, d := range c.Denoms {
		if !refund[i].IsZero() {
			coins = append(coins, cw.Coin{Denom: d, Amount: refund[i]})
		}
	}
	burn, err := cw.NewWasmExecute(c.LiquidityToken, cw20.ExecuteMsg{Burn: &cw20.BurnMsg{Amount: amount}})
	if err != nil {
		return nil, err
	}
	resp := cw.NewResponse()
	if len(coins) > 0 {
		resp.AddMessage(cw.NewBankSend(sender, coins...))
	}
	logger.Debug("withdraw liquidity", "pair", env.Contract.Address, "sender", sender, "share", amount)
	return resp.AddMessage(burn).
		AddAttribute("action", "withdraw_liquidity").
		AddAttribute("sender", sender.String()).
		AddAttribute("withdrawn_share", amount.String()).
		AddAttribute("refund_assets", refund[0].String()+c.Denoms[0]+", "+refund[1].String()+c.Denoms[1]), nil
}

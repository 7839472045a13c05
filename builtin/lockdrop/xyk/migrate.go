// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyk

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// migrateLiquidity moves all liquidity of a pool to destination. It runs as
// three steps: withdraw from the source pair, provide to the destination pair
// and record what was minted.
func migrateLiquidity(e *lockdrop.Engine, info cw.MessageInfo, msg *MigrateLiquidityMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := lockdrop.RequireOwner(cfg, info.Sender); err != nil {
		return nil, err
	}
	if e.Now() < cfg.WindowsEnd() {
		return nil, reverts.Phasef("liquidity can be migrated once the lockdrop ends")
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	if p.Migration != nil {
		return nil, reverts.Invariantf("liquidity already migrated")
	}
	if p.AmountInLockups.IsZero() {
		return nil, reverts.Invariantf("no liquidity to migrate")
	}
	src, err := pair.QueryPair(e.Deps().Querier, p.Pair)
	if err != nil {
		return nil, err
	}
	prev, err := e.SnapshotBalances(src.AssetInfos)
	if err != nil {
		return nil, err
	}
	amount, err := cw20.Balance(e.Deps().Querier, p.LPToken, e.Self())
	if err != nil {
		return nil, err
	}
	withdraw, err := pair.WithdrawLiquidity(p.LPToken, p.Pair, amount)
	if err != nil {
		return nil, err
	}
	next, err := e.Callback(CallbackMsg{MigrateLiquidityCallback: &MigrateLiquidityCallbackMsg{
		Pool:              msg.Pool,
		DestinationPair:   msg.DestinationPair,
		PrevBalances:      prev,
		SlippageTolerance: msg.SlippageTolerance,
	}})
	if err != nil {
		return nil, err
	}
	logger.Info("migrating pool liquidity", "pool", msg.Pool, "lp", amount, "destination", msg.DestinationPair)
	return cw.NewResponse().
		AddMessage(withdraw, next).
		AddAttribute("action", "migrate_liquidity").
		AddAttribute("pool", msg.Pool).
		AddAttribute("amount", amount.String()), nil
}

func migrateLiquidityCallback(e *lockdrop.Engine, msg *MigrateLiquidityCallbackMsg) (*cw.Response, error) {
	received, err := e.BalanceDiffs(msg.PrevBalances)
	if err != nil {
		return nil, err
	}
	dst, err := pair.QueryPair(e.Deps().Querier, msg.DestinationPair)
	if err != nil {
		return nil, err
	}
	assets := make([]cw.Asset, 0, len(dst.AssetInfos))
	for _, info := range dst.AssetInfos {
		a := cw.Asset{Info: info}
		for _, r := range received {
			if r.Info == info {
				a.Amount = r.Amount
			}
		}
		assets = append(assets, a)
	}
	prevLP, err := cw20.Balance(e.Deps().Querier, dst.LiquidityToken, e.Self())
	if err != nil {
		return nil, err
	}
	provide, err := pair.ProvideLiquidity(msg.DestinationPair, pair.ProvideLiquidityMsg{
		Assets:            assets,
		SlippageTolerance: msg.SlippageTolerance,
	})
	if err != nil {
		return nil, err
	}
	settle, err := e.Callback(CallbackMsg{SettleLiquidityMigrationCallback: &SettleLiquidityMigrationMsg{
		Pool:            msg.Pool,
		DestinationPair: msg.DestinationPair,
		LPToken:         dst.LiquidityToken,
		PrevLPBalance:   prevLP,
	}})
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(provide, settle).
		AddAttribute("action", "migrate_liquidity_callback").
		AddAttribute("pool", msg.Pool), nil
}

func settleLiquidityMigration(e *lockdrop.Engine, msg *SettleLiquidityMigrationMsg) (*cw.Response, error) {
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	bal, err := cw20.Balance(e.Deps().Querier, msg.LPToken, e.Self())
	if err != nil {
		return nil, err
	}
	minted, err := bal.Sub(msg.PrevLPBalance)
	if err != nil {
		return nil, reverts.Math(err)
	}
	p.Migration = &lockdrop.MigrationInfo{
		Pair:       msg.DestinationPair,
		LPToken:    msg.LPToken,
		MigratedLP: minted,
		LockedLP:   p.AmountInLockups,
	}
	if err := e.SavePool(msg.Pool, p); err != nil {
		return nil, err
	}
	logger.Info("pool liquidity migrated", "pool", msg.Pool, "lp_token", msg.LPToken, "minted", minted, "locked", p.AmountInLockups)
	return cw.NewResponse().
		AddAttribute("action", "settle_liquidity_migration").
		AddAttribute("pool", msg.Pool).
		AddAttribute("migrated_lp", minted.String()), nil
}

func stakeLPTokens(e *lockdrop.Engine, info cw.MessageInfo, msg *PoolMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := lockdrop.RequireOwner(cfg, info.Sender); err != nil {
		return nil, err
	}
	if cfg.Incentives == nil {
		return nil, reverts.InvalidInputf("generator is not set")
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	if p.Migration == nil {
		return nil, reverts.Invariantf("pool liquidity is not migrated")
	}
	if p.IsStaked {
		return nil, reverts.Invariantf("pool is already staked")
	}
	amount, err := cw20.Balance(e.Deps().Querier, p.Migration.LPToken, e.Self())
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, reverts.Invariantf("no LP tokens to stake")
	}
	deposit, err := incentives.Deposit(p.Migration.LPToken, *cfg.Incentives, amount, nil)
	if err != nil {
		return nil, err
	}
	p.IsStaked = true
	if err := e.SavePool(msg.Pool, p); err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(deposit).
		AddAttribute("action", "stake_lp_tokens").
		AddAttribute("pool", msg.Pool).
		AddAttribute("amount", amount.String()), nil
}

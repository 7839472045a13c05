// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pcl implements the lockdrop for concentrated liquidity pools. It
// takes no deposits of its own and only receives lockups migrated from the
// XYK lockdrop.
package pcl

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

var logger = log.WithContext("pkg", "pcl")

// Variant is the concentrated liquidity flavour of the lockdrop engine.
type Variant struct{}

var _ lockdrop.Variant = Variant{}

func (Variant) Name() string { return "pcl" }

func coefficient(cfg *lockdrop.Config, duration uint64) (cw.Decimal, bool) {
	for _, r := range cfg.LockupRewards {
		if r.Duration == duration {
			return r.Coefficient, true
		}
	}
	return cw.Decimal{}, false
}

func (Variant) ValidateDuration(cfg *lockdrop.Config, duration uint64) error {
	if _, ok := coefficient(cfg, duration); !ok {
		return reverts.InvalidInputf("invalid duration")
	}
	return nil
}

// Weight is amount * (1 + coefficient of duration).
func (Variant) Weight(cfg *lockdrop.Config, amount cw.Uint128, duration uint64) (cw.Uint256, error) {
	c, ok := coefficient(cfg, duration)
	if !ok {
		return cw.Uint256{}, reverts.InvalidInputf("invalid duration")
	}
	factor, err := cw.DecimalOne().Add(c)
	if err != nil {
		return cw.Uint256{}, reverts.Math(err)
	}
	w, err := factor.MulUint256(amount.Uint256())
	if err != nil {
		return cw.Uint256{}, reverts.Math(err)
	}
	return w, nil
}

func (Variant) ClaimRewardsMsg(venue, lpToken cw.Addr) (cw.CosmosMsg, error) {
	return incentives.ClaimRewards(venue, lpToken)
}

func (Variant) UnstakeMsg(venue, lpToken cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error) {
	return incentives.Withdraw(venue, lpToken, amount)
}

// Lockdrop is the PCL lockdrop contract code.
type Lockdrop struct{}

var _ runtime.Contract = Lockdrop{}

func validateRewards(rs []lockdrop.DurationCoefficient) ([]lockdrop.DurationCoefficient, error) {
	if len(rs) == 0 {
		return nil, reverts.InvalidInputf("lockup_rewards_info can't be empty")
	}
	out := append([]lockdrop.DurationCoefficient(nil), rs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Duration < out[j].Duration })
	for i := 1; i < len(out); i++ {
		if out[i].Duration == out[i-1].Duration {
			return nil, reverts.InvalidInputf("duplicate duration %d in lockup_rewards_info", out[i].Duration)
		}
		if out[i].Coefficient.Cmp(out[i-1].Coefficient) <= 0 {
			return nil, reverts.InvalidInputf("coefficients must grow with the duration")
		}
	}
	return out, nil
}

func (Lockdrop) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg InstantiateMsg
	if err := lockdrop.ParseMsg(raw, &msg); err != nil {
		return nil, err
	}
	if msg.MaxPositionsPerUser == 0 {
		return nil, reverts.InvalidInputf("max_positions_per_user should be greater than 0")
	}
	rewards, err := validateRewards(msg.LockupRewards)
	if err != nil {
		return nil, err
	}
	xyk, venue := msg.XYKLockdrop, msg.Incentives
	cfg := &lockdrop.Config{
		Owner:               info.Sender,
		Incentives:          &venue,
		AuctionContract:     msg.AuctionContract,
		CreditsContract:     msg.CreditsContract,
		XYKLockdrop:         &xyk,
		InitTimestamp:       msg.InitTimestamp,
		DepositWindow:       msg.DepositWindow,
		WithdrawalWindow:    msg.WithdrawalWindow,
		MinLockDuration:     rewards[0].Duration,
		MaxLockDuration:     rewards[len(rewards)-1].Duration,
		MaxPositionsPerUser: msg.MaxPositionsPerUser,
		LockupRewards:       rewards,
	}
	if msg.Owner != nil {
		cfg.Owner = *msg.Owner
	}
	e := lockdrop.New(Variant{}, deps, env)
	if err := e.SaveConfig(cfg); err != nil {
		return nil, err
	}
	if err := e.SaveState(&lockdrop.State{AreClaimsAllowed: true}); err != nil {
		return nil, err
	}
	for _, pi := range msg.Pools {
		p := &lockdrop.Pool{
			Pair:            pi.Pair,
			LPToken:         pi.LPToken,
			IncentivesShare: pi.IncentivesShare,
			IsStaked:        true,
		}
		if err := e.AddPool(pi.Pool, p); err != nil {
			return nil, err
		}
	}
	logger.Info("lockdrop instantiated", "owner", cfg.Owner, "xyk", xyk, "pools", len(msg.Pools))
	return cw.NewResponse().AddAttribute("action", "instantiate").AddAttribute("owner", cfg.Owner.String()), nil
}

func (Lockdrop) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg ExecuteMsg
	if err := lockdrop.ParseMsg(raw, &msg); err != nil {
		return nil, err
	}
	e := lockdrop.New(Variant{}, deps, env)
	if resp, ok, err := e.HandleOwnership(info.Sender, &msg.OwnershipMsg); ok {
		return resp, err
	}
	switch {
	case msg.MigrateXYKLiquidity != nil:
		return migrateXYKLiquidity(e, info, msg.MigrateXYKLiquidity)
	case msg.ClaimRewardsAndOptionallyUnlock != nil:
		return e.ClaimRewards(info.Sender, msg.ClaimRewardsAndOptionallyUnlock)
	case msg.UpdateConfig != nil:
		return updateConfig(e, info, &msg.UpdateConfig.NewConfig)
	case msg.Callback != nil:
		if info.Sender != env.Contract.Address {
			return nil, reverts.Unauthorizedf("callbacks cannot be invoked externally")
		}
		if resp, ok, err := e.Dispatch(&msg.Callback.CallbackMsg); ok {
			return resp, err
		}
		if msg.Callback.FinishLockupMigrationCallback != nil {
			return finishLockupMigration(e, msg.Callback.FinishLockupMigrationCallback)
		}
		return nil, reverts.InvalidInputf("unknown callback msg")
	}
	return nil, reverts.InvalidInputf("unknown execute msg")
}

func (Lockdrop) Query(deps cw.Deps, env cw.Env, raw []byte) ([]byte, error) {
	var msg lockdrop.QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid query msg: %v", err)
	}
	out, ok, err := lockdrop.New(Variant{}, deps, env).Query(&msg)
	if !ok {
		return nil, reverts.InvalidInputf("unknown query msg")
	}
	return out, err
}

func updateConfig(e *lockdrop.Engine, info cw.MessageInfo, nc *NewConfig) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := lockdrop.RequireOwner(cfg, info.Sender); err != nil {
		return nil, err
	}
	if nc.Generator != nil {
		_, ps, err := e.Pools()
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			if !p.AmountInLockups.IsZero() {
				return nil, reverts.Invariantf("generator cannot be changed while pools hold liquidity")
			}
		}
		cfg.Incentives = nc.Generator
	}
	if err := e.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "update_config"), nil
}

// migrateXYKLiquidity provides the attached assets to the pool, staking the
// minted LP, and credits the lockup once the stake is visible.
func migrateXYKLiquidity(e *lockdrop.Engine, info cw.MessageInfo, msg *MigrateXYKLiquidityMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if cfg.XYKLockdrop == nil || info.Sender != *cfg.XYKLockdrop {
		return nil, reverts.Unauthorizedf("only the XYK lockdrop can migrate liquidity")
	}
	if err := e.Variant().ValidateDuration(cfg, msg.Duration); err != nil {
		return nil, err
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	pi, err := pair.QueryPair(e.Deps().Querier, p.Pair)
	if err != nil {
		return nil, err
	}
	assets := make([]cw.Asset, 0, len(pi.AssetInfos))
	for _, ai := range pi.AssetInfos {
		assets = append(assets, cw.Asset{Info: ai, Amount: info.Funds.AmountOf(ai.Denom)})
	}
	for _, c := range info.Funds {
		found := false
		for _, ai := range pi.AssetInfos {
			found = found || ai.Denom == c.Denom
		}
		if !found {
			return nil, reverts.InvalidInputf("asset %s is not in the pool", c.Denom)
		}
	}
	claims, err := e.ClaimPoolRewards(cfg, msg.Pool, p)
	if err != nil {
		return nil, err
	}
	staked, err := incentives.QueryDeposit(e.Deps().Querier, *cfg.Incentives, p.LPToken, e.Self())
	if err != nil {
		return nil, err
	}
	autoStake, self := true, e.Self()
	provide, err := pair.ProvideLiquidity(p.Pair, pair.ProvideLiquidityMsg{
		Assets:    assets,
		AutoStake: &autoStake,
		Receiver:  &self,
	})
	if err != nil {
		return nil, err
	}
	finish, err := e.Callback(CallbackMsg{FinishLockupMigrationCallback: &FinishLockupMigrationMsg{
		Pool:        msg.Pool,
		UserAddress: msg.UserAddress,
		Duration:    msg.Duration,
		PrevStaked:  staked,
		UserInfo:    msg.UserInfo,
		LockupInfo:  msg.LockupInfo,
	}})
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(claims...).
		AddMessage(provide, finish).
		AddAttribute("action", "migrate_xyk_liquidity").
		AddAttribute("pool", msg.Pool).
		AddAttribute("user", msg.UserAddress.String()), nil
}

func finishLockupMigration(e *lockdrop.Engine, msg *FinishLockupMigrationMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	staked, err := incentives.QueryDeposit(e.Deps().Querier, *cfg.Incentives, p.LPToken, e.Self())
	if err != nil {
		return nil, err
	}
	units, err := staked.Sub(msg.PrevStaked)
	if err != nil {
		return nil, reverts.Math(err)
	}
	if units.IsZero() {
		return nil, reverts.Invariantf("no liquidity was staked for the migrated lockup")
	}
	l, err := e.ImportLockup(cfg, msg.Pool, p, msg.UserAddress, msg.Duration, units, &msg.LockupInfo, &msg.UserInfo)
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddAttribute("action", "finish_lockup_migration").
		AddAttribute("pool", msg.Pool).
		AddAttribute("user", msg.UserAddress.String()).
		AddAttribute("duration", strconv.FormatUint(msg.Duration, 10)).
		AddAttribute("lp_units_locked", l.LPUnitsLocked.String()), nil
}

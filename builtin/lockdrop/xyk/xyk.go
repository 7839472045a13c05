// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xyk implements the lockdrop for constant product pools. Its
// liquidity can be moved to the PCL lockdrop once the lockdrop is over.
package xyk

import (
	"encoding/json"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

var logger = log.WithContext("pkg", "xyk")

// Weight returns amount scaled by the weekly duration bonus
// 1 + (duration-1) * multiplier / divider.
func Weight(amount cw.Uint128, duration, multiplier, divider uint64) (cw.Uint256, error) {
	if duration <= 1 || multiplier == 0 {
		return amount.Uint256(), nil
	}
	num, err := cw.NewUint256(duration - 1).Mul(cw.NewUint256(multiplier))
	if err != nil {
		return cw.Uint256{}, err
	}
	bonus, err := cw.DecimalFromRatio(num, cw.NewUint256(divider))
	if err != nil {
		return cw.Uint256{}, err
	}
	factor, err := cw.DecimalOne().Add(bonus)
	if err != nil {
		return cw.Uint256{}, err
	}
	return factor.MulUint256(amount.Uint256())
}

// Variant is the constant product flavour of the lockdrop engine.
type Variant struct{}

var _ lockdrop.Variant = Variant{}

func (Variant) Name() string { return "xyk" }

func (Variant) ValidateDuration(cfg *lockdrop.Config, duration uint64) error {
	if duration < cfg.MinLockDuration || duration > cfg.MaxLockDuration {
		return reverts.InvalidInputf("lockup duration needs to be between %d and %d", cfg.MinLockDuration, cfg.MaxLockDuration)
	}
	return nil
}

func (Variant) Weight(cfg *lockdrop.Config, amount cw.Uint128, duration uint64) (cw.Uint256, error) {
	w, err := Weight(amount, duration, cfg.WeeklyMultiplier, cfg.WeeklyDivider)
	if err != nil {
		return cw.Uint256{}, reverts.Math(err)
	}
	return w, nil
}

func (Variant) ClaimRewardsMsg(venue, lpToken cw.Addr) (cw.CosmosMsg, error) {
	return incentives.Withdraw(venue, lpToken, cw.Uint128{})
}

func (Variant) UnstakeMsg(venue, lpToken cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error) {
	return incentives.Withdraw(venue, lpToken, amount)
}

// Lockdrop is the XYK lockdrop contract code.
type Lockdrop struct{}

var _ runtime.Contract = Lockdrop{}

func (Lockdrop) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg InstantiateMsg
	if err := lockdrop.ParseMsg(raw, &msg); err != nil {
		return nil, err
	}
	switch {
	case msg.InitTimestamp < env.Block.Time:
		return nil, reverts.InvalidInputf("init_timestamp should be greater than current timestamp")
	case msg.MaxLockDuration < msg.MinLockDuration:
		return nil, reverts.InvalidInputf("max_lock_duration should be greater than min_lock_duration")
	case msg.MinLockDuration == 0:
		return nil, reverts.InvalidInputf("min_lock_duration should be greater than 0")
	case msg.WeeklyDivider == 0:
		return nil, reverts.InvalidInputf("weekly_divider should be greater than 0")
	case msg.MaxPositionsPerUser == 0:
		return nil, reverts.InvalidInputf("max_positions_per_user should be greater than 0")
	case msg.DepositWindow == 0 || msg.WithdrawalWindow == 0:
		return nil, reverts.InvalidInputf("deposit and withdrawal windows should be greater than 0")
	}
	cfg := &lockdrop.Config{
		Owner:               info.Sender,
		AuctionContract:     msg.AuctionContract,
		CreditsContract:     msg.CreditsContract,
		InitTimestamp:       msg.InitTimestamp,
		DepositWindow:       msg.DepositWindow,
		WithdrawalWindow:    msg.WithdrawalWindow,
		MinLockDuration:     msg.MinLockDuration,
		MaxLockDuration:     msg.MaxLockDuration,
		WeeklyMultiplier:    msg.WeeklyMultiplier,
		WeeklyDivider:       msg.WeeklyDivider,
		MaxPositionsPerUser: msg.MaxPositionsPerUser,
	}
	if msg.Owner != nil {
		cfg.Owner = *msg.Owner
	}
	e := lockdrop.New(Variant{}, deps, env)
	if err := e.SaveConfig(cfg); err != nil {
		return nil, err
	}
	if err := e.SaveState(&lockdrop.State{}); err != nil {
		return nil, err
	}
	logger.Info("lockdrop instantiated", "owner", cfg.Owner, "init", cfg.InitTimestamp, "deposit_end", cfg.DepositEnd(), "end", cfg.WindowsEnd())
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
	case msg.Receive != nil:
		return receive(e, info, msg.Receive)
	case msg.UpdateConfig != nil:
		return updateConfig(e, info, &msg.UpdateConfig.NewConfig)
	case msg.InitializePool != nil:
		return initializePool(e, info, msg.InitializePool)
	case msg.UpdatePool != nil:
		return updatePool(e, info, msg.UpdatePool)
	case msg.WithdrawFromLockup != nil:
		return withdrawFromLockup(e, info, msg.WithdrawFromLockup)
	case msg.EnableClaims != nil:
		return enableClaims(e, info)
	case msg.DelegateRewardsToAuction != nil:
		return delegateRewards(e, info, msg.DelegateRewardsToAuction)
	case msg.ClaimRewardsAndOptionallyUnlock != nil:
		return e.ClaimRewards(info.Sender, msg.ClaimRewardsAndOptionallyUnlock)
	case msg.MigrateLiquidity != nil:
		return migrateLiquidity(e, info, msg.MigrateLiquidity)
	case msg.StakeLPTokens != nil:
		return stakeLPTokens(e, info, msg.StakeLPTokens)
	case msg.MigrateToPCL != nil:
		return migrateToPCL(e, info, msg.MigrateToPCL)
	case msg.Callback != nil:
		if info.Sender != env.Contract.Address {
			return nil, reverts.Unauthorizedf("callbacks cannot be invoked externally")
		}
		return callback(e, msg.Callback)
	}
	return nil, reverts.InvalidInputf("unknown execute msg")
}

func callback(e *lockdrop.Engine, msg *CallbackMsg) (*cw.Response, error) {
	if resp, ok, err := e.Dispatch(&msg.CallbackMsg); ok {
		return resp, err
	}
	switch {
	case msg.MigrateLiquidityCallback != nil:
		return migrateLiquidityCallback(e, msg.MigrateLiquidityCallback)
	case msg.SettleLiquidityMigrationCallback != nil:
		return settleLiquidityMigration(e, msg.SettleLiquidityMigrationCallback)
	case msg.MigrateUserLockupToPCLCallback != nil:
		return migrateUserLockup(e, msg.MigrateUserLockupToPCLCallback)
	case msg.FinishMigrationToPCLCallback != nil:
		return finishMigrationToPCL(e, msg.FinishMigrationToPCLCallback)
	}
	return nil, reverts.InvalidInputf("unknown callback msg")
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

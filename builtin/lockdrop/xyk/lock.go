// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyk

import (
	"strconv"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/auction"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

func receive(e *lockdrop.Engine, info cw.MessageInfo, msg *cw20.ReceiveMsg) (*cw.Response, error) {
	if msg.Amount.IsZero() {
		return nil, reverts.InvalidInputf("amount must be greater than 0")
	}
	var hook HookMsg
	if err := cw20.ParseHook(msg, &hook); err != nil {
		return nil, reverts.InvalidInputf("%v", err)
	}
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	switch {
	case hook.IncreaseLockup != nil:
		return increaseLockup(e, cfg, info.Sender, msg.Sender, hook.IncreaseLockup.Duration, msg.Amount)
	case hook.IncreaseIncentives != nil:
		return increaseIncentives(e, cfg, info.Sender, msg.Amount)
	}
	return nil, reverts.InvalidInputf("unknown hook msg")
}

func increaseLockup(e *lockdrop.Engine, cfg *lockdrop.Config, lpToken, user cw.Addr, duration uint64, amount cw.Uint128) (*cw.Response, error) {
	now := e.Now()
	if now < cfg.InitTimestamp {
		return nil, reverts.Phasef("lockdrop has not started yet")
	}
	if now >= cfg.DepositEnd() {
		return nil, reverts.Phasef("deposit window closed")
	}
	poolID, p, err := e.PoolByLPToken(lpToken)
	if err != nil {
		return nil, err
	}
	l, err := e.IncreaseLockup(cfg, poolID, p, user, duration, amount, cfg.UnlockTimestamp(duration))
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddAttribute("action", "increase_lockup_position").
		AddAttribute("pool", poolID).
		AddAttribute("user", user.String()).
		AddAttribute("duration", strconv.FormatUint(duration, 10)).
		AddAttribute("amount", amount.String()).
		AddAttribute("lp_units_locked", l.LPUnitsLocked.String()), nil
}

func increaseIncentives(e *lockdrop.Engine, cfg *lockdrop.Config, token cw.Addr, amount cw.Uint128) (*cw.Response, error) {
	if cfg.RewardToken == nil || token != *cfg.RewardToken {
		return nil, reverts.Unauthorizedf("only the reward token can fund incentives")
	}
	if e.Now() >= cfg.WindowsEnd() {
		return nil, reverts.Phasef("lockdrop incentives can no longer be increased")
	}
	var err error
	if cfg.LockdropIncentives, err = cfg.LockdropIncentives.Add(amount); err != nil {
		return nil, reverts.Math(err)
	}
	if err := e.SaveConfig(cfg); err != nil {
		return nil, err
	}
	logger.Info("incentives increased", "amount", amount, "total", cfg.LockdropIncentives)
	return cw.NewResponse().
		AddAttribute("action", "incentives_increased").
		AddAttribute("amount", amount.String()), nil
}

func setOnce(field string, dst **cw.Addr, v *cw.Addr) error {
	if v == nil {
		return nil
	}
	if *dst != nil {
		return reverts.Invariantf("%s is already set", field)
	}
	*dst = v
	return nil
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
			if p.IsStaked {
				return nil, reverts.Invariantf("generator cannot be changed while pools are staked")
			}
		}
		cfg.Incentives = nc.Generator
	}
	if err := setOnce("auction contract", &cfg.AuctionContract, nc.AuctionContract); err != nil {
		return nil, err
	}
	if err := setOnce("reward token", &cfg.RewardToken, nc.RewardToken); err != nil {
		return nil, err
	}
	if err := setOnce("credits contract", &cfg.CreditsContract, nc.CreditsContract); err != nil {
		return nil, err
	}
	if err := setOnce("PCL lockdrop", &cfg.PCLLockdrop, nc.PCLLockdrop); err != nil {
		return nil, err
	}
	if err := e.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "update_config"), nil
}

func initializePool(e *lockdrop.Engine, info cw.MessageInfo, msg *InitializePoolMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := lockdrop.RequireOwner(cfg, info.Sender); err != nil {
		return nil, err
	}
	if e.Now() >= cfg.DepositEnd() {
		return nil, reverts.Phasef("pools cannot be added after the deposit window")
	}
	p := &lockdrop.Pool{
		Pair:            msg.SourcePool,
		LPToken:         msg.LPToken,
		IncentivesShare: msg.IncentivesShare,
	}
	if err := e.AddPool(msg.Pool, p); err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddAttribute("action", "initialize_pool").
		AddAttribute("pool", msg.Pool).
		AddAttribute("lp_token", msg.LPToken.String()), nil
}

func updatePool(e *lockdrop.Engine, info cw.MessageInfo, msg *UpdatePoolMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := lockdrop.RequireOwner(cfg, info.Sender); err != nil {
		return nil, err
	}
	now := e.Now()
	if now >= cfg.DepositEnd() {
		return nil, reverts.Phasef("pools cannot be updated after the deposit window")
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	if now >= cfg.InitTimestamp && msg.IncentivesShare.Lt(p.IncentivesShare) {
		return nil, reverts.Invariantf("incentives share can only be increased once the lockdrop started")
	}
	st, err := e.State()
	if err != nil {
		return nil, err
	}
	total, err := st.TotalIncentivesShare.Sub(p.IncentivesShare)
	if err != nil {
		return nil, reverts.Math(err)
	}
	if st.TotalIncentivesShare, err = total.Add(msg.IncentivesShare); err != nil {
		return nil, reverts.Math(err)
	}
	p.IncentivesShare = msg.IncentivesShare
	if err := e.SaveState(st); err != nil {
		return nil, err
	}
	if err := e.SavePool(msg.Pool, p); err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddAttribute("action", "update_pool").
		AddAttribute("pool", msg.Pool).
		AddAttribute("incentives_share", msg.IncentivesShare.String()), nil
}

func withdrawFromLockup(e *lockdrop.Engine, info cw.MessageInfo, msg *WithdrawFromLockupMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	now := e.Now()
	if now < cfg.InitTimestamp || now >= cfg.WindowsEnd() {
		return nil, reverts.Phasef("withdrawals are only allowed during the deposit and withdrawal windows")
	}
	if msg.Amount.IsZero() {
		return nil, reverts.InvalidInputf("amount must be greater than 0")
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	l, err := e.MustLockup(msg.Pool, info.Sender, msg.Duration)
	if err != nil {
		return nil, err
	}
	if now >= cfg.DepositEnd() {
		if l.WithdrawalFlag {
			return nil, reverts.Invariantf("withdrawal already happened, no more withdrawals accepted")
		}
		l.WithdrawalFlag = true
	}
	limit, err := lockdrop.WithdrawalPercent(cfg, now).MulUint128(l.LPUnitsLocked)
	if err != nil {
		return nil, reverts.Math(err)
	}
	if msg.Amount.Gt(limit) {
		return nil, reverts.Invariantf("amount exceeds maximum allowed withdrawal limit of %s", limit)
	}
	if err := e.DecreaseLockup(cfg, msg.Pool, p, info.Sender, msg.Duration, l, msg.Amount); err != nil {
		return nil, err
	}
	transfer, err := cw20.Transfer(p.LPToken, info.Sender, msg.Amount)
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(transfer).
		AddAttribute("action", "withdraw_from_lockup").
		AddAttribute("pool", msg.Pool).
		AddAttribute("user", info.Sender.String()).
		AddAttribute("duration", strconv.FormatUint(msg.Duration, 10)).
		AddAttribute("amount", msg.Amount.String()), nil
}

func enableClaims(e *lockdrop.Engine, info cw.MessageInfo) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.Owner && (cfg.AuctionContract == nil || info.Sender != *cfg.AuctionContract) {
		return nil, reverts.Unauthorizedf("unauthorized")
	}
	if e.Now() < cfg.WindowsEnd() {
		return nil, reverts.Phasef("claims cannot be enabled before the lockdrop ends")
	}
	st, err := e.State()
	if err != nil {
		return nil, err
	}
	if st.AreClaimsAllowed {
		return nil, reverts.Invariantf("claims are already allowed")
	}
	st.AreClaimsAllowed = true
	if err := e.SaveState(st); err != nil {
		return nil, err
	}
	logger.Info("claims enabled", "by", info.Sender)
	return cw.NewResponse().AddAttribute("action", "enable_claims"), nil
}

func delegateRewards(e *lockdrop.Engine, info cw.MessageInfo, msg *DelegateRewardsMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if cfg.AuctionContract == nil || cfg.RewardToken == nil {
		return nil, reverts.InvalidInputf("auction contract and reward token must be set")
	}
	if e.Now() < cfg.WindowsEnd() {
		return nil, reverts.Phasef("rewards can be delegated once the lockdrop ends")
	}
	if msg.Amount.IsZero() {
		return nil, reverts.InvalidInputf("amount must be greater than 0")
	}
	u, err := e.User(info.Sender)
	if err != nil {
		return nil, err
	}
	if err := e.FinalizeUserRewards(cfg, info.Sender, u); err != nil {
		return nil, err
	}
	if u.RewardTransferred {
		return nil, reverts.Invariantf("lockdrop rewards are already transferred")
	}
	available, err := u.TotalReward.Sub(u.DelegatedReward)
	if err != nil {
		return nil, reverts.Math(err)
	}
	if msg.Amount.Gt(available) {
		return nil, reverts.Invariantf("amount exceeds available rewards of %s", available)
	}
	if u.DelegatedReward, err = u.DelegatedReward.Add(msg.Amount); err != nil {
		return nil, reverts.Math(err)
	}
	if err := e.SaveUser(info.Sender, u); err != nil {
		return nil, err
	}
	send, err := auction.Delegate(*cfg.RewardToken, *cfg.AuctionContract, info.Sender, msg.Amount)
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(send).
		AddAttribute("action", "delegate_rewards_to_auction").
		AddAttribute("user", info.Sender.String()).
		AddAttribute("amount", msg.Amount.String()), nil
}

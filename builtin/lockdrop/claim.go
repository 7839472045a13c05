// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"strconv"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// CallbackMsg lists the continuations shared by both lockdrop variants. They
// are only accepted from the contract itself.
type CallbackMsg struct {
	UpdatePoolOnDualRewardsClaim      *UpdatePoolOnDualRewardsClaimMsg `json:"update_pool_on_dual_rewards_claim,omitempty"`
	WithdrawUserLockupRewardsCallback *WithdrawUserLockupRewardsMsg    `json:"withdraw_user_lockup_rewards_callback,omitempty"`
}

type UpdatePoolOnDualRewardsClaimMsg struct {
	Pool            string     `json:"pool"`
	PrevRewardsBals []cw.Asset `json:"prev_reward_balances"`
}

type WithdrawUserLockupRewardsMsg struct {
	Pool            string  `json:"pool"`
	UserAddress     cw.Addr `json:"user_address"`
	Duration        uint64  `json:"duration"`
	WithdrawLPStake bool    `json:"withdraw_lp_stake"`
}

// ClaimRewardsAndUnlockMsg is the user facing claim request.
type ClaimRewardsAndUnlockMsg struct {
	Pool            string `json:"pool"`
	Duration        uint64 `json:"duration"`
	WithdrawLPStake bool   `json:"withdraw_lp_stake"`
}

// Dispatch runs a shared callback. The caller has checked the sender.
func (e *Engine) Dispatch(msg *CallbackMsg) (*cw.Response, bool, error) {
	switch {
	case msg.UpdatePoolOnDualRewardsClaim != nil:
		resp, err := e.UpdatePoolOnDualRewardsClaim(msg.UpdatePoolOnDualRewardsClaim)
		return resp, true, err
	case msg.WithdrawUserLockupRewardsCallback != nil:
		resp, err := e.WithdrawUserLockupRewards(msg.WithdrawUserLockupRewardsCallback)
		return resp, true, err
	}
	return nil, false, nil
}

func (e *Engine) venue(cfg *Config) (cw.Addr, error) {
	if cfg.Incentives == nil {
		return "", reverts.InvalidInputf("incentives contract is not set")
	}
	return *cfg.Incentives, nil
}

// ClaimPoolRewards returns the messages that pull the pool's pending staking
// rewards into the contract and account them per share. Nothing is emitted
// when the pool is not staked or nothing is pending.
func (e *Engine) ClaimPoolRewards(cfg *Config, poolID string, p *Pool) ([]cw.CosmosMsg, error) {
	if !p.IsStaked {
		return nil, nil
	}
	venue, err := e.venue(cfg)
	if err != nil {
		return nil, err
	}
	lp := p.StakeToken()
	pending, err := incentives.QueryPendingRewards(e.deps.Querier, venue, lp, e.Self())
	if err != nil {
		return nil, err
	}
	anything := false
	prev := make([]cw.Asset, 0, len(pending))
	for _, r := range pending {
		if !r.Amount.IsZero() {
			anything = true
		}
		bal, err := cw20.AssetBalance(e.deps.Querier, r.Info, e.Self())
		if err != nil {
			return nil, err
		}
		prev = append(prev, cw.Asset{Info: r.Info, Amount: bal})
	}
	if !anything {
		return nil, nil
	}
	claim, err := e.variant.ClaimRewardsMsg(venue, lp)
	if err != nil {
		return nil, err
	}
	update, err := e.Callback(CallbackMsg{UpdatePoolOnDualRewardsClaim: &UpdatePoolOnDualRewardsClaimMsg{Pool: poolID, PrevRewardsBals: prev}})
	if err != nil {
		return nil, err
	}
	return []cw.CosmosMsg{claim, update}, nil
}

// UpdatePoolOnDualRewardsClaim accounts the rewards received since the
// snapshot in msg over the LP the contract has staked.
func (e *Engine) UpdatePoolOnDualRewardsClaim(msg *UpdatePoolOnDualRewardsClaimMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	venue, err := e.venue(cfg)
	if err != nil {
		return nil, err
	}
	staked, err := incentives.QueryDeposit(e.deps.Querier, venue, p.StakeToken(), e.Self())
	if err != nil {
		return nil, err
	}
	resp := cw.NewResponse().AddAttribute("action", "update_pool_on_dual_rewards_claim").AddAttribute("pool", msg.Pool)
	for _, prev := range msg.PrevRewardsBals {
		bal, err := cw20.AssetBalance(e.deps.Querier, prev.Info, e.Self())
		if err != nil {
			return nil, err
		}
		received, err := bal.Sub(prev.Amount)
		if err != nil {
			return nil, reverts.Math(err)
		}
		if received.IsZero() || staked.IsZero() {
			continue
		}
		inc, err := cw.DecimalFromRatio(received.Uint256(), staked.Uint256())
		if err != nil {
			return nil, reverts.Math(err)
		}
		if err := p.addRewardPerShare(prev.Info, inc); err != nil {
			return nil, reverts.Math(err)
		}
		resp.AddAttribute("received", received.String()+prev.Info.String())
	}
	if err := e.SavePool(msg.Pool, p); err != nil {
		return nil, err
	}
	return resp, nil
}

// ClaimRewards validates a claim request, freezes the user's one-time rewards
// and emits the pool reward claim followed by the per position callback.
func (e *Engine) ClaimRewards(user cw.Addr, msg *ClaimRewardsAndUnlockMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	st, err := e.State()
	if err != nil {
		return nil, err
	}
	if !st.AreClaimsAllowed {
		return nil, reverts.Phasef("claims are not allowed yet")
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	l, err := e.MustLockup(msg.Pool, user, msg.Duration)
	if err != nil {
		return nil, err
	}
	if l.DestinationLPTransferred != nil {
		return nil, reverts.Invariantf("LP tokens have already been claimed")
	}
	if msg.WithdrawLPStake && e.Now() < l.UnlockTimestamp {
		return nil, reverts.Phasef("%d seconds to unlock", l.UnlockTimestamp-e.Now())
	}
	u, err := e.User(user)
	if err != nil {
		return nil, err
	}
	if err := e.FinalizeUserRewards(cfg, user, u); err != nil {
		return nil, err
	}
	msgs, err := e.ClaimPoolRewards(cfg, msg.Pool, p)
	if err != nil {
		return nil, err
	}
	withdraw, err := e.Callback(CallbackMsg{WithdrawUserLockupRewardsCallback: &WithdrawUserLockupRewardsMsg{
		Pool:            msg.Pool,
		UserAddress:     user,
		Duration:        msg.Duration,
		WithdrawLPStake: msg.WithdrawLPStake,
	}})
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(msgs...).
		AddMessage(withdraw).
		AddAttribute("action", "claim_rewards_and_optionally_unlock").
		AddAttribute("pool", msg.Pool).
		AddAttribute("user", user.String()).
		AddAttribute("duration", strconv.FormatUint(msg.Duration, 10)), nil
}

// SettleStakingRewards pays the position's rewards accrued per share since its
// debts were last updated and moves the debts up to date.
func (e *Engine) SettleStakingRewards(p *Pool, user cw.Addr, l *Lockup) ([]cw.CosmosMsg, error) {
	if !p.IsStaked || l.DestinationLPTransferred != nil {
		return nil, nil
	}
	lp, err := p.PositionLP(l.LPUnitsLocked)
	if err != nil {
		return nil, reverts.Math(err)
	}
	var msgs []cw.CosmosMsg
	for _, r := range p.RewardsPerShare {
		accrued, err := r.PerShare.MulUint128(lp)
		if err != nil {
			return nil, reverts.Math(err)
		}
		claimable := accrued.SaturatingSub(l.debt(r.Info))
		l.setDebt(r.Info, accrued)
		if claimable.IsZero() {
			continue
		}
		m, err := cw20.TransferAsset(cw.Asset{Info: r.Info, Amount: claimable}, user)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// PayLockdropReward transfers the part of the one-time reward that was not
// delegated, once.
func (e *Engine) PayLockdropReward(cfg *Config, user cw.Addr, u *User) ([]cw.CosmosMsg, bool, error) {
	if u.RewardTransferred {
		return nil, false, nil
	}
	amount, err := u.TotalReward.Sub(u.DelegatedReward)
	if err != nil {
		return nil, false, reverts.Math(err)
	}
	u.RewardTransferred = true
	if amount.IsZero() {
		return nil, true, nil
	}
	if cfg.RewardToken == nil {
		return nil, false, reverts.InvalidInputf("reward token is not set")
	}
	m, err := cw20.Transfer(*cfg.RewardToken, user, amount)
	if err != nil {
		return nil, false, err
	}
	return []cw.CosmosMsg{m}, true, nil
}

// UnlockLP releases a position's LP to the user: unstaked first when staked,
// the migrated LP share after a migration, the original LP otherwise.
func (e *Engine) UnlockLP(cfg *Config, poolID string, p *Pool, user cw.Addr, l *Lockup) ([]cw.CosmosMsg, error) {
	amount, err := p.PositionLP(l.LPUnitsLocked)
	if err != nil {
		return nil, reverts.Math(err)
	}
	token := p.StakeToken()
	var msgs []cw.CosmosMsg
	if p.IsStaked {
		venue, err := e.venue(cfg)
		if err != nil {
			return nil, err
		}
		unstake, err := e.variant.UnstakeMsg(venue, token, amount)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, unstake)
	}
	if !amount.IsZero() {
		transfer, err := cw20.Transfer(token, user, amount)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, transfer)
	}
	if err := e.ReleaseLockup(poolID, p, user, l); err != nil {
		return nil, err
	}
	l.DestinationLPTransferred = &amount
	return msgs, nil
}

// WithdrawUserLockupRewards pays what the position earned and optionally
// unlocks it. A call that would move nothing is rejected.
func (e *Engine) WithdrawUserLockupRewards(msg *WithdrawUserLockupRewardsMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	l, err := e.MustLockup(msg.Pool, msg.UserAddress, msg.Duration)
	if err != nil {
		return nil, err
	}
	u, err := e.User(msg.UserAddress)
	if err != nil {
		return nil, err
	}
	resp := cw.NewResponse().AddAttribute("action", "withdraw_user_lockup_rewards")

	staking, err := e.SettleStakingRewards(p, msg.UserAddress, l)
	if err != nil {
		return nil, err
	}
	lockdrop, changed, err := e.PayLockdropReward(cfg, msg.UserAddress, u)
	if err != nil {
		return nil, err
	}
	if len(staking) == 0 && !changed && !msg.WithdrawLPStake {
		return nil, reverts.NoOpf("No rewards available to claim!")
	}
	resp.AddMessage(staking...).AddMessage(lockdrop...)
	if msg.WithdrawLPStake {
		if l.DestinationLPTransferred != nil {
			return nil, reverts.Invariantf("LP tokens have already been claimed")
		}
		unlock, err := e.UnlockLP(cfg, msg.Pool, p, msg.UserAddress, l)
		if err != nil {
			return nil, err
		}
		resp.AddMessage(unlock...).AddAttribute("unlocked_lp", l.DestinationLPTransferred.String())
	}
	if err := e.SaveLockup(msg.Pool, msg.UserAddress, msg.Duration, l); err != nil {
		return nil, err
	}
	if err := e.SaveUser(msg.UserAddress, u); err != nil {
		return nil, err
	}
	e.count("claim")
	logger.Debug("lockup rewards withdrawn", "variant", e.variant.Name(), "pool", msg.Pool, "user", msg.UserAddress,
		"duration", msg.Duration, "transfers", len(staking)+len(lockdrop), "unlock", msg.WithdrawLPStake)
	return resp.AddAttribute("user", msg.UserAddress.String()), nil
}

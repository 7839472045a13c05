// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// ProportionalIncentive returns the part of incentives owed to a weighted
// balance: incentives * poolShare / totalShare * weighted / poolWeighted,
// computed with a single multiply then divide.
func ProportionalIncentive(weighted, poolWeighted cw.Uint256, poolShare, totalShare, incentives cw.Uint128) (cw.Uint128, error) {
	if poolShare.IsZero() || totalShare.IsZero() || poolWeighted.IsZero() {
		return cw.Uint128{}, nil
	}
	num, err := incentives.Uint256().Mul(poolShare.Uint256())
	if err != nil {
		return cw.Uint128{}, reverts.Math(err)
	}
	den, err := totalShare.Uint256().Mul(poolWeighted)
	if err != nil {
		return cw.Uint128{}, reverts.Math(err)
	}
	amount, err := weighted.MulDiv(num, den)
	if err != nil {
		return cw.Uint128{}, reverts.Math(err)
	}
	out, err := amount.Uint128()
	if err != nil {
		return cw.Uint128{}, reverts.Math(err)
	}
	return out, nil
}

var half = cw.MustParseDecimal("0.5")

// WithdrawalPercent is the share of a position that may be withdrawn at now:
// everything during the deposit window, half until the middle of the
// withdrawal window, then linearly down to nothing at its end.
func WithdrawalPercent(cfg *Config, now uint64) cw.Decimal {
	depositEnd, end := cfg.DepositEnd(), cfg.WindowsEnd()
	mid := depositEnd + cfg.WithdrawalWindow/2
	switch {
	case now < depositEnd:
		return cw.DecimalOne()
	case now <= mid:
		return half
	case now >= end:
		return cw.DecimalZero()
	}
	d, err := cw.DecimalFromRatio(cw.NewUint256(end-now), cw.NewUint256(2*(end-mid)))
	if err != nil {
		return cw.DecimalZero()
	}
	return d
}

// lockupReward is the one-time incentive owed to a position.
func (e *Engine) lockupReward(cfg *Config, st *State, p *Pool, duration uint64, l *Lockup) (cw.Uint128, error) {
	weighted, err := e.variant.Weight(cfg, l.LPUnitsLocked, duration)
	if err != nil {
		return cw.Uint128{}, err
	}
	return ProportionalIncentive(weighted, p.WeightedAmount, p.IncentivesShare, st.TotalIncentivesShare, cfg.LockdropIncentives)
}

// projectRewards computes the one-time rewards of every position of u without
// writing anything. Finalized users return their stored amounts.
func (e *Engine) projectRewards(cfg *Config, st *State, addr cw.Addr, u *User) (cw.Uint128, []*Lockup, error) {
	out := make([]*Lockup, 0, len(u.Positions))
	total := cw.Uint128{}
	for _, pos := range u.Positions {
		l, err := e.MustLockup(pos.Pool, addr, pos.Duration)
		if err != nil {
			return total, nil, err
		}
		if !u.RewardsFinalized {
			p, err := e.Pool(pos.Pool)
			if err != nil {
				return total, nil, err
			}
			if l.RewardAmount, err = e.lockupReward(cfg, st, p, pos.Duration, l); err != nil {
				return total, nil, err
			}
		}
		if total, err = total.Add(l.RewardAmount); err != nil {
			return total, nil, reverts.Math(err)
		}
		out = append(out, l)
	}
	if u.RewardsFinalized {
		total = u.TotalReward
	}
	return total, out, nil
}

// FinalizeUserRewards freezes the one-time rewards of every position of addr.
// It does nothing before both windows closed or when already done.
func (e *Engine) FinalizeUserRewards(cfg *Config, addr cw.Addr, u *User) error {
	if u.RewardsFinalized || e.Now() < cfg.WindowsEnd() {
		return nil
	}
	st, err := e.State()
	if err != nil {
		return err
	}
	total, ls, err := e.projectRewards(cfg, st, addr, u)
	if err != nil {
		return err
	}
	for i, pos := range u.Positions {
		if err := e.SaveLockup(pos.Pool, addr, pos.Duration, ls[i]); err != nil {
			return err
		}
	}
	u.TotalReward = total
	u.RewardsFinalized = true
	logger.Debug("user rewards finalized", "variant", e.variant.Name(), "user", addr, "total", total)
	return e.SaveUser(addr, u)
}

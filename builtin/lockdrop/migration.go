// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// SnapshotBalances returns the contract's current balance of every asset.
func (e *Engine) SnapshotBalances(infos []cw.AssetInfo) ([]cw.Asset, error) {
	out := make([]cw.Asset, 0, len(infos))
	for _, info := range infos {
		bal, err := cw20.AssetBalance(e.deps.Querier, info, e.Self())
		if err != nil {
			return nil, err
		}
		out = append(out, cw.Asset{Info: info, Amount: bal})
	}
	return out, nil
}

// BalanceDiffs returns how much of every asset arrived since prev was taken.
func (e *Engine) BalanceDiffs(prev []cw.Asset) ([]cw.Asset, error) {
	out := make([]cw.Asset, 0, len(prev))
	for _, p := range prev {
		bal, err := cw20.AssetBalance(e.deps.Querier, p.Info, e.Self())
		if err != nil {
			return nil, err
		}
		diff, err := bal.Sub(p.Amount)
		if err != nil {
			return nil, reverts.Math(err)
		}
		out = append(out, cw.Asset{Info: p.Info, Amount: diff})
	}
	return out, nil
}

// ImportLockup credits units of freshly staked liquidity that arrived from
// another lockdrop. The source position keeps its unlock time and one-time
// reward, and the imported units only earn staking rewards claimed from now on.
func (e *Engine) ImportLockup(cfg *Config, poolID string, p *Pool, user cw.Addr, duration uint64, units cw.Uint128, src *Lockup, srcUser *User) (*Lockup, error) {
	if !srcUser.RewardTransferred {
		return nil, reverts.InvalidInputf("lockdrop rewards must be transferred before migration")
	}
	l, err := e.IncreaseLockup(cfg, poolID, p, user, duration, units, src.UnlockTimestamp)
	if err != nil {
		return nil, err
	}
	if l.RewardAmount, err = l.RewardAmount.Add(src.RewardAmount); err != nil {
		return nil, reverts.Math(err)
	}
	l.WithdrawalFlag = l.WithdrawalFlag || src.WithdrawalFlag
	lp, err := p.PositionLP(units)
	if err != nil {
		return nil, reverts.Math(err)
	}
	for _, r := range p.RewardsPerShare {
		inc, err := r.PerShare.MulUint128(lp)
		if err != nil {
			return nil, reverts.Math(err)
		}
		debt, err := l.debt(r.Info).Add(inc)
		if err != nil {
			return nil, reverts.Math(err)
		}
		l.setDebt(r.Info, debt)
	}
	if err := e.SaveLockup(poolID, user, duration, l); err != nil {
		return nil, err
	}

	u, err := e.User(user)
	if err != nil {
		return nil, err
	}
	if u.TotalReward, err = u.TotalReward.Add(src.RewardAmount); err != nil {
		return nil, reverts.Math(err)
	}
	u.RewardsFinalized = true
	u.RewardTransferred = true
	if err := e.SaveUser(user, u); err != nil {
		return nil, err
	}
	e.count("import")
	logger.Info("lockup imported", "variant", e.variant.Name(), "pool", poolID, "user", user, "duration", duration, "units", units)
	return l, nil
}

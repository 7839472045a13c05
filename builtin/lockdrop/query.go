// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

type QueryMsg struct {
	Config                  *struct{}            `json:"config,omitempty"`
	State                   *struct{}            `json:"state,omitempty"`
	Pool                    *PoolQuery           `json:"pool,omitempty"`
	UserInfo                *AddressQuery        `json:"user_info,omitempty"`
	UserInfoWithLockupsList *AddressQuery        `json:"user_info_with_lockups_list,omitempty"`
	LockupInfo              *LockupQuery         `json:"lockup_info,omitempty"`
	PendingAssetReward      *LockupQuery         `json:"pending_asset_reward,omitempty"`
	LockupTotalAtHeight     *PoolHeightQuery     `json:"lockup_total_at_height,omitempty"`
	UserLockupTotalAtHeight *UserPoolHeightQuery `json:"user_lockup_total_at_height,omitempty"`
	OwnershipProposal       *struct{}            `json:"ownership_proposal,omitempty"`
}

type PoolQuery struct {
	Pool string `json:"pool"`
}

type AddressQuery struct {
	Address cw.Addr `json:"address"`
}

type LockupQuery struct {
	Address  cw.Addr `json:"address"`
	Pool     string  `json:"pool"`
	Duration uint64  `json:"duration"`
}

type PoolHeightQuery struct {
	Pool   string `json:"pool"`
	Height uint64 `json:"height"`
}

type UserPoolHeightQuery struct {
	Pool    string  `json:"pool"`
	Address cw.Addr `json:"address"`
	Height  uint64  `json:"height"`
}

type UserInfoResponse struct {
	TotalLockdropRewards       cw.Uint128 `json:"total_lockdrop_rewards"`
	DelegatedLockdropRewards   cw.Uint128 `json:"delegated_lockdrop_rewards"`
	LockdropRewardsTransferred bool       `json:"lockdrop_rewards_transferred"`
	LockupPositionsIndex       uint64     `json:"lockup_positions_index"`
}

type UserInfoWithListResponse struct {
	UserInfoResponse
	LockupInfos []LockupInfoResponse `json:"lockup_infos"`
}

type LockupInfoResponse struct {
	Pool                     string      `json:"pool"`
	Duration                 uint64      `json:"duration"`
	LPUnitsLocked            cw.Uint128  `json:"lp_units_locked"`
	WithdrawalFlag           bool        `json:"withdrawal_flag"`
	LockdropReward           cw.Uint128  `json:"lockdrop_reward"`
	UnlockTimestamp          uint64      `json:"unlock_timestamp"`
	StakedLPAmount           cw.Uint128  `json:"staked_lp_amount"`
	LPToken                  cw.Addr     `json:"lp_token"`
	DestinationLPTransferred *cw.Uint128 `json:"destination_lp_transferred,omitempty"`
	ClaimableRewards         []cw.Asset  `json:"claimable_rewards"`
}

// Query answers the queries both variants share.
func (e *Engine) Query(msg *QueryMsg) ([]byte, bool, error) {
	var (
		res any
		err error
	)
	switch {
	case msg.Config != nil:
		res, err = e.Config()
	case msg.State != nil:
		res, err = e.State()
	case msg.Pool != nil:
		res, err = e.Pool(msg.Pool.Pool)
	case msg.UserInfo != nil:
		res, err = e.userInfo(msg.UserInfo.Address, false)
	case msg.UserInfoWithLockupsList != nil:
		res, err = e.userInfo(msg.UserInfoWithLockupsList.Address, true)
	case msg.LockupInfo != nil:
		res, err = e.lockupInfo(msg.LockupInfo)
	case msg.PendingAssetReward != nil:
		var info *LockupInfoResponse
		if info, err = e.lockupInfo(msg.PendingAssetReward); err == nil {
			res = info.ClaimableRewards
		}
	case msg.LockupTotalAtHeight != nil:
		q := msg.LockupTotalAtHeight
		var p *Pool
		var found bool
		if p, found, err = pools.MayAtHeight(e.deps.Storage, storage.StringKey(q.Pool), q.Height); err == nil {
			total := cw.Uint128{}
			if found {
				total = p.AmountInLockups
			}
			res = total
		}
	case msg.UserLockupTotalAtHeight != nil:
		q := msg.UserLockupTotalAtHeight
		var total cw.Uint128
		if total, _, err = userPoolTotals.MayAtHeight(e.deps.Storage, keyOfUserPool(q.Pool, q.Address), q.Height); err == nil {
			res = total
		}
	case msg.OwnershipProposal != nil:
		var p *OwnershipProposal
		var found bool
		if p, found, err = ownershipItem.May(e.deps.Storage); err == nil {
			if !found {
				err = reverts.NotFoundf("ownership proposal not found")
			}
			res = p
		}
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	out, err := cw.ToJSON(res)
	return out, true, err
}

func (e *Engine) userInfo(addr cw.Addr, withList bool) (any, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	st, err := e.State()
	if err != nil {
		return nil, err
	}
	u, err := e.User(addr)
	if err != nil {
		return nil, err
	}
	total := u.TotalReward
	if !u.RewardsFinalized && e.Now() >= cfg.WindowsEnd() {
		if total, _, err = e.projectRewards(cfg, st, addr, u); err != nil {
			return nil, err
		}
	}
	info := UserInfoResponse{
		TotalLockdropRewards:       total,
		DelegatedLockdropRewards:   u.DelegatedReward,
		LockdropRewardsTransferred: u.RewardTransferred,
		LockupPositionsIndex:       uint64(len(u.Positions)),
	}
	if !withList {
		return info, nil
	}
	out := UserInfoWithListResponse{UserInfoResponse: info, LockupInfos: []LockupInfoResponse{}}
	for _, pos := range u.Positions {
		l, err := e.lockupInfo(&LockupQuery{Address: addr, Pool: pos.Pool, Duration: pos.Duration})
		if err != nil {
			return nil, err
		}
		out.LockupInfos = append(out.LockupInfos, *l)
	}
	return out, nil
}

// lockupInfo previews a position including the rewards a claim would pay.
func (e *Engine) lockupInfo(q *LockupQuery) (*LockupInfoResponse, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	st, err := e.State()
	if err != nil {
		return nil, err
	}
	p, err := e.Pool(q.Pool)
	if err != nil {
		return nil, err
	}
	l, err := e.MustLockup(q.Pool, q.Address, q.Duration)
	if err != nil {
		return nil, err
	}
	u, err := e.User(q.Address)
	if err != nil {
		return nil, err
	}
	reward := l.RewardAmount
	if !u.RewardsFinalized && e.Now() >= cfg.WindowsEnd() {
		if reward, err = e.lockupReward(cfg, st, p, q.Duration, l); err != nil {
			return nil, err
		}
	}
	staked, err := p.PositionLP(l.LPUnitsLocked)
	if err != nil {
		return nil, reverts.Math(err)
	}
	res := &LockupInfoResponse{
		Pool:                     q.Pool,
		Duration:                 q.Duration,
		LPUnitsLocked:            l.LPUnitsLocked,
		WithdrawalFlag:           l.WithdrawalFlag,
		LockdropReward:           reward,
		UnlockTimestamp:          l.UnlockTimestamp,
		StakedLPAmount:           staked,
		LPToken:                  p.StakeToken(),
		DestinationLPTransferred: l.DestinationLPTransferred,
		ClaimableRewards:         []cw.Asset{},
	}
	if l.DestinationLPTransferred != nil || !p.IsStaked {
		return res, nil
	}
	if res.ClaimableRewards, err = e.projectStakingRewards(cfg, p, l, staked); err != nil {
		return nil, err
	}
	return res, nil
}

// projectStakingRewards adds the venue's pending rewards to the pool's per
// share accumulators and applies them to the position.
func (e *Engine) projectStakingRewards(cfg *Config, p *Pool, l *Lockup, lp cw.Uint128) ([]cw.Asset, error) {
	venue, err := e.venue(cfg)
	if err != nil {
		return nil, err
	}
	pending, err := incentives.QueryPendingRewards(e.deps.Querier, venue, p.StakeToken(), e.Self())
	if err != nil {
		return nil, err
	}
	total, err := incentives.QueryDeposit(e.deps.Querier, venue, p.StakeToken(), e.Self())
	if err != nil {
		return nil, err
	}
	projected := &Pool{RewardsPerShare: append([]RewardPerShare(nil), p.RewardsPerShare...)}
	for _, r := range pending {
		if r.Amount.IsZero() || total.IsZero() {
			continue
		}
		inc, err := cw.DecimalFromRatio(r.Amount.Uint256(), total.Uint256())
		if err != nil {
			return nil, reverts.Math(err)
		}
		if err := projected.addRewardPerShare(r.Info, inc); err != nil {
			return nil, reverts.Math(err)
		}
	}
	out := make([]cw.Asset, 0, len(projected.RewardsPerShare))
	for _, r := range projected.RewardsPerShare {
		accrued, err := r.PerShare.MulUint128(lp)
		if err != nil {
			return nil, reverts.Math(err)
		}
		out = append(out, cw.Asset{Info: r.Info, Amount: accrued.SaturatingSub(l.debt(r.Info))})
	}
	return out, nil
}

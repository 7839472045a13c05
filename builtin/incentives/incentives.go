// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package incentives implements an LP staking venue. Rewards of any asset are
// distributed to current depositors pro rata at the moment they are funded.
package incentives

import (
	"encoding/json"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

var logger = log.WithContext("pkg", "incentives")

type rewardIndex struct {
	Info     cw.AssetInfo
	PerShare cw.Decimal
}

type userReward struct {
	Info    cw.AssetInfo
	Index   cw.Decimal
	Pending cw.Uint128
}

type positionKey []byte

func (k positionKey) Bytes() []byte { return k }

func keyOf(lpToken, user cw.Addr) positionKey {
	return storage.Join(lpToken.Bytes(), user.Bytes())
}

var (
	deposits    = storage.NewMap[positionKey, cw.Uint128]("deposit")
	totals      = storage.NewMap[cw.Addr, cw.Uint128]("total")
	rewards     = storage.NewMap[cw.Addr, []rewardIndex]("reward_index")
	userRewards = storage.NewMap[positionKey, []userReward]("user_reward")
)

// Incentives is the staking venue contract code.
type Incentives struct{}

var _ runtime.Contract = Incentives{}

func (Incentives) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid instantiate msg: %v", err)
	}
	return cw.NewResponse().AddAttribute("action", "instantiate"), nil
}

func (Incentives) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid execute msg: %v", err)
	}
	switch {
	case msg.Receive != nil:
		var hook HookMsg
		if err := cw20.ParseHook(msg.Receive, &hook); err != nil {
			return nil, reverts.InvalidInputf("%v", err)
		}
		if msg.Receive.Amount.IsZero() {
			return nil, reverts.InvalidInputf("invalid zero amount")
		}
		switch {
		case hook.Deposit != nil:
			beneficiary := msg.Receive.Sender
			if hook.Deposit.Beneficiary != nil {
				beneficiary = *hook.Deposit.Beneficiary
			}
			return deposit(deps.Storage, info.Sender, beneficiary, msg.Receive.Amount)
		case hook.FundRewards != nil:
			return fund(deps.Storage, hook.FundRewards.LpToken, []cw.Asset{{Info: cw.TokenAsset(info.Sender), Amount: msg.Receive.Amount}})
		}
		return nil, reverts.InvalidInputf("unknown hook msg")
	case msg.Withdraw != nil:
		return withdraw(deps.Storage, info.Sender, msg.Withdraw.LpToken, msg.Withdraw.Amount)
	case msg.ClaimRewards != nil:
		resp := cw.NewResponse().AddAttribute("action", "claim_rewards")
		for _, lp := range msg.ClaimRewards.LpTokens {
			msgs, err := claim(deps.Storage, lp, info.Sender)
			if err != nil {
				return nil, err
			}
			resp.AddMessage(msgs...)
		}
		return resp, nil
	case msg.FundRewards != nil:
		if len(info.Funds) == 0 {
			return nil, reverts.InvalidInputf("no funds attached")
		}
		assets := make([]cw.Asset, 0, len(info.Funds))
		for _, c := range info.Funds {
			assets = append(assets, cw.Asset{Info: cw.NativeAsset(c.Denom), Amount: c.Amount})
		}
		return fund(deps.Storage, msg.FundRewards.LpToken, assets)
	}
	return nil, reverts.InvalidInputf("unknown execute msg")
}

func (Incentives) Query(deps cw.Deps, env cw.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid query msg: %v", err)
	}
	switch {
	case msg.Deposit != nil:
		amount, err := deposits.Get(deps.Storage, keyOf(msg.Deposit.LpToken, msg.Deposit.User))
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(amount)
	case msg.PendingRewards != nil:
		q := msg.PendingRewards
		pending, err := accrue(deps.Storage, q.LpToken, q.User)
		if err != nil {
			return nil, err
		}
		out := make([]cw.Asset, 0, len(pending))
		for _, r := range pending {
			out = append(out, cw.Asset{Info: r.Info, Amount: r.Pending})
		}
		return cw.ToJSON(out)
	case msg.RewardInfo != nil:
		lp := msg.RewardInfo.LpToken
		total, err := totals.Get(deps.Storage, lp)
		if err != nil {
			return nil, err
		}
		idx, err := rewards.Get(deps.Storage, lp)
		if err != nil {
			return nil, err
		}
		res := RewardInfoResponse{TotalDeposit: total, Rewards: []RewardIndex{}}
		for _, r := range idx {
			res.Rewards = append(res.Rewards, RewardIndex{Info: r.Info, RewardsPerShare: r.PerShare})
		}
		return cw.ToJSON(res)
	}
	return nil, reverts.InvalidInputf("unknown query msg")
}

// accrue brings the user's reward entries up to the current indexes without
// writing them.
func accrue(s cw.Storage, lp, user cw.Addr) ([]userReward, error) {
	key := keyOf(lp, user)
	amount, err := deposits.Get(s, key)
	if err != nil {
		return nil, err
	}
	idx, err := rewards.Get(s, lp)
	if err != nil {
		return nil, err
	}
	current, err := userRewards.Get(s, key)
	if err != nil {
		return nil, err
	}
	out := make([]userReward, 0, len(idx))
	for _, r := range idx {
		entry := userReward{Info: r.Info}
		for _, u := range current {
			if u.Info == r.Info {
				entry = u
			}
		}
		delta, err := r.PerShare.Sub(entry.Index)
		if err != nil {
			return nil, reverts.Math(err)
		}
		earned, err := delta.MulUint128(amount)
		if err != nil {
			return nil, reverts.Math(err)
		}
		if entry.Pending, err = entry.Pending.Add(earned); err != nil {
			return nil, reverts.Math(err)
		}
		entry.Index = r.PerShare
		out = append(out, entry)
	}
	return out, nil
}

// claim settles the user's position and pays out every pending reward.
func claim(s cw.Storage, lp, user cw.Addr) ([]cw.CosmosMsg, error) {
	entries, err := accrue(s, lp, user)
	if err != nil {
		return nil, err
	}
	var msgs []cw.CosmosMsg
	for i := range entries {
		if entries[i].Pending.IsZero() {
			continue
		}
		m, err := cw20.TransferAsset(cw.Asset{Info: entries[i].Info, Amount: entries[i].Pending}, user)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
		entries[i].Pending = cw.Uint128{}
	}
	if err := userRewards.Set(s, keyOf(lp, user), entries); err != nil {
		return nil, err
	}
	return msgs, nil
}

func deposit(s cw.Storage, lp, beneficiary cw.Addr, amount cw.Uint128) (*cw.Response, error) {
	msgs, err := claim(s, lp, beneficiary)
	if err != nil {
		return nil, err
	}
	key := keyOf(lp, beneficiary)
	current, err := deposits.Get(s, key)
	if err != nil {
		return nil, err
	}
	if current, err = current.Add(amount); err != nil {
		return nil, reverts.Math(err)
	}
	total, err := totals.Get(s, lp)
	if err != nil {
		return nil, err
	}
	if total, err = total.Add(amount); err != nil {
		return nil, reverts.Math(err)
	}
	if err := deposits.Set(s, key, current); err != nil {
		return nil, err
	}
	if err := totals.Set(s, lp, total); err != nil {
		return nil, err
	}
	logger.Debug("deposit", "lp_token", lp, "user", beneficiary, "amount", amount)
	return cw.NewResponse().
		AddMessage(msgs...).
		AddAttribute("action", "deposit").
		AddAttribute("lp_token", lp.String()).
		AddAttribute("user", beneficiary.String()).
		AddAttribute("amount", amount.String()), nil
}

func withdraw(s cw.Storage, user, lp cw.Addr, amount cw.Uint128) (*cw.Response, error) {
	msgs, err := claim(s, lp, user)
	if err != nil {
		return nil, err
	}
	resp := cw.NewResponse().AddMessage(msgs...).AddAttribute("action", "withdraw")
	if amount.IsZero() {
		return resp, nil
	}
	key := keyOf(lp, user)
	current, err := deposits.Get(s, key)
	if err != nil {
		return nil, err
	}
	if current.Lt(amount) {
		return nil, reverts.Invariantf("insufficient deposit: %s < %s", current, amount)
	}
	if current, err = current.Sub(amount); err != nil {
		return nil, reverts.Math(err)
	}
	total, err := totals.Get(s, lp)
	if err != nil {
		return nil, err
	}
	if total, err = total.Sub(amount); err != nil {
		return nil, reverts.Math(err)
	}
	if current.IsZero() {
		err = deposits.Remove(s, key)
	} else {
		err = deposits.Set(s, key, current)
	}
	if err != nil {
		return nil, err
	}
	if err := totals.Set(s, lp, total); err != nil {
		return nil, err
	}
	transfer, err := cw20.Transfer(lp, user, amount)
	if err != nil {
		return nil, err
	}
	logger.Debug("withdraw", "lp_token", lp, "user", user, "amount", amount)
	return resp.AddMessage(transfer).
		AddAttribute("lp_token", lp.String()).
		AddAttribute("amount", amount.String()), nil
}

// fund raises the per share index of every asset by amount / total deposit.
func fund(s cw.Storage, lp cw.Addr, assets []cw.Asset) (*cw.Response, error) {
	total, err := totals.Get(s, lp)
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return nil, reverts.Invariantf("no deposits of %s to reward", lp)
	}
	idx, err := rewards.Get(s, lp)
	if err != nil {
		return nil, err
	}
	resp := cw.NewResponse().AddAttribute("action", "fund_rewards").AddAttribute("lp_token", lp.String())
	for _, a := range assets {
		inc, err := cw.DecimalFromRatio(a.Amount.Uint256(), total.Uint256())
		if err != nil {
			return nil, reverts.Math(err)
		}
		found := false
		for i := range idx {
			if idx[i].Info == a.Info {
				if idx[i].PerShare, err = idx[i].PerShare.Add(inc); err != nil {
					return nil, reverts.Math(err)
				}
				found = true
			}
		}
		if !found {
			idx = append(idx, rewardIndex{Info: a.Info, PerShare: inc})
		}
		resp.AddAttribute("reward", a.Amount.String()+a.Info.String())
	}
	if err := rewards.Set(s, lp, idx); err != nil {
		return nil, err
	}
	return resp, nil
}

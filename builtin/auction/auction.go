// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auction implements the bootstrap auction side of reward delegation.
package auction

import (
	"encoding/json"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

var logger = log.WithContext("pkg", "auction")

type InstantiateMsg struct {
	Owner       *cw.Addr `json:"owner,omitempty"`
	RewardToken cw.Addr  `json:"reward_token"`
	Lockdrop    *cw.Addr `json:"lockdrop_contract,omitempty"`
}

type ExecuteMsg struct {
	Receive              *cw20.ReceiveMsg `json:"receive,omitempty"`
	UpdateConfig         *UpdateConfigMsg `json:"update_config,omitempty"`
	EnableLockdropClaims *struct{}        `json:"enable_lockdrop_claims,omitempty"`
}

type UpdateConfigMsg struct {
	Lockdrop *cw.Addr `json:"lockdrop_contract,omitempty"`
}

// HookMsg is the receive payload of a reward token send to the auction.
type HookMsg struct {
	DelegateRewardTokens *DelegateMsg `json:"delegate_reward_tokens,omitempty"`
}

type DelegateMsg struct {
	UserAddress cw.Addr `json:"user_address"`
}

type QueryMsg struct {
	Config     *struct{}        `json:"config,omitempty"`
	Delegation *DelegationQuery `json:"delegation,omitempty"`
}

type DelegationQuery struct {
	Address cw.Addr `json:"address"`
}

type Config struct {
	Owner       cw.Addr  `json:"owner"`
	RewardToken cw.Addr  `json:"reward_token"`
	Lockdrop    *cw.Addr `json:"lockdrop_contract,omitempty" rlp:"nil"`
}

type DelegationResponse struct {
	Amount cw.Uint128 `json:"amount"`
}

type lockdropMsg struct {
	EnableClaims *struct{} `json:"enable_claims,omitempty"`
}

var (
	configItem  = storage.NewItem[*Config]("config")
	delegations = storage.NewMap[cw.Addr, cw.Uint128]("delegation")
)

// Auction is the auction contract code.
type Auction struct{}

var _ runtime.Contract = Auction{}

func (Auction) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid instantiate msg: %v", err)
	}
	c := &Config{Owner: info.Sender, RewardToken: msg.RewardToken, Lockdrop: msg.Lockdrop}
	if msg.Owner != nil {
		c.Owner = *msg.Owner
	}
	if err := configItem.Save(deps.Storage, c); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "instantiate"), nil
}

func (Auction) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid execute msg: %v", err)
	}
	c, err := configItem.Load(deps.Storage)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.Receive != nil:
		if info.Sender != c.RewardToken {
			return nil, reverts.Unauthorizedf("unauthorized")
		}
		if c.Lockdrop == nil || msg.Receive.Sender != *c.Lockdrop {
			return nil, reverts.Unauthorizedf("only the lockdrop contract can delegate")
		}
		var hook HookMsg
		if err := cw20.ParseHook(msg.Receive, &hook); err != nil || hook.DelegateRewardTokens == nil {
			return nil, reverts.InvalidInputf("unknown hook msg")
		}
		user := hook.DelegateRewardTokens.UserAddress
		total, err := delegations.Get(deps.Storage, user)
		if err != nil {
			return nil, err
		}
		if total, err = total.Add(msg.Receive.Amount); err != nil {
			return nil, reverts.Math(err)
		}
		if err := delegations.Set(deps.Storage, user, total); err != nil {
			return nil, err
		}
		logger.Debug("delegated", "user", user, "amount", msg.Receive.Amount)
		return cw.NewResponse().
			AddAttribute("action", "delegate_reward_tokens").
			AddAttribute("user", user.String()).
			AddAttribute("amount", msg.Receive.Amount.String()), nil
	case msg.UpdateConfig != nil:
		if info.Sender != c.Owner {
			return nil, reverts.Unauthorizedf("unauthorized")
		}
		if msg.UpdateConfig.Lockdrop != nil {
			if c.Lockdrop != nil {
				return nil, reverts.Invariantf("lockdrop contract already set")
			}
			c.Lockdrop = msg.UpdateConfig.Lockdrop
		}
		if err := configItem.Save(deps.Storage, c); err != nil {
			return nil, err
		}
		return cw.NewResponse().AddAttribute("action", "update_config"), nil
	case msg.EnableLockdropClaims != nil:
		if info.Sender != c.Owner {
			return nil, reverts.Unauthorizedf("unauthorized")
		}
		if c.Lockdrop == nil {
			return nil, reverts.InvalidInputf("lockdrop contract is not set")
		}
		enable, err := cw.NewWasmExecute(*c.Lockdrop, lockdropMsg{EnableClaims: &struct{}{}})
		if err != nil {
			return nil, err
		}
		return cw.NewResponse().AddMessage(enable).AddAttribute("action", "enable_lockdrop_claims"), nil
	}
	return nil, reverts.InvalidInputf("unknown execute msg")
}

func (Auction) Query(deps cw.Deps, env cw.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, reverts.InvalidInputf("invalid query msg: %v", err)
	}
	switch {
	case msg.Config != nil:
		c, err := configItem.Load(deps.Storage)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(c)
	case msg.Delegation != nil:
		amount, err := delegations.Get(deps.Storage, msg.Delegation.Address)
		if err != nil {
			return nil, err
		}
		return cw.ToJSON(DelegationResponse{Amount: amount})
	}
	return nil, reverts.InvalidInputf("unknown query msg")
}

// Delegate builds the reward token send that delegates amount on behalf of user.
func Delegate(rewardToken, auction, user cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error) {
	return cw20.Send(rewardToken, auction, amount, HookMsg{DelegateRewardTokens: &DelegateMsg{UserAddress: user}})
}

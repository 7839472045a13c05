// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package incentives

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

type InstantiateMsg struct{}

type ExecuteMsg struct {
	Receive      *cw20.ReceiveMsg `json:"receive,omitempty"`
	Withdraw     *WithdrawMsg     `json:"withdraw,omitempty"`
	ClaimRewards *ClaimRewardsMsg `json:"claim_rewards,omitempty"`
	FundRewards  *FundRewardsMsg  `json:"fund_rewards,omitempty"`
}

// WithdrawMsg returns amount of staked LP. A zero amount only claims rewards.
type WithdrawMsg struct {
	LpToken cw.Addr    `json:"lp_token"`
	Amount  cw.Uint128 `json:"amount"`
}

type ClaimRewardsMsg struct {
	LpTokens []cw.Addr `json:"lp_tokens"`
}

type FundRewardsMsg struct {
	LpToken cw.Addr `json:"lp_token"`
}

// HookMsg is the receive payload of a cw20 send to the incentives contract.
type HookMsg struct {
	Deposit     *DepositMsg     `json:"deposit,omitempty"`
	FundRewards *FundRewardsMsg `json:"fund_rewards,omitempty"`
}

type DepositMsg struct {
	Beneficiary *cw.Addr `json:"beneficiary,omitempty"`
}

type QueryMsg struct {
	Deposit        *PositionQuery   `json:"deposit,omitempty"`
	PendingRewards *PositionQuery   `json:"pending_rewards,omitempty"`
	RewardInfo     *RewardInfoQuery `json:"reward_info,omitempty"`
}

type PositionQuery struct {
	LpToken cw.Addr `json:"lp_token"`
	User    cw.Addr `json:"user"`
}

type RewardInfoQuery struct {
	LpToken cw.Addr `json:"lp_token"`
}

type RewardIndex struct {
	Info            cw.AssetInfo `json:"info"`
	RewardsPerShare cw.Decimal   `json:"rewards_per_share"`
}

type RewardInfoResponse struct {
	TotalDeposit cw.Uint128    `json:"total_deposit"`
	Rewards      []RewardIndex `json:"rewards"`
}

// Withdraw builds a withdraw of amount staked LP; zero claims rewards only.
func Withdraw(venue, lpToken cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error) {
	return cw.NewWasmExecute(venue, ExecuteMsg{Withdraw: &WithdrawMsg{LpToken: lpToken, Amount: amount}})
}

// ClaimRewards builds a claim over the given LP tokens.
func ClaimRewards(venue cw.Addr, lpTokens ...cw.Addr) (cw.CosmosMsg, error) {
	return cw.NewWasmExecute(venue, ExecuteMsg{ClaimRewards: &ClaimRewardsMsg{LpTokens: lpTokens}})
}

// Deposit builds the cw20 send that stakes amount of lpToken for beneficiary.
func Deposit(lpToken, venue cw.Addr, amount cw.Uint128, beneficiary *cw.Addr) (cw.CosmosMsg, error) {
	return cw20.Send(lpToken, venue, amount, HookMsg{Deposit: &DepositMsg{Beneficiary: beneficiary}})
}

func QueryDeposit(q cw.Querier, venue, lpToken, user cw.Addr) (cw.Uint128, error) {
	return cw.QuerySmart[cw.Uint128](q, venue, QueryMsg{Deposit: &PositionQuery{LpToken: lpToken, User: user}})
}

func QueryPendingRewards(q cw.Querier, venue, lpToken, user cw.Addr) ([]cw.Asset, error) {
	return cw.QuerySmart[[]cw.Asset](q, venue, QueryMsg{PendingRewards: &PositionQuery{LpToken: lpToken, User: user}})
}

func QueryRewardInfo(q cw.Querier, venue, lpToken cw.Addr) (RewardInfoResponse, error) {
	return cw.QuerySmart[RewardInfoResponse](q, venue, QueryMsg{RewardInfo: &RewardInfoQuery{LpToken: lpToken}})
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package incentives_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

type fixture struct {
	host   *runtime.Host
	venue  cw.Addr
	lp     cw.Addr
	reward cw.Addr
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h, err := runtime.New(db, runtime.Options{ChainID: "test-1", StartHeight: 1, StartTime: 100})
	require.NoError(t, err)
	h.StoreCode("cw20", cw20.Token{})
	h.StoreCode("incentives", incentives.Incentives{})

	venue, err := h.Instantiate("incentives", "owner", "incentives", incentives.InstantiateMsg{})
	require.NoError(t, err)
	lp, err := h.Instantiate("cw20", "owner", "LP", cw20.InstantiateMsg{
		Name: "LP", Symbol: "uLP", Decimals: 6,
		InitialBalances: []cw20.InitialBalance{
			{Address: "alice", Amount: cw.NewUint128(3_000)},
			{Address: "bob", Amount: cw.NewUint128(1_000)},
		},
	})
	require.NoError(t, err)
	reward, err := h.Instantiate("cw20", "owner", "ASTRO", cw20.InstantiateMsg{
		Name: "Astro", Symbol: "ASTRO", Decimals: 6,
		InitialBalances: []cw20.InitialBalance{{Address: "funder", Amount: cw.NewUint128(1_000_000)}},
	})
	require.NoError(t, err)
	require.NoError(t, h.Mint("funder", cw.NewCoin(1_000_000, "untrn")))
	return &fixture{host: h, venue: venue, lp: lp, reward: reward}
}

func (f *fixture) deposit(t *testing.T, who cw.Addr, amount uint64) {
	msg, err := incentives.Deposit(f.lp, f.venue, cw.NewUint128(amount), nil)
	require.NoError(t, err)
	_, err = f.host.Execute(f.lp, who, msg.Wasm.Execute.Msg)
	require.NoError(t, err)
}

func (f *fixture) fundToken(t *testing.T, amount uint64) {
	_, err := f.host.Execute(f.reward, "funder", cw20.ExecuteMsg{Send: &cw20.SendMsg{
		Contract: f.venue,
		Amount:   cw.NewUint128(amount),
		Msg:      []byte(`{"fund_rewards":{"lp_token":"` + f.lp.String() + `"}}`),
	}})
	require.NoError(t, err)
}

func (f *fixture) pending(t *testing.T, who cw.Addr) []cw.Asset {
	var res []cw.Asset
	require.NoError(t, f.host.QueryJSON(f.venue, incentives.QueryMsg{PendingRewards: &incentives.PositionQuery{LpToken: f.lp, User: who}}, &res))
	return res
}

func tokenBalance(t *testing.T, h *runtime.Host, token, who cw.Addr) string {
	var res cw20.BalanceResponse
	require.NoError(t, h.QueryJSON(token, cw20.QueryMsg{Balance: &cw20.BalanceQuery{Address: who}}, &res))
	return res.Balance.String()
}

func TestFundWithoutDeposits(t *testing.T) {
	f := newFixture(t)
	_, err := f.host.Execute(f.venue, "funder", incentives.ExecuteMsg{FundRewards: &incentives.FundRewardsMsg{LpToken: f.lp}}, cw.NewCoin(10, "untrn"))
	assert.True(t, reverts.Is(err, reverts.Invariant))
}

func TestRewardsSplitPerShare(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, "alice", 3_000)
	f.deposit(t, "bob", 1_000)

	f.fundToken(t, 400)
	_, err := f.host.Execute(f.venue, "funder", incentives.ExecuteMsg{FundRewards: &incentives.FundRewardsMsg{LpToken: f.lp}}, cw.NewCoin(100, "untrn"))
	require.NoError(t, err)

	alice := f.pending(t, "alice")
	require.Len(t, alice, 2)
	assert.Equal(t, cw.TokenAsset(f.reward), alice[0].Info)
	assert.Equal(t, "300", alice[0].Amount.String())
	assert.Equal(t, "75", alice[1].Amount.String())

	var info incentives.RewardInfoResponse
	require.NoError(t, f.host.QueryJSON(f.venue, incentives.QueryMsg{RewardInfo: &incentives.RewardInfoQuery{LpToken: f.lp}}, &info))
	assert.Equal(t, "4000", info.TotalDeposit.String())
	assert.Equal(t, "0.1", info.Rewards[0].RewardsPerShare.String())

	// claim-only withdraw pays the rewards and keeps the stake
	_, err = f.host.Execute(f.venue, "bob", incentives.ExecuteMsg{Withdraw: &incentives.WithdrawMsg{LpToken: f.lp}})
	require.NoError(t, err)
	assert.Equal(t, "100", tokenBalance(t, f.host, f.reward, "bob"))
	ntrn, err := f.host.Balance("bob", "untrn")
	require.NoError(t, err)
	assert.Equal(t, "25", ntrn.String())
	for _, a := range f.pending(t, "bob") {
		assert.True(t, a.Amount.IsZero())
	}

	_, err = f.host.Execute(f.venue, "bob", incentives.ExecuteMsg{Withdraw: &incentives.WithdrawMsg{LpToken: f.lp, Amount: cw.NewUint128(1_000)}})
	require.NoError(t, err)
	assert.Equal(t, "1000", tokenBalance(t, f.host, f.lp, "bob"))
	_, err = f.host.Execute(f.venue, "bob", incentives.ExecuteMsg{Withdraw: &incentives.WithdrawMsg{LpToken: f.lp, Amount: cw.NewUint128(1)}})
	assert.True(t, reverts.Is(err, reverts.Invariant))

	// later funding goes to the remaining depositor only
	f.fundToken(t, 30)
	_, err = f.host.Execute(f.venue, "alice", incentives.ExecuteMsg{ClaimRewards: &incentives.ClaimRewardsMsg{LpTokens: []cw.Addr{f.lp}}})
	require.NoError(t, err)
	assert.Equal(t, "330", tokenBalance(t, f.host, f.reward, "alice"))
	ntrn, err = f.host.Balance("alice", "untrn")
	require.NoError(t, err)
	assert.Equal(t, "75", ntrn.String())
}

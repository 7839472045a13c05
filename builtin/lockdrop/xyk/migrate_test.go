// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/xyk"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/testchain"
)

// lockTwo locks 10000 LP for alice and 5000 LP for bob, both for one week.
func lockTwo(t *testing.T, chain *testchain.Chain) {
	for _, l := range []struct {
		user   cw.Addr
		amount uint64
	}{{"alice", 10_000}, {"bob", 5_000}} {
		lp, err := chain.ProvideXYK(l.user, "ATOM", l.amount, l.amount)
		require.NoError(t, err)
		require.Equal(t, cw.NewUint128(l.amount), lp)
	}
	require.NoError(t, chain.AdvanceTo(chain.Config().InitTimestamp))
	_, err := chain.FundLockdrop(1_000_000)
	require.NoError(t, err)
	for _, l := range []struct {
		user   cw.Addr
		amount uint64
	}{{"alice", 10_000}, {"bob", 5_000}} {
		_, err := chain.Lock(l.user, "ATOM", cw.NewUint128(l.amount), 1)
		require.NoError(t, err)
	}
}

func TestMigrationIsAtomic(t *testing.T) {
	chain := newChain(t, testchain.DefaultConfig())
	lockTwo(t, chain)
	require.NoError(t, chain.AdvanceTo(chain.WindowsEnd()))
	x := chain.XYK()
	atom := chain.Pool("ATOM")

	_, err := x.Execute(xyk.ExecuteMsg{StakeLPTokens: &xyk.PoolMsg{Pool: "ATOM"}})
	assert.ErrorContains(t, err, "pool liquidity is not migrated")

	// the USDC pair cannot take ATOM liquidity, failing the second step
	_, err = x.Execute(xyk.ExecuteMsg{MigrateLiquidity: &xyk.MigrateLiquidityMsg{
		Pool:            "ATOM",
		DestinationPair: chain.Pool("USDC").PCLPair,
	}})
	require.Error(t, err)
	assert.Nil(t, pool(t, x, "ATOM").Migration)
	assert.Equal(t, "15000", balance(t, chain, chain.Contracts().XYKLockdrop, string(atom.XYKLP)))
	assert.Equal(t, "15000", balance(t, chain, atom.XYKPair, "uatom"))
	assert.Equal(t, "0", balance(t, chain, chain.Contracts().XYKLockdrop, "uatom"))

	_, err = x.Attach("alice").Execute(xyk.ExecuteMsg{MigrateLiquidity: &xyk.MigrateLiquidityMsg{Pool: "ATOM", DestinationPair: atom.PCLPair}})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	_, err = x.Execute(xyk.ExecuteMsg{MigrateLiquidity: &xyk.MigrateLiquidityMsg{Pool: "ATOM", DestinationPair: atom.PCLPair}})
	require.NoError(t, err)
	p := pool(t, x, "ATOM")
	require.NotNil(t, p.Migration)
	assert.Equal(t, atom.PCLLP, p.Migration.LPToken)
	assert.Equal(t, "15000", p.Migration.MigratedLP.String())
	assert.Equal(t, "15000", p.Migration.LockedLP.String())
	assert.Equal(t, "0", balance(t, chain, atom.XYKPair, "uatom"))
	assert.Equal(t, "15000", balance(t, chain, chain.Contracts().XYKLockdrop, string(atom.PCLLP)))

	_, err = x.Execute(xyk.ExecuteMsg{MigrateLiquidity: &xyk.MigrateLiquidityMsg{Pool: "ATOM", DestinationPair: atom.PCLPair}})
	assert.ErrorContains(t, err, "liquidity already migrated")
}

func TestMigratedRewards(t *testing.T) {
	chain := newChain(t, singlePool())
	lockTwo(t, chain)
	require.NoError(t, chain.MigrateAll())
	atom := chain.Pool("ATOM")
	x := chain.XYK()

	_, err := x.Execute(xyk.ExecuteMsg{UpdateConfig: &xyk.UpdateConfigMsg{NewConfig: xyk.NewConfig{Generator: &chain.Contracts().Incentives}}})
	assert.ErrorContains(t, err, "generator cannot be changed while pools are staked")

	require.NoError(t, chain.FundRewards(atom.PCLLP, cw.NewCoin(3_000, testchain.BaseDenom)))
	info := lockupInfo(t, x, "alice", "ATOM", 1)
	assert.Equal(t, "10000", info.StakedLPAmount.String())
	assert.Equal(t, atom.PCLLP, info.LPToken)
	require.Len(t, info.ClaimableRewards, 1)
	assert.Equal(t, "2000", info.ClaimableRewards[0].Amount.String())

	require.NoError(t, claim(chain, "alice", "ATOM", 1, false))
	assert.Equal(t, "2000", balance(t, chain, "alice", testchain.BaseDenom))
	assert.Equal(t, "666666", balance(t, chain, "alice", string(chain.Contracts().RewardToken)))

	p := pool(t, x, "ATOM")
	require.Len(t, p.RewardsPerShare, 1)
	assert.Equal(t, "0.2", p.RewardsPerShare[0].PerShare.String())
	assert.Equal(t, cw.NativeAsset(testchain.BaseDenom), p.RewardsPerShare[0].Info)

	err = claim(chain, "alice", "ATOM", 1, false)
	assert.True(t, reverts.Is(err, reverts.NoOp))

	// bob's share stays in the lockdrop until he claims
	assert.Equal(t, "1000", balance(t, chain, chain.Contracts().XYKLockdrop, testchain.BaseDenom))
	require.NoError(t, chain.AdvanceTo(chain.WindowsEnd()+lockdrop.SecondsPerWeek))
	require.NoError(t, claim(chain, "bob", "ATOM", 1, true))
	assert.Equal(t, "1000", balance(t, chain, "bob", testchain.BaseDenom))
	assert.Equal(t, "333333", balance(t, chain, "bob", string(chain.Contracts().RewardToken)))
	assert.Equal(t, "5000", balance(t, chain, "bob", string(atom.PCLLP)))

	p = pool(t, x, "ATOM")
	assert.Equal(t, "10000", p.AmountInLockups.String())
	assert.Equal(t, "15000", p.WeightedAmount.String(), "weights freeze once the lockdrop is over")

	// the withdrawn LP is a valid share of the destination pair
	_, err = testchain.NewContract(chain, "bob", atom.PCLLP).Send(atom.PCLPair, cw.NewUint128(5_000), pair.HookMsg{WithdrawLiquidity: &struct{}{}})
	require.NoError(t, err)
	assert.Equal(t, "5000", balance(t, chain, "bob", "uatom"))
}

// transfersTo counts the token transfers to user within res.
func transfersTo(res *runtime.Result, token, user cw.Addr) int {
	var n int
	for _, ev := range res.Find(token) {
		action, _ := ev.Attribute("action")
		to, _ := ev.Attribute("to")
		if action == "transfer" && to == user.String() {
			n++
		}
	}
	return n
}

func TestUnlockOnce(t *testing.T) {
	chain := newChain(t, singlePool())
	lockTwo(t, chain)
	require.NoError(t, chain.MigrateAll())
	require.NoError(t, chain.AdvanceTo(chain.WindowsEnd()+lockdrop.SecondsPerWeek))
	atom := chain.Pool("ATOM")
	x := chain.XYK()
	unlock := xyk.ExecuteMsg{ClaimRewardsAndOptionallyUnlock: &lockdrop.ClaimRewardsAndUnlockMsg{
		Pool:            "ATOM",
		Duration:        1,
		WithdrawLPStake: true,
	}}

	res, err := x.Attach("alice").Execute(unlock)
	require.NoError(t, err)
	assert.Equal(t, 1, transfersTo(res, atom.PCLLP, "alice"))
	assert.Equal(t, "10000", balance(t, chain, "alice", string(atom.PCLLP)))

	_, err = x.Attach("alice").Execute(unlock)
	assert.True(t, reverts.Is(err, reverts.Invariant), "%v", err)
	assert.ErrorContains(t, err, "LP tokens have already been claimed")
	assert.Equal(t, "10000", balance(t, chain, "alice", string(atom.PCLLP)))

	// the withdraw step guards the unlock on its own
	_, err = x.Attach(x.Address()).Execute(xyk.ExecuteMsg{Callback: &xyk.CallbackMsg{CallbackMsg: lockdrop.CallbackMsg{
		WithdrawUserLockupRewardsCallback: &lockdrop.WithdrawUserLockupRewardsMsg{
			Pool:            "ATOM",
			UserAddress:     "alice",
			Duration:        1,
			WithdrawLPStake: true,
		},
	}}})
	assert.True(t, reverts.Is(err, reverts.Invariant), "%v", err)
	assert.ErrorContains(t, err, "LP tokens have already been claimed")
	assert.Equal(t, "10000", balance(t, chain, "alice", string(atom.PCLLP)))
	assert.Equal(t, "5000", pool(t, x, "ATOM").AmountInLockups.String())
}

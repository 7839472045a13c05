// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pair_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

type fixture struct {
	host  *runtime.Host
	pair  cw.Addr
	lp    cw.Addr
	venue cw.Addr
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h, err := runtime.New(db, runtime.Options{ChainID: "test-1", StartHeight: 1, StartTime: 100})
	require.NoError(t, err)
	h.StoreCode("cw20", cw20.Token{})
	h.StoreCode("pair", pair.Pair{})
	h.StoreCode("incentives", incentives.Incentives{})

	venue, err := h.Instantiate("incentives", "owner", "incentives", incentives.InstantiateMsg{})
	require.NoError(t, err)
	lp, err := h.Instantiate("cw20", "owner", "LP", cw20.InstantiateMsg{
		Name: "ATOM-NTRN LP", Symbol: "uLP", Decimals: 6,
		Mint: &cw20.MinterResponse{Minter: "owner"},
	})
	require.NoError(t, err)
	p, err := h.Instantiate("pair", "owner", "pair", pair.InstantiateMsg{
		AssetInfos:     []cw.AssetInfo{cw.NativeAsset("uatom"), cw.NativeAsset("untrn")},
		LiquidityToken: lp,
		Incentives:     &venue,
	})
	require.NoError(t, err)
	_, err = h.Execute(lp, "owner", cw20.ExecuteMsg{UpdateMinter: &cw20.UpdateMinterMsg{NewMinter: &p}})
	require.NoError(t, err)

	for _, who := range []cw.Addr{"alice", "bob"} {
		require.NoError(t, h.Mint(who, cw.NewCoin(1_000_000, "uatom"), cw.NewCoin(1_000_000, "untrn")))
	}
	return &fixture{host: h, pair: p, lp: lp, venue: venue}
}

func (f *fixture) provide(sender cw.Addr, atom, ntrn uint64, opts pair.ProvideLiquidityMsg) error {
	opts.Assets = []cw.Asset{
		{Info: cw.NativeAsset("uatom"), Amount: cw.NewUint128(atom)},
		{Info: cw.NativeAsset("untrn"), Amount: cw.NewUint128(ntrn)},
	}
	_, err := f.host.Execute(f.pair, sender, pair.ExecuteMsg{ProvideLiquidity: &opts},
		cw.NewCoin(atom, "uatom"), cw.NewCoin(ntrn, "untrn"))
	return err
}

func (f *fixture) lpBalance(t *testing.T, addr cw.Addr) string {
	var res cw20.BalanceResponse
	require.NoError(t, f.host.QueryJSON(f.lp, cw20.QueryMsg{Balance: &cw20.BalanceQuery{Address: addr}}, &res))
	return res.Balance.String()
}

func TestProvideAndWithdraw(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.provide("alice", 10_000, 40_000, pair.ProvideLiquidityMsg{}))
	assert.Equal(t, "20000", f.lpBalance(t, "alice"), "initial share is sqrt(a*b)")

	require.NoError(t, f.provide("bob", 1_000, 8_000, pair.ProvideLiquidityMsg{}))
	assert.Equal(t, "2000", f.lpBalance(t, "bob"), "later shares take the smaller ratio")

	var pool pair.PoolResponse
	require.NoError(t, f.host.QueryJSON(f.pair, pair.QueryMsg{Pool: &struct{}{}}, &pool))
	assert.Equal(t, "22000", pool.TotalShare.String())
	assert.Equal(t, "11000", pool.Assets[0].Amount.String())
	assert.Equal(t, "48000", pool.Assets[1].Amount.String())

	var share []cw.Asset
	require.NoError(t, f.host.QueryJSON(f.pair, pair.QueryMsg{Share: &pair.ShareQuery{Amount: cw.NewUint128(11_000)}}, &share))
	assert.Equal(t, "5500", share[0].Amount.String())
	assert.Equal(t, "24000", share[1].Amount.String())

	_, err := f.host.Execute(f.lp, "bob", cw20.ExecuteMsg{Send: &cw20.SendMsg{
		Contract: f.pair,
		Amount:   cw.NewUint128(2_000),
		Msg:      json.RawMessage(`{"withdraw_liquidity":{}}`),
	}})
	require.NoError(t, err)

	atom, err := f.host.Balance("bob", "uatom")
	require.NoError(t, err)
	assert.Equal(t, "1000000", atom.String())
	ntrn, err := f.host.Balance("bob", "untrn")
	require.NoError(t, err)
	assert.Equal(t, "996363", ntrn.String(), "the unmatched part of the deposit stays in the pool")
	assert.Equal(t, "0", f.lpBalance(t, "bob"))
}

func TestProvideValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.host.Execute(f.pair, "alice", pair.ExecuteMsg{ProvideLiquidity: &pair.ProvideLiquidityMsg{
		Assets: []cw.Asset{
			{Info: cw.NativeAsset("uatom"), Amount: cw.NewUint128(100)},
			{Info: cw.NativeAsset("untrn"), Amount: cw.NewUint128(100)},
		},
	}}, cw.NewCoin(100, "uatom"))
	assert.True(t, reverts.Is(err, reverts.InvalidInput), "funds must match the assets")

	require.NoError(t, f.provide("alice", 10_000, 10_000, pair.ProvideLiquidityMsg{}))

	tolerance := cw.MustParseDecimal("0.01")
	err = f.provide("bob", 1_000, 1_100, pair.ProvideLiquidityMsg{SlippageTolerance: &tolerance})
	assert.True(t, reverts.Is(err, reverts.Invariant), "a ten percent deviation exceeds the tolerance")

	err = f.provide("bob", 1_000, 1_005, pair.ProvideLiquidityMsg{SlippageTolerance: &tolerance})
	assert.NoError(t, err)

	tooLoose := cw.MustParseDecimal("0.6")
	err = f.provide("bob", 1_000, 1_000, pair.ProvideLiquidityMsg{SlippageTolerance: &tooLoose})
	assert.True(t, reverts.Is(err, reverts.InvalidInput))
}

func TestProvideAutoStake(t *testing.T) {
	f := newFixture(t)

	autoStake := true
	receiver := cw.Addr("carol")
	require.NoError(t, f.provide("alice", 10_000, 10_000, pair.ProvideLiquidityMsg{AutoStake: &autoStake, Receiver: &receiver}))

	assert.Equal(t, "0", f.lpBalance(t, "carol"))
	assert.Equal(t, "10000", f.lpBalance(t, f.venue))

	var deposit cw.Uint128
	require.NoError(t, f.host.QueryJSON(f.venue, incentives.QueryMsg{Deposit: &incentives.PositionQuery{LpToken: f.lp, User: receiver}}, &deposit))
	assert.Equal(t, "10000", deposit.String())
}

func TestWithdrawLiquidityMsg(t *testing.T) {
	msg, err := pair.WithdrawLiquidity("lp", "pair", cw.NewUint128(5))
	require.NoError(t, err)
	assert.Equal(t, cw.Addr("lp"), msg.Wasm.Execute.ContractAddr)
	assert.JSONEq(t, `{"send":{"contract":"pair","amount":"5","msg":{"withdraw_liquidity":{}}}}`, string(msg.Wasm.Execute.Msg))

	msg, err = pair.ProvideLiquidity("pair", pair.ProvideLiquidityMsg{Assets: []cw.Asset{
		{Info: cw.NativeAsset("uatom"), Amount: cw.NewUint128(3)},
		{Info: cw.NativeAsset("untrn"), Amount: cw.NewUint128(0)},
	}})
	require.NoError(t, err)
	require.Len(t, msg.Wasm.Execute.Funds, 1)
	assert.Equal(t, "3uatom", msg.Wasm.Execute.Funds[0].String())
}

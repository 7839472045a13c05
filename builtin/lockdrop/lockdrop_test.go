// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

func TestProportionalIncentive(t *testing.T) {
	tests := []struct {
		name         string
		weighted     uint64
		poolWeighted uint64
		share        uint64
		total        uint64
		incentives   uint64
		want         string
	}{
		{"sole pool sole user", 100, 100, 1, 1, 1_000, "1000"},
		{"half of one of two pools", 50, 100, 1, 2, 1_000, "250"},
		{"rounds down", 1, 3, 1, 1, 100, "33"},
		{"zero pool share", 50, 100, 0, 2, 1_000, "0"},
		{"zero total share", 50, 100, 1, 0, 1_000, "0"},
		{"empty pool", 0, 0, 1, 1, 1_000, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProportionalIncentive(cw.NewUint256(tt.weighted), cw.NewUint256(tt.poolWeighted),
				cw.NewUint128(tt.share), cw.NewUint128(tt.total), cw.NewUint128(tt.incentives))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	// the intermediate product exceeds 128 bits
	huge := cw.MustParseUint128("340282366920938463463374607431768211455")
	got, err := ProportionalIncentive(cw.NewUint256(1), cw.NewUint256(2), huge, huge, huge)
	require.NoError(t, err)
	assert.Equal(t, "170141183460469231731687303715884105727", got.String())
}

func TestProportionalIncentiveSplit(t *testing.T) {
	type split struct {
		Weights    []uint32
		Share      uint16
		Total      uint16
		Incentives uint64
	}
	for seed := range int64(20) {
		var in split
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(1, 16).Fuzz(&in)
		share, total := uint64(in.Share), uint64(in.Total)+uint64(in.Share)

		var pool uint64
		for _, w := range in.Weights {
			pool += uint64(w)
		}
		sum := new(big.Int)
		for _, w := range in.Weights {
			got, err := ProportionalIncentive(cw.NewUint256(uint64(w)), cw.NewUint256(pool),
				cw.NewUint128(share), cw.NewUint128(total), cw.NewUint128(in.Incentives))
			require.NoError(t, err)
			sum.Add(sum, got.BigInt())
		}

		bound := new(big.Int).SetUint64(in.Incentives)
		if pool == 0 || total == 0 {
			bound.SetUint64(0)
		} else {
			bound.Mul(bound, new(big.Int).SetUint64(share))
			bound.Div(bound, new(big.Int).SetUint64(total))
		}
		assert.True(t, sum.Cmp(bound) <= 0, "seed %d: paid %v over %v", seed, sum, bound)
		shortfall := new(big.Int).Sub(bound, sum)
		assert.True(t, shortfall.Cmp(big.NewInt(int64(len(in.Weights)))) <= 0,
			"seed %d: %v lost to rounding over %d positions", seed, shortfall, len(in.Weights))
	}
}

func TestWithdrawalPercent(t *testing.T) {
	cfg := &Config{InitTimestamp: 100, DepositWindow: 100, WithdrawalWindow: 100}
	for now, want := range map[uint64]string{
		100: "1",
		199: "1",
		200: "0.5",
		250: "0.5",
		275: "0.25",
		299: "0.01",
		300: "0",
		400: "0",
	} {
		assert.Equal(t, want, WithdrawalPercent(cfg, now).String(), "at %d", now)
	}
}

func TestPositionLP(t *testing.T) {
	p := &Pool{LPToken: "lp"}
	lp, err := p.PositionLP(cw.NewUint128(700))
	require.NoError(t, err)
	assert.Equal(t, "700", lp.String())
	assert.Equal(t, cw.Addr("lp"), p.StakeToken())

	p.Migration = &MigrationInfo{LPToken: "lp2", MigratedLP: cw.NewUint128(500), LockedLP: cw.NewUint128(1_000)}
	lp, err = p.PositionLP(cw.NewUint128(700))
	require.NoError(t, err)
	assert.Equal(t, "350", lp.String())
	assert.Equal(t, cw.Addr("lp2"), p.StakeToken())

	p.Migration.LockedLP = cw.Uint128{}
	lp, err = p.PositionLP(cw.NewUint128(700))
	require.NoError(t, err)
	assert.True(t, lp.IsZero())
}

func TestRewardBookkeeping(t *testing.T) {
	ntrn, astro := cw.NativeAsset("untrn"), cw.TokenAsset("astro")

	p := &Pool{}
	require.NoError(t, p.addRewardPerShare(ntrn, cw.MustParseDecimal("0.5")))
	require.NoError(t, p.addRewardPerShare(astro, cw.MustParseDecimal("2")))
	require.NoError(t, p.addRewardPerShare(ntrn, cw.MustParseDecimal("0.25")))
	assert.Len(t, p.RewardsPerShare, 2)
	assert.Equal(t, "0.75", p.rewardPerShare(ntrn).String())
	assert.Equal(t, "2", p.rewardPerShare(astro).String())
	assert.True(t, p.rewardPerShare(cw.NativeAsset("uatom")).IsZero())

	l := &Lockup{}
	assert.True(t, l.debt(ntrn).IsZero())
	l.setDebt(ntrn, cw.NewUint128(10))
	l.setDebt(ntrn, cw.NewUint128(15))
	l.setDebt(astro, cw.NewUint128(1))
	assert.Len(t, l.RewardDebts, 2)
	assert.Equal(t, "15", l.debt(ntrn).String())
}

func TestUserPositions(t *testing.T) {
	u := &User{Positions: []Position{{"ATOM", 1}, {"ATOM", 2}, {"USDC", 1}}}
	u.removePosition("ATOM", 2)
	assert.Equal(t, []Position{{"ATOM", 1}, {"USDC", 1}}, u.Positions)
	u.removePosition("ATOM", 5)
	assert.Len(t, u.Positions, 2)
}

func TestConfigWindows(t *testing.T) {
	cfg := &Config{InitTimestamp: 1_000, DepositWindow: 50, WithdrawalWindow: 20}
	assert.Equal(t, uint64(1_050), cfg.DepositEnd())
	assert.Equal(t, uint64(1_070), cfg.WindowsEnd())
	assert.Equal(t, uint64(1_070+3*SecondsPerWeek), cfg.UnlockTimestamp(3))
}

func TestLockupRLP(t *testing.T) {
	l := &Lockup{
		LPUnitsLocked:   cw.NewUint128(500),
		RewardAmount:    cw.NewUint128(7),
		RewardDebts:     []cw.Asset{{Info: cw.NativeAsset("untrn"), Amount: cw.NewUint128(3)}},
		UnlockTimestamp: 42,
	}
	raw, err := rlp.EncodeToBytes(l)
	require.NoError(t, err)
	var live Lockup
	require.NoError(t, rlp.DecodeBytes(raw, &live))
	assert.Nil(t, live.DestinationLPTransferred)
	assert.Equal(t, "500", live.LPUnitsLocked.String())
	assert.Equal(t, uint64(42), live.UnlockTimestamp)
	require.Len(t, live.RewardDebts, 1)
	assert.Equal(t, "3", live.RewardDebts[0].Amount.String())

	zero := cw.Uint128{}
	l.DestinationLPTransferred = &zero
	raw, err = rlp.EncodeToBytes(l)
	require.NoError(t, err)
	var released Lockup
	require.NoError(t, rlp.DecodeBytes(raw, &released))
	require.NotNil(t, released.DestinationLPTransferred)
	assert.True(t, released.DestinationLPTransferred.IsZero())
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyk_test

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/xyk"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/datagen"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/testchain"
)

type lockOp struct {
	User     uint8
	Withdraw bool
	Amount   uint16
	Duration uint8
	Advance  uint16
}

// checkConservation verifies that the pool totals match the sum of all
// positions and that the lockdrop holds exactly the locked LP.
func checkConservation(t *testing.T, chain *testchain.Chain, users []cw.Addr) {
	x := chain.XYK()
	p := pool(t, x, "ATOM")
	units, weighted := cw.Uint128{}, cw.Uint256{}
	for _, u := range users {
		var info lockdrop.UserInfoWithListResponse
		require.NoError(t, x.QueryInto(lockdrop.QueryMsg{UserInfoWithLockupsList: &lockdrop.AddressQuery{Address: u}}, &info))
		for _, l := range info.LockupInfos {
			var err error
			units, err = units.Add(l.LPUnitsLocked)
			require.NoError(t, err)
			w, err := xyk.Weight(l.LPUnitsLocked, l.Duration, 1, 12)
			require.NoError(t, err)
			weighted, err = weighted.Add(w)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, p.AmountInLockups.String(), units.String())
	assert.Equal(t, p.WeightedAmount.String(), weighted.String())
	assert.Equal(t, p.AmountInLockups.String(), balance(t, chain, x.Address(), string(chain.Pool("ATOM").XYKLP)))
}

func TestLockupConservation(t *testing.T) {
	for seed := range int64(5) {
		t.Run("", func(t *testing.T) {
			chain := newChain(t, singlePool())
			x := chain.XYK()
			users := datagen.Users(4)
			for _, u := range users {
				_, err := chain.ProvideXYK(u, "ATOM", 3_000_000, 3_000_000)
				require.NoError(t, err)
			}
			require.NoError(t, chain.AdvanceTo(chain.Config().InitTimestamp))

			var ops []lockOp
			fuzz.NewWithSeed(seed).NilChance(0).NumElements(20, 40).Fuzz(&ops)
			for _, op := range ops {
				user := users[int(op.User)%len(users)]
				duration := 1 + uint64(op.Duration)%4
				var err error
				if op.Withdraw {
					_, err = x.Attach(user).Execute(xyk.ExecuteMsg{WithdrawFromLockup: &xyk.WithdrawFromLockupMsg{
						Pool:     "ATOM",
						Duration: duration,
						Amount:   cw.NewUint128(uint64(op.Amount)),
					}})
				} else {
					_, err = chain.Lock(user, "ATOM", cw.NewUint128(uint64(op.Amount)), duration)
				}
				if err != nil {
					require.True(t, reverts.IsRevertErr(err), "unexpected failure: %v", err)
				}
				if op.Advance > 0 && chain.Now()+uint64(op.Advance) < chain.WindowsEnd() {
					require.NoError(t, chain.Host().NextBlock(uint64(op.Advance)))
				}
				checkConservation(t, chain, users)
			}
		})
	}
}

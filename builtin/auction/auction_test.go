// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/auction"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// claimsTarget stands in for the lockdrop and counts enable_claims calls.
type claimsTarget struct{}

func (claimsTarget) Instantiate(cw.Deps, cw.Env, cw.MessageInfo, []byte) (*cw.Response, error) {
	return cw.NewResponse(), nil
}

func (claimsTarget) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg struct {
		EnableClaims *struct{} `json:"enable_claims"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil || msg.EnableClaims == nil {
		return nil, reverts.InvalidInputf("unexpected msg")
	}
	return cw.NewResponse().AddAttribute("action", "enable_claims").AddAttribute("sender", info.Sender.String()), nil
}

func (claimsTarget) Query(cw.Deps, cw.Env, []byte) ([]byte, error) { return nil, nil }

func TestDelegateAndEnableClaims(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	h, err := runtime.New(db, runtime.Options{ChainID: "test-1", StartHeight: 1, StartTime: 100})
	require.NoError(t, err)
	h.StoreCode("cw20", cw20.Token{})
	h.StoreCode("auction", auction.Auction{})
	h.StoreCode("lockdrop", claimsTarget{})

	lockdrop, err := h.Instantiate("lockdrop", "owner", "lockdrop", struct{}{})
	require.NoError(t, err)
	token, err := h.Instantiate("cw20", "owner", "NTRN", cw20.InstantiateMsg{
		Name: "Neutron", Symbol: "NTRN", Decimals: 6,
		InitialBalances: []cw20.InitialBalance{
			{Address: lockdrop, Amount: cw.NewUint128(500)},
			{Address: "mallory", Amount: cw.NewUint128(500)},
		},
	})
	require.NoError(t, err)
	a, err := h.Instantiate("auction", "owner", "auction", auction.InstantiateMsg{RewardToken: token})
	require.NoError(t, err)

	_, err = h.Execute(a, "owner", auction.ExecuteMsg{EnableLockdropClaims: &struct{}{}})
	assert.True(t, reverts.Is(err, reverts.InvalidInput), "no lockdrop configured yet")

	_, err = h.Execute(a, "mallory", auction.ExecuteMsg{UpdateConfig: &auction.UpdateConfigMsg{Lockdrop: &lockdrop}})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = h.Execute(a, "owner", auction.ExecuteMsg{UpdateConfig: &auction.UpdateConfigMsg{Lockdrop: &lockdrop}})
	require.NoError(t, err)
	_, err = h.Execute(a, "owner", auction.ExecuteMsg{UpdateConfig: &auction.UpdateConfigMsg{Lockdrop: &lockdrop}})
	assert.True(t, reverts.Is(err, reverts.Invariant))

	delegate, err := auction.Delegate(token, a, "alice", cw.NewUint128(120))
	require.NoError(t, err)
	_, err = h.Execute(token, "mallory", delegate.Wasm.Execute.Msg)
	assert.True(t, reverts.Is(err, reverts.Unauthorized), "only the lockdrop may delegate")
	_, err = h.Execute(token, lockdrop, delegate.Wasm.Execute.Msg)
	require.NoError(t, err)

	var res auction.DelegationResponse
	require.NoError(t, h.QueryJSON(a, auction.QueryMsg{Delegation: &auction.DelegationQuery{Address: "alice"}}, &res))
	assert.Equal(t, "120", res.Amount.String())

	_, err = h.Execute(a, "mallory", auction.ExecuteMsg{EnableLockdropClaims: &struct{}{}})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	result, err := h.Execute(a, "owner", auction.ExecuteMsg{EnableLockdropClaims: &struct{}{}})
	require.NoError(t, err)
	events := result.Find(lockdrop)
	require.Len(t, events, 1)
	sender, _ := events[0].Attribute("sender")
	assert.Equal(t, a.String(), sender)
}

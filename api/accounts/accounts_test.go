// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api/accounts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/testchain"
)

func TestGetBalances(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	lp, err := chain.ProvideXYK("alice", "ATOM", 4_000, 1_000)
	require.NoError(t, err)
	require.NoError(t, chain.Host().Mint("alice", cw.NewCoin(7, "uatom")))

	router := mux.NewRouter()
	accounts.New(chain.Host()).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	defer ts.Close()

	get := func(path string) ([]byte, int) {
		res, err := http.Get(ts.URL + path) //#nosec G107
		require.NoError(t, err)
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return body, res.StatusCode
	}

	token := string(chain.Pool("ATOM").XYKLP)
	body, status := get("/accounts/alice/balances?denom=uatom,untrn&token=" + token)
	require.Equal(t, http.StatusOK, status, string(body))
	var balances []accounts.Balance
	require.NoError(t, json.Unmarshal(body, &balances))
	require.Len(t, balances, 3)
	assert.Equal(t, cw.NativeAsset("uatom"), balances[0].Info)
	assert.Equal(t, "7", balances[0].Amount.String())
	assert.True(t, balances[1].Amount.IsZero())
	assert.Equal(t, cw.TokenAsset(cw.Addr(token)), balances[2].Info)
	assert.Equal(t, lp.String(), balances[2].Amount.String())

	_, status = get("/accounts/alice/balances")
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = get("/accounts/alice/balances?token=contract999")
	assert.Equal(t, http.StatusNotFound, status)
}

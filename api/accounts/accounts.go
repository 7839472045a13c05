// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api/utils"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// Balance is one asset holding of an account.
type Balance struct {
	Info   cw.AssetInfo `json:"info"`
	Amount cw.Uint128   `json:"amount"`
}

type Accounts struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Accounts {
	return &Accounts{host: host}
}

// handleGetBalances answers native balances for every denom and cw20
// balances for every token given in the query string.
func (a *Accounts) handleGetBalances(w http.ResponseWriter, req *http.Request) error {
	addr := cw.Addr(mux.Vars(req)["address"])
	if addr == "" {
		return utils.BadRequest(errors.New("address: empty"))
	}
	q := req.URL.Query()
	var infos []cw.AssetInfo
	for _, d := range splitList(q["denom"]) {
		infos = append(infos, cw.NativeAsset(d))
	}
	for _, t := range splitList(q["token"]) {
		infos = append(infos, cw.TokenAsset(cw.Addr(t)))
	}
	if len(infos) == 0 {
		return utils.BadRequest(errors.New("at least one denom or token is required"))
	}

	querier := a.host.Querier()
	out := make([]Balance, 0, len(infos))
	for _, info := range infos {
		amount, err := cw20.AssetBalance(querier, info, addr)
		if err != nil {
			return utils.ContractError(err)
		}
		out = append(out, Balance{Info: info, Amount: amount})
	}
	return utils.WriteJSON(w, out)
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/balances").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalances))
}

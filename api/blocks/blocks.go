// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api/utils"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// Block is the head of the simulated chain.
type Block struct {
	cw.BlockInfo
	Revision uint64 `json:"revision"`
}

type Blocks struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Blocks {
	return &Blocks{host: host}
}

func (b *Blocks) handleGetBest(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Block{BlockInfo: b.host.Block(), Revision: b.host.Revision()})
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/best").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(b.handleGetBest))
}

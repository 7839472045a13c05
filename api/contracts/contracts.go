// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api/utils"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/metrics"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

var metricCacheHits = metrics.LazyLoadCounterVec("api_query_cache", []string{"result"})

type Contracts struct {
	host  *runtime.Host
	cache *queryCache
}

func New(host *runtime.Host, cacheSize int) *Contracts {
	return &Contracts{
		host:  host,
		cache: newQueryCache(cacheSize),
	}
}

func toContract(info *runtime.ContractInfo) *Contract {
	return &Contract{
		Address: info.Address,
		Code:    info.Code,
		Label:   info.Label,
		Creator: info.Creator,
	}
}

func (c *Contracts) handleList(w http.ResponseWriter, req *http.Request) error {
	infos, err := c.host.Contracts()
	if err != nil {
		return err
	}
	code := req.URL.Query().Get("code")
	out := make([]*Contract, 0, len(infos))
	for _, info := range infos {
		if code != "" && info.Code != code {
			continue
		}
		out = append(out, toContract(info))
	}
	return utils.WriteJSON(w, out)
}

func (c *Contracts) handleGet(w http.ResponseWriter, req *http.Request) error {
	info, err := c.host.ContractInfo(cw.Addr(mux.Vars(req)["address"]))
	if err != nil {
		return utils.ContractError(err)
	}
	return utils.WriteJSON(w, toContract(info))
}

// handleQuery runs a smart query given either as the body of a POST or as
// the msg parameter of a GET.
func (c *Contracts) handleQuery(w http.ResponseWriter, req *http.Request) error {
	var msg json.RawMessage
	if req.Method == http.MethodGet {
		msg = json.RawMessage(req.URL.Query().Get("msg"))
	} else {
		var body QueryRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		msg = body.Msg
	}
	if !json.Valid(msg) {
		return utils.BadRequest(errors.New("msg: invalid json"))
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, msg); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "msg"))
	}

	addr := cw.Addr(mux.Vars(req)["address"])
	block, revision := c.host.Block(), c.host.Revision()
	key := cacheKey{revision: revision, height: block.Height, contract: addr, msg: compact.String()}
	data, hit, err := c.cache.GetOrAdd(key, func() ([]byte, error) {
		return c.host.Query(addr, compact.Bytes())
	})
	if err != nil {
		return utils.ContractError(err)
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	metricCacheHits().AddWithLabel(1, map[string]string{"result": result})
	return utils.WriteJSON(w, &QueryResponse{Height: block.Height, Revision: revision, Data: data})
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(c.handleList))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(c.handleGet))
	sub.Path("/{address}/query").Methods(http.MethodGet, http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(c.handleQuery))
}

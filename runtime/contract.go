// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Contract is the code of a contract. Implementations hold no state of their
// own: everything persistent goes through deps.Storage.
type Contract interface {
	Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, msg []byte) (*cw.Response, error)
	Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, msg []byte) (*cw.Response, error)
	Query(deps cw.Deps, env cw.Env, msg []byte) ([]byte, error)
}

// ContractInfo is the registry record of an instantiated contract.
type ContractInfo struct {
	Address cw.Addr `json:"address"`
	Code    string  `json:"code"`
	Label   string  `json:"label"`
	Creator cw.Addr `json:"creator"`
}

// Event records one executed message and the attributes it emitted.
type Event struct {
	Contract   cw.Addr        `json:"contract"`
	Sender     cw.Addr        `json:"sender"`
	Depth      int            `json:"depth"`
	Attributes []cw.Attribute `json:"attributes"`
}

// Attribute returns the first value recorded under key.
func (e *Event) Attribute(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Result is the outcome of a committed transaction.
type Result struct {
	Events []*Event `json:"events"`
	Data   []byte   `json:"data,omitempty"`
}

// Find returns the events emitted by contract.
func (r *Result) Find(contract cw.Addr) []*Event {
	var out []*Event
	for _, e := range r.Events {
		if e.Contract == contract {
			out = append(out, e)
		}
	}
	return out
}

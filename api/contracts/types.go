// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"encoding/json"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Contract is a registry entry.
type Contract struct {
	Address cw.Addr `json:"address"`
	Code    string  `json:"code"`
	Label   string  `json:"label"`
	Creator cw.Addr `json:"creator"`
}

// QueryRequest wraps a smart query message.
type QueryRequest struct {
	Msg json.RawMessage `json:"msg"`
}

// QueryResponse carries a smart query result with the state it was read at.
type QueryResponse struct {
	Height   uint64          `json:"height"`
	Revision uint64          `json:"revision"`
	Data     json.RawMessage `json:"data"`
}

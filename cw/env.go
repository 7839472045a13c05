// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// BlockInfo describes the block a message executes in.
type BlockInfo struct {
	Height  uint64 `json:"height"`
	Time    uint64 `json:"time"` // unix seconds
	ChainID string `json:"chain_id"`
}

// ContractInfo describes the executing contract.
type ContractInfo struct {
	Address Addr `json:"address"`
}

// Env is the execution environment handed to every entry point.
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

// MessageInfo carries the sender and the native funds transferred with a message.
type MessageInfo struct {
	Sender Addr  `json:"sender"`
	Funds  Coins `json:"funds"`
}

// Storage is the contract's private key/value space.
// Get returns nil, nil for absent keys.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Remove(key []byte) error
}

// Querier exposes read-only access to other contracts and the bank.
type Querier interface {
	QuerySmart(contract Addr, msg []byte) ([]byte, error)
	QueryBalance(addr Addr, denom string) (Coin, error)
}

// API is the host's address codec.
type API interface {
	AddrValidate(s string) (Addr, error)
}

// Deps bundles the host capabilities a handler may use.
type Deps struct {
	Storage Storage
	API     API
	Querier Querier
}

// QuerySmart marshals msg, queries contract and decodes the response into T.
func QuerySmart[T any](q Querier, contract Addr, msg any) (T, error) {
	var out T
	raw, err := json.Marshal(msg)
	if err != nil {
		return out, errors.Wrap(err, "marshal query")
	}
	res, err := q.QuerySmart(contract, raw)
	if err != nil {
		return out, errors.Wrapf(err, "query %s", contract)
	}
	if err := json.Unmarshal(res, &out); err != nil {
		return out, errors.Wrapf(err, "decode query response from %s", contract)
	}
	return out, nil
}

// ToJSON marshals a query response.
func ToJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "serialize response")
	}
	return data, nil
}

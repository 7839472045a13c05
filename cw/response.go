// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// CosmosMsg is a message a contract asks the host to dispatch after it returns.
// Exactly one field is set.
type CosmosMsg struct {
	Bank *BankMsg `json:"bank,omitempty"`
	Wasm *WasmMsg `json:"wasm,omitempty"`
}

type BankMsg struct {
	Send *BankSend `json:"send,omitempty"`
}

type BankSend struct {
	ToAddress Addr  `json:"to_address"`
	Amount    Coins `json:"amount"`
}

type WasmMsg struct {
	Execute *WasmExecute `json:"execute,omitempty"`
}

type WasmExecute struct {
	ContractAddr Addr            `json:"contract_addr"`
	Msg          json.RawMessage `json:"msg"`
	Funds        Coins           `json:"funds"`
}

// NewBankSend builds a native transfer.
func NewBankSend(to Addr, amount ...Coin) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Send: &BankSend{ToAddress: to, Amount: amount}}}
}

// NewWasmExecute marshals msg and builds an execute call on contract.
func NewWasmExecute(contract Addr, msg any, funds ...Coin) (CosmosMsg, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return CosmosMsg{}, errors.Wrap(err, "marshal execute msg")
	}
	return CosmosMsg{Wasm: &WasmMsg{Execute: &WasmExecute{ContractAddr: contract, Msg: raw, Funds: funds}}}, nil
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is what an execute or instantiate handler returns.
type Response struct {
	Messages   []CosmosMsg `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Data       []byte      `json:"data,omitempty"`
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) AddMessage(msgs ...CosmosMsg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Attribute returns the first value recorded under key.
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

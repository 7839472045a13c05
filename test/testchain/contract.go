// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// Contract calls one contract of the chain as sender.
type Contract struct {
	chain  *Chain
	sender cw.Addr
	addr   cw.Addr
}

func NewContract(chain *Chain, sender, addr cw.Addr) *Contract {
	return &Contract{chain: chain, sender: sender, addr: addr}
}

func (c *Contract) Address() cw.Addr {
	return c.addr
}

// Attach returns a copy of the contract calling as sender.
func (c *Contract) Attach(sender cw.Addr) *Contract {
	return &Contract{chain: c.chain, sender: sender, addr: c.addr}
}

func (c *Contract) Execute(msg any, funds ...cw.Coin) (*runtime.Result, error) {
	return c.chain.host.Execute(c.addr, c.sender, msg, funds...)
}

func (c *Contract) QueryInto(msg any, out any) error {
	return c.chain.host.QueryJSON(c.addr, msg, out)
}

// Send moves amount of this cw20 token to contract with hook attached.
func (c *Contract) Send(contract cw.Addr, amount cw.Uint128, hook any) (*runtime.Result, error) {
	m, err := cw20.Send(c.addr, contract, amount, hook)
	if err != nil {
		return nil, err
	}
	return c.Execute(m.Wasm.Execute.Msg)
}

func (c *Contract) TokenBalance(addr cw.Addr) (cw.Uint128, error) {
	var res cw20.BalanceResponse
	if err := c.QueryInto(cw20.QueryMsg{Balance: &cw20.BalanceQuery{Address: addr}}, &res); err != nil {
		return cw.Uint128{}, err
	}
	return res.Balance, nil
}

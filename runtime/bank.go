// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

func bankKey(addr cw.Addr, denom string) string {
	return prefixBank + string(addr) + "/" + denom
}

func (h *Host) balance(addr cw.Addr, denom string) (cw.Uint128, error) {
	var amount cw.Uint128
	raw, err := h.state.get(bankKey(addr, denom))
	if err != nil || raw == nil {
		return amount, err
	}
	if err := rlp.DecodeBytes(raw, &amount); err != nil {
		return amount, errors.Wrap(err, "decode balance")
	}
	return amount, nil
}

func (h *Host) setBalance(addr cw.Addr, denom string, amount cw.Uint128) error {
	if amount.IsZero() {
		h.state.del(bankKey(addr, denom))
		return nil
	}
	raw, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return errors.Wrap(err, "encode balance")
	}
	h.state.put(bankKey(addr, denom), raw)
	return nil
}

func (h *Host) addBalance(addr cw.Addr, c cw.Coin) error {
	bal, err := h.balance(addr, c.Denom)
	if err != nil {
		return err
	}
	bal, err = bal.Add(c.Amount)
	if err != nil {
		return errors.Wrapf(err, "credit %s", addr)
	}
	return h.setBalance(addr, c.Denom, bal)
}

func (h *Host) subBalance(addr cw.Addr, c cw.Coin) error {
	bal, err := h.balance(addr, c.Denom)
	if err != nil {
		return err
	}
	if bal.Lt(c.Amount) {
		return errors.Errorf("insufficient funds: %s has %s%s, needs %s", addr, bal, c.Denom, c)
	}
	bal, err = bal.Sub(c.Amount)
	if err != nil {
		return err
	}
	return h.setBalance(addr, c.Denom, bal)
}

func (h *Host) sendCoins(from, to cw.Addr, coins cw.Coins) error {
	for _, c := range coins {
		if c.Amount.IsZero() {
			return errors.Errorf("cannot send zero %s", c.Denom)
		}
		if err := h.subBalance(from, c); err != nil {
			return err
		}
		if err := h.addBalance(to, c); err != nil {
			return err
		}
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"unicode"

	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// contractStorage scopes the overlay to one contract.
type contractStorage struct {
	state  *state
	prefix string
}

func (s *contractStorage) Get(key []byte) ([]byte, error) {
	return s.state.get(s.prefix + string(key))
}

func (s *contractStorage) Set(key, value []byte) error {
	s.state.put(s.prefix+string(key), value)
	return nil
}

func (s *contractStorage) Remove(key []byte) error {
	s.state.del(s.prefix + string(key))
	return nil
}

var errReadOnly = errors.New("storage is read-only in queries")

type readOnly struct {
	cw.Storage
}

func (readOnly) Set(_, _ []byte) error { return errReadOnly }
func (readOnly) Remove(_ []byte) error { return errReadOnly }

// querier serves queries issued by contracts while a transaction runs, so it
// sees the writes of messages executed earlier in the same transaction.
type querier struct {
	h *Host
}

func (q *querier) QuerySmart(contract cw.Addr, msg []byte) ([]byte, error) {
	return q.h.query(contract, msg)
}

func (q *querier) QueryBalance(addr cw.Addr, denom string) (cw.Coin, error) {
	amount, err := q.h.balance(addr, denom)
	if err != nil {
		return cw.Coin{}, err
	}
	return cw.Coin{Denom: denom, Amount: amount}, nil
}

// addrValidator accepts lowercase alphanumeric addresses.
type addrValidator struct{}

func (addrValidator) AddrValidate(s string) (cw.Addr, error) {
	if s == "" {
		return "", errors.New("empty address")
	}
	if len(s) > 128 {
		return "", errors.Errorf("address %q too long", s)
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLower(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return "", errors.Errorf("invalid address %q", s)
		}
	}
	return cw.Addr(s), nil
}

// lockedQuerier serves queries from outside a transaction.
type lockedQuerier struct {
	h *Host
}

func (q lockedQuerier) QuerySmart(contract cw.Addr, msg []byte) ([]byte, error) {
	return q.h.Query(contract, msg)
}

func (q lockedQuerier) QueryBalance(addr cw.Addr, denom string) (cw.Coin, error) {
	amount, err := q.h.Balance(addr, denom)
	if err != nil {
		return cw.Coin{}, err
	}
	return cw.Coin{Denom: denom, Amount: amount}, nil
}

// Querier returns a querier against committed state for callers outside
// contract code.
func (h *Host) Querier() cw.Querier {
	return lockedQuerier{h}
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain deploys a complete TGE on an in-memory host.
package testchain

import (
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// Chain represents a host with the TGE contracts deployed on it.
type Chain struct {
	db        *lvldb.LevelDB
	host      *runtime.Host
	config    Config
	contracts *Contracts
}

// NewDefault deploys DefaultConfig.
func NewDefault() (*Chain, error) {
	return New(DefaultConfig())
}

// New deploys cfg on a fresh in-memory host.
func New(cfg Config) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	return Open(db, cfg)
}

// Open deploys cfg on db, which must not hold a deployment yet. The chain
// owns db and closes it on failure.
func Open(db *lvldb.LevelDB, cfg Config) (*Chain, error) {
	h, err := runtime.New(db, runtime.Options{ChainID: "testchain-1", StartHeight: 1, StartTime: cfg.StartTime})
	if err != nil {
		db.Close()
		return nil, err
	}
	existing, err := h.Contracts()
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(existing) > 0 {
		db.Close()
		return nil, errors.Errorf("database already holds %d contracts", len(existing))
	}
	builtin.Register(h)
	c, err := deploy(h, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Chain{db: db, host: h, config: cfg, contracts: c}, nil
}

func (c *Chain) Close() error {
	c.host.Close()
	return c.db.Close()
}

func (c *Chain) Host() *runtime.Host {
	return c.host
}

func (c *Chain) Config() Config {
	return c.config
}

func (c *Chain) Contracts() *Contracts {
	return c.contracts
}

// Pool returns the contracts of pool id, or nil.
func (c *Chain) Pool(id string) *PoolContracts {
	return c.contracts.Pools[id]
}

func (c *Chain) XYK() *Contract {
	return NewContract(c, Owner, c.contracts.XYKLockdrop)
}

func (c *Chain) PCL() *Contract {
	return NewContract(c, Owner, c.contracts.PCLLockdrop)
}

func (c *Chain) Now() uint64 {
	return c.host.Block().Time
}

// AdvanceTo mints a block at t, or the next block when t has passed.
func (c *Chain) AdvanceTo(t uint64) error {
	if t <= c.Now() {
		return c.host.NextBlock(1)
	}
	return c.host.SetTime(t)
}

// DepositEnd is when the lockdrop stops accepting deposits.
func (c *Chain) DepositEnd() uint64 {
	return c.config.InitTimestamp + c.config.DepositWindow
}

// WindowsEnd is when the lockdrop is over.
func (c *Chain) WindowsEnd() uint64 {
	return c.DepositEnd() + c.config.WithdrawalWindow
}

// Balance returns the bank balance when token is a denom, the cw20 balance otherwise.
func (c *Chain) Balance(addr cw.Addr, token string) (cw.Uint128, error) {
	if p, err := c.host.ContractInfo(cw.Addr(token)); err == nil && p.Code == builtin.CW20 {
		return NewContract(c, Owner, cw.Addr(token)).TokenBalance(addr)
	}
	return c.host.Balance(addr, token)
}

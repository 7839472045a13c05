// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lockdrop implements the accounting shared by the XYK and PCL
// lockdrop contracts: pools, lockup positions, user aggregates, the one-time
// incentive split and the per share staking rewards.
package lockdrop

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/metrics"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

var (
	logger = log.WithContext("pkg", "lockdrop")

	metricLockupOps = metrics.LazyLoadCounterVec("lockdrop_lockup_ops", []string{"variant", "op"})
)

// SetLogger replaces the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Engine binds a variant to the deps and env of a single message.
type Engine struct {
	variant Variant
	deps    cw.Deps
	env     cw.Env
}

func New(v Variant, deps cw.Deps, env cw.Env) *Engine {
	return &Engine{variant: v, deps: deps, env: env}
}

func (e *Engine) Variant() Variant { return e.variant }
func (e *Engine) Deps() cw.Deps    { return e.deps }
func (e *Engine) Env() cw.Env      { return e.env }
func (e *Engine) Self() cw.Addr    { return e.env.Contract.Address }
func (e *Engine) Now() uint64      { return e.env.Block.Time }
func (e *Engine) height() uint64   { return e.env.Block.Height }

func (e *Engine) count(op string) {
	metricLockupOps().AddWithLabel(1, map[string]string{"variant": e.variant.Name(), "op": op})
}

func (e *Engine) Config() (*Config, error) {
	return configItem.Load(e.deps.Storage)
}

func (e *Engine) SaveConfig(c *Config) error {
	return configItem.Save(e.deps.Storage, c)
}

func (e *Engine) State() (*State, error) {
	return stateItem.Load(e.deps.Storage)
}

func (e *Engine) SaveState(s *State) error {
	return stateItem.Save(e.deps.Storage, s)
}

// Pool loads a pool, failing with NotFound when it was never initialized.
func (e *Engine) Pool(id string) (*Pool, error) {
	p, found, err := pools.May(e.deps.Storage, storage.StringKey(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFoundf("pool %s not found", id)
	}
	return p, nil
}

func (e *Engine) SavePool(id string, p *Pool) error {
	return pools.Save(e.deps.Storage, storage.StringKey(id), p, e.height())
}

// PoolByLPToken resolves the pool accepting lockups of lpToken.
func (e *Engine) PoolByLPToken(lpToken cw.Addr) (string, *Pool, error) {
	id, found, err := poolsByLPToken.May(e.deps.Storage, lpToken)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, reverts.NotFoundf("no pool for lp token %s", lpToken)
	}
	p, err := e.Pool(id)
	return id, p, err
}

// AddPool registers a new pool and raises the total incentive share.
func (e *Engine) AddPool(id string, p *Pool) error {
	if id == "" {
		return reverts.InvalidInputf("pool id is required")
	}
	exists, err := pools.Has(e.deps.Storage, storage.StringKey(id))
	if err != nil {
		return err
	}
	if exists {
		return reverts.Invariantf("pool %s is already initialized", id)
	}
	taken, err := poolsByLPToken.Has(e.deps.Storage, p.LPToken)
	if err != nil {
		return err
	}
	if taken {
		return reverts.Invariantf("lp token %s already belongs to a pool", p.LPToken)
	}
	st, err := e.State()
	if err != nil {
		return err
	}
	if st.TotalIncentivesShare, err = st.TotalIncentivesShare.Add(p.IncentivesShare); err != nil {
		return reverts.Math(err)
	}
	st.SupportedPools = append(st.SupportedPools, id)
	if err := e.SaveState(st); err != nil {
		return err
	}
	if err := poolsByLPToken.Set(e.deps.Storage, p.LPToken, id); err != nil {
		return err
	}
	logger.Info("pool initialized", "variant", e.variant.Name(), "pool", id, "lp_token", p.LPToken, "share", p.IncentivesShare)
	return e.SavePool(id, p)
}

// Pools returns every registered pool in registration order.
func (e *Engine) Pools() ([]string, []*Pool, error) {
	st, err := e.State()
	if err != nil {
		return nil, nil, err
	}
	out := make([]*Pool, 0, len(st.SupportedPools))
	for _, id := range st.SupportedPools {
		p, err := e.Pool(id)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, p)
	}
	return st.SupportedPools, out, nil
}

// Lockup loads a position, reporting whether it exists.
func (e *Engine) Lockup(pool string, user cw.Addr, duration uint64) (*Lockup, bool, error) {
	return lockups.May(e.deps.Storage, keyOfLockup(pool, user, duration))
}

// MustLockup loads a position, failing with NotFound when absent.
func (e *Engine) MustLockup(pool string, user cw.Addr, duration uint64) (*Lockup, error) {
	l, found, err := e.Lockup(pool, user, duration)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFoundf("lockup position not found")
	}
	return l, nil
}

func (e *Engine) SaveLockup(pool string, user cw.Addr, duration uint64, l *Lockup) error {
	return lockups.Save(e.deps.Storage, keyOfLockup(pool, user, duration), l, e.height())
}

func (e *Engine) removeLockup(pool string, user cw.Addr, duration uint64) error {
	return lockups.Remove(e.deps.Storage, keyOfLockup(pool, user, duration), e.height())
}

// User loads a user aggregate; unknown users get an empty record.
func (e *Engine) User(addr cw.Addr) (*User, error) {
	u, found, err := users.May(e.deps.Storage, addr)
	if err != nil {
		return nil, err
	}
	if !found {
		return &User{}, nil
	}
	return u, nil
}

func (e *Engine) SaveUser(addr cw.Addr, u *User) error {
	return users.Save(e.deps.Storage, addr, u, e.height())
}

func (e *Engine) adjustUserPoolTotal(pool string, user cw.Addr, add, sub cw.Uint128) error {
	key := keyOfUserPool(pool, user)
	total, err := userPoolTotals.Get(e.deps.Storage, key)
	if err != nil {
		return err
	}
	if total, err = total.Add(add); err != nil {
		return reverts.Math(err)
	}
	if total, err = total.Sub(sub); err != nil {
		return reverts.Math(err)
	}
	if total.IsZero() {
		return userPoolTotals.Remove(e.deps.Storage, key, e.height())
	}
	return userPoolTotals.Save(e.deps.Storage, key, total, e.height())
}

// reweigh replaces the weight of a position's old units with the weight of its
// new units, keeping the pool weight equal to the sum of position weights.
func (e *Engine) reweigh(cfg *Config, p *Pool, duration uint64, oldUnits, newUnits cw.Uint128) error {
	oldWeight, err := e.variant.Weight(cfg, oldUnits, duration)
	if err != nil {
		return err
	}
	newWeight, err := e.variant.Weight(cfg, newUnits, duration)
	if err != nil {
		return err
	}
	w, err := p.WeightedAmount.Sub(oldWeight)
	if err != nil {
		return reverts.Math(err)
	}
	if p.WeightedAmount, err = w.Add(newWeight); err != nil {
		return reverts.Math(err)
	}
	return nil
}

// IncreaseLockup adds amount units to a position, opening it when needed.
// unlock applies to new positions only.
func (e *Engine) IncreaseLockup(cfg *Config, poolID string, p *Pool, user cw.Addr, duration uint64, amount cw.Uint128, unlock uint64) (*Lockup, error) {
	if err := e.variant.ValidateDuration(cfg, duration); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, reverts.InvalidInputf("amount must be greater than 0")
	}
	u, err := e.User(user)
	if err != nil {
		return nil, err
	}
	l, found, err := e.Lockup(poolID, user, duration)
	if err != nil {
		return nil, err
	}
	if !found {
		if uint64(len(u.Positions)) >= cfg.MaxPositionsPerUser {
			return nil, reverts.Invariantf("user can have up to %d lockup positions", cfg.MaxPositionsPerUser)
		}
		l = &Lockup{UnlockTimestamp: unlock}
		u.Positions = append(u.Positions, Position{Pool: poolID, Duration: duration})
		if err := e.SaveUser(user, u); err != nil {
			return nil, err
		}
	}
	if l.DestinationLPTransferred != nil {
		return nil, reverts.Invariantf("lockup position is already released")
	}
	units, err := l.LPUnitsLocked.Add(amount)
	if err != nil {
		return nil, reverts.Math(err)
	}
	if err := e.reweigh(cfg, p, duration, l.LPUnitsLocked, units); err != nil {
		return nil, err
	}
	l.LPUnitsLocked = units
	if p.AmountInLockups, err = p.AmountInLockups.Add(amount); err != nil {
		return nil, reverts.Math(err)
	}
	if err := e.SaveLockup(poolID, user, duration, l); err != nil {
		return nil, err
	}
	if err := e.SavePool(poolID, p); err != nil {
		return nil, err
	}
	if err := e.adjustUserPoolTotal(poolID, user, amount, cw.Uint128{}); err != nil {
		return nil, err
	}
	e.count("increase")
	logger.Debug("lockup increased", "variant", e.variant.Name(), "pool", poolID, "user", user, "duration", duration, "amount", amount, "units", units)
	return l, nil
}

// DecreaseLockup withdraws amount units from a live position and drops the
// position once it is empty.
func (e *Engine) DecreaseLockup(cfg *Config, poolID string, p *Pool, user cw.Addr, duration uint64, l *Lockup, amount cw.Uint128) error {
	units, err := l.LPUnitsLocked.Sub(amount)
	if err != nil {
		return reverts.Math(err)
	}
	if err := e.reweigh(cfg, p, duration, l.LPUnitsLocked, units); err != nil {
		return err
	}
	if p.AmountInLockups, err = p.AmountInLockups.Sub(amount); err != nil {
		return reverts.Math(err)
	}
	l.LPUnitsLocked = units
	if units.IsZero() {
		if err := e.removeLockup(poolID, user, duration); err != nil {
			return err
		}
		u, err := e.User(user)
		if err != nil {
			return err
		}
		u.removePosition(poolID, duration)
		if err := e.SaveUser(user, u); err != nil {
			return err
		}
	} else if err := e.SaveLockup(poolID, user, duration, l); err != nil {
		return err
	}
	if err := e.SavePool(poolID, p); err != nil {
		return err
	}
	e.count("decrease")
	return e.adjustUserPoolTotal(poolID, user, cw.Uint128{}, amount)
}

// ReleaseLockup takes a position's units out of the pool totals once its LP
// leaves the contract. The pool weight is left untouched since rewards no
// longer depend on it.
func (e *Engine) ReleaseLockup(poolID string, p *Pool, user cw.Addr, l *Lockup) error {
	var err error
	if p.AmountInLockups, err = p.AmountInLockups.Sub(l.LPUnitsLocked); err != nil {
		return reverts.Math(err)
	}
	if err := e.SavePool(poolID, p); err != nil {
		return err
	}
	e.count("release")
	return e.adjustUserPoolTotal(poolID, user, cw.Uint128{}, l.LPUnitsLocked)
}

// DropLockup removes a position and its reference from the user aggregate.
func (e *Engine) DropLockup(poolID string, user cw.Addr, duration uint64, u *User) error {
	if err := e.removeLockup(poolID, user, duration); err != nil {
		return err
	}
	u.removePosition(poolID, duration)
	return e.SaveUser(user, u)
}

type callbackEnvelope struct {
	Callback any `json:"callback"`
}

// Callback builds a message the contract sends to itself to continue an
// operation once earlier messages took effect.
func (e *Engine) Callback(msg any) (cw.CosmosMsg, error) {
	return cw.NewWasmExecute(e.Self(), callbackEnvelope{Callback: msg})
}

// ParseMsg decodes an entry point message into out.
func ParseMsg(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return reverts.InvalidInputf("invalid msg: %v", errors.Cause(err))
	}
	return nil
}

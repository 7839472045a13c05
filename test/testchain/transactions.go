// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/xyk"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// ProvideXYK mints the assets to user and provides them to the pool's XYK
// pair. It returns the LP minted.
func (c *Chain) ProvideXYK(user cw.Addr, pool string, amount, base uint64) (cw.Uint128, error) {
	p := c.Pool(pool)
	if p == nil {
		return cw.Uint128{}, errors.Errorf("unknown pool %s", pool)
	}
	coins := []cw.Coin{cw.NewCoin(amount, p.Denom), cw.NewCoin(base, BaseDenom)}
	if err := c.host.Mint(user, coins...); err != nil {
		return cw.Uint128{}, err
	}
	lp := NewContract(c, user, p.XYKLP)
	before, err := lp.TokenBalance(user)
	if err != nil {
		return cw.Uint128{}, err
	}
	msg := pair.ProvideLiquidityMsg{Assets: []cw.Asset{
		{Info: cw.NativeAsset(p.Denom), Amount: cw.NewUint128(amount)},
		{Info: cw.NativeAsset(BaseDenom), Amount: cw.NewUint128(base)},
	}}
	if _, err := NewContract(c, user, p.XYKPair).Execute(pair.ExecuteMsg{ProvideLiquidity: &msg}, coins...); err != nil {
		return cw.Uint128{}, err
	}
	after, err := lp.TokenBalance(user)
	if err != nil {
		return cw.Uint128{}, err
	}
	return after.Sub(before)
}

// Lock sends amount of the pool's XYK LP from user to the lockdrop.
func (c *Chain) Lock(user cw.Addr, pool string, amount cw.Uint128, duration uint64) (*runtime.Result, error) {
	p := c.Pool(pool)
	if p == nil {
		return nil, errors.Errorf("unknown pool %s", pool)
	}
	return NewContract(c, user, p.XYKLP).Send(c.contracts.XYKLockdrop, amount, xyk.HookMsg{
		IncreaseLockup: &xyk.IncreaseLockupMsg{Duration: duration},
	})
}

// FundLockdrop moves amount reward tokens from the owner into the lockdrop incentives.
func (c *Chain) FundLockdrop(amount uint64) (*runtime.Result, error) {
	token := NewContract(c, Owner, c.contracts.RewardToken)
	return token.Send(c.contracts.XYKLockdrop, cw.NewUint128(amount), xyk.HookMsg{IncreaseIncentives: &struct{}{}})
}

// FundRewards pays native staking rewards to everyone staking lpToken.
func (c *Chain) FundRewards(lpToken cw.Addr, coins ...cw.Coin) error {
	if err := c.host.Mint(Owner, coins...); err != nil {
		return err
	}
	_, err := NewContract(c, Owner, c.contracts.Incentives).Execute(incentives.ExecuteMsg{
		FundRewards: &incentives.FundRewardsMsg{LpToken: lpToken},
	}, coins...)
	return err
}

// FundTokenRewards pays amount reward tokens to everyone staking lpToken.
func (c *Chain) FundTokenRewards(lpToken cw.Addr, amount uint64) error {
	token := NewContract(c, Owner, c.contracts.RewardToken)
	_, err := token.Send(c.contracts.Incentives, cw.NewUint128(amount), incentives.HookMsg{
		FundRewards: &incentives.FundRewardsMsg{LpToken: lpToken},
	})
	return err
}

// MigrateAll closes the lockdrop, enables claims, then moves and stakes the
// liquidity of every pool.
func (c *Chain) MigrateAll() error {
	if err := c.AdvanceTo(c.WindowsEnd()); err != nil {
		return err
	}
	x := c.XYK()
	if _, err := x.Execute(xyk.ExecuteMsg{EnableClaims: &struct{}{}}); err != nil {
		return errors.Wrap(err, "enable claims")
	}
	for _, pc := range c.config.Pools {
		var p lockdrop.Pool
		if err := x.QueryInto(lockdrop.QueryMsg{Pool: &lockdrop.PoolQuery{Pool: pc.ID}}, &p); err != nil {
			return err
		}
		if p.AmountInLockups.IsZero() {
			continue
		}
		if _, err := x.Execute(xyk.ExecuteMsg{MigrateLiquidity: &xyk.MigrateLiquidityMsg{
			Pool:            pc.ID,
			DestinationPair: c.Pool(pc.ID).PCLPair,
		}}); err != nil {
			return errors.Wrapf(err, "migrate %s", pc.ID)
		}
		if _, err := x.Execute(xyk.ExecuteMsg{StakeLPTokens: &xyk.PoolMsg{Pool: pc.ID}}); err != nil {
			return errors.Wrapf(err, "stake %s", pc.ID)
		}
	}
	return nil
}

// SeedPCL provides initial liquidity to every PCL pair so migrations land in
// a non-empty pool.
func (c *Chain) SeedPCL(amount, base uint64) error {
	for id, p := range c.contracts.Pools {
		coins := []cw.Coin{cw.NewCoin(amount, p.Denom), cw.NewCoin(base, BaseDenom)}
		if err := c.host.Mint(Owner, coins...); err != nil {
			return err
		}
		msg := pair.ProvideLiquidityMsg{Assets: []cw.Asset{
			{Info: cw.NativeAsset(p.Denom), Amount: cw.NewUint128(amount)},
			{Info: cw.NativeAsset(BaseDenom), Amount: cw.NewUint128(base)},
		}}
		if _, err := NewContract(c, Owner, p.PCLPair).Execute(pair.ExecuteMsg{ProvideLiquidity: &msg}, coins...); err != nil {
			return errors.Wrapf(err, "seed %s", id)
		}
	}
	return nil
}


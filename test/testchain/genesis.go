// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/auction"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/pcl"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/xyk"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// DefaultConfig is a two pool lockdrop opening one block after start.
func DefaultConfig() Config {
	return Config{
		StartTime:           1_000,
		InitTimestamp:       2_000,
		DepositWindow:       5 * 24 * 3600,
		WithdrawalWindow:    2 * 24 * 3600,
		MinLockDuration:     1,
		MaxLockDuration:     52,
		WeeklyMultiplier:    1,
		WeeklyDivider:       12,
		MaxPositionsPerUser: 14,
		RewardSupply:        10_000_000_000,
		LockupRewards:       DefaultLockupRewards(),
		Pools: []PoolConfig{
			{ID: "ATOM", Denom: "uatom", IncentivesShare: 10_000_000},
			{ID: "USDC", Denom: "uusdc", IncentivesShare: 10_000_000},
		},
	}
}

// DefaultLockupRewards are the PCL duration coefficients.
func DefaultLockupRewards() []lockdrop.DurationCoefficient {
	table := []struct {
		weeks uint64
		coef  string
	}{{1, "0"}, {2, "0.1"}, {3, "0.2"}, {5, "0.35"}, {13, "0.7"}, {26, "1.2"}, {52, "2"}}
	out := make([]lockdrop.DurationCoefficient, 0, len(table))
	for _, r := range table {
		out = append(out, lockdrop.DurationCoefficient{Duration: r.weeks, Coefficient: cw.MustParseDecimal(r.coef)})
	}
	return out
}

func lpToken(h *runtime.Host, label string) (cw.Addr, error) {
	return h.Instantiate(builtin.CW20, Owner, label, cw20.InstantiateMsg{
		Name:     label,
		Symbol:   "uLP",
		Decimals: 6,
		Mint:     &cw20.MinterResponse{Minter: Owner},
	})
}

func deployPair(h *runtime.Host, label, denom string, venue cw.Addr) (cw.Addr, cw.Addr, error) {
	lp, err := lpToken(h, label+" LP")
	if err != nil {
		return "", "", err
	}
	p, err := h.Instantiate(builtin.Pair, Owner, label, pair.InstantiateMsg{
		AssetInfos:     []cw.AssetInfo{cw.NativeAsset(denom), cw.NativeAsset(BaseDenom)},
		LiquidityToken: lp,
		Incentives:     &venue,
	})
	if err != nil {
		return "", "", err
	}
	if _, err := h.Execute(lp, Owner, cw20.ExecuteMsg{UpdateMinter: &cw20.UpdateMinterMsg{NewMinter: &p}}); err != nil {
		return "", "", err
	}
	return p, lp, nil
}

// deploy instantiates and wires every contract of cfg on h.
func deploy(h *runtime.Host, cfg Config) (*Contracts, error) {
	var (
		c   = &Contracts{Pools: make(map[string]*PoolContracts)}
		err error
	)
	if c.RewardToken, err = h.Instantiate(builtin.CW20, Owner, "reward", cw20.InstantiateMsg{
		Name:            "Neutron",
		Symbol:          "NTRN",
		Decimals:        6,
		InitialBalances: []cw20.InitialBalance{{Address: Owner, Amount: cw.NewUint128(cfg.RewardSupply)}},
	}); err != nil {
		return nil, errors.Wrap(err, "reward token")
	}
	if c.Incentives, err = h.Instantiate(builtin.Incentives, Owner, "incentives", incentives.InstantiateMsg{}); err != nil {
		return nil, errors.Wrap(err, "incentives")
	}
	for _, pc := range cfg.Pools {
		pool := &PoolContracts{Denom: pc.Denom}
		if pool.XYKPair, pool.XYKLP, err = deployPair(h, pc.ID+" xyk", pc.Denom, c.Incentives); err != nil {
			return nil, errors.Wrapf(err, "xyk pair %s", pc.ID)
		}
		if pool.PCLPair, pool.PCLLP, err = deployPair(h, pc.ID+" pcl", pc.Denom, c.Incentives); err != nil {
			return nil, errors.Wrapf(err, "pcl pair %s", pc.ID)
		}
		c.Pools[pc.ID] = pool
	}

	if c.XYKLockdrop, err = h.Instantiate(builtin.XYKLockdrop, Owner, "xyk lockdrop", xyk.InstantiateMsg{
		InitTimestamp:       cfg.InitTimestamp,
		DepositWindow:       cfg.DepositWindow,
		WithdrawalWindow:    cfg.WithdrawalWindow,
		MinLockDuration:     cfg.MinLockDuration,
		MaxLockDuration:     cfg.MaxLockDuration,
		WeeklyMultiplier:    cfg.WeeklyMultiplier,
		WeeklyDivider:       cfg.WeeklyDivider,
		MaxPositionsPerUser: cfg.MaxPositionsPerUser,
	}); err != nil {
		return nil, errors.Wrap(err, "xyk lockdrop")
	}
	if c.Auction, err = h.Instantiate(builtin.Auction, Owner, "auction", auction.InstantiateMsg{
		RewardToken: c.RewardToken,
		Lockdrop:    &c.XYKLockdrop,
	}); err != nil {
		return nil, errors.Wrap(err, "auction")
	}
	pools := make([]pcl.PoolInfo, 0, len(cfg.Pools))
	for _, pc := range cfg.Pools {
		pools = append(pools, pcl.PoolInfo{
			Pool:            pc.ID,
			Pair:            c.Pools[pc.ID].PCLPair,
			LPToken:         c.Pools[pc.ID].PCLLP,
			IncentivesShare: cw.NewUint128(pc.IncentivesShare),
		})
	}
	if c.PCLLockdrop, err = h.Instantiate(builtin.PCLLockdrop, Owner, "pcl lockdrop", pcl.InstantiateMsg{
		XYKLockdrop:         c.XYKLockdrop,
		Incentives:          c.Incentives,
		AuctionContract:     &c.Auction,
		InitTimestamp:       cfg.InitTimestamp,
		DepositWindow:       cfg.DepositWindow,
		WithdrawalWindow:    cfg.WithdrawalWindow,
		MaxPositionsPerUser: cfg.MaxPositionsPerUser,
		LockupRewards:       cfg.LockupRewards,
		Pools:               pools,
	}); err != nil {
		return nil, errors.Wrap(err, "pcl lockdrop")
	}

	if _, err := h.Execute(c.XYKLockdrop, Owner, xyk.ExecuteMsg{UpdateConfig: &xyk.UpdateConfigMsg{NewConfig: xyk.NewConfig{
		AuctionContract: &c.Auction,
		Generator:       &c.Incentives,
		RewardToken:     &c.RewardToken,
		PCLLockdrop:     &c.PCLLockdrop,
	}}}); err != nil {
		return nil, errors.Wrap(err, "configure xyk lockdrop")
	}
	for _, pc := range cfg.Pools {
		if _, err := h.Execute(c.XYKLockdrop, Owner, xyk.ExecuteMsg{InitializePool: &xyk.InitializePoolMsg{
			Pool:            pc.ID,
			SourcePool:      c.Pools[pc.ID].XYKPair,
			LPToken:         c.Pools[pc.ID].XYKLP,
			IncentivesShare: cw.NewUint128(pc.IncentivesShare),
		}}); err != nil {
			return nil, errors.Wrapf(err, "initialize pool %s", pc.ID)
		}
	}
	return c, nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Owner deploys and administers every contract of the chain.
const Owner cw.Addr = "owner"

// BaseDenom is the quote asset of every pair.
const BaseDenom = "untrn"

// PoolConfig describes one lockdrop pool and the pairs backing it.
type PoolConfig struct {
	ID              string `yaml:"id"`
	Denom           string `yaml:"denom"`
	IncentivesShare uint64 `yaml:"incentives_share"`
}

// Config describes the deployment built by New.
type Config struct {
	StartTime           uint64                         `yaml:"start_time"`
	InitTimestamp       uint64                         `yaml:"init_timestamp"`
	DepositWindow       uint64                         `yaml:"deposit_window"`
	WithdrawalWindow    uint64                         `yaml:"withdrawal_window"`
	MinLockDuration     uint64                         `yaml:"min_lock_duration"`
	MaxLockDuration     uint64                         `yaml:"max_lock_duration"`
	WeeklyMultiplier    uint64                         `yaml:"weekly_multiplier"`
	WeeklyDivider       uint64                         `yaml:"weekly_divider"`
	MaxPositionsPerUser uint64                         `yaml:"max_positions_per_user"`
	RewardSupply        uint64                         `yaml:"reward_supply"`
	LockupRewards       []lockdrop.DurationCoefficient `yaml:"-"`
	Pools               []PoolConfig                   `yaml:"pools"`
}

// PoolContracts are the pairs and LP tokens of one pool.
type PoolContracts struct {
	Denom   string
	XYKPair cw.Addr
	XYKLP   cw.Addr
	PCLPair cw.Addr
	PCLLP   cw.Addr
}

// Contracts holds the addresses of a deployed chain.
type Contracts struct {
	RewardToken cw.Addr
	Incentives  cw.Addr
	Auction     cw.Addr
	XYKLockdrop cw.Addr
	PCLLockdrop cw.Addr
	Pools       map[string]*PoolContracts
}

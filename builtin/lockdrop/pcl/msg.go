// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pcl

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

type PoolInfo struct {
	Pool            string     `json:"pool"`
	Pair            cw.Addr    `json:"pair"`
	LPToken         cw.Addr    `json:"lp_token"`
	IncentivesShare cw.Uint128 `json:"incentives_share"`
}

type InstantiateMsg struct {
	Owner               *cw.Addr                       `json:"owner,omitempty"`
	XYKLockdrop         cw.Addr                        `json:"xyk_lockdrop_contract"`
	Incentives          cw.Addr                        `json:"incentives"`
	CreditsContract     *cw.Addr                       `json:"credits_contract,omitempty"`
	AuctionContract     *cw.Addr                       `json:"auction_contract,omitempty"`
	InitTimestamp       uint64                         `json:"init_timestamp"`
	DepositWindow       uint64                         `json:"deposit_window"`
	WithdrawalWindow    uint64                         `json:"withdrawal_window"`
	MaxPositionsPerUser uint64                         `json:"max_positions_per_user"`
	LockupRewards       []lockdrop.DurationCoefficient `json:"lockup_rewards_info"`
	Pools               []PoolInfo                     `json:"pools"`
}

type ExecuteMsg struct {
	lockdrop.OwnershipMsg
	MigrateXYKLiquidity             *MigrateXYKLiquidityMsg            `json:"migrate_xyk_liquidity,omitempty"`
	ClaimRewardsAndOptionallyUnlock *lockdrop.ClaimRewardsAndUnlockMsg `json:"claim_rewards_and_optionally_unlock,omitempty"`
	UpdateConfig                    *UpdateConfigMsg                   `json:"update_config,omitempty"`
	Callback                        *CallbackMsg                       `json:"callback,omitempty"`
}

// MigrateXYKLiquidityMsg carries one lockup leaving the XYK lockdrop. The
// native assets of the withdrawn liquidity are attached as funds.
type MigrateXYKLiquidityMsg struct {
	Pool        string          `json:"pool_type"`
	UserAddress cw.Addr         `json:"user_address"`
	Duration    uint64          `json:"duration"`
	UserInfo    lockdrop.User   `json:"user_info"`
	LockupInfo  lockdrop.Lockup `json:"lockup_info"`
}

type UpdateConfigMsg struct {
	NewConfig NewConfig `json:"new_config"`
}

type NewConfig struct {
	Generator *cw.Addr `json:"generator,omitempty"`
}

type CallbackMsg struct {
	lockdrop.CallbackMsg
	FinishLockupMigrationCallback *FinishLockupMigrationMsg `json:"finish_lockup_migration_callback,omitempty"`
}

type FinishLockupMigrationMsg struct {
	Pool        string          `json:"pool_type"`
	UserAddress cw.Addr         `json:"user_address"`
	Duration    uint64          `json:"duration"`
	PrevStaked  cw.Uint128      `json:"staked_lp_token_amount"`
	UserInfo    lockdrop.User   `json:"user_info"`
	LockupInfo  lockdrop.Lockup `json:"lockup_info"`
}

// MigrateXYKLiquidity builds the call that hands a lockup over to the PCL lockdrop.
func MigrateXYKLiquidity(contract cw.Addr, msg MigrateXYKLiquidityMsg, funds ...cw.Coin) (cw.CosmosMsg, error) {
	return cw.NewWasmExecute(contract, ExecuteMsg{MigrateXYKLiquidity: &msg}, funds...)
}

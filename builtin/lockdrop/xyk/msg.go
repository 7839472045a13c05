// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyk

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

type InstantiateMsg struct {
	Owner               *cw.Addr `json:"owner,omitempty"`
	InitTimestamp       uint64   `json:"init_timestamp"`
	DepositWindow       uint64   `json:"deposit_window"`
	WithdrawalWindow    uint64   `json:"withdrawal_window"`
	MinLockDuration     uint64   `json:"min_lock_duration"`
	MaxLockDuration     uint64   `json:"max_lock_duration"`
	WeeklyMultiplier    uint64   `json:"weekly_multiplier"`
	WeeklyDivider       uint64   `json:"weekly_divider"`
	MaxPositionsPerUser uint64   `json:"max_positions_per_user"`
	CreditsContract     *cw.Addr `json:"credits_contract,omitempty"`
	AuctionContract     *cw.Addr `json:"auction_contract,omitempty"`
}

type ExecuteMsg struct {
	lockdrop.OwnershipMsg
	Receive                         *cw20.ReceiveMsg                   `json:"receive,omitempty"`
	UpdateConfig                    *UpdateConfigMsg                   `json:"update_config,omitempty"`
	InitializePool                  *InitializePoolMsg                 `json:"initialize_pool,omitempty"`
	UpdatePool                      *UpdatePoolMsg                     `json:"update_pool,omitempty"`
	WithdrawFromLockup              *WithdrawFromLockupMsg             `json:"withdraw_from_lockup,omitempty"`
	MigrateLiquidity                *MigrateLiquidityMsg               `json:"migrate_liquidity,omitempty"`
	StakeLPTokens                   *PoolMsg                           `json:"stake_lp_tokens,omitempty"`
	EnableClaims                    *struct{}                          `json:"enable_claims,omitempty"`
	DelegateRewardsToAuction        *DelegateRewardsMsg                `json:"delegate_rewards_to_auction,omitempty"`
	ClaimRewardsAndOptionallyUnlock *lockdrop.ClaimRewardsAndUnlockMsg `json:"claim_rewards_and_optionally_unlock,omitempty"`
	MigrateToPCL                    *LockupMsg                         `json:"migrate_to_pcl,omitempty"`
	Callback                        *CallbackMsg                       `json:"callback,omitempty"`
}

// HookMsg is the receive payload of a cw20 send to the lockdrop.
type HookMsg struct {
	IncreaseLockup     *IncreaseLockupMsg `json:"increase_lockup,omitempty"`
	IncreaseIncentives *struct{}          `json:"increase_incentives,omitempty"`
}

type IncreaseLockupMsg struct {
	Duration uint64 `json:"duration"`
}

type UpdateConfigMsg struct {
	NewConfig NewConfig `json:"new_config"`
}

type NewConfig struct {
	AuctionContract *cw.Addr `json:"auction_contract,omitempty"`
	Generator       *cw.Addr `json:"generator,omitempty"`
	RewardToken     *cw.Addr `json:"reward_token,omitempty"`
	CreditsContract *cw.Addr `json:"credits_contract,omitempty"`
	PCLLockdrop     *cw.Addr `json:"pcl_lockdrop,omitempty"`
}

type InitializePoolMsg struct {
	Pool            string     `json:"pool"`
	SourcePool      cw.Addr    `json:"source_pool"`
	LPToken         cw.Addr    `json:"lp_token"`
	IncentivesShare cw.Uint128 `json:"incentives_share"`
}

type UpdatePoolMsg struct {
	Pool            string     `json:"pool"`
	IncentivesShare cw.Uint128 `json:"incentives_share"`
}

type WithdrawFromLockupMsg struct {
	Pool     string     `json:"pool"`
	Duration uint64     `json:"duration"`
	Amount   cw.Uint128 `json:"amount"`
}

type MigrateLiquidityMsg struct {
	Pool              string      `json:"pool"`
	DestinationPair   cw.Addr     `json:"destination_pair"`
	SlippageTolerance *cw.Decimal `json:"slippage_tolerance,omitempty"`
}

type PoolMsg struct {
	Pool string `json:"pool"`
}

type DelegateRewardsMsg struct {
	Amount cw.Uint128 `json:"amount"`
}

type LockupMsg struct {
	Pool     string `json:"pool"`
	Duration uint64 `json:"duration"`
}

// CallbackMsg extends the shared continuations with the migration steps.
type CallbackMsg struct {
	lockdrop.CallbackMsg
	MigrateLiquidityCallback         *MigrateLiquidityCallbackMsg `json:"migrate_liquidity_callback,omitempty"`
	SettleLiquidityMigrationCallback *SettleLiquidityMigrationMsg `json:"settle_liquidity_migration_callback,omitempty"`
	MigrateUserLockupToPCLCallback   *MigrateUserLockupMsg        `json:"migrate_user_lockup_to_pcl_callback,omitempty"`
	FinishMigrationToPCLCallback     *FinishMigrationToPCLMsg     `json:"finish_migration_to_pcl_callback,omitempty"`
}

type MigrateLiquidityCallbackMsg struct {
	Pool              string      `json:"pool"`
	DestinationPair   cw.Addr     `json:"destination_pair"`
	PrevBalances      []cw.Asset  `json:"prev_balances"`
	SlippageTolerance *cw.Decimal `json:"slippage_tolerance,omitempty"`
}

type SettleLiquidityMigrationMsg struct {
	Pool            string     `json:"pool"`
	DestinationPair cw.Addr    `json:"destination_pair"`
	LPToken         cw.Addr    `json:"lp_token"`
	PrevLPBalance   cw.Uint128 `json:"prev_lp_balance"`
}

type MigrateUserLockupMsg struct {
	Pool        string  `json:"pool"`
	UserAddress cw.Addr `json:"user_address"`
	Duration    uint64  `json:"duration"`
}

type FinishMigrationToPCLMsg struct {
	Pool         string          `json:"pool"`
	UserAddress  cw.Addr         `json:"user_address"`
	Duration     uint64          `json:"duration"`
	PrevBalances []cw.Asset      `json:"prev_balances"`
	LockupInfo   lockdrop.Lockup `json:"lockup_info"`
	UserInfo     lockdrop.User   `json:"user_info"`
}

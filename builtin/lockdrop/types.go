// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// SecondsPerWeek converts lock durations into seconds.
const SecondsPerWeek = 7 * 24 * 60 * 60

// MaxProposalTTL bounds the lifetime of an ownership proposal.
const MaxProposalTTL = SecondsPerWeek

// DurationCoefficient is the weight bonus of a lock duration in the PCL lockdrop.
type DurationCoefficient struct {
	Duration    uint64     `json:"duration"`
	Coefficient cw.Decimal `json:"coefficient"`
}

// Config holds the parameters of a lockdrop. Contract addresses are set at
// most once, except Incentives which may change while no pool is staked.
type Config struct {
	Owner               cw.Addr               `json:"owner"`
	RewardToken         *cw.Addr              `json:"reward_token,omitempty" rlp:"nil"`
	Incentives          *cw.Addr              `json:"incentives,omitempty" rlp:"nil"`
	AuctionContract     *cw.Addr              `json:"auction_contract,omitempty" rlp:"nil"`
	CreditsContract     *cw.Addr              `json:"credits_contract,omitempty" rlp:"nil"`
	PCLLockdrop         *cw.Addr              `json:"pcl_lockdrop,omitempty" rlp:"nil"`
	XYKLockdrop         *cw.Addr              `json:"xyk_lockdrop,omitempty" rlp:"nil"`
	InitTimestamp       uint64                `json:"init_timestamp"`
	DepositWindow       uint64                `json:"deposit_window"`
	WithdrawalWindow    uint64                `json:"withdrawal_window"`
	MinLockDuration     uint64                `json:"min_lock_duration"`
	MaxLockDuration     uint64                `json:"max_lock_duration"`
	WeeklyMultiplier    uint64                `json:"weekly_multiplier"`
	WeeklyDivider       uint64                `json:"weekly_divider"`
	MaxPositionsPerUser uint64                `json:"max_positions_per_user"`
	LockdropIncentives  cw.Uint128            `json:"lockdrop_incentives"`
	LockupRewards       []DurationCoefficient `json:"lockup_rewards_info,omitempty"`
}

// DepositEnd is the first second of the withdrawal window.
func (c *Config) DepositEnd() uint64 { return c.InitTimestamp + c.DepositWindow }

// WindowsEnd is the first second after both windows.
func (c *Config) WindowsEnd() uint64 { return c.DepositEnd() + c.WithdrawalWindow }

// UnlockTimestamp is the time a lock of duration weeks becomes withdrawable.
func (c *Config) UnlockTimestamp(duration uint64) uint64 {
	return c.WindowsEnd() + duration*SecondsPerWeek
}

// State holds global totals.
type State struct {
	TotalIncentivesShare cw.Uint128 `json:"total_incentives_share"`
	AreClaimsAllowed     bool       `json:"are_claims_allowed"`
	SupportedPools       []string   `json:"supported_pairs_list"`
}

// MigrationInfo records where a pool's liquidity went.
type MigrationInfo struct {
	Pair       cw.Addr    `json:"pair"`
	LPToken    cw.Addr    `json:"lp_token"`
	MigratedLP cw.Uint128 `json:"migrated_lp_amount"`
	LockedLP   cw.Uint128 `json:"locked_lp_amount"`
}

// RewardPerShare is the cumulative reward of one asset per staked LP unit.
type RewardPerShare struct {
	Info     cw.AssetInfo `json:"info"`
	PerShare cw.Decimal   `json:"amount"`
}

// Pool is a liquidity pool accepting lockups.
type Pool struct {
	Pair            cw.Addr          `json:"pair"`
	LPToken         cw.Addr          `json:"lp_token"`
	AmountInLockups cw.Uint128       `json:"amount_in_lockups"`
	WeightedAmount  cw.Uint256       `json:"weighted_amount"`
	IncentivesShare cw.Uint128       `json:"incentives_share"`
	IsStaked        bool             `json:"is_staked"`
	Migration       *MigrationInfo   `json:"migration_info,omitempty" rlp:"nil"`
	RewardsPerShare []RewardPerShare `json:"generator_rewards_per_share"`
}

// StakeToken is the LP token the pool holds or stakes.
func (p *Pool) StakeToken() cw.Addr {
	if p.Migration != nil {
		return p.Migration.LPToken
	}
	return p.LPToken
}

// PositionLP converts locked units into the amount of StakeToken owned by the
// position. After a migration the units are converted at the migration ratio.
func (p *Pool) PositionLP(units cw.Uint128) (cw.Uint128, error) {
	if p.Migration == nil {
		return units, nil
	}
	if p.Migration.LockedLP.IsZero() {
		return cw.Uint128{}, nil
	}
	return units.MulDiv(p.Migration.MigratedLP, p.Migration.LockedLP)
}

func (p *Pool) rewardPerShare(info cw.AssetInfo) cw.Decimal {
	for _, r := range p.RewardsPerShare {
		if r.Info == info {
			return r.PerShare
		}
	}
	return cw.DecimalZero()
}

func (p *Pool) addRewardPerShare(info cw.AssetInfo, inc cw.Decimal) error {
	for i := range p.RewardsPerShare {
		if p.RewardsPerShare[i].Info == info {
			sum, err := p.RewardsPerShare[i].PerShare.Add(inc)
			if err != nil {
				return err
			}
			p.RewardsPerShare[i].PerShare = sum
			return nil
		}
	}
	p.RewardsPerShare = append(p.RewardsPerShare, RewardPerShare{Info: info, PerShare: inc})
	return nil
}

// Lockup is one (pool, user, duration) position.
type Lockup struct {
	LPUnitsLocked            cw.Uint128  `json:"lp_units_locked"`
	WithdrawalFlag           bool        `json:"withdrawal_flag"`
	RewardAmount             cw.Uint128  `json:"reward_amount"`
	RewardDebts              []cw.Asset  `json:"reward_debts"`
	UnlockTimestamp          uint64      `json:"unlock_timestamp"`
	DestinationLPTransferred *cw.Uint128 `json:"destination_lp_transferred,omitempty"`
}

// lockupRLP is the stored form of a Lockup. A released position keeps the
// amount it released, which may be zero.
type lockupRLP struct {
	LPUnitsLocked   cw.Uint128
	WithdrawalFlag  bool
	RewardAmount    cw.Uint128
	RewardDebts     []cw.Asset
	UnlockTimestamp uint64
	Released        bool
	ReleasedLP      cw.Uint128
}

// EncodeRLP implements rlp.Encoder.
func (l *Lockup) EncodeRLP(w io.Writer) error {
	out := lockupRLP{
		LPUnitsLocked:   l.LPUnitsLocked,
		WithdrawalFlag:  l.WithdrawalFlag,
		RewardAmount:    l.RewardAmount,
		RewardDebts:     l.RewardDebts,
		UnlockTimestamp: l.UnlockTimestamp,
	}
	if l.DestinationLPTransferred != nil {
		out.Released = true
		out.ReleasedLP = *l.DestinationLPTransferred
	}
	return rlp.Encode(w, &out)
}

// DecodeRLP implements rlp.Decoder.
func (l *Lockup) DecodeRLP(s *rlp.Stream) error {
	var in lockupRLP
	if err := s.Decode(&in); err != nil {
		return err
	}
	*l = Lockup{
		LPUnitsLocked:   in.LPUnitsLocked,
		WithdrawalFlag:  in.WithdrawalFlag,
		RewardAmount:    in.RewardAmount,
		RewardDebts:     in.RewardDebts,
		UnlockTimestamp: in.UnlockTimestamp,
	}
	if in.Released {
		released := in.ReleasedLP
		l.DestinationLPTransferred = &released
	}
	return nil
}

func (l *Lockup) debt(info cw.AssetInfo) cw.Uint128 {
	for _, d := range l.RewardDebts {
		if d.Info == info {
			return d.Amount
		}
	}
	return cw.Uint128{}
}

func (l *Lockup) setDebt(info cw.AssetInfo, amount cw.Uint128) {
	for i := range l.RewardDebts {
		if l.RewardDebts[i].Info == info {
			l.RewardDebts[i].Amount = amount
			return
		}
	}
	l.RewardDebts = append(l.RewardDebts, cw.Asset{Info: info, Amount: amount})
}

// Position references one of a user's lockups.
type Position struct {
	Pool     string `json:"pool"`
	Duration uint64 `json:"duration"`
}

// User aggregates a user's lockdrop rewards.
type User struct {
	TotalReward       cw.Uint128 `json:"total_lockdrop_rewards"`
	RewardsFinalized  bool       `json:"rewards_finalized"`
	DelegatedReward   cw.Uint128 `json:"delegated_lockdrop_rewards"`
	RewardTransferred bool       `json:"lockdrop_rewards_transferred"`
	Positions         []Position `json:"positions"`
}

func (u *User) removePosition(pool string, duration uint64) {
	for i, p := range u.Positions {
		if p.Pool == pool && p.Duration == duration {
			u.Positions = append(u.Positions[:i], u.Positions[i+1:]...)
			return
		}
	}
}

// OwnershipProposal is a pending transfer of contract ownership.
type OwnershipProposal struct {
	Owner cw.Addr `json:"owner"`
	TTL   uint64  `json:"ttl"`
}

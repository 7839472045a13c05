// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyk

import (
	"strconv"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/pcl"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

func migrateToPCL(e *lockdrop.Engine, info cw.MessageInfo, msg *LockupMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if cfg.PCLLockdrop == nil {
		return nil, reverts.InvalidInputf("PCL lockdrop is not set")
	}
	st, err := e.State()
	if err != nil {
		return nil, err
	}
	if !st.AreClaimsAllowed {
		return nil, reverts.Phasef("claims are not allowed yet")
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	if p.Migration == nil {
		return nil, reverts.Invariantf("pool liquidity is not migrated")
	}
	l, err := e.MustLockup(msg.Pool, info.Sender, msg.Duration)
	if err != nil {
		return nil, err
	}
	if l.DestinationLPTransferred != nil {
		return nil, reverts.Invariantf("LP tokens have already been claimed")
	}
	u, err := e.User(info.Sender)
	if err != nil {
		return nil, err
	}
	if err := e.FinalizeUserRewards(cfg, info.Sender, u); err != nil {
		return nil, err
	}
	msgs, err := e.ClaimPoolRewards(cfg, msg.Pool, p)
	if err != nil {
		return nil, err
	}
	next, err := e.Callback(CallbackMsg{MigrateUserLockupToPCLCallback: &MigrateUserLockupMsg{
		Pool:        msg.Pool,
		UserAddress: info.Sender,
		Duration:    msg.Duration,
	}})
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(msgs...).
		AddMessage(next).
		AddAttribute("action", "migrate_to_pcl").
		AddAttribute("pool", msg.Pool).
		AddAttribute("user", info.Sender.String()).
		AddAttribute("duration", strconv.FormatUint(msg.Duration, 10)), nil
}

// migrateUserLockup pays out what the lockup earned here, withdraws its share
// of the destination liquidity and forgets the position.
func migrateUserLockup(e *lockdrop.Engine, msg *MigrateUserLockupMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	p, err := e.Pool(msg.Pool)
	if err != nil {
		return nil, err
	}
	l, err := e.MustLockup(msg.Pool, msg.UserAddress, msg.Duration)
	if err != nil {
		return nil, err
	}
	u, err := e.User(msg.UserAddress)
	if err != nil {
		return nil, err
	}
	resp := cw.NewResponse().AddAttribute("action", "migrate_user_lockup_to_pcl")

	staking, err := e.SettleStakingRewards(p, msg.UserAddress, l)
	if err != nil {
		return nil, err
	}
	rewards, _, err := e.PayLockdropReward(cfg, msg.UserAddress, u)
	if err != nil {
		return nil, err
	}

	amount, err := p.PositionLP(l.LPUnitsLocked)
	if err != nil {
		return nil, reverts.Math(err)
	}
	if amount.IsZero() {
		return nil, reverts.Invariantf("lockup holds no liquidity to migrate")
	}
	if p.IsStaked {
		unstake, err := e.Variant().UnstakeMsg(*cfg.Incentives, p.Migration.LPToken, amount)
		if err != nil {
			return nil, err
		}
		resp.AddMessage(unstake)
	}
	dst, err := pair.QueryPair(e.Deps().Querier, p.Migration.Pair)
	if err != nil {
		return nil, err
	}
	prev, err := e.SnapshotBalances(dst.AssetInfos)
	if err != nil {
		return nil, err
	}
	withdraw, err := pair.WithdrawLiquidity(p.Migration.LPToken, p.Migration.Pair, amount)
	if err != nil {
		return nil, err
	}

	lockupInfo, userInfo := *l, *u
	userInfo.Positions = append([]lockdrop.Position(nil), u.Positions...)
	if err := e.ReleaseLockup(msg.Pool, p, msg.UserAddress, l); err != nil {
		return nil, err
	}
	if err := e.DropLockup(msg.Pool, msg.UserAddress, msg.Duration, u); err != nil {
		return nil, err
	}
	finish, err := e.Callback(CallbackMsg{FinishMigrationToPCLCallback: &FinishMigrationToPCLMsg{
		Pool:         msg.Pool,
		UserAddress:  msg.UserAddress,
		Duration:     msg.Duration,
		PrevBalances: prev,
		LockupInfo:   lockupInfo,
		UserInfo:     userInfo,
	}})
	if err != nil {
		return nil, err
	}
	logger.Debug("lockup leaving for PCL", "pool", msg.Pool, "user", msg.UserAddress, "duration", msg.Duration, "lp", amount)
	// payouts run after the hand-off so the balance diff only sees withdrawn liquidity
	return resp.
		AddMessage(withdraw, finish).
		AddMessage(staking...).
		AddMessage(rewards...).
		AddAttribute("user", msg.UserAddress.String()).
		AddAttribute("lp_amount", amount.String()), nil
}

func finishMigrationToPCL(e *lockdrop.Engine, msg *FinishMigrationToPCLMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	received, err := e.BalanceDiffs(msg.PrevBalances)
	if err != nil {
		return nil, err
	}
	var funds cw.Coins
	for _, a := range received {
		if !a.Info.IsNative() || a.Amount.IsZero() {
			continue
		}
		funds = append(funds, cw.Coin{Denom: a.Info.Denom, Amount: a.Amount})
	}
	migrate, err := pcl.MigrateXYKLiquidity(*cfg.PCLLockdrop, pcl.MigrateXYKLiquidityMsg{
		Pool:        msg.Pool,
		UserAddress: msg.UserAddress,
		Duration:    msg.Duration,
		UserInfo:    msg.UserInfo,
		LockupInfo:  msg.LockupInfo,
	}, funds...)
	if err != nil {
		return nil, err
	}
	return cw.NewResponse().
		AddMessage(migrate).
		AddAttribute("action", "finish_migration_to_pcl").
		AddAttribute("user", msg.UserAddress.String()), nil
}

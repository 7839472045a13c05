// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/storage"
)

type lockupKey []byte

func (k lockupKey) Bytes() []byte { return k }

func keyOfLockup(pool string, user cw.Addr, duration uint64) lockupKey {
	return storage.Join([]byte(pool), user.Bytes(), storage.Uint64Key(duration).Bytes())
}

type userPoolKey []byte

func (k userPoolKey) Bytes() []byte { return k }

func keyOfUserPool(pool string, user cw.Addr) userPoolKey {
	return storage.Join([]byte(pool), user.Bytes())
}

var (
	configItem    = storage.NewItem[*Config]("config")
	stateItem     = storage.NewItem[*State]("state")
	ownershipItem = storage.NewItem[*OwnershipProposal]("ownership_proposal")

	pools          = storage.NewSnapshotMap[storage.StringKey, *Pool]("pools")
	lockups        = storage.NewSnapshotMap[lockupKey, *Lockup]("lockups")
	users          = storage.NewSnapshotMap[cw.Addr, *User]("users")
	userPoolTotals = storage.NewSnapshotMap[userPoolKey, cw.Uint128]("user_pool_totals")
	poolsByLPToken = storage.NewMap[cw.Addr, string]("pools_by_lp_token")
)

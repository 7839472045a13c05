// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Variant captures what differs between the XYK and the PCL lockdrop: how a
// lock duration is weighted and how the staking venue is asked for rewards.
type Variant interface {
	Name() string
	ValidateDuration(cfg *Config, duration uint64) error
	Weight(cfg *Config, amount cw.Uint128, duration uint64) (cw.Uint256, error)
	ClaimRewardsMsg(venue, lpToken cw.Addr) (cw.CosmosMsg, error)
	UnstakeMsg(venue, lpToken cw.Addr, amount cw.Uint128) (cw.CosmosMsg, error)
}

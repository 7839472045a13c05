// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the contract codes shipped with the simulator.
package builtin

import (
	"sort"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/auction"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/cw20"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/incentives"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/pcl"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/xyk"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/pair"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

// Code names.
const (
	CW20        = "cw20"
	Pair        = "pair"
	Incentives  = "incentives"
	Auction     = "auction"
	XYKLockdrop = "lockdrop_xyk"
	PCLLockdrop = "lockdrop_pcl"
)

var codes = map[string]runtime.Contract{
	CW20:        cw20.Token{},
	Pair:        pair.Pair{},
	Incentives:  incentives.Incentives{},
	Auction:     auction.Auction{},
	XYKLockdrop: xyk.Lockdrop{},
	PCLLockdrop: pcl.Lockdrop{},
}

// Codes returns the names of all builtin codes in order.
func Codes() []string {
	names := make([]string, 0, len(codes))
	for name := range codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register stores every builtin code on h.
func Register(h *runtime.Host) {
	for _, name := range Codes() {
		h.StoreCode(name, codes[name])
	}
}

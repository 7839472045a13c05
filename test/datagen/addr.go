// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// RandomAddr returns a fresh account address.
func RandomAddr() cw.Addr {
	var b [10]byte
	rand.Read(b[:])
	return cw.Addr("neutron1" + hex.EncodeToString(b[:]))
}

// Users returns n fresh account addresses.
func Users(n int) []cw.Addr {
	out := make([]cw.Addr, n)
	for i := range out {
		out[i] = RandomAddr()
	}
	return out
}

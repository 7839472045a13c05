// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandAmount(t *testing.T) {
	for range 1000 {
		v := RandAmount(10, 20)
		assert.GreaterOrEqual(t, v, uint64(10))
		assert.LessOrEqual(t, v, uint64(20))
	}
	assert.Equal(t, uint64(7), RandAmount(7, 7))
}

func TestUsers(t *testing.T) {
	users := Users(3)
	assert.Len(t, users, 3)
	assert.NotEqual(t, users[0], users[1])
	assert.Regexp(t, "^neutron1[0-9a-f]{20}$", string(users[2]))
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{"1", "1", false},
		{"0.25", "0.25", false},
		{"12.000000000000000001", "12.000000000000000001", false},
		{"3.100", "3.1", false},
		{"0", "0", false},
		{"1.0000000000000000001", "", true},
		{".5", "", true},
		{"5.", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		d, err := ParseDecimal(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.String())
	}
}

func TestDecimalArithmetic(t *testing.T) {
	r, err := DecimalFromRatio(NewUint256(1), NewUint256(3))
	require.NoError(t, err)
	assert.Equal(t, "0.333333333333333333", r.String())

	prod, err := r.MulUint128(NewUint128(10))
	require.NoError(t, err)
	assert.Equal(t, "3", prod.String())

	sum, err := DecimalOne().Add(MustParseDecimal("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", sum.String())

	w, err := sum.MulUint256(NewUint256(10000))
	require.NoError(t, err)
	assert.Equal(t, "15000", w.String())

	_, err = MustParseDecimal("0.1").Sub(MustParseDecimal("0.2"))
	assert.Error(t, err)

	_, err = DecimalFromRatio(NewUint256(1), NewUint256(0))
	assert.Error(t, err)

	assert.True(t, DecimalZero().IsZero())
	assert.Equal(t, 1, DecimalOne().Cmp(r))
}

func TestDecimalEncoding(t *testing.T) {
	d := MustParseDecimal("0.000123")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"0.000123"`, string(data))

	var back Decimal
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 0, d.Cmp(back))

	raw, err := rlp.EncodeToBytes(d)
	require.NoError(t, err)
	var decoded Decimal
	require.NoError(t, rlp.DecodeBytes(raw, &decoded))
	assert.Equal(t, "0.000123", decoded.String())
}

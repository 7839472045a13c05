// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Addr is a validated account or contract address.
type Addr string

func (a Addr) String() string { return string(a) }

func (a Addr) Bytes() []byte { return []byte(a) }

func (a Addr) IsEmpty() bool { return a == "" }

// Coin is an amount of a native denom.
type Coin struct {
	Denom  string  `json:"denom"`
	Amount Uint128 `json:"amount"`
}

func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: NewUint128(amount)}
}

// ParseCoin parses the "<amount><denom>" notation, e.g. "1000untrn".
func ParseCoin(s string) (Coin, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return Coin{}, errors.Errorf("invalid coin %q", s)
	}
	amount, err := ParseUint128(s[:i])
	if err != nil {
		return Coin{}, err
	}
	return Coin{Denom: s[i:], Amount: amount}, nil
}

func (c Coin) String() string { return c.Amount.String() + c.Denom }

// Coins is a list of coins, at most one entry per denom.
type Coins []Coin

// AmountOf returns the amount of denom, zero when absent.
func (cs Coins) AmountOf(denom string) Uint128 {
	for _, c := range cs {
		if c.Denom == denom {
			return c.Amount
		}
	}
	return Uint128{}
}

// AssetInfo identifies either a cw20 token contract or a native denom.
// Exactly one of the two fields is set.
type AssetInfo struct {
	ContractAddr Addr
	Denom        string
}

func TokenAsset(contract Addr) AssetInfo { return AssetInfo{ContractAddr: contract} }

func NativeAsset(denom string) AssetInfo { return AssetInfo{Denom: denom} }

func (i AssetInfo) IsNative() bool { return i.Denom != "" }

func (i AssetInfo) String() string {
	if i.IsNative() {
		return i.Denom
	}
	return i.ContractAddr.String()
}

type tokenInfoJSON struct {
	ContractAddr Addr `json:"contract_addr"`
}

type nativeInfoJSON struct {
	Denom string `json:"denom"`
}

type assetInfoJSON struct {
	Token       *tokenInfoJSON  `json:"token,omitempty"`
	NativeToken *nativeInfoJSON `json:"native_token,omitempty"`
}

func (i AssetInfo) MarshalJSON() ([]byte, error) {
	if i.IsNative() {
		return json.Marshal(assetInfoJSON{NativeToken: &nativeInfoJSON{Denom: i.Denom}})
	}
	return json.Marshal(assetInfoJSON{Token: &tokenInfoJSON{ContractAddr: i.ContractAddr}})
}

func (i *AssetInfo) UnmarshalJSON(data []byte) error {
	var raw assetInfoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Token != nil && raw.NativeToken == nil:
		*i = TokenAsset(raw.Token.ContractAddr)
	case raw.NativeToken != nil && raw.Token == nil:
		*i = NativeAsset(raw.NativeToken.Denom)
	default:
		return errors.New("asset info must be either token or native_token")
	}
	return nil
}

// Asset is an amount of an AssetInfo.
type Asset struct {
	Info   AssetInfo `json:"info"`
	Amount Uint128   `json:"amount"`
}

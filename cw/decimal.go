// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// DecimalPlaces is the number of fractional digits a Decimal carries.
const DecimalPlaces = 18

var decimalFractional = uint256.NewInt(1_000_000_000_000_000_000)

// Decimal is an unsigned fixed-point number with 18 fractional digits, stored as
// a 256-bit count of atomics (value * 10^18).
type Decimal struct {
	atomics uint256.Int
}

func DecimalZero() Decimal { return Decimal{} }

func DecimalOne() Decimal { return Decimal{atomics: *decimalFractional} }

// DecimalFromAtomics builds a decimal directly from its atomics.
func DecimalFromAtomics(atomics Uint256) Decimal {
	return Decimal{atomics: atomics.v}
}

// DecimalFromRatio returns num / den, truncated to 18 digits.
func DecimalFromRatio(num, den Uint256) (Decimal, error) {
	r, err := mulDiv(&num.v, decimalFractional, &den.v)
	if err != nil {
		return Decimal{}, errors.Wrap(err, "decimal from ratio")
	}
	return Decimal{atomics: *r}, nil
}

// ParseDecimal parses strings such as "1", "0.25" or "12.000000000000000001".
func ParseDecimal(s string) (Decimal, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") {
		return Decimal{}, errors.Errorf("invalid decimal %q", s)
	}
	if len(frac) > DecimalPlaces {
		return Decimal{}, errors.Errorf("invalid decimal %q: more than %d fractional digits", s, DecimalPlaces)
	}
	var w, f uint256.Int
	if err := w.SetFromDecimal(whole); err != nil {
		return Decimal{}, errors.Wrapf(err, "invalid decimal %q", s)
	}
	if hasFrac {
		if err := f.SetFromDecimal(frac + strings.Repeat("0", DecimalPlaces-len(frac))); err != nil {
			return Decimal{}, errors.Wrapf(err, "invalid decimal %q", s)
		}
	}
	z, overflow := new(uint256.Int).MulOverflow(&w, decimalFractional)
	if overflow {
		return Decimal{}, errors.Wrapf(ErrOverflow, "decimal %q", s)
	}
	if _, overflow = z.AddOverflow(z, &f); overflow {
		return Decimal{}, errors.Wrapf(ErrOverflow, "decimal %q", s)
	}
	return Decimal{atomics: *z}, nil
}

func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) IsZero() bool      { return d.atomics.IsZero() }
func (d Decimal) Cmp(o Decimal) int { return d.atomics.Cmp(&o.atomics) }
func (d Decimal) Atomics() Uint256  { return Uint256{v: d.atomics} }

func (d Decimal) Add(o Decimal) (Decimal, error) {
	z, overflow := new(uint256.Int).AddOverflow(&d.atomics, &o.atomics)
	if overflow {
		return Decimal{}, errors.Wrapf(ErrOverflow, "%s + %s", d, o)
	}
	return Decimal{atomics: *z}, nil
}

func (d Decimal) Sub(o Decimal) (Decimal, error) {
	if d.atomics.Lt(&o.atomics) {
		return Decimal{}, errors.Wrapf(ErrUnderflow, "%s - %s", d, o)
	}
	return Decimal{atomics: *new(uint256.Int).Sub(&d.atomics, &o.atomics)}, nil
}

// MulUint128 returns floor(u * d).
func (d Decimal) MulUint128(u Uint128) (Uint128, error) {
	r, err := mulDiv(&u.v, &d.atomics, decimalFractional)
	if err != nil {
		return Uint128{}, err
	}
	return checked128(r, "decimal mul")
}

// MulUint256 returns floor(u * d).
func (d Decimal) MulUint256(u Uint256) (Uint256, error) {
	r, err := mulDiv(&u.v, &d.atomics, decimalFractional)
	if err != nil {
		return Uint256{}, err
	}
	return Uint256{v: *r}, nil
}

func (d Decimal) String() string {
	whole, frac := new(uint256.Int).DivMod(&d.atomics, decimalFractional, new(uint256.Int))
	if frac.IsZero() {
		return whole.Dec()
	}
	digits := frac.Dec()
	digits = strings.Repeat("0", DecimalPlaces-len(digits)) + digits
	return whole.Dec() + "." + strings.TrimRight(digits, "0")
}

func (d Decimal) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Decimal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "expected decimal string")
	}
	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Decimal) EncodeRLP(w io.Writer) error { return rlp.Encode(w, d.atomics.ToBig()) }

func (d *Decimal) DecodeRLP(s *rlp.Stream) error {
	b, err := s.BigInt()
	if err != nil {
		return err
	}
	if d.atomics.SetFromBig(b) {
		return errors.Wrap(ErrOverflow, "decode decimal")
	}
	return nil
}

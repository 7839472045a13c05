// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrOverflow     = errors.New("overflow")
	ErrUnderflow    = errors.New("underflow")
	ErrDivideByZero = errors.New("divide by zero")
)

// Uint128 is an unsigned 128-bit integer. Every arithmetic method is checked and
// returns an error instead of wrapping.
type Uint128 struct {
	v uint256.Int
}

// Uint256 is an unsigned 256-bit integer with checked arithmetic.
type Uint256 struct {
	v uint256.Int
}

func NewUint128(n uint64) Uint128 {
	var u Uint128
	u.v.SetUint64(n)
	return u
}

func NewUint256(n uint64) Uint256 {
	var u Uint256
	u.v.SetUint64(n)
	return u
}

// ParseUint128 parses a base 10 string.
func ParseUint128(s string) (Uint128, error) {
	var u Uint128
	if err := u.v.SetFromDecimal(s); err != nil {
		return Uint128{}, errors.Wrapf(err, "parse uint128 %q", s)
	}
	if u.v.BitLen() > 128 {
		return Uint128{}, errors.Wrapf(ErrOverflow, "parse uint128 %q", s)
	}
	return u, nil
}

// MustParseUint128 is like ParseUint128 but panics on error.
func MustParseUint128(s string) Uint128 {
	u, err := ParseUint128(s)
	if err != nil {
		panic(err)
	}
	return u
}

func ParseUint256(s string) (Uint256, error) {
	var u Uint256
	if err := u.v.SetFromDecimal(s); err != nil {
		return Uint256{}, errors.Wrapf(err, "parse uint256 %q", s)
	}
	return u, nil
}

func MustParseUint256(s string) Uint256 {
	u, err := ParseUint256(s)
	if err != nil {
		panic(err)
	}
	return u
}

func checked128(z *uint256.Int, op string) (Uint128, error) {
	if z.BitLen() > 128 {
		return Uint128{}, errors.Wrap(ErrOverflow, op)
	}
	return Uint128{v: *z}, nil
}

func (u Uint128) IsZero() bool      { return u.v.IsZero() }
func (u Uint128) Cmp(o Uint128) int { return u.v.Cmp(&o.v) }
func (u Uint128) Lt(o Uint128) bool { return u.v.Lt(&o.v) }
func (u Uint128) Gt(o Uint128) bool { return u.v.Gt(&o.v) }
func (u Uint128) Eq(o Uint128) bool { return u.v.Eq(&o.v) }
func (u Uint128) String() string    { return u.v.Dec() }
func (u Uint128) Uint256() Uint256  { return Uint256{v: u.v} }
func (u Uint128) BigInt() *big.Int  { return u.v.ToBig() }

// Uint64 returns the low 64 bits and whether the value fits.
func (u Uint128) Uint64() (uint64, bool) {
	return u.v.Uint64(), u.v.IsUint64()
}

func (u Uint128) Add(o Uint128) (Uint128, error) {
	z, overflow := new(uint256.Int).AddOverflow(&u.v, &o.v)
	if overflow {
		return Uint128{}, errors.Wrapf(ErrOverflow, "%s + %s", u, o)
	}
	return checked128(z, "add")
}

func (u Uint128) Sub(o Uint128) (Uint128, error) {
	if u.v.Lt(&o.v) {
		return Uint128{}, errors.Wrapf(ErrUnderflow, "%s - %s", u, o)
	}
	return Uint128{v: *new(uint256.Int).Sub(&u.v, &o.v)}, nil
}

func (u Uint128) Mul(o Uint128) (Uint128, error) {
	z, overflow := new(uint256.Int).MulOverflow(&u.v, &o.v)
	if overflow {
		return Uint128{}, errors.Wrapf(ErrOverflow, "%s * %s", u, o)
	}
	return checked128(z, "mul")
}

func (u Uint128) Div(o Uint128) (Uint128, error) {
	if o.IsZero() {
		return Uint128{}, errors.Wrapf(ErrDivideByZero, "%s / 0", u)
	}
	return Uint128{v: *new(uint256.Int).Div(&u.v, &o.v)}, nil
}

// MulDiv returns floor(u * num / den) using a 512-bit intermediate product.
func (u Uint128) MulDiv(num, den Uint128) (Uint128, error) {
	r, err := mulDiv(&u.v, &num.v, &den.v)
	if err != nil {
		return Uint128{}, err
	}
	return checked128(r, "mul div")
}

// SaturatingSub returns u - o, or zero when o > u.
func (u Uint128) SaturatingSub(o Uint128) Uint128 {
	if u.v.Lt(&o.v) {
		return Uint128{}
	}
	return Uint128{v: *new(uint256.Int).Sub(&u.v, &o.v)}
}

func (u Uint128) Min(o Uint128) Uint128 {
	if u.Lt(o) {
		return u
	}
	return o
}

func (u Uint256) IsZero() bool      { return u.v.IsZero() }
func (u Uint256) Cmp(o Uint256) int { return u.v.Cmp(&o.v) }
func (u Uint256) Lt(o Uint256) bool { return u.v.Lt(&o.v) }
func (u Uint256) Eq(o Uint256) bool { return u.v.Eq(&o.v) }
func (u Uint256) String() string    { return u.v.Dec() }

func (u Uint256) Add(o Uint256) (Uint256, error) {
	z, overflow := new(uint256.Int).AddOverflow(&u.v, &o.v)
	if overflow {
		return Uint256{}, errors.Wrapf(ErrOverflow, "%s + %s", u, o)
	}
	return Uint256{v: *z}, nil
}

func (u Uint256) Sub(o Uint256) (Uint256, error) {
	if u.v.Lt(&o.v) {
		return Uint256{}, errors.Wrapf(ErrUnderflow, "%s - %s", u, o)
	}
	return Uint256{v: *new(uint256.Int).Sub(&u.v, &o.v)}, nil
}

func (u Uint256) Mul(o Uint256) (Uint256, error) {
	z, overflow := new(uint256.Int).MulOverflow(&u.v, &o.v)
	if overflow {
		return Uint256{}, errors.Wrapf(ErrOverflow, "%s * %s", u, o)
	}
	return Uint256{v: *z}, nil
}

func (u Uint256) Div(o Uint256) (Uint256, error) {
	if o.IsZero() {
		return Uint256{}, errors.Wrapf(ErrDivideByZero, "%s / 0", u)
	}
	return Uint256{v: *new(uint256.Int).Div(&u.v, &o.v)}, nil
}

// MulDiv returns floor(u * num / den) using a 512-bit intermediate product.
func (u Uint256) MulDiv(num, den Uint256) (Uint256, error) {
	r, err := mulDiv(&u.v, &num.v, &den.v)
	if err != nil {
		return Uint256{}, err
	}
	return Uint256{v: *r}, nil
}

// Sqrt returns floor(sqrt(u)).
func (u Uint256) Sqrt() Uint256 {
	return Uint256{v: *new(uint256.Int).Sqrt(&u.v)}
}

// Uint128 narrows u, failing when it does not fit in 128 bits.
func (u Uint256) Uint128() (Uint128, error) {
	return checked128(&u.v, "narrow to uint128")
}

func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, errors.Wrap(ErrDivideByZero, "mul div")
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, errors.Wrap(ErrOverflow, "mul div")
	}
	return z, nil
}

func marshalDec(v *uint256.Int) ([]byte, error) {
	return json.Marshal(v.Dec())
}

func unmarshalDec(data []byte, v *uint256.Int) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "expected decimal string")
	}
	return v.SetFromDecimal(s)
}

func (u Uint128) MarshalJSON() ([]byte, error) { return marshalDec(&u.v) }

func (u *Uint128) UnmarshalJSON(data []byte) error {
	if err := unmarshalDec(data, &u.v); err != nil {
		return err
	}
	if u.v.BitLen() > 128 {
		return errors.Wrap(ErrOverflow, "uint128")
	}
	return nil
}

func (u Uint256) MarshalJSON() ([]byte, error)     { return marshalDec(&u.v) }
func (u *Uint256) UnmarshalJSON(data []byte) error { return unmarshalDec(data, &u.v) }

// EncodeRLP implements rlp.Encoder.
func (u Uint128) EncodeRLP(w io.Writer) error { return rlp.Encode(w, u.v.ToBig()) }

// DecodeRLP implements rlp.Decoder.
func (u *Uint128) DecodeRLP(s *rlp.Stream) error {
	b, err := s.BigInt()
	if err != nil {
		return err
	}
	if b.BitLen() > 128 {
		return errors.Wrap(ErrOverflow, "decode uint128")
	}
	u.v.SetFromBig(b)
	return nil
}

func (u Uint256) EncodeRLP(w io.Writer) error { return rlp.Encode(w, u.v.ToBig()) }

func (u *Uint256) DecodeRLP(s *rlp.Stream) error {
	b, err := s.BigInt()
	if err != nil {
		return err
	}
	if u.v.SetFromBig(b) {
		return errors.Wrap(ErrOverflow, "decode uint256")
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a contract rejected a message.
type Kind uint8

const (
	Unknown Kind = iota
	Unauthorized
	Phase
	Invariant
	Arithmetic
	NotFound
	NoOp
	InvalidInput
)

var kindNames = [...]string{
	Unknown:      "unknown",
	Unauthorized: "unauthorized",
	Phase:        "phase",
	Invariant:    "invariant",
	Arithmetic:   "arithmetic",
	NotFound:     "not_found",
	NoOp:         "no_op",
	InvalidInput: "invalid_input",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ErrRevert is a contract level rejection. The host rolls back the whole
// transaction when any message returns one.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the first revert in err's chain, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}

// Is reports whether err carries a revert of the given kind.
func Is(err error, kind Kind) bool {
	return IsRevertErr(err) && KindOf(err) == kind
}

func Unauthorizedf(format string, args ...any) *ErrRevert { return Newf(Unauthorized, format, args...) }
func Phasef(format string, args ...any) *ErrRevert        { return Newf(Phase, format, args...) }
func Invariantf(format string, args ...any) *ErrRevert    { return Newf(Invariant, format, args...) }
func NotFoundf(format string, args ...any) *ErrRevert     { return Newf(NotFound, format, args...) }
func InvalidInputf(format string, args ...any) *ErrRevert { return Newf(InvalidInput, format, args...) }
func NoOpf(format string, args ...any) *ErrRevert         { return Newf(NoOp, format, args...) }

// Math wraps a checked arithmetic failure.
func Math(err error) *ErrRevert {
	return New(Arithmetic, err.Error())
}

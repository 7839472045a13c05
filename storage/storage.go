// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed accessors over a contract's raw key/value
// storage. Values are RLP encoded.
package storage

import (
	"encoding/binary"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Key is anything that can be turned into a storage key.
type Key interface {
	Bytes() []byte
}

// StringKey is a plain string key.
type StringKey string

func (k StringKey) Bytes() []byte { return []byte(k) }

// Uint64Key is a big endian encoded integer key.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte { return binary.BigEndian.AppendUint64(nil, uint64(k)) }

// Join builds a composite key. Every part but the last is length prefixed,
// so distinct tuples can never produce the same key.
func Join(parts ...[]byte) []byte {
	var out []byte
	for i, p := range parts {
		if i < len(parts)-1 {
			out = binary.BigEndian.AppendUint16(out, uint16(len(p)))
		}
		out = append(out, p...)
	}
	return out
}

func namespaced(ns string, key []byte) []byte {
	return Join([]byte(ns), key)
}

// load decodes the value at key. found is false when the key is absent.
func load[V any](s cw.Storage, key []byte) (value V, found bool, err error) {
	raw, err := s.Get(key)
	if err != nil {
		return value, false, errors.Wrap(err, "read storage")
	}
	if raw == nil {
		return value, false, nil
	}
	value, err = decode[V](raw)
	return value, err == nil, err
}

// decode decodes raw into a fresh V. Pointer types get a newly allocated element.
func decode[V any](raw []byte) (value V, err error) {
	if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
		value = reflect.New(t.Elem()).Interface().(V)
		err = rlp.DecodeBytes(raw, value)
	} else {
		err = rlp.DecodeBytes(raw, &value)
	}
	return value, errors.Wrap(err, "decode storage value")
}

func save[V any](s cw.Storage, key []byte, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode storage value")
	}
	return errors.Wrap(s.Set(key, raw), "write storage")
}

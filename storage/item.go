// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// ErrNotFound is returned by Load when nothing is stored.
var ErrNotFound = errors.New("not found")

// Item is a singleton value stored under a fixed key.
type Item[T any] struct {
	key []byte
}

func NewItem[T any](key string) Item[T] {
	return Item[T]{key: []byte(key)}
}

// Load returns the stored value or ErrNotFound.
func (i Item[T]) Load(s cw.Storage) (T, error) {
	v, found, err := load[T](s, i.key)
	if err != nil {
		return v, err
	}
	if !found {
		return v, errors.Wrapf(ErrNotFound, "item %s", i.key)
	}
	return v, nil
}

// May returns the stored value, reporting whether it exists.
func (i Item[T]) May(s cw.Storage) (T, bool, error) {
	return load[T](s, i.key)
}

func (i Item[T]) Save(s cw.Storage, v T) error {
	return save(s, i.key, v)
}

func (i Item[T]) Remove(s cw.Storage) error {
	return errors.Wrap(s.Remove(i.key), "remove item")
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Map is a key/value mapping under a namespace.
type Map[K Key, V any] struct {
	namespace string
}

func NewMap[K Key, V any](namespace string) Map[K, V] {
	return Map[K, V]{namespace: namespace}
}

func (m Map[K, V]) key(k K) []byte {
	return namespaced(m.namespace, k.Bytes())
}

// Get returns the stored value, or the zero value of V when absent.
func (m Map[K, V]) Get(s cw.Storage, k K) (V, error) {
	v, _, err := load[V](s, m.key(k))
	return v, err
}

// May returns the stored value, reporting whether it exists.
func (m Map[K, V]) May(s cw.Storage, k K) (V, bool, error) {
	return load[V](s, m.key(k))
}

// Load returns the stored value or ErrNotFound.
func (m Map[K, V]) Load(s cw.Storage, k K) (V, error) {
	v, found, err := load[V](s, m.key(k))
	if err != nil {
		return v, err
	}
	if !found {
		return v, errors.Wrapf(ErrNotFound, "%s entry", m.namespace)
	}
	return v, nil
}

func (m Map[K, V]) Has(s cw.Storage, k K) (bool, error) {
	raw, err := s.Get(m.key(k))
	if err != nil {
		return false, errors.Wrap(err, "read storage")
	}
	return raw != nil, nil
}

func (m Map[K, V]) Set(s cw.Storage, k K, v V) error {
	return save(s, m.key(k), v)
}

func (m Map[K, V]) Remove(s cw.Storage, k K) error {
	return errors.Wrap(s.Remove(m.key(k)), "remove entry")
}

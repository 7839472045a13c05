// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// SnapshotMap is a Map that also records, for every height at which an entry
// changes, the value the entry had before that height. This makes the value
// as of the start of any past block queryable.
type SnapshotMap[K Key, V any] struct {
	primary   Map[K, V]
	heights   Map[K, []uint64]
	changelog Map[changeKey, *changeSet]
}

type changeKey []byte

func (k changeKey) Bytes() []byte { return k }

// changeSet holds the encoded value an entry had before a height. Old is empty
// when the entry did not exist.
type changeSet struct {
	Old []byte
}

func NewSnapshotMap[K Key, V any](namespace string) SnapshotMap[K, V] {
	return SnapshotMap[K, V]{
		primary:   NewMap[K, V](namespace),
		heights:   NewMap[K, []uint64](namespace + "__heights"),
		changelog: NewMap[changeKey, *changeSet](namespace + "__changelog"),
	}
}

func (m SnapshotMap[K, V]) changeKey(k K, height uint64) changeKey {
	return Join(k.Bytes(), Uint64Key(height).Bytes())
}

func (m SnapshotMap[K, V]) Get(s cw.Storage, k K) (V, error)       { return m.primary.Get(s, k) }
func (m SnapshotMap[K, V]) May(s cw.Storage, k K) (V, bool, error) { return m.primary.May(s, k) }
func (m SnapshotMap[K, V]) Load(s cw.Storage, k K) (V, error)      { return m.primary.Load(s, k) }
func (m SnapshotMap[K, V]) Has(s cw.Storage, k K) (bool, error)    { return m.primary.Has(s, k) }

// Save writes v at the given block height.
func (m SnapshotMap[K, V]) Save(s cw.Storage, k K, v V, height uint64) error {
	if err := m.record(s, k, height); err != nil {
		return err
	}
	return m.primary.Set(s, k, v)
}

// Remove deletes the entry at the given block height.
func (m SnapshotMap[K, V]) Remove(s cw.Storage, k K, height uint64) error {
	if err := m.record(s, k, height); err != nil {
		return err
	}
	return m.primary.Remove(s, k)
}

// record stores the pre-height value once per height.
func (m SnapshotMap[K, V]) record(s cw.Storage, k K, height uint64) error {
	hs, err := m.heights.Get(s, k)
	if err != nil {
		return err
	}
	if n := len(hs); n > 0 {
		if hs[n-1] == height {
			return nil
		}
		if hs[n-1] > height {
			return errors.Errorf("snapshot height %d precedes last change at %d", height, hs[n-1])
		}
	}
	old, err := s.Get(m.primary.key(k))
	if err != nil {
		return errors.Wrap(err, "read storage")
	}
	if err := m.changelog.Set(s, m.changeKey(k, height), &changeSet{Old: old}); err != nil {
		return err
	}
	return m.heights.Set(s, k, append(hs, height))
}

// MayAtHeight returns the entry as it was at the start of the given height,
// before any change made at that height.
func (m SnapshotMap[K, V]) MayAtHeight(s cw.Storage, k K, height uint64) (V, bool, error) {
	var zero V
	hs, err := m.heights.Get(s, k)
	if err != nil {
		return zero, false, err
	}
	i := sort.Search(len(hs), func(i int) bool { return hs[i] >= height })
	if i == len(hs) {
		return m.primary.May(s, k)
	}
	cs, err := m.changelog.Get(s, m.changeKey(k, hs[i]))
	if err != nil {
		return zero, false, err
	}
	if cs == nil {
		return zero, false, errors.Errorf("missing changelog at height %d", hs[i])
	}
	if len(cs.Old) == 0 {
		return zero, false, nil
	}
	v, err := decode[V](cs.Old)
	return v, err == nil, err
}

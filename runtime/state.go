// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/kv"
	"github.com/neutron-org/neutron-tge-contracts-sub000/stackedmap"
)

// state is a journaled overlay over the kv store. Writes stay in the overlay
// until commit; a nil value marks a deletion.
type state struct {
	db kv.Store
	sm *stackedmap.StackedMap[string, []byte]
}

func newState(db kv.Store) *state {
	s := &state{db: db}
	s.reset()
	return s
}

func (s *state) reset() {
	s.sm = stackedmap.New(func(key string) ([]byte, bool, error) {
		v, err := s.db.Get([]byte(key))
		if err != nil {
			if s.db.IsNotFound(err) {
				return nil, false, nil
			}
			return nil, false, errors.Wrap(err, "read state")
		}
		return v, true, nil
	})
}

func (s *state) get(key string) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	return v, err
}

func (s *state) put(key string, value []byte) {
	// a zero-length value is still a value
	if value == nil {
		value = []byte{}
	}
	s.sm.Put(key, value)
}

func (s *state) del(key string) {
	s.sm.Put(key, nil)
}

func (s *state) checkpoint() int {
	return s.sm.Push()
}

func (s *state) revertTo(rev int) {
	s.sm.PopTo(rev)
}

// commit flushes every journaled write to the store in one bulk.
func (s *state) commit() (int, error) {
	bulk := s.db.Bulk()
	var err error
	s.sm.Journal(func(key string, value []byte) bool {
		if value == nil {
			err = bulk.Delete([]byte(key))
		} else {
			err = bulk.Put([]byte(key), value)
		}
		return err == nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "stage state")
	}
	n := bulk.Len()
	if err := bulk.Write(); err != nil {
		return 0, errors.Wrap(err, "commit state")
	}
	s.reset()
	return n, nil
}

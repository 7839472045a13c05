// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/kv"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
)

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBucket_GetPut(t *testing.T) {
	src := newStore(t)
	bank := kv.Bucket("bank/").NewStore(src)

	require.NoError(t, bank.Put([]byte("alice"), []byte("100")))

	got, err := bank.Get([]byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("100"), got)

	raw, err := src.Get([]byte("bank/alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("100"), raw)

	has, err := bank.Has([]byte("bob"))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = bank.Get([]byte("bob"))
	assert.True(t, bank.IsNotFound(err))

	require.NoError(t, bank.Delete([]byte("alice")))
	_, err = src.Get([]byte("bank/alice"))
	assert.True(t, src.IsNotFound(err))
}

func TestBucket_Bulk(t *testing.T) {
	src := newStore(t)
	b := kv.Bucket("b").NewStore(src)

	bulk := b.Bulk()
	require.NoError(t, bulk.Put([]byte("1"), []byte("one")))
	require.NoError(t, bulk.Put([]byte("2"), []byte("two")))
	assert.Equal(t, 2, bulk.Len())

	_, err := src.Get([]byte("b1"))
	assert.True(t, src.IsNotFound(err), "bulk must not be visible before write")

	require.NoError(t, bulk.Write())
	got, err := src.Get([]byte("b2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestBucket_Iterate(t *testing.T) {
	src := newStore(t)
	require.NoError(t, src.Put([]byte("a1"), []byte("x")))
	require.NoError(t, src.Put([]byte("b1"), []byte("y")))
	require.NoError(t, src.Put([]byte("b2"), []byte("z")))
	require.NoError(t, src.Put([]byte("c1"), []byte("w")))

	iter := kv.Bucket("b").NewStore(src).Iterate(kv.Range{})
	defer iter.Release()

	var keys, vals []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		vals = append(vals, string(iter.Value()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
	assert.Equal(t, []string{"y", "z"}, vals)
}

func TestBucket_Range(t *testing.T) {
	b := kv.Bucket("info/")

	r := b.Range(kv.Range{})
	assert.Equal(t, []byte("info/"), r.Start)
	assert.Equal(t, []byte("info0"), r.Limit)

	r = b.Range(kv.Range{Start: []byte("a"), Limit: []byte("m")})
	assert.Equal(t, []byte("info/a"), r.Start)
	assert.Equal(t, []byte("info/m"), r.Limit)

	key := []byte("k")
	assert.Equal(t, []byte("info/k"), b.Key(key))
	assert.Equal(t, []byte("k"), key)
}

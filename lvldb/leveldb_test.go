// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, ldb := range []*LevelDB{persistent, mem} {
		require.NoError(t, ldb.Put(key, value))

		got, err := ldb.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := ldb.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = ldb.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, ldb.Delete(key))
		_, err = ldb.Get(key)
		assert.True(t, ldb.IsNotFound(err))
	}
}

func TestLevelDBBulk(t *testing.T) {
	ldb, err := NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	bulk := ldb.Bulk()
	require.NoError(t, bulk.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, bulk.Put([]byte("k2"), []byte("v2")))
	require.NoError(t, bulk.Delete([]byte("k1")))
	assert.Equal(t, 3, bulk.Len())
	require.NoError(t, bulk.Write())

	_, err = ldb.Get([]byte("k1"))
	assert.True(t, ldb.IsNotFound(err))
	got, err := ldb.Get([]byte("k2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	// empty bulk is a no-op
	require.NoError(t, ldb.Bulk().Write())
}

func TestLevelDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	ldb, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, ldb.Put([]byte("k"), []byte("v")))
	require.NoError(t, ldb.Close())

	ldb, err = New(path, Options{})
	require.NoError(t, err)
	defer ldb.Close()
	got, err := ldb.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

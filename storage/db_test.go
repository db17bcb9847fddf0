package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	missing, err := db.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, db.Delete([]byte("a")))
	gone, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	value := []byte("mutable")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'X'

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("mutable"), got)
}

func TestBoltDBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := NewBoltDB(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("balance"), []byte{0x01}))
	got, err := db.Get([]byte("balance"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, got)

	missing, err := db.Get([]byte("absent"))
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, db.Delete([]byte("balance")))
	gone, err := db.Get([]byte("balance"))
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestLevelDBRoundTrip(t *testing.T) {
	db, err := NewLevelDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	missing, err := db.Get([]byte("other"))
	require.NoError(t, err)
	require.Nil(t, missing)
}

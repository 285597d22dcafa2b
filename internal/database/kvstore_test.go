package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmkang/stockscope/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KVStore {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewKVStore(db, logger.New(logger.Config{Level: "error"}))
}

func TestKVStoreRoundTrip(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("k", []byte("value"), time.Minute))

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestKVStoreAbsentKey(t *testing.T) {
	kv := newTestKV(t)

	got, err := kv.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKVStoreExpiredRowIsInvisible(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("k", []byte("v"), -time.Second))

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKVStoreUpsert(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("k", []byte("one"), time.Minute))
	require.NoError(t, kv.Put("k", []byte("two"), time.Minute))

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestKVStoreDelete(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("k", []byte("v"), time.Minute))
	require.NoError(t, kv.Delete("k"))
	require.NoError(t, kv.Delete("k"), "deleting an absent key is fine")

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKVStorePurgeExpired(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("dead", []byte("v"), -time.Second))
	require.NoError(t, kv.Put("live", []byte("v"), time.Minute))

	n, err := kv.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := kv.Get("live")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

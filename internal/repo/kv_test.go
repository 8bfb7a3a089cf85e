package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testKVContract проверяет поведение, общее для всех backend'ов
func testKVContract(t *testing.T, kv KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, found, err := kv.Get(ctx, "todos_nobody")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "todos_alice", []byte(`[]`)))

		v, found, err := kv.Get(ctx, "todos_alice")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte(`[]`), v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "todos_alice", []byte(`["first"]`)))
		require.NoError(t, kv.Set(ctx, "todos_alice", []byte(`["second"]`)))

		v, _, err := kv.Get(ctx, "todos_alice")
		require.NoError(t, err)
		assert.Equal(t, []byte(`["second"]`), v)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "user", []byte(`{}`)))
		require.NoError(t, kv.Delete(ctx, "user"))

		_, found, err := kv.Get(ctx, "user")
		require.NoError(t, err)
		assert.False(t, found)

		assert.NoError(t, kv.Delete(ctx, "user"), "deleting a missing key is not an error")
	})
}

func TestMemoryKV(t *testing.T) {
	testKVContract(t, NewMemoryKV())
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'x'

	got, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestSQLiteKV(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "kv.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	kv, err := NewSQLiteKV(db)
	require.NoError(t, err)

	testKVContract(t, kv)
}

func TestSQLiteKV_WithTaskRepo(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "kv.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	kv, err := NewSQLiteKV(db)
	require.NoError(t, err)

	r := NewTaskRepo(kv)
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, "alice", sampleCollection()))

	got, err := r.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

package cache

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapsketch/mapsketch/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPutAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "map1", []byte(`{"type":"FeatureCollection","features":[]}`)))

	payload, err := r.Get(ctx, "map1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), "FeatureCollection")
}

func TestGet_MissingReturnsNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "absent")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPut_UpsertsExistingName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "map1", []byte("old")))
	require.NoError(t, r.Put(ctx, "map1", []byte("new")))

	payload, err := r.Get(ctx, "map1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), payload)

	names, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestList_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "first", []byte("a")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, r.Put(ctx, "second", []byte("b")))

	names, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"second", "first"}, names)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "map1", []byte("a")))
	require.NoError(t, r.Clear(ctx))

	names, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

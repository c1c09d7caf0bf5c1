package kv

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "users", []byte(`{"alice":{}}`)))

	v, err := r.Get(ctx, "users")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"alice":{}}`), v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "current_user", []byte("alice")))
	require.NoError(t, r.Set(ctx, "current_user", []byte("bob")))

	v, err := r.Get(ctx, "current_user")
	require.NoError(t, err)
	require.Equal(t, []byte("bob"), v)
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "current_user", []byte("alice")))
	require.NoError(t, r.Delete(ctx, "current_user"))

	v, err := r.Get(ctx, "current_user")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "current_user"))
}

func TestClear_RemovesAllKeys(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "users", []byte{1}))
	require.NoError(t, r.Set(ctx, "current_user", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	v, err := r.Get(ctx, "users")
	require.NoError(t, err)
	require.Nil(t, v)
}

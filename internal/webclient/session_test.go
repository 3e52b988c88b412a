package webclient

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupSessionStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	db, err := sql.Open("sqlite", "file:sessionstore?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLiteSessionStore(db)
	require.NoError(t, store.Init(t.Context()))
	require.NoError(t, store.Clear(t.Context()))
	return store
}

func TestSQLiteSessionStoreRoundTrip(t *testing.T) {
	store := setupSessionStore(t)
	ctx := t.Context()

	_, present, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, present)

	session := Session{
		Username: "anna",
		Email:    "anna@example.com",
		Phone:    "0123456789",
		Role:     "admin",
		Token:    "token-anna",
	}
	require.NoError(t, store.Save(ctx, session))

	loaded, present, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, session, loaded)
}

func TestSQLiteSessionStoreOverwrite(t *testing.T) {
	store := setupSessionStore(t)
	ctx := t.Context()

	require.NoError(t, store.Save(ctx, Session{Username: "anna"}))
	require.NoError(t, store.Save(ctx, Session{Username: "bob"}))

	loaded, present, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, "bob", loaded.Username)
}

func TestSQLiteSessionStoreClear(t *testing.T) {
	store := setupSessionStore(t)
	ctx := t.Context()

	require.NoError(t, store.Save(ctx, Session{Username: "anna"}))
	require.NoError(t, store.Clear(ctx))

	_, present, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, present)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := t.Context()

	_, present, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, present)

	require.NoError(t, store.Save(ctx, Session{Username: "anna"}))
	loaded, present, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, "anna", loaded.Username)

	require.NoError(t, store.Clear(ctx))
	_, present, err = store.Load(ctx)
	require.NoError(t, err)
	require.False(t, present)
}

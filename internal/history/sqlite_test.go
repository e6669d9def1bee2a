package history

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/signopsis/internal/testutil"
)

func TestOpenSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "history.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	require.NoError(t, store.Set(ctx, "k", "v2"))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)

	h := New(store, nil)
	require.NoError(t, h.Add(ctx, testutil.NewTranslation(t, "persist me", base)))
	require.NoError(t, store.Close())

	// Migrations are idempotent across restarts
	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	h = New(store, nil)
	require.NoError(t, h.Load(ctx))
	require.Equal(t, 1, h.Len())
	assert.Equal(t, "persist me", h.List()[0].OriginalText)
}

func TestSQLStore_GetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs(DefaultKey).
		WillReturnError(boom)

	store := NewSQLStore(db)
	_, _, err = store.Get(context.Background(), DefaultKey)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("read-only database")
	mock.ExpectExec("INSERT INTO kv").
		WithArgs(DefaultKey, "[]").
		WillReturnError(boom)

	h := New(NewSQLStore(db), nil)
	err = h.Clear(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs(DefaultKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("garbage"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv WHERE key = ?`)).
		WithArgs(DefaultKey).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := New(NewSQLStore(db), nil)
	require.NoError(t, h.Load(context.Background()))
	assert.Zero(t, h.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

package sqlite_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/mathscript/session/dao"
	"github.com/dekarrin/mathscript/session/dao/sqlite"
)

func newTestStore(t *testing.T) dao.Store {
	t.Helper()

	store, err := sqlite.NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func Test_Sessions_CreateAndGetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Sessions().Create(ctx, dao.Session{History: []string{"x = 1"}})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := store.Sessions().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, []string{"x = 1"}, fetched.History)
}

func Test_Sessions_GetByID_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	missingID, err := uuid.NewRandom()
	require.NoError(t, err)

	_, err = store.Sessions().GetByID(ctx, missingID)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_Sessions_AppendHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Sessions().Create(ctx, dao.Session{})
	require.NoError(t, err)

	updated, err := store.Sessions().AppendHistory(ctx, created.ID, "x = 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x = 1"}, updated.History)

	updated, err = store.Sessions().AppendHistory(ctx, created.ID, "y = x + 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x = 1", "y = x + 1"}, updated.History)
}

func Test_Sessions_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Sessions().Create(ctx, dao.Session{})
	require.NoError(t, err)

	require.NoError(t, store.Sessions().Delete(ctx, created.ID))

	_, err = store.Sessions().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	err = store.Sessions().Delete(ctx, created.ID)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_Sessions_GetAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Sessions().Create(ctx, dao.Session{})
	require.NoError(t, err)
	_, err = store.Sessions().Create(ctx, dao.Session{})
	require.NoError(t, err)

	all, err := store.Sessions().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

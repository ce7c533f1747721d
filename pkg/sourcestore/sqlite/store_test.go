package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()

	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.db"), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestEmptyHistory(t *testing.T) {
	store := newTestStore(t)

	last, err := store.LastSelected()
	require.NoError(t, err)
	assert.Empty(t, last)

	history, err := store.History(10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordAndReadBack(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSelection("us", "English (US)"))
	require.NoError(t, store.RecordSelection("de", "German"))
	require.NoError(t, store.RecordSelection("us", "English (US)"))

	last, err := store.LastSelected()
	require.NoError(t, err)
	assert.Equal(t, "us", last)

	history, err := store.History(2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "us", history[0].ID)
	assert.Equal(t, "de", history[1].ID)
	assert.Equal(t, "German", history[1].Name)
	assert.False(t, history[1].At.IsZero())

	// negative limit means unlimited
	all, err := store.History(-1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	log := zap.NewNop().Sugar()

	store, err := NewHistoryStore(path, log)
	require.NoError(t, err)
	require.NoError(t, store.RecordSelection("de", "German"))
	require.NoError(t, store.Close())

	reopened, err := NewHistoryStore(path, log)
	require.NoError(t, err)
	defer reopened.Close()

	last, err := reopened.LastSelected()
	require.NoError(t, err)
	assert.Equal(t, "de", last)
}

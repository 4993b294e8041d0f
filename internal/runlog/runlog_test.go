package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	require.NoError(t, l.Migrate(context.Background()))
	return l
}

func TestRunlog_CompleteCycle(t *testing.T) {
	ctx := context.Background()
	l := testLog(t)

	id, err := l.Start(ctx, "songs")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, l.Complete(ctx, id, 71))

	entries, err := l.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "songs", entries[0].Table)
	assert.Equal(t, "complete", entries[0].Status)
	assert.Equal(t, int64(71), entries[0].Rows)
	assert.Empty(t, entries[0].Error)
	require.NotNil(t, entries[0].CompletedAt)
}

func TestRunlog_Fail(t *testing.T) {
	ctx := context.Background()
	l := testLog(t)

	id, err := l.Start(ctx, "songplays")
	require.NoError(t, err)
	require.NoError(t, l.Fail(ctx, id, "objstore: write failed"))

	entries, err := l.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "objstore: write failed", entries[0].Error)
}

func TestRunlog_ListLimit(t *testing.T) {
	ctx := context.Background()
	l := testLog(t)

	for _, table := range []string{"songs", "artists", "users", "time", "songplays"} {
		id, err := l.Start(ctx, table)
		require.NoError(t, err)
		require.NoError(t, l.Complete(ctx, id, 1))
	}

	entries, err := l.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	all, err := l.List(ctx, 0) // default limit
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRunlog_RunningUntilResolved(t *testing.T) {
	ctx := context.Background()
	l := testLog(t)

	_, err := l.Start(ctx, "users")
	require.NoError(t, err)

	entries, err := l.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "running", entries[0].Status)
	assert.Nil(t, entries[0].CompletedAt)
}

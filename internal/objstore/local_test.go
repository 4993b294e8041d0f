package objstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutGet(t *testing.T) {
	ctx := context.Background()
	be, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, be.Put(ctx, "songs/part-00000.parquet", []byte("hello")))

	data, err := be.Get(ctx, "songs/part-00000.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestLocal_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	be, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, be.Put(ctx, "k", []byte("old")))
	require.NoError(t, be.Put(ctx, "k", []byte("new")))

	data, err := be.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestLocal_GetMissing(t *testing.T) {
	be, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = be.Get(context.Background(), "nope")
	require.Error(t, err)
}

func TestLocal_ListSortedRecursive(t *testing.T) {
	ctx := context.Background()
	be, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, be.Put(ctx, "time/year=2018/month=11/part-00000.parquet", []byte("b")))
	require.NoError(t, be.Put(ctx, "time/year=2018/month=1/part-00000.parquet", []byte("a")))
	require.NoError(t, be.Put(ctx, "users/part-00000.parquet", []byte("c")))

	keys, err := be.List(ctx, "time")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"time/year=2018/month=1/part-00000.parquet",
		"time/year=2018/month=11/part-00000.parquet",
	}, keys)
}

func TestLocal_ListMissingPrefix(t *testing.T) {
	be, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	keys, err := be.List(context.Background(), "absent")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocal_RemoveAll(t *testing.T) {
	ctx := context.Background()
	be, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, be.Put(ctx, "songs/a.parquet", []byte("a")))
	require.NoError(t, be.Put(ctx, "songs/b.parquet", []byte("b")))
	require.NoError(t, be.Put(ctx, "artists/a.parquet", []byte("c")))

	require.NoError(t, be.RemoveAll(ctx, "songs"))

	keys, err := be.List(ctx, "songs")
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Sibling prefixes untouched.
	keys, err = be.List(ctx, "artists")
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	// Removing a missing prefix is not an error.
	require.NoError(t, be.RemoveAll(ctx, "songs"))
}

func TestOpen_LocalVsS3(t *testing.T) {
	be, err := Open(context.Background(), t.TempDir(), Credentials{})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, be)

	_, err = Open(context.Background(), "", Credentials{})
	require.Error(t, err)
}

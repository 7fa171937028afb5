package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndLookup(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	ctx := context.Background()

	_, found, err := s.Lookup(ctx, "chapters/adt.md")
	require.NoError(t, err)
	require.False(t, found)

	entry := Entry{
		Source:      "chapters/adt.md",
		ContentHash: Hash([]byte("content")),
		OutputPath:  "chapters/adt/index.html",
	}
	require.NoError(t, s.Record(ctx, entry))

	got, found, err := s.Lookup(ctx, "chapters/adt.md")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entry.Source, got.Source)
	require.Equal(t, entry.ContentHash, got.ContentHash)
	require.Equal(t, entry.OutputPath, got.OutputPath)
	require.False(t, got.BuiltAt.IsZero())
}

func TestStore_RecordUpserts(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	ctx := context.Background()
	require.NoError(t, s.Record(ctx, Entry{Source: "a.md", ContentHash: "h1", OutputPath: "a/index.html"}))
	require.NoError(t, s.Record(ctx, Entry{Source: "a.md", ContentHash: "h2", OutputPath: "a/index.html"}))

	got, found, err := s.Lookup(ctx, "a.md")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "h2", got.ContentHash)
}

func TestStore_ForgetAndReset(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	ctx := context.Background()
	require.NoError(t, s.Record(ctx, Entry{Source: "a.md", ContentHash: "h", OutputPath: "a/index.html"}))
	require.NoError(t, s.Record(ctx, Entry{Source: "b.md", ContentHash: "h", OutputPath: "b/index.html"}))

	require.NoError(t, s.Forget(ctx, "a.md"))
	_, found, err := s.Lookup(ctx, "a.md")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Reset(ctx))
	_, found, err = s.Lookup(ctx, "b.md")
	require.NoError(t, err)
	require.False(t, found)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestHash_Deterministic(t *testing.T) {
	require.Equal(t, Hash([]byte("x")), Hash([]byte("x")))
	require.NotEqual(t, Hash([]byte("x")), Hash([]byte("y")))
}

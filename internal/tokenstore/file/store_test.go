package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/scanportal-client/internal/model"
)

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	tok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewStore(dir)

	require.NoError(t, s.Save(ctx, "tok-123"))
	assert.Equal(t, filepath.Join(dir, "token"), s.Path())

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)

	require.NoError(t, s.Save(ctx, "tok-456"))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-456", tok)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_LoadTrimsNewline(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("abc\n"), 0o600))

	tok, err := NewStore(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestStore_LoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte{0x00, 0xff, 'a', ' ', 'b'}, 0o600))

	tok, err := NewStore(dir).Load(context.Background())
	assert.Empty(t, tok)
	assert.ErrorIs(t, err, model.ErrTokenMalformed)
}

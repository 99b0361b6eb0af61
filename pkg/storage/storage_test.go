package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	u, err := ParseURI("-")
	require.NoError(t, err)
	assert.Equal(t, "stdio:stdin", u.String())

	u, err = ParseURI("stdio:stdin")
	require.NoError(t, err)
	assert.Equal(t, StdioScheme, u.Scheme())

	u, err = ParseURI("testdata/x.rasm")
	require.NoError(t, err)
	assert.Equal(t, FileScheme, u.Scheme())
	assert.True(t, filepath.IsAbs(u.Filepath()))
	assert.Equal(t, "x.rasm", u.Base())

	_, err = ParseURI("s3://bucket/x.rasm")
	assert.EqualError(t, err, `s3://bucket/x.rasm: unsupported URI scheme "s3"`)
	_, err = ParseURI("")
	assert.Error(t, err)
}

func TestStdinGetReturnsWorkingReaderAfterClose(t *testing.T) {
	e := NewLocalEngine()
	u := MustParseURI("-")
	r, err := e.Get(t.Context(), u)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	r, err = e.Get(t.Context(), u)
	require.NoError(t, err)
	_, err = r.Read(nil)
	require.NoError(t, err, "zero-length read should succeed")
}

func TestFileSystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rasm"), []byte("bb"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rasm"), []byte("a"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	ctx := t.Context()
	e := NewLocalEngine()
	u := MustParseURI(dir)

	info, err := e.Stat(ctx, u)
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	infos, err := e.List(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []Info{
		{Name: "a.rasm", Size: 1},
		{Name: "b.rasm", Size: 2},
		{Name: "sub", Size: infos[2].Size, IsDir: true},
	}, infos)

	b, err := Get(ctx, e, u.JoinPath("b.rasm"))
	require.NoError(t, err)
	assert.Equal(t, "bb", string(b))

	r, err := e.Get(ctx, u.JoinPath("a.rasm"))
	require.NoError(t, err)
	size, err := r.(Sizer).Size()
	require.NoError(t, err)
	assert.EqualValues(t, 1, size)
	require.NoError(t, r.Close())

	ok, err := e.Exists(ctx, u.JoinPath("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = e.Get(ctx, u.JoinPath("missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

package inputflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wilcoxmd/deepkit-framework/pkg/storage"
)

func newFlags(t *testing.T, args ...string) *Flags {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	require.NoError(t, f.Init())
	return &f
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.rasm":    ".decl B class\n    frame\n    class",
		"a.rasm":    ".decl A\n.class B\n    classReference 0 0\n",
		"notes.txt": "ignored",
	})
	m, err := newFlags(t).Load(t.Context(), storage.NewLocalEngine(), []string{dir})
	require.NoError(t, err)
	require.Len(t, m.Programs, 2)
	assert.Equal(t, "A", m.Programs[0].Name)
	assert.Equal(t, "B", m.Programs[1].Name)
	assert.Same(t, m.Programs[1].Class, m.Programs[0].Literals[0])
}

func TestLoadSyntaxErrorLocation(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.ok":  ".decl A\n    string\n",
		"b.bad": ".decl B\n\n    strin\n",
	})
	f := newFlags(t)
	a, b := filepath.Join(dir, "a.ok"), filepath.Join(dir, "b.bad")
	_, err := f.Load(t.Context(), storage.NewLocalEngine(), []string{a, b})
	assert.EqualError(t, err, b+`:3: unknown opcode "strin" (did you mean "string"?)`)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"big.rasm": ".decl Big\n    string\n"})
	engine := storage.NewLocalEngine()

	_, err := newFlags(t).Load(t.Context(), engine, nil)
	assert.EqualError(t, err, "no input files")

	_, err = newFlags(t, "-ext", ".other").Load(t.Context(), engine, []string{dir})
	assert.EqualError(t, err, dir+": no .other files")

	big := filepath.Join(dir, "big.rasm")
	_, err = newFlags(t, "-maxsize", "4").Load(t.Context(), engine, []string{big})
	assert.EqualError(t, err, big+": file exceeds 4 bytes")

	missing := filepath.Join(dir, "missing.rasm")
	_, err = newFlags(t).Load(t.Context(), engine, []string{missing})
	assert.EqualError(t, err, missing+": file does not exist")
}

func TestInit(t *testing.T) {
	f := Flags{Ext: "rasm", MaxSize: 1}
	assert.EqualError(t, f.Init(), "extension must begin with a dot")
	f = Flags{Ext: ".rasm"}
	assert.EqualError(t, f.Init(), "maximum file size must be greater than zero")
}

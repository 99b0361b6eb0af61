package resolverflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wilcoxmd/deepkit-framework/runtime"
	"go.uber.org/zap"
)

func TestConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtype.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 10\ncache_size: 8\n"), 0644))
	t.Setenv(ConfigEnv, path)

	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-maxdepth", "20", "-trace"}))
	c, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, 20, c.MaxDepth)
	assert.Equal(t, 8, c.CacheSize)
	assert.True(t, c.Trace)

	r, err := f.Open(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, c, r.Config())
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	var f Flags
	f.SetFlags(flag.NewFlagSet("test", flag.ContinueOnError))
	c, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, runtime.DefaultConfig(), c)
}

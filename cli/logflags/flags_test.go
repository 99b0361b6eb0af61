package logflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtype.log")
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-log.level", "debug", "-log.path", path}))
	assert.Equal(t, zapcore.DebugLevel, f.Level)

	logger, closer, err := f.Open()
	require.NoError(t, err)
	logger.Debug("Resolved")
	require.NoError(t, closer())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"Resolved"`)
	assert.Contains(t, string(b), `"level":"debug"`)
}

func TestBadLevel(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	f.SetFlags(fs)
	assert.Error(t, fs.Parse([]string{"-log.level", "loud"}))
}

func TestNegativeRotation(t *testing.T) {
	f := Flags{MaxSize: -1}
	_, _, err := f.Open()
	assert.EqualError(t, err, "log.maxsize and log.maxbackups cannot be negative")
}

type nopWriter struct{}

func (nopWriter) Write(b []byte) (int, error) { return len(b), nil }

// Package logflags configures the zap logger of a command from its flags.
package logflags

import (
	"errors"
	"flag"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Flags struct {
	Level      zapcore.Level
	Path       string
	MaxSize    int
	MaxBackups int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Level = zapcore.WarnLevel
	fs.Var(&f.Level, "log.level", "logging level [debug,info,warn,error]")
	fs.StringVar(&f.Path, "log.path", "", "write logs to this file with rotation instead of stderr")
	fs.IntVar(&f.MaxSize, "log.maxsize", 100, "megabytes written to log.path before it is rotated")
	fs.IntVar(&f.MaxBackups, "log.maxbackups", 3, "rotated log files to keep")
}

// Open returns the configured logger and a function that flushes and
// closes it.
func (f *Flags) Open() (*zap.Logger, func() error, error) {
	if f.MaxSize < 0 || f.MaxBackups < 0 {
		return nil, nil, errors.New("log.maxsize and log.maxbackups cannot be negative")
	}
	var core zapcore.Core
	closer := func() error { return nil }
	if f.Path == "" {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core = zapcore.NewCore(enc, zapcore.Lock(os.Stderr), f.Level)
	} else {
		w := &lumberjack.Logger{
			Filename:   f.Path,
			MaxSize:    f.MaxSize,
			MaxBackups: f.MaxBackups,
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core = zapcore.NewCore(enc, zapcore.AddSync(w), f.Level)
		closer = w.Close
	}
	logger := zap.New(core)
	return logger, func() error {
		logger.Sync()
		return closer()
	}, nil
}

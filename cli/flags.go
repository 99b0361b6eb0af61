// Package cli holds the flags shared by every rtype command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wilcoxmd/deepkit-framework/cli/logflags"
	"go.uber.org/zap"
)

var Version = "unknown"

type Flags struct {
	showVersion bool
	logFlags    logflags.Flags
	logger      *zap.Logger
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	f.logFlags.SetFlags(fs)
}

// Logger returns the logger opened by Init.
func (f *Flags) Logger() *zap.Logger {
	if f.logger == nil {
		return zap.NewNop()
	}
	return f.logger
}

type Initializer interface {
	Init() error
}

// Init initializes each of all, opens the logger, and returns a context
// canceled on interrupt along with a cleanup function the caller must
// defer.
func (f *Flags) Init(all ...Initializer) (context.Context, func(), error) {
	if f.showVersion {
		fmt.Printf("Version: %s\n", Version)
		os.Exit(0)
	}
	for _, i := range all {
		if err := i.Init(); err != nil {
			return nil, nil, err
		}
	}
	logger, closeLog, err := f.logFlags.Open()
	if err != nil {
		return nil, nil, err
	}
	f.logger = logger
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cleanup := func() {
		cancel()
		closeLog()
	}
	return ctx, cleanup, nil
}

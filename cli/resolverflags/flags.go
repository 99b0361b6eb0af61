// Package resolverflags builds a runtime.Resolver from command-line flags
// and an optional YAML configuration file.
package resolverflags

import (
	"flag"
	"os"

	"github.com/wilcoxmd/deepkit-framework/runtime"
	"go.uber.org/zap"
)

const ConfigEnv = "RTYPE_CONFIG"

type Flags struct {
	ConfigPath string
	MaxDepth   int
	Trace      bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", os.Getenv(ConfigEnv), "resolver configuration file (env "+ConfigEnv+")")
	fs.IntVar(&f.MaxDepth, "maxdepth", 0, "override the configured recursion limit")
	fs.BoolVar(&f.Trace, "trace", false, "log each executed instruction at debug level")
}

// Config loads the configuration file, if any, and applies flag overrides.
func (f *Flags) Config() (runtime.Config, error) {
	c := runtime.DefaultConfig()
	if f.ConfigPath != "" {
		var err error
		if c, err = runtime.LoadConfig(f.ConfigPath); err != nil {
			return runtime.Config{}, err
		}
	}
	if f.MaxDepth != 0 {
		c.MaxDepth = f.MaxDepth
	}
	c.Trace = c.Trace || f.Trace
	return c, nil
}

func (f *Flags) Open(logger *zap.Logger) (*runtime.Resolver, error) {
	c, err := f.Config()
	if err != nil {
		return nil, err
	}
	return runtime.NewResolver(runtime.WithConfig(c), runtime.WithLogger(logger))
}

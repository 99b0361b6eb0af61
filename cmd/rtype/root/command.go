package root

import (
	"flag"

	"github.com/wilcoxmd/deepkit-framework/cli"
	"github.com/wilcoxmd/deepkit-framework/cli/resolverflags"
	"github.com/wilcoxmd/deepkit-framework/pkg/charm"
)

var Rtype = &charm.Spec{
	Name:  "rtype",
	Usage: "rtype [options] <command> [arguments...]",
	Short: "resolve and inspect runtime type programs",
	Long: `
The "rtype" command assembles type programs written in the bytecode
assembly language, runs them on the type resolver, and prints the
resulting types.  It can also infer the type of JSON values and
disassemble programs.

An assembly file holds one or more declarations, each introduced by a
.decl directive and followed by its literal table and instructions.
Declarations marked "class" register a class so other declarations can
refer to it with the classReference instruction.

Resolver limits may be set in a YAML file named by -config or by the
RTYPE_CONFIG environment variable, e.g.,

  max_depth: 32
  cache_size: 1024
`,
	New:         New,
	HiddenFlags: "log.maxsize,log.maxbackups",
}

type Command struct {
	cli.Flags
	ResolverFlags resolverflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	c.ResolverFlags.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	return charm.NoRun(args)
}

package resolve

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/wilcoxmd/deepkit-framework/cli/inputflags"
	"github.com/wilcoxmd/deepkit-framework/cmd/rtype/root"
	"github.com/wilcoxmd/deepkit-framework/pkg/charm"
	"github.com/wilcoxmd/deepkit-framework/pkg/storage"
	"github.com/wilcoxmd/deepkit-framework/typefmt"
)

var spec = &charm.Spec{
	Name:  "resolve",
	Usage: "resolve [options] file|dir ...",
	Short: "resolve a type declaration",
	Long: `
resolve assembles the given files as one module and prints the type of its
first declaration, or of the declaration named by -decl.  A file of "-" is
standard input and a directory contributes each of its files with the -ext
extension.  Each -arg names
another declaration whose type is passed as a generic argument.  With -all,
every declaration is resolved concurrently and printed as "Name: type".`,
	Examples: []string{
		"rtype resolve -decl Box -arg Str box.rasm",
		"rtype resolve -all -dump types.rasm",
	},
	New: New,
}

func init() {
	root.Rtype.Add(spec)
}

type names []string

func (n *names) String() string {
	return strings.Join(*n, ",")
}

func (n *names) Set(s string) error {
	*n = append(*n, s)
	return nil
}

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	decl       string
	args       names
	all        bool
	dump       bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.decl, "decl", "", "declaration to resolve (default first)")
	f.Var(&c.args, "arg", "declaration passed as the next generic argument (may be repeated)")
	f.BoolVar(&c.all, "all", false, "resolve every declaration")
	f.BoolVar(&c.dump, "dump", false, "dump the type graph instead of printing it")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if c.all && (c.decl != "" || len(c.args) > 0) {
		return errors.New("-all cannot be combined with -decl or -arg")
	}
	module, err := c.inputFlags.Load(ctx, storage.NewLocalEngine(), args)
	if err != nil {
		return err
	}
	resolver, err := c.ResolverFlags.Open(c.Logger())
	if err != nil {
		return err
	}
	if !c.all {
		typ, err := resolver.ResolveDecl(ctx, module, c.decl, c.args...)
		if err != nil {
			return err
		}
		if c.dump {
			spew.Fdump(os.Stdout, typ)
			return nil
		}
		fmt.Println(typefmt.String(typ))
		return nil
	}
	if err := resolver.Registry().RegisterModule(module); err != nil {
		return err
	}
	types, err := resolver.ResolveAll(ctx, module.Programs)
	if err != nil {
		return err
	}
	for k, typ := range types {
		if c.dump {
			fmt.Printf("%s:\n", module.Programs[k].Name)
			spew.Fdump(os.Stdout, typ)
			continue
		}
		fmt.Printf("%s: %s\n", module.Programs[k].Name, typefmt.String(typ))
	}
	return nil
}

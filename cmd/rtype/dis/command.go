package dis

import (
	"flag"
	"fmt"

	"github.com/wilcoxmd/deepkit-framework/bytecode"
	"github.com/wilcoxmd/deepkit-framework/cli/inputflags"
	"github.com/wilcoxmd/deepkit-framework/cmd/rtype/root"
	"github.com/wilcoxmd/deepkit-framework/pkg/charm"
	"github.com/wilcoxmd/deepkit-framework/pkg/storage"
)

var spec = &charm.Spec{
	Name:  "dis",
	Usage: "dis [options] file|dir ...",
	Short: "validate and disassemble programs",
	Long: `
dis assembles the given files ("-" for standard input) as one module,
validates each program, and prints its canonical disassembly.  The output assembles back to the same
programs.  With -ops, dis instead lists every opcode and its operand count.`,
	New: New,
}

func init() {
	root.Rtype.Add(spec)
}

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	decl       string
	ops        bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.decl, "decl", "", "disassemble only this declaration")
	f.BoolVar(&c.ops, "ops", false, "list the instruction set")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if c.ops {
		for _, name := range bytecode.OpNames() {
			op, _ := bytecode.LookupOp(name)
			fmt.Printf("%-24s %d\n", name, op.Arity())
		}
		return nil
	}
	module, err := c.inputFlags.Load(ctx, storage.NewLocalEngine(), args)
	if err != nil {
		return err
	}
	programs := module.Programs
	if c.decl != "" {
		p := module.Lookup(c.decl)
		if p == nil {
			return fmt.Errorf("no declaration named %q", c.decl)
		}
		programs = []*bytecode.Program{p}
	}
	for k, p := range programs {
		if err := bytecode.Validate(p); err != nil {
			return err
		}
		if k > 0 {
			fmt.Println()
		}
		fmt.Print(bytecode.Disassemble(p))
	}
	return nil
}

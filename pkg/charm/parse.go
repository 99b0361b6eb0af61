package charm

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

func newFlagSet(spec *Spec) (*flag.FlagSet, *bool, *bool) {
	f := flag.NewFlagSet(spec.Name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	help := f.Bool("h", false, "display help")
	f.BoolVar(help, "help", false, "display help")
	hidden := f.Bool("hidden", false, "show hidden options")
	return f, help, hidden
}

// parse walks args down the command hierarchy rooted at spec.  When leaf
// is true, a command with internal leaf flags is treated as the final
// command and ErrNotLeaf is returned if a subcommand follows it.
func parse(spec *Spec, args []string, parent Command, leaf bool) (path, []string, bool, error) {
	var p path
	var showHidden bool
	for {
		f, help, hidden := newFlagSet(spec)
		cmd, err := spec.New(parent, f)
		if err != nil {
			return nil, nil, false, err
		}
		if spec.InternalLeaf && leaf {
			if l, ok := cmd.(InternalLeaf); ok {
				l.SetLeafFlags(f)
			}
		}
		p = append(p, &instance{spec: spec, command: cmd, flags: f})
		if err := f.Parse(args); err != nil {
			return nil, nil, false, fmt.Errorf("%s: %w", p.name(), err)
		}
		showHidden = showHidden || *hidden
		if *help {
			return p, nil, showHidden, NeedHelp
		}
		args = f.Args()
		if len(args) == 0 {
			return p, args, showHidden, nil
		}
		child := spec.lookupSub(args[0])
		if child == nil {
			return p, args, showHidden, nil
		}
		if spec.InternalLeaf && leaf {
			return nil, nil, false, ErrNotLeaf
		}
		spec, parent, args = child, cmd, args[1:]
	}
}

// parseHelp builds the path named by the non-flag words of args without
// parsing any flags, so help can be shown for a command line with errors.
func parseHelp(spec *Spec, args []string) (path, error) {
	var specs []*Spec
	specs = append(specs, spec)
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		child := spec.lookupSub(arg)
		if child == nil {
			break
		}
		specs = append(specs, child)
		spec = child
	}
	var p path
	var parent Command
	for k, spec := range specs {
		f, _, _ := newFlagSet(spec)
		cmd, err := spec.New(parent, f)
		if err != nil {
			return nil, err
		}
		if spec.InternalLeaf && k == len(specs)-1 {
			if l, ok := cmd.(InternalLeaf); ok {
				l.SetLeafFlags(f)
			}
		}
		p = append(p, &instance{spec: spec, command: cmd, flags: f})
		parent = cmd
	}
	if len(p) == 0 {
		return nil, errors.New("no command")
	}
	return p, nil
}

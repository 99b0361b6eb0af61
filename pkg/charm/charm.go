// Package charm builds command-line programs from a tree of command specs.
// Each spec constructs its command from its parent command and a flag set,
// so subcommands see the flags their ancestors registered.
package charm

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// NeedHelp may be returned by Command.Run to display help for the
	// command instead of an error.
	NeedHelp   = errors.New("help")
	ErrNoRun   = errors.New("no run method")
	ErrNotLeaf = errors.New("no internal leaf found")
)

type Constructor func(parent Command, f *flag.FlagSet) (Command, error)

type Command interface {
	Run(args []string) error
}

// InternalLeaf is implemented by a command that has children but also
// runs by itself.  SetLeafFlags registers the flags that apply only when
// no subcommand follows.
type InternalLeaf interface {
	SetLeafFlags(*flag.FlagSet)
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	// Examples are shown after the description, one per line.
	Examples []string
	New      Constructor
	// Hidden omits the command from its parent's help unless -hidden
	// is given.
	Hidden bool
	// HiddenFlags is a comma-separated list of flags omitted from help
	// unless -hidden is given.
	HiddenFlags string
	// RedactedFlags is a comma-separated list of flags whose default
	// values are not shown in help.
	RedactedFlags string
	// InternalLeaf marks a command whose SetLeafFlags should be called
	// when it is the last command on the line.  It is a field rather than
	// an interface check since child commands embed their parent and so
	// inherit its methods.
	InternalLeaf bool

	children []*Spec
	parent   *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

func (s *Spec) lookupSub(name string) *Spec {
	for _, child := range s.children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Exec parses args, runs the selected command, and displays help on
// standard output when the command line asks for it or the command
// returns NeedHelp.  Flag errors are prefixed with the command path.
func (s *Spec) Exec(args []string) error {
	return s.exec(os.Stdout, args)
}

func (s *Spec) exec(w io.Writer, args []string) error {
	p, rest, showHidden, err := parse(s, args, nil, true)
	if errors.Is(err, ErrNotLeaf) {
		p, rest, showHidden, err = parse(s, args, nil, false)
	}
	if err == nil {
		err = p.run(rest)
	}
	if errors.Is(err, NeedHelp) {
		hp, err := parseHelp(s, args)
		if err != nil {
			return err
		}
		writeHelp(w, hp, showHidden)
		return nil
	}
	return err
}

// ExecMain runs Exec on the process arguments and exits with status 1
// after printing any error to standard error.
func (s *Spec) ExecMain() {
	if err := s.Exec(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NoRun is the Run method of a command that only groups subcommands.
func NoRun(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return fmt.Errorf("%w: unknown command %q", ErrNoRun, args[0])
}

type instance struct {
	spec    *Spec
	command Command
	flags   *flag.FlagSet
}

// path is the chain of commands from the root to the selected command.
type path []*instance

func (p path) last() *instance {
	return p[len(p)-1]
}

func (p path) run(args []string) error {
	return p.last().command.Run(args)
}

func (p path) name() string {
	names := make([]string, 0, len(p))
	for _, inst := range p {
		names = append(names, inst.spec.Name)
	}
	return strings.Join(names, " ")
}

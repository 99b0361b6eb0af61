package charm

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootCommand struct {
	verbose bool
	leaf    string
	ran     []string
}

func (r *rootCommand) Run(args []string) error {
	r.ran = args
	if len(args) == 0 {
		return NeedHelp
	}
	return nil
}

func (r *rootCommand) SetLeafFlags(f *flag.FlagSet) {
	f.StringVar(&r.leaf, "leaf", "", "leaf only flag")
}

type childCommand struct {
	*rootCommand
	count int
	ran   []string
}

func (c *childCommand) Run(args []string) error {
	c.ran = args
	return nil
}

func newTestSpecs() (*Spec, *rootCommand, **childCommand) {
	root := &rootCommand{}
	var child *childCommand
	rootSpec := &Spec{
		Name:         "tool",
		Usage:        "tool [options] <command>",
		Short:        "test tool",
		Long:         "Tool does things.",
		InternalLeaf: true,
		HiddenFlags:  "secret",
		New: func(_ Command, f *flag.FlagSet) (Command, error) {
			f.BoolVar(&root.verbose, "v", false, "verbose output")
			f.Bool("secret", false, "hidden flag")
			return root, nil
		},
	}
	rootSpec.Add(&Spec{
		Name:     "child",
		Usage:    "child [-n count] file",
		Short:    "child command",
		Examples: []string{"tool child -n 2 a.txt"},
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			child = &childCommand{rootCommand: parent.(*rootCommand)}
			f.IntVar(&child.count, "n", 1, "count")
			return child, nil
		},
	})
	return rootSpec, root, &child
}

func TestExecSubcommand(t *testing.T) {
	spec, root, child := newTestSpecs()
	require.NoError(t, spec.Exec([]string{"-v", "child", "-n", "3", "a", "b"}))
	assert.True(t, root.verbose)
	require.NotNil(t, *child)
	assert.Equal(t, 3, (*child).count)
	assert.Equal(t, []string{"a", "b"}, (*child).ran)
}

func TestExecInternalLeaf(t *testing.T) {
	spec, root, _ := newTestSpecs()
	require.NoError(t, spec.Exec([]string{"-leaf", "x", "file"}))
	assert.Equal(t, "x", root.leaf)
	assert.Equal(t, []string{"file"}, root.ran)
}

func TestExecLeafFlagBeforeSubcommand(t *testing.T) {
	spec, _, _ := newTestSpecs()
	err := spec.Exec([]string{"-leaf", "x", "child"})
	assert.EqualError(t, err, "tool: flag provided but not defined: -leaf")
}

func TestHelp(t *testing.T) {
	spec, _, _ := newTestSpecs()
	p, err := parseHelp(spec, []string{"-v", "child"})
	require.NoError(t, err)
	var b bytes.Buffer
	writeHelp(&b, p, false)
	expected := `NAME
    tool child - child command

USAGE
    tool child [-n count] file

OPTIONS
    -n int
        count (default "1")

EXAMPLES
    tool child -n 2 a.txt
`
	assert.Equal(t, expected, b.String())

	p, err = parseHelp(spec, nil)
	require.NoError(t, err)
	b.Reset()
	writeHelp(&b, p, false)
	assert.Contains(t, b.String(), "    -leaf string\n        leaf only flag\n")
	assert.Contains(t, b.String(), "COMMANDS\n    child        child command\n")
	assert.NotContains(t, b.String(), "secret")

	b.Reset()
	writeHelp(&b, p, true)
	assert.Contains(t, b.String(), "-secret")
}

func TestExecHelp(t *testing.T) {
	spec, _, child := newTestSpecs()
	var b bytes.Buffer
	require.NoError(t, spec.exec(&b, []string{"child", "-h"}))
	assert.Contains(t, b.String(), "NAME\n    tool child - child command\n")
	assert.Empty(t, (*child).ran)

	// A root run without arguments returns NeedHelp.
	b.Reset()
	require.NoError(t, spec.exec(&b, nil))
	assert.Contains(t, b.String(), "NAME\n    tool - test tool\n")
}

func TestExecFlagErrorNamesCommand(t *testing.T) {
	spec, _, _ := newTestSpecs()
	err := spec.Exec([]string{"child", "-n", "x"})
	assert.EqualError(t, err, `tool child: invalid value "x" for flag -n: parse error`)
}

func TestNoRun(t *testing.T) {
	assert.ErrorIs(t, NoRun(nil), NeedHelp)
	err := NoRun([]string{"bogus"})
	assert.ErrorIs(t, err, ErrNoRun)
	assert.EqualError(t, err, `no run method: unknown command "bogus"`)
}

package infer

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wilcoxmd/deepkit-framework/cmd/rtype/root"
	"github.com/wilcoxmd/deepkit-framework/pkg/charm"
	"github.com/wilcoxmd/deepkit-framework/typefmt"
)

var spec = &charm.Spec{
	Name:  "infer",
	Usage: "infer [-c json] [file]",
	Short: "infer the types of JSON values",
	Long: `
infer reads a stream of JSON values from file, or from standard input if no
file is given, and prints the inferred type of each value on its own line.
Numbers infer as number and arrays infer the widened union of their
element types.`,
	New: New,
}

func init() {
	root.Rtype.Add(spec)
}

type Command struct {
	*root.Command
	value string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.StringVar(&c.value, "c", "", "infer the type of this JSON text instead of reading input")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	var r io.Reader
	switch {
	case c.value != "":
		if len(args) > 0 {
			return errors.New("-c cannot be combined with a file")
		}
		r = strings.NewReader(c.value)
	case len(args) == 0 || args[0] == "-":
		r = os.Stdin
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	default:
		return errors.New("at most one file is allowed")
	}
	resolver, err := c.ResolverFlags.Open(c.Logger())
	if err != nil {
		return err
	}
	dec := json.NewDecoder(r)
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		typ, err := resolver.Infer(ctx, v)
		if err != nil {
			return err
		}
		fmt.Println(typefmt.String(typ))
	}
}

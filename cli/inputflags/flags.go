// Package inputflags loads assembly sources named on the command line.
package inputflags

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path"
	"strings"

	"github.com/wilcoxmd/deepkit-framework/bytecode"
	"github.com/wilcoxmd/deepkit-framework/pkg/storage"
)

const DefaultExt = ".rasm"

type Flags struct {
	Ext     string
	MaxSize int64
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Ext, "ext", DefaultExt, "extension of assembly files read from a directory")
	fs.Int64Var(&f.MaxSize, "maxsize", 16<<20, "maximum size in bytes of an assembly file")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if !strings.HasPrefix(f.Ext, ".") {
		return errors.New("extension must begin with a dot")
	}
	if f.MaxSize <= 0 {
		return errors.New("maximum file size must be greater than zero")
	}
	return nil
}

type source struct {
	name  string
	text  string
	lines int
}

// Load reads each path ("-" for standard input) and assembles the files
// as one module so classes may be referenced across files.  A directory
// contributes its files with the configured extension in name order.
func (f *Flags) Load(ctx context.Context, engine storage.Engine, paths []string) (*bytecode.Module, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}
	var sources []source
	for _, p := range paths {
		u, err := storage.ParseURI(p)
		if err != nil {
			return nil, err
		}
		more, err := f.read(ctx, engine, p, u)
		if err != nil {
			return nil, err
		}
		sources = append(sources, more...)
	}
	var b strings.Builder
	for _, s := range sources {
		b.WriteString(s.text)
	}
	m, err := bytecode.Assemble(b.String())
	if err != nil {
		var serr *bytecode.SyntaxError
		if errors.As(err, &serr) {
			return nil, locate(sources, serr)
		}
		return nil, err
	}
	return m, nil
}

func (f *Flags) read(ctx context.Context, engine storage.Engine, name string, u *storage.URI) ([]source, error) {
	info, err := engine.Stat(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !info.IsDir {
		s, err := f.readFile(ctx, engine, name, u, info)
		if err != nil {
			return nil, err
		}
		return []source{s}, nil
	}
	infos, err := engine.List(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var sources []source
	for _, info := range infos {
		if info.IsDir || path.Ext(info.Name) != f.Ext {
			continue
		}
		s, err := f.readFile(ctx, engine, path.Join(name, info.Name), u.JoinPath(info.Name), info)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%s: no %s files", name, f.Ext)
	}
	return sources, nil
}

func (f *Flags) readFile(ctx context.Context, engine storage.Engine, name string, u *storage.URI, info storage.Info) (source, error) {
	if info.Size > f.MaxSize {
		return source{}, fmt.Errorf("%s: file exceeds %d bytes", name, f.MaxSize)
	}
	b, err := storage.Get(ctx, engine, u)
	if err != nil {
		return source{}, fmt.Errorf("%s: %w", name, err)
	}
	text := string(b)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return source{name: name, text: text, lines: strings.Count(text, "\n")}, nil
}

// locate rewrites the line of err relative to the file containing it.
func locate(sources []source, err *bytecode.SyntaxError) error {
	line := err.Line
	for _, s := range sources {
		if line <= s.lines {
			return fmt.Errorf("%s:%d: %s", s.name, line, err.Msg)
		}
		line -= s.lines
	}
	return err
}

// Package storage reads program sources from the local file system and
// standard input through a common interface keyed by URI.
package storage

import (
	"context"
	"fmt"
	"io"
)

type Reader interface {
	io.ReadCloser
}

type Sizer interface {
	Size() (int64, error)
}

type Info struct {
	Name  string
	Size  int64
	IsDir bool
}

type Engine interface {
	Get(context.Context, *URI) (Reader, error)
	Exists(context.Context, *URI) (bool, error)
	Stat(context.Context, *URI) (Info, error)
	List(context.Context, *URI) ([]Info, error)
}

// LocalEngine routes each URI to the file system or standard input by
// scheme.
type LocalEngine struct {
	file  *FileSystem
	stdio *StdioEngine
}

var _ Engine = (*LocalEngine)(nil)

func NewLocalEngine() *LocalEngine {
	return &LocalEngine{
		file:  NewFileSystem(),
		stdio: NewStdioEngine(),
	}
}

func (l *LocalEngine) engine(u *URI) (Engine, error) {
	switch u.Scheme() {
	case FileScheme:
		return l.file, nil
	case StdioScheme:
		return l.stdio, nil
	}
	return nil, fmt.Errorf("%s: unsupported URI scheme", u)
}

func (l *LocalEngine) Get(ctx context.Context, u *URI) (Reader, error) {
	e, err := l.engine(u)
	if err != nil {
		return nil, err
	}
	return e.Get(ctx, u)
}

func (l *LocalEngine) Exists(ctx context.Context, u *URI) (bool, error) {
	e, err := l.engine(u)
	if err != nil {
		return false, err
	}
	return e.Exists(ctx, u)
}

func (l *LocalEngine) Stat(ctx context.Context, u *URI) (Info, error) {
	e, err := l.engine(u)
	if err != nil {
		return Info{}, err
	}
	return e.Stat(ctx, u)
}

func (l *LocalEngine) List(ctx context.Context, u *URI) ([]Info, error) {
	e, err := l.engine(u)
	if err != nil {
		return nil, err
	}
	return e.List(ctx, u)
}

// Get reads the entire contents of u.
func Get(ctx context.Context, e Engine, u *URI) ([]byte, error) {
	r, err := e.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	if closeErr := r.Close(); err == nil {
		err = closeErr
	}
	return b, err
}

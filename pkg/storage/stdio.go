package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

type StdioEngine struct{}

var _ Engine = (*StdioEngine)(nil)

func NewStdioEngine() *StdioEngine {
	return &StdioEngine{}
}

// Get returns standard input.  Closing the reader leaves os.Stdin open so
// it can be read again.
func (*StdioEngine) Get(_ context.Context, u *URI) (Reader, error) {
	if u.Opaque != "stdin" {
		return nil, fmt.Errorf("%s: cannot read", u)
	}
	return io.NopCloser(os.Stdin), nil
}

func (*StdioEngine) Exists(_ context.Context, u *URI) (bool, error) {
	return u.Opaque == "stdin", nil
}

func (*StdioEngine) Stat(_ context.Context, u *URI) (Info, error) {
	if u.Opaque != "stdin" {
		return Info{}, fmt.Errorf("%s: cannot stat", u)
	}
	return Info{Name: "stdin"}, nil
}

func (*StdioEngine) List(_ context.Context, u *URI) ([]Info, error) {
	return nil, fmt.Errorf("%s: cannot list", u)
}

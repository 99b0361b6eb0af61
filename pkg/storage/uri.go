package storage

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	FileScheme  = "file"
	StdioScheme = "stdio"
)

// URI locates a source.  Local paths are file URIs and "-" is standard
// input.
type URI url.URL

var Stdin = &URI{Scheme: StdioScheme, Opaque: "stdin"}

func ParseURI(path string) (*URI, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	if path == "-" {
		return Stdin, nil
	}
	u, err := url.Parse(path)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Not a URI, or a Windows drive letter.
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return &URI{Scheme: FileScheme, Path: filepath.ToSlash(abs)}, nil
	}
	switch u.Scheme {
	case FileScheme, StdioScheme:
		return (*URI)(u), nil
	}
	return nil, fmt.Errorf("%s: unsupported URI scheme %q", path, u.Scheme)
}

func MustParseURI(path string) *URI {
	u, err := ParseURI(path)
	if err != nil {
		panic(err)
	}
	return u
}

func (u *URI) String() string {
	return (*url.URL)(u).String()
}

func (u *URI) Scheme() string {
	return u.Scheme
}

func (u *URI) Filepath() string {
	return filepath.FromSlash(u.Path)
}

// Base returns the last element of the path, or the URI itself if it has
// no path.
func (u *URI) Base() string {
	if u.Path == "" {
		return u.String()
	}
	return filepath.Base(u.Filepath())
}

func (u *URI) JoinPath(elem ...string) *URI {
	out := *u
	out.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(elem, "/")
	return &out
}

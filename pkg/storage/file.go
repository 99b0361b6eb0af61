package storage

import (
	"context"
	"io/fs"
	"os"
	"sort"
)

type FileSystem struct{}

var _ Engine = (*FileSystem)(nil)

func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

func (f *FileSystem) Get(_ context.Context, u *URI) (Reader, error) {
	r, err := os.Open(u.Filepath())
	if err != nil {
		return nil, fileErr(err)
	}
	return &fileSizer{r, u}, nil
}

func (f *FileSystem) Exists(_ context.Context, u *URI) (bool, error) {
	_, err := os.Stat(u.Filepath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fileErr(err)
	}
	return true, nil
}

func (f *FileSystem) Stat(_ context.Context, u *URI) (Info, error) {
	info, err := os.Stat(u.Filepath())
	if err != nil {
		return Info{}, fileErr(err)
	}
	return Info{Name: info.Name(), Size: info.Size(), IsDir: info.IsDir()}, nil
}

// List returns the entries of the directory u sorted by name.
func (f *FileSystem) List(_ context.Context, u *URI) ([]Info, error) {
	entries, err := os.ReadDir(u.Filepath())
	if err != nil {
		return nil, fileErr(err)
	}
	infos := make([]Info, len(entries))
	for i, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		infos[i] = Info{
			Name:  e.Name(),
			Size:  info.Size(),
			IsDir: e.IsDir(),
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func fileErr(err error) error {
	if os.IsNotExist(err) {
		return fs.ErrNotExist
	}
	return err
}

type fileSizer struct {
	*os.File
	uri *URI
}

var _ Sizer = (*fileSizer)(nil)

func (f *fileSizer) Size() (int64, error) {
	info, err := os.Stat(f.uri.Filepath())
	if err != nil {
		return 0, fileErr(err)
	}
	return info.Size(), nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

type ObjectWriter interface {
	Write(p []byte) (n int, err error)
	Close() error
	Sync() error
}

type ObjectStore interface {
	GetWriter(name string) (ObjectWriter, error)
}

// FileObjectStore writes each object as a plain file under root, spread
// across subdirectories when there are any.
type FileObjectStore struct {
	root      string
	openFlags int
	subdirs   []string
	next      int
}

// makeSubdirs creates dir-0 .. dir-(n-1) under root.
func makeSubdirs(root string, n int) ([]string, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("cannot init store: %s", err)
	}

	var subdirs []string

	for i := 0; i < n; i++ {
		subdir := fmt.Sprintf("dir-%d", i)
		if err := os.MkdirAll(filepath.Join(root, subdir), 0755); err != nil {
			return nil, fmt.Errorf("cannot create store subdirectory: %s", err)
		}
		subdirs = append(subdirs, subdir)
	}

	return subdirs, nil
}

// NewFileObjectStore creates root and its subdirectories. openFlags are
// added to every open, see parseOpenFlags.
func NewFileObjectStore(root string, subdirCount int, openFlags int) (ObjectStore, error) {
	subdirs, err := makeSubdirs(root, subdirCount)

	if err != nil {
		return nil, err
	}

	return &FileObjectStore{
		root:      root,
		openFlags: openFlags,
		subdirs:   subdirs,
	}, nil
}

// path picks the next subdirectory round robin. A store belongs to one
// runner, so this needs no locking.
func (f *FileObjectStore) path(name string) string {
	if len(f.subdirs) == 0 {
		return filepath.Join(f.root, name)
	}

	dir := f.subdirs[f.next%len(f.subdirs)]
	f.next++
	return filepath.Join(f.root, dir, name)
}

func (f *FileObjectStore) GetWriter(name string) (ObjectWriter, error) {
	file, err := os.OpenFile(f.path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC|f.openFlags, 0644)

	if err != nil {
		return nil, err
	}

	return file, nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type local struct {
	root string
}

func newLocal(root string) (*local, error) {
	if root == "" {
		root = "./uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &local{root: root}, nil
}

// Root is the directory served under the public uploads path.
func (f *Files) Root() (string, bool) {
	l, ok := f.be.(*local)
	if !ok {
		return "", false
	}
	return l.root, true
}

func (l *local) save(_ context.Context, key string, r io.Reader, _ string) error {
	full := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	file, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	_, err = io.Copy(file, r)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return err
	}
	return nil
}

func (l *local) remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

package objstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Local stores objects as plain files under a root directory.
type Local struct {
	root string
}

// NewLocal creates a filesystem backend rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "objstore: resolve root %s", dir)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, eris.Wrapf(err, "objstore: create root %s", abs)
	}
	return &Local{root: abs}, nil
}

func (l *Local) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *Local) Put(_ context.Context, key string, data []byte) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return eris.Wrapf(err, "objstore: mkdir for %s", key)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return eris.Wrapf(err, "objstore: write %s", key)
	}
	return nil
}

func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.path(key))
	if err != nil {
		return nil, eris.Wrapf(err, "objstore: read %s", key)
	}
	return data, nil
}

func (l *Local) List(_ context.Context, prefix string) ([]string, error) {
	base := l.path(prefix)
	info, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "objstore: stat %s", prefix)
	}
	if !info.IsDir() {
		return []string{prefix}, nil
	}

	var keys []string
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "objstore: list %s", prefix)
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *Local) RemoveAll(_ context.Context, prefix string) error {
	p := l.path(strings.TrimSuffix(prefix, "/"))
	if err := os.RemoveAll(p); err != nil {
		return eris.Wrapf(err, "objstore: remove %s", prefix)
	}
	return nil
}

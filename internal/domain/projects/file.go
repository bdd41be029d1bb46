package projects

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

const snapshotExt = ".json"

// FileStore keeps one snapshot file per project in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("project store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create project store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// fileName maps a project name onto a file name. A leading dot is escaped
// so that hidden entries (including temp files) never collide with projects.
func fileName(name string) string {
	escaped := url.PathEscape(name)
	if strings.HasPrefix(escaped, ".") {
		escaped = "%2E" + escaped[1:]
	}
	return escaped + snapshotExt
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, fileName(name))
}

// Save writes the snapshot to a temp file and renames it into place
func (f *FileStore) Save(ctx context.Context, name string, snapshot []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(snapshot); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Get reads a single snapshot
func (f *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// LoadAll reads every snapshot file in the directory
func (f *FileStore) LoadAll(ctx context.Context) (map[string][]byte, error) {
	var (
		mu  sync.Mutex
		out = make(map[string][]byte)
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, f.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != f.dir {
				return filepath.SkipDir
			}
			return nil
		}

		base := d.Name()
		if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, snapshotExt) {
			return nil
		}
		name, err := url.PathUnescape(strings.TrimSuffix(base, snapshotExt))
		if err != nil {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", base, err)
		}

		mu.Lock()
		out[name] = data
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk project store: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot file. Missing files are ignored.
func (f *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lox/whot/internal/game"
)

const roomExt = ".json"

// File keeps one JSON snapshot per room in a directory. Writes go through a
// temporary file and a rename, so readers see the old snapshot or the new one
// and never a partial write.
type File struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ Store = (*File)(nil)

// NewFile opens a file store rooted at dir, creating it if needed
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the directory holding the snapshots
func (f *File) Dir() string { return f.dir }

func (f *File) lock(id string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[id]
	if !ok {
		l = &sync.Mutex{}
		f.locks[id] = l
	}
	return l
}

func (f *File) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid room id %q", id)
	}
	return filepath.Join(f.dir, id+roomExt), nil
}

func (f *File) Create(_ context.Context, g *game.Game) (*game.Game, error) {
	c, err := initial(g)
	if err != nil {
		return nil, err
	}
	path, err := f.path(c.ID)
	if err != nil {
		return nil, err
	}
	l := f.lock(c.ID)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s: %w", c.ID, ErrExists)
	}
	if err := writeRoom(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (f *File) Get(_ context.Context, id string) (*game.Game, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}
	l := f.lock(id)
	l.Lock()
	defer l.Unlock()
	return readRoom(path, id)
}

func (f *File) Update(ctx context.Context, id string, fn UpdateFunc) (*game.Game, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}
	l := f.lock(id)
	l.Lock()
	defer l.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current, err := readRoom(path, id)
	if err != nil {
		return nil, err
	}
	updated, err := fn(current.Clone())
	if err != nil {
		return nil, err
	}
	if updated, err = next(id, current, updated); err != nil {
		return nil, err
	}
	if err := writeRoom(path, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (f *File) List(_ context.Context) ([]*game.Game, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read store directory: %w", err)
	}
	var games []*game.Game
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != roomExt || strings.HasPrefix(name, ".") {
			continue
		}
		id := strings.TrimSuffix(name, roomExt)
		l := f.lock(id)
		l.Lock()
		g, err := readRoom(filepath.Join(f.dir, name), id)
		l.Unlock()
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	sortRooms(games)
	return games, nil
}

func (f *File) Close() error { return nil }

func readRoom(path, id string) (*game.Game, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read room %s: %w", id, err)
	}
	return decodeRoom(id, data)
}

func writeRoom(path string, g *game.Game) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode room %s: %w", g.ID, err)
	}
	return writeFileAtomic(path, data, 0o644)
}

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over filename. The rename is atomic on POSIX filesystems as long
// as both paths share a filesystem.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		committed = true
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}

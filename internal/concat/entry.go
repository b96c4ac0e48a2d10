package concat

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Entry is a dropped file or directory.
type Entry interface {
	Name() string
	IsDir() bool
	// Children lists a directory's entries in platform listing order.
	Children(ctx context.Context) ([]Entry, error)
	// ReadText returns a file's full contents.
	ReadText(ctx context.Context) (string, error)
}

// FSEntry is an Entry backed by an fs.FS.
type FSEntry struct {
	fsys  fs.FS
	name  string // path within fsys, slash separated
	isDir bool
	// Source is the OS path this entry was resolved from, if any.
	Source string
}

// NewFSEntry returns the entry at name within fsys.
func NewFSEntry(fsys fs.FS, name string) (*FSEntry, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, err
	}
	return &FSEntry{fsys: fsys, name: name, isDir: info.IsDir()}, nil
}

// NewPathEntry resolves an OS path into an entry rooted at its parent
// directory, so the entry's Name is the path's base name.
func NewPathEntry(p string) (*FSEntry, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	return &FSEntry{
		fsys:   os.DirFS(filepath.Dir(abs)),
		name:   filepath.Base(abs),
		isDir:  info.IsDir(),
		Source: abs,
	}, nil
}

// Name implements Entry.
func (e *FSEntry) Name() string { return path.Base(e.name) }

// IsDir implements Entry.
func (e *FSEntry) IsDir() bool { return e.isDir }

// Children implements Entry.
func (e *FSEntry) Children(ctx context.Context) ([]Entry, error) {
	if !e.isDir {
		return nil, fmt.Errorf("%s: not a directory", e.name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirents, err := fs.ReadDir(e.fsys, e.name)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		out = append(out, &FSEntry{
			fsys:  e.fsys,
			name:  path.Join(e.name, d.Name()),
			isDir: d.IsDir(),
		})
	}
	return out, nil
}

// ReadText implements Entry.
func (e *FSEntry) ReadText(ctx context.Context) (string, error) {
	if e.isDir {
		return "", fmt.Errorf("%s: is a directory", e.name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(e.fsys, e.name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

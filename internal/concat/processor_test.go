package concat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEntries(t *testing.T, fsys fstest.MapFS, names ...string) []Entry {
	t.Helper()
	var out []Entry
	for _, n := range names {
		e, err := NewFSEntry(fsys, n)
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

// brokenFile is a file entry whose read always fails.
type brokenFile struct{ name string }

func (b brokenFile) Name() string                              { return b.name }
func (b brokenFile) IsDir() bool                               { return false }
func (b brokenFile) Children(context.Context) ([]Entry, error) { return nil, nil }
func (b brokenFile) ReadText(context.Context) (string, error) {
	return "", errors.New("permission denied")
}

type countingStats struct {
	ok, failed, runs int
}

func (c *countingStats) FileProcessed(failed bool) {
	if failed {
		c.failed++
	} else {
		c.ok++
	}
}
func (c *countingStats) RunFinished(time.Duration) { c.runs++ }

func TestProcess_SingleFileFormat(t *testing.T) {
	fsys := fstest.MapFS{"a.txt": {Data: []byte("hello")}}
	art, err := NewProcessor(nil, nil).Process(context.Background(), mapEntries(t, fsys, "a.txt"))
	require.NoError(t, err)

	want := "\n=== FILE START: a.txt ===\nhello\n=== FILE END: a.txt ===\n\n"
	assert.Equal(t, want, art.Text)
	assert.Equal(t, 1, art.Files)
	assert.Equal(t, 0, art.Failed)
	assert.NotZero(t, art.Sum)
}

func TestProcess_DirectoryPrefixesRelativePaths(t *testing.T) {
	fsys := fstest.MapFS{
		"proj/main.go":        {Data: []byte("package main")},
		"proj/lib/util.go":    {Data: []byte("package lib")},
		"proj/lib/deep/x.txt": {Data: []byte("x")},
		"notes.md":            {Data: []byte("# notes")},
	}
	art, err := NewProcessor(nil, nil).Process(context.Background(), mapEntries(t, fsys, "proj", "notes.md"))
	require.NoError(t, err)

	starts := startMarkers(art.Text)
	assert.Equal(t, []string{
		"proj/lib/deep/x.txt",
		"proj/lib/util.go",
		"proj/main.go",
		"notes.md",
	}, starts, "blocks follow listing order, depth first, in drop order")
	assert.Equal(t, 4, art.Files)
}

func TestProcess_ReadFailureDoesNotAbort(t *testing.T) {
	fsys := fstest.MapFS{
		"one.txt": {Data: []byte("1")},
		"two.txt": {Data: []byte("2")},
	}
	entries := mapEntries(t, fsys, "one.txt")
	entries = append(entries, brokenFile{name: "locked.txt"})
	entries = append(entries, mapEntries(t, fsys, "two.txt")...)

	stats := &countingStats{}
	art, err := NewProcessor(nil, stats).Process(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(art.Text, "Error processing locked.txt: permission denied"),
		"exactly one inline error block for the unreadable file")
	assert.Contains(t, art.Text, "=== FILE START: one.txt ===")
	assert.Contains(t, art.Text, "=== FILE START: two.txt ===", "processing continues after a failure")
	assert.Equal(t, 3, art.Files)
	assert.Equal(t, 1, art.Failed)
	assert.Equal(t, 2, stats.ok)
	assert.Equal(t, 1, stats.failed)
	assert.Equal(t, 1, stats.runs)
}

func TestProcess_Idempotent(t *testing.T) {
	fsys := fstest.MapFS{
		"d/a": {Data: []byte("A")},
		"d/b": {Data: []byte("B")},
	}
	p := NewProcessor(nil, nil)
	first, err := p.Process(context.Background(), mapEntries(t, fsys, "d"))
	require.NoError(t, err)
	second, err := p.Process(context.Background(), mapEntries(t, fsys, "d"))
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Sum, second.Sum)

	fsys["d/b"] = &fstest.MapFile{Data: []byte("changed")}
	third, err := p.Process(context.Background(), mapEntries(t, fsys, "d"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Sum, third.Sum, "no caching across content changes")
}

func TestProcess_Cancelled(t *testing.T) {
	fsys := fstest.MapFS{"a": {Data: []byte("A")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(nil, nil).Process(ctx, mapEntries(t, fsys, "a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_EmptyInput(t *testing.T) {
	art, err := NewProcessor(nil, nil).Process(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, art.Empty())
}

func TestPathEntry_OSFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "f.txt"), []byte("data"), 0644))

	e, err := NewPathEntry(src)
	require.NoError(t, err)
	assert.Equal(t, "src", e.Name())
	assert.True(t, e.IsDir())
	assert.Equal(t, src, e.Source)

	art, err := NewProcessor(nil, nil).Process(context.Background(), []Entry{e})
	require.NoError(t, err)
	assert.Equal(t, FormatBlock("src/sub/f.txt", "data"), art.Text)

	_, err = NewPathEntry(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestArtifact_WriteFile(t *testing.T) {
	dir := t.TempDir()
	p, err := Artifact{Text: "content"}.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "processed_files.txt"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func startMarkers(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(line, "=== FILE START: "); ok {
			out = append(out, strings.TrimSuffix(rest, " ==="))
		}
	}
	return out
}

func TestArtifact_WithText(t *testing.T) {
	a := Artifact{Text: "abc", Files: 3, Failed: 1, Sum: xxhash.Sum64String("abc")}
	b := a.WithText("ab")
	assert.Equal(t, "ab", b.Text)
	assert.Equal(t, xxhash.Sum64String("ab"), b.Sum)
	assert.Equal(t, 3, b.Files)
	assert.Equal(t, 1, b.Failed)
	assert.Equal(t, "abc", a.Text)
}

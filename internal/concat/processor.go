// Package concat flattens dropped files and folders into a single text
// artifact with per-file delimiters.
package concat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DownloadName is the file name used when saving an artifact.
const DownloadName = "processed_files.txt"

// Artifact is the result of one processing run.
type Artifact struct {
	Text   string
	Files  int    // file blocks written, including failed ones
	Failed int    // files (or directories) replaced by an error marker
	Sum    uint64 // xxhash64 of Text
}

// Empty reports whether the artifact has no content.
func (a Artifact) Empty() bool { return a.Text == "" }

// WithText returns a copy holding text, with Sum recomputed. Counts are kept.
func (a Artifact) WithText(text string) Artifact {
	a.Text = text
	a.Sum = xxhash.Sum64String(text)
	return a
}

// WriteFile saves the artifact as DownloadName in dir and returns its path.
func (a Artifact) WriteFile(dir string) (string, error) {
	p := filepath.Join(dir, DownloadName)
	if err := os.WriteFile(p, []byte(a.Text), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", DownloadName, err)
	}
	return p, nil
}

// Stats receives per-run observations. Used for metrics.
type Stats interface {
	FileProcessed(failed bool)
	RunFinished(d time.Duration)
}

// Processor walks entries and builds artifacts.
type Processor struct {
	logger *slog.Logger
	stats  Stats
}

// NewProcessor creates a processor. stats may be nil.
func NewProcessor(logger *slog.Logger, stats Stats) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, stats: stats}
}

// Process visits entries strictly in order, depth first, and returns the
// concatenated artifact. A file that cannot be read is replaced by an inline
// error marker; only context cancellation aborts the run.
func (p *Processor) Process(ctx context.Context, entries []Entry) (Artifact, error) {
	start := time.Now()
	w := &walker{ctx: ctx, p: p}
	for _, e := range entries {
		if err := w.visit(e, ""); err != nil {
			return Artifact{}, err
		}
	}
	if p.stats != nil {
		p.stats.RunFinished(time.Since(start))
	}

	text := w.sb.String()
	return Artifact{
		Text:   text,
		Files:  w.files,
		Failed: w.failed,
		Sum:    xxhash.Sum64String(text),
	}, nil
}

type walker struct {
	ctx    context.Context
	p      *Processor
	sb     strings.Builder
	files  int
	failed int
}

func (w *walker) visit(e Entry, base string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	rel := base + e.Name()

	if !e.IsDir() {
		text, err := e.ReadText(w.ctx)
		if err != nil {
			if ctxErr := w.ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			w.markFailed(rel, err)
			return nil
		}
		w.files++
		w.record(false)
		w.sb.WriteString(FormatBlock(rel, text))
		return nil
	}

	children, err := e.Children(w.ctx)
	if err != nil {
		if ctxErr := w.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		w.markFailed(rel, err)
		return nil
	}
	for _, child := range children {
		if err := w.visit(child, rel+"/"); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) markFailed(rel string, err error) {
	w.p.logger.Warn("concat: read failed", "path", rel, "error", err)
	w.failed++
	w.files++
	w.record(true)
	w.sb.WriteString(FormatError(rel, err))
}

func (w *walker) record(failed bool) {
	if w.p.stats != nil {
		w.p.stats.FileProcessed(failed)
	}
}

// FormatBlock wraps one file's content in start and end delimiters.
func FormatBlock(relPath, text string) string {
	return "\n=== FILE START: " + relPath + " ===\n" +
		text +
		"\n=== FILE END: " + relPath + " ===\n\n"
}

// FormatError is the inline marker that replaces an unreadable entry.
func FormatError(relPath string, err error) string {
	return fmt.Sprintf("Error processing %s: %v\n\n", relPath, err)
}

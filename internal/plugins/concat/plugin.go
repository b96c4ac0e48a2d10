package concat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/concat"
	"github.com/marcus/workbench/internal/plugin"
)

const (
	pluginID   = "concat"
	pluginName = "File Processor"
	pluginIcon = "C"

	// Pane layout
	dividerWidth = 1
	sidebarPct   = 35
)

// Dropped is an entry in the drop list.
type Dropped struct {
	Path  string // resolved source path, used for dedup and watching
	Entry concat.Entry
}

// Resolver turns a dropped path into an entry.
type Resolver func(path string) (Dropped, error)

func resolvePath(p string) (Dropped, error) {
	e, err := concat.NewPathEntry(p)
	if err != nil {
		return Dropped{}, err
	}
	return Dropped{Path: e.Source, Entry: e}, nil
}

// Plugin implements the file concatenator page.
type Plugin struct {
	ctx     *plugin.Context
	focused bool
	width   int
	height  int

	input        textinput.Model
	inputFocused bool

	drops      []Dropped
	processing bool
	artifact   concat.Artifact
	processed  bool
	stale      bool
	edited     bool
	preview    viewport.Model

	editor  textarea.Model
	editing bool

	processor *concat.Processor
	stats     concat.Stats
	resolve   Resolver
	copyText  func(string) error

	runCtx    context.Context
	runCancel context.CancelFunc
	runStop   context.CancelFunc
	runGen    int

	watcher  *concat.Watcher
	watchGen int
}

// Option configures the plugin.
type Option func(*Plugin)

// WithStats reports traversal observations to s.
func WithStats(s concat.Stats) Option { return func(p *Plugin) { p.stats = s } }

// WithResolver replaces OS path resolution.
func WithResolver(r Resolver) Option { return func(p *Plugin) { p.resolve = r } }

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) Option { return func(p *Plugin) { p.copyText = fn } }

// New creates a new concat plugin.
func New(opts ...Option) *Plugin {
	ti := textinput.New()
	ti.Placeholder = "Paste or drop files and folders, then enter"
	ti.Prompt = "› "
	ti.CharLimit = 0

	ed := textarea.New()
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.MaxHeight = 0

	p := &Plugin{
		input:    ti,
		editor:   ed,
		preview:  viewport.New(0, 0),
		resolve:  resolvePath,
		copyText: concat.CopyToClipboard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon.
func (p *Plugin) Icon() string { return pluginIcon }

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.processor = concat.NewProcessor(ctx.Log().With("plugin", pluginID), p.stats)
	p.runCtx, p.runCancel = context.WithCancel(context.Background())
	p.drops = nil
	p.artifact = concat.Artifact{}
	p.processed = false
	p.stale = false
	return nil
}

// Start begins async operations.
func (p *Plugin) Start() tea.Cmd { return nil }

// Stop cancels any traversal and stops the watcher.
func (p *Plugin) Stop() {
	if p.runCancel != nil {
		p.runCancel()
	}
	p.stopWatcher()
}

// Drops returns the current drop list.
func (p *Plugin) Drops() []Dropped { return p.drops }

// Artifact returns the last artifact and whether one exists.
func (p *Plugin) Artifact() (concat.Artifact, bool) { return p.artifact, p.processed }

// Processing reports whether a traversal is in flight.
func (p *Plugin) Processing() bool { return p.processing }

// Editing reports whether the result is open in the editor.
func (p *Plugin) Editing() bool { return p.editing }

// Stale reports whether sources changed since the last run.
func (p *Plugin) Stale() bool { return p.stale }

func (p *Plugin) watchEnabled() bool {
	return p.ctx != nil && p.ctx.Config != nil && p.ctx.Config.Plugins.Concat.Watch
}

// addPaths resolves and appends pasted paths. Duplicates are skipped and
// the first failure is returned after the rest are added.
func (p *Plugin) addPaths(raw string) (added int, err error) {
	seen := make(map[string]bool, len(p.drops))
	for _, d := range p.drops {
		seen[d.Path] = true
	}
	for _, path := range concat.ParseDropped(raw) {
		d, rerr := p.resolve(path)
		if rerr != nil {
			if err == nil {
				err = fmt.Errorf("cannot add %s: %w", path, rerr)
			}
			continue
		}
		if seen[d.Path] {
			continue
		}
		seen[d.Path] = true
		p.drops = append(p.drops, d)
		added++
	}
	return added, err
}

func (p *Plugin) entries() []concat.Entry {
	out := make([]concat.Entry, len(p.drops))
	for i, d := range p.drops {
		out[i] = d.Entry
	}
	return out
}

// clear drops the list and the artifact. An in-flight run is cancelled and
// its result discarded.
func (p *Plugin) clear() {
	if p.runStop != nil {
		p.runStop()
		p.runStop = nil
	}
	p.runGen++
	p.processing = false
	p.stopEditing()
	p.edited = false
	p.drops = nil
	p.artifact = concat.Artifact{}
	p.processed = false
	p.stale = false
	p.preview.SetContent("")
	p.preview.GotoTop()
	p.stopWatcher()
}

// startEditing opens the current result in the editor.
func (p *Plugin) startEditing() tea.Cmd {
	if !p.processed || p.processing {
		return nil
	}
	p.editing = true
	p.editor.SetValue(p.artifact.Text)
	return p.editor.Focus()
}

// commitEdit replaces the result with the editor contents.
func (p *Plugin) commitEdit() {
	if text := p.editor.Value(); text != p.artifact.Text {
		p.artifact = p.artifact.WithText(text)
		p.edited = true
		p.preview.SetContent(text)
	}
	p.stopEditing()
}

func (p *Plugin) stopEditing() {
	p.editing = false
	p.editor.Blur()
}

func (p *Plugin) stopWatcher() {
	if p.watcher != nil {
		p.watcher.Stop()
		p.watcher = nil
	}
}

// restartWatcher watches the current drop list and returns the listener.
func (p *Plugin) restartWatcher() tea.Cmd {
	p.stopWatcher()
	if !p.watchEnabled() || len(p.drops) == 0 {
		return nil
	}
	paths := make([]string, 0, len(p.drops))
	for _, d := range p.drops {
		paths = append(paths, d.Path)
	}
	w, err := concat.NewWatcher(paths)
	if err != nil {
		p.ctx.Log().Warn("concat: watcher unavailable", "error", err)
		return nil
	}
	p.watcher = w
	p.watchGen++
	return listenWatcher(w, p.watchGen)
}

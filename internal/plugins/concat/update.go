package concat

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/concat"
	"github.com/marcus/workbench/internal/msg"
	"github.com/marcus/workbench/internal/plugin"
)

// ProcessDoneMsg carries the result of a traversal.
type ProcessDoneMsg struct {
	Artifact concat.Artifact
	Err      error

	gen int
}

// SourcesChangedMsg reports a change under the dropped paths.
type SourcesChangedMsg struct {
	gen int
}

// processCmd runs the traversal off the update loop.
func (p *Plugin) processCmd() tea.Cmd {
	proc := p.processor
	ctx, stop := context.WithCancel(p.runCtx)
	p.runStop = stop
	gen := p.runGen
	entries := p.entries()
	return func() tea.Msg {
		defer stop()
		art, err := proc.Process(ctx, entries)
		return ProcessDoneMsg{Artifact: art, Err: err, gen: gen}
	}
}

func listenWatcher(w *concat.Watcher, gen int) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Events():
			return SourcesChangedMsg{gen: gen}
		case <-w.Done():
			return nil
		}
	}
}

// Update handles messages.
func (p *Plugin) Update(teaMsg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch v := teaMsg.(type) {
	case tea.WindowSizeMsg:
		p.width = v.Width
		p.height = v.Height

	case ProcessDoneMsg:
		if v.gen != p.runGen {
			return p, nil
		}
		p.processing = false
		p.runStop = nil
		p.stopEditing()
		if v.Err != nil {
			p.ctx.Log().Warn("concat: processing aborted", "error", v.Err)
			return p, msg.ShowError(fmt.Errorf("processing aborted: %w", v.Err), 0)
		}
		p.artifact = v.Artifact
		p.processed = true
		p.stale = false
		p.edited = false
		p.preview.SetContent(v.Artifact.Text)
		p.preview.GotoTop()
		text := "Processed " + plural(v.Artifact.Files, "file", "files")
		if v.Artifact.Failed > 0 {
			return p, msg.ShowError(fmt.Errorf("%s, %d failed", text, v.Artifact.Failed), 0)
		}
		return p, msg.ShowToast(text, 0)

	case SourcesChangedMsg:
		if p.watcher == nil || v.gen != p.watchGen {
			return p, nil
		}
		if p.processed {
			p.stale = true
		}
		return p, listenWatcher(p.watcher, p.watchGen)

	case tea.KeyMsg:
		return p.handleKey(v)
	}
	return p, nil
}

func (p *Plugin) handleKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if p.editing {
		return p.handleEditKey(k)
	}
	// A drop lands as a bracketed paste wherever focus is.
	if k.Paste && !p.inputFocused {
		return p, p.drop(string(k.Runes))
	}
	if p.inputFocused {
		return p.handleInputKey(k)
	}

	switch k.String() {
	case "i", "/":
		p.inputFocused = true
		return p, p.input.Focus()
	case "p":
		return p, p.process()
	case "e":
		return p, p.startEditing()
	case "x":
		if len(p.drops) == 0 && !p.processed {
			return p, nil
		}
		p.clear()
		return p, msg.ShowToast("Cleared", 0)
	case "y", "c":
		return p, p.copyResult()
	case "s":
		return p, p.saveResult()
	case "j", "down":
		p.preview.LineDown(1)
	case "k", "up":
		p.preview.LineUp(1)
	case "ctrl+d", "pgdown":
		p.preview.HalfViewDown()
	case "ctrl+u", "pgup":
		p.preview.HalfViewUp()
	case "g", "home":
		p.preview.GotoTop()
	case "G", "end":
		p.preview.GotoBottom()
	}
	return p, nil
}

// handleEditKey edits the result. esc keeps the changes.
func (p *Plugin) handleEditKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if k.String() == "esc" {
		changed := p.editor.Value() != p.artifact.Text
		p.commitEdit()
		if changed {
			return p, msg.ShowToast("Result updated", 0)
		}
		return p, nil
	}
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(k)
	return p, cmd
}

func (p *Plugin) handleInputKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch k.String() {
	case "esc":
		p.inputFocused = false
		p.input.Blur()
		return p, nil
	case "enter":
		raw := p.input.Value()
		p.input.Reset()
		return p, p.drop(raw)
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(k)
	return p, cmd
}

// drop adds pasted paths and rewatches.
func (p *Plugin) drop(raw string) tea.Cmd {
	added, err := p.addPaths(raw)
	var cmds []tea.Cmd
	if added > 0 {
		cmds = append(cmds, p.restartWatcher())
		if p.processed {
			p.stale = true
		}
	}
	if err != nil {
		cmds = append(cmds, msg.ShowError(err, 0))
	} else if added > 0 {
		cmds = append(cmds, msg.ShowToast("Added "+plural(added, "entry", "entries"), 0))
	}
	return tea.Batch(cmds...)
}

// process starts a traversal unless one is in flight.
func (p *Plugin) process() tea.Cmd {
	if p.processing || len(p.drops) == 0 {
		return nil
	}
	p.processing = true
	return p.processCmd()
}

func (p *Plugin) copyResult() tea.Cmd {
	if !p.processed || p.artifact.Empty() {
		return nil
	}
	if err := p.copyText(p.artifact.Text); err != nil {
		return msg.ShowError(fmt.Errorf("copy failed: %w", err), 0)
	}
	return msg.ShowToast("Copied to clipboard", 0)
}

func (p *Plugin) saveResult() tea.Cmd {
	if !p.processed {
		return nil
	}
	dir := "."
	if p.ctx != nil && p.ctx.WorkDir != "" {
		dir = p.ctx.WorkDir
	}
	path, err := p.artifact.WriteFile(dir)
	if err != nil {
		return msg.ShowError(fmt.Errorf("save failed: %w", err), 0)
	}
	return msg.ShowToast("Saved "+filepath.Base(path), 0)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

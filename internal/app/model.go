// Package app implements the navigation shell: tabs, footer, toasts and
// page routing over the plugin registry.
package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/config"
	"github.com/marcus/workbench/internal/plugin"
)

// ModalKind identifies the shell overlay being shown.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalHelp
	ModalDiagnostics
)

// UIState holds transient display state.
type UIState struct {
	Clock        time.Time
	ToastMessage string
	ToastIsError bool
	ToastExpiry  time.Time
}

// HasToast reports whether a toast is visible at the current clock.
func (u UIState) HasToast() bool {
	return u.ToastMessage != "" && u.Clock.Before(u.ToastExpiry)
}

// Model is the root bubbletea model.
type Model struct {
	cfg      *config.Config
	registry *plugin.Registry

	width, height int
	ready         bool

	showHelp        bool
	showDiagnostics bool
	showFooter      bool
	showClock       bool
	toastDuration   time.Duration

	ui        UIState
	lastError error
	now       func() time.Time
}

// New creates the shell over registry and routes to startPath.
func New(registry *plugin.Registry, cfg *config.Config, startPath string) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	m := Model{
		cfg:           cfg,
		registry:      registry,
		showFooter:    cfg.UI.ShowFooter,
		showClock:     cfg.UI.ShowClock,
		toastDuration: cfg.UI.ToastDuration,
		now:           time.Now,
	}
	m.ui.Clock = m.now()
	if startPath == "" {
		startPath = cfg.UI.StartPage
	}
	if pg, ok := registry.Navigate(startPath); ok {
		pg.Plugin.SetFocused(true)
	}
	return m
}

// Init starts every plugin and the clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	for _, p := range m.registry.Plugins() {
		if cmd := p.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// ActivePlugin returns the focused plugin, or nil.
func (m Model) ActivePlugin() plugin.Plugin {
	pg, ok := m.registry.Current()
	if !ok {
		return nil
	}
	return pg.Plugin
}

// CurrentPath returns the path of the active page.
func (m Model) CurrentPath() string {
	pg, ok := m.registry.Current()
	if !ok {
		return ""
	}
	return pg.Path
}

func (m Model) activeModal() ModalKind {
	switch {
	case m.showHelp:
		return ModalHelp
	case m.showDiagnostics:
		return ModalDiagnostics
	}
	return ModalNone
}

func (m Model) activeContext() string {
	if p := m.ActivePlugin(); p != nil {
		return p.FocusContext()
	}
	return "global"
}

// isTextInputContext reports whether the focused plugin is capturing
// typed text, in which case only ctrl+c is handled globally.
func isTextInputContext(ctx string) bool {
	return strings.HasSuffix(ctx, "-input") || strings.HasSuffix(ctx, "-edit") || strings.HasSuffix(ctx, "-modal")
}

func (m Model) contentHeight() int {
	h := m.height - headerHeight
	if m.showFooter {
		h -= footerHeight
	}
	if h < 0 {
		h = 0
	}
	return h
}

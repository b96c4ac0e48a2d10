// Package plugin defines the contract between the app shell and its pages.
package plugin

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Plugin is a page hosted by the app shell.
type Plugin interface {
	ID() string
	Name() string
	Icon() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	IsFocused() bool
	SetFocused(bool)
	Commands() []Command
	FocusContext() string
}

// Category groups commands in the help overlay.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategoryActions    Category = "Actions"
	CategoryView       Category = "View"
	CategorySystem     Category = "System"
)

// Command is a key hint shown in the footer and help overlay.
type Command struct {
	ID          string
	Key         string
	Name        string
	Description string
	Category    Category
	Context     string
	Priority    int // lower shows first; 0 sorts last
}

// Diagnostic is a single health line a plugin reports.
type Diagnostic struct {
	ID     string
	Status string
	Detail string
}

// DiagnosticProvider is implemented by plugins that report health.
type DiagnosticProvider interface {
	Diagnostics() []Diagnostic
}

// PluginFocusedMsg is sent to a plugin when it becomes the active page.
type PluginFocusedMsg struct{}

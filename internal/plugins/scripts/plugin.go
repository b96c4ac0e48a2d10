package scripts

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/channel"
	"github.com/marcus/workbench/internal/execution"
	"github.com/marcus/workbench/internal/modal"
	"github.com/marcus/workbench/internal/plugin"
	"github.com/marcus/workbench/internal/scripts"
)

const (
	pluginID   = "scripts"
	pluginName = "PowerShell Scripts"
	pluginIcon = "S"

	// Pane layout
	dividerWidth = 1
	outputPct    = 40
)

// View is the active screen.
type View int

const (
	ViewList View = iota
	ViewEdit
	ViewCreate
)

func (v View) String() string {
	switch v {
	case ViewEdit:
		return "edit"
	case ViewCreate:
		return "create"
	default:
		return "list"
	}
}

// editorField is the focused field while editing.
type editorField int

const (
	fieldName editorField = iota
	fieldContent
)

// Plugin implements the script session manager page.
type Plugin struct {
	ctx     *plugin.Context
	focused bool
	width   int
	height  int

	mgr      *scripts.Manager
	ctrl     *execution.Controller
	events   <-chan channel.Event
	endpoint string

	opCtx    context.Context
	opCancel context.CancelFunc

	view       View
	cursor     int
	scrollOff  int
	selectedID string

	nameInput   textinput.Model
	contentArea textarea.Model
	editMode    bool
	field       editorField
	contentOff  int // read-only content scroll

	output viewport.Model

	confirm   *modal.Modal
	confirmID string
	notice    *modal.Modal

	hl highlighter
}

// New creates the scripts plugin. events is the channel client's event
// stream; endpoint is shown in the not-connected notice.
func New(mgr *scripts.Manager, ctrl *execution.Controller, events <-chan channel.Event, endpoint string) *Plugin {
	name := textinput.New()
	name.Placeholder = "Enter script name"
	name.Prompt = ""
	name.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Enter your PowerShell script here..."
	content.ShowLineNumbers = true
	content.CharLimit = 0
	content.MaxHeight = 0

	return &Plugin{
		mgr:         mgr,
		ctrl:        ctrl,
		events:      events,
		endpoint:    endpoint,
		nameInput:   name,
		contentArea: content,
		output:      viewport.New(0, 0),
	}
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
	p.opCtx, p.opCancel = context.WithCancel(context.Background())
	p.view = ViewList
	p.cursor = 0
	p.scrollOff = 0
	p.selectedID = ""
	p.editMode = false
	p.confirm = nil
	p.notice = nil
	return nil
}

// Start loads the collection and begins listening for channel events.
func (p *Plugin) Start() tea.Cmd {
	return tea.Batch(p.loadCmd(), listenEvents(p.events))
}

// Stop cancels pending store operations.
func (p *Plugin) Stop() {
	if p.opCancel != nil {
		p.opCancel()
	}
}

// CurrentView returns the active screen.
func (p *Plugin) CurrentView() View { return p.view }

// SelectedID returns the open script's ID, or "" in the list or create view.
func (p *Plugin) SelectedID() string { return p.selectedID }

// EditMode reports whether the editor accepts input.
func (p *Plugin) EditMode() bool { return p.editMode }

// selectedScript returns the script under the list cursor.
func (p *Plugin) selectedScript() (scripts.Script, bool) {
	list := p.mgr.List()
	if p.cursor < 0 || p.cursor >= len(list) {
		return scripts.Script{}, false
	}
	return list[p.cursor], true
}

// openScript loads id into the editor in read-only mode.
func (p *Plugin) openScript(id string) bool {
	s, ok := p.mgr.Get(id)
	if !ok {
		return false
	}
	p.selectedID = id
	p.view = ViewEdit
	p.nameInput.SetValue(s.Name)
	p.contentArea.SetValue(s.Content)
	p.contentOff = 0
	p.setEditMode(false)
	p.ctrl.ClearLog()
	p.refreshOutput()
	return true
}

// newScript opens an empty editor in edit mode.
func (p *Plugin) newScript() tea.Cmd {
	p.selectedID = ""
	p.view = ViewCreate
	p.nameInput.SetValue("")
	p.contentArea.SetValue("")
	p.contentOff = 0
	return p.setEditMode(true)
}

func (p *Plugin) backToList() {
	p.view = ViewList
	p.selectedID = ""
	p.setEditMode(false)
	p.clampCursor()
}

// setEditMode toggles editing and focuses the name field when enabled.
func (p *Plugin) setEditMode(on bool) tea.Cmd {
	p.editMode = on
	p.field = fieldName
	p.contentArea.Blur()
	if !on {
		p.nameInput.Blur()
		return nil
	}
	return p.nameInput.Focus()
}

func (p *Plugin) toggleField() tea.Cmd {
	if p.field == fieldName {
		p.field = fieldContent
		p.nameInput.Blur()
		return p.contentArea.Focus()
	}
	p.field = fieldName
	p.contentArea.Blur()
	return p.nameInput.Focus()
}

func (p *Plugin) clampCursor() {
	n := p.mgr.Len()
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// refreshOutput syncs the output pane with the controller log.
func (p *Plugin) refreshOutput() {
	atBottom := p.output.AtBottom()
	p.output.SetContent(p.ctrl.Output())
	if atBottom {
		p.output.GotoBottom()
	}
}

package scripts

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/channel"
	"github.com/marcus/workbench/internal/execution"
	"github.com/marcus/workbench/internal/modal"
	"github.com/marcus/workbench/internal/msg"
	"github.com/marcus/workbench/internal/plugin"
	"github.com/marcus/workbench/internal/scripts"
)

const (
	actionDelete = "delete"
	actionOK     = "ok"
)

// ScriptsLoadedMsg reports the initial collection load.
type ScriptsLoadedMsg struct {
	Err error
}

// ScriptSavedMsg reports a create or update.
type ScriptSavedMsg struct {
	Script scripts.Script
	Err    error
}

// ScriptDeletedMsg reports a delete.
type ScriptDeletedMsg struct {
	ID  string
	Err error
}

// ChannelEventMsg wraps one event from the execution channel.
type ChannelEventMsg struct {
	Event channel.Event
}

func (p *Plugin) loadCmd() tea.Cmd {
	mgr, ctx := p.mgr, p.opCtx
	return func() tea.Msg {
		return ScriptsLoadedMsg{Err: mgr.Load(ctx)}
	}
}

func (p *Plugin) saveCmd() tea.Cmd {
	mgr, ctx := p.mgr, p.opCtx
	id, name, content := p.selectedID, p.nameInput.Value(), p.contentArea.Value()
	return func() tea.Msg {
		var s scripts.Script
		var err error
		if id == "" {
			s, err = mgr.Create(ctx, name, content)
		} else {
			s, err = mgr.Update(ctx, id, name, content)
		}
		return ScriptSavedMsg{Script: s, Err: err}
	}
}

func (p *Plugin) deleteCmd(id string) tea.Cmd {
	mgr, ctx := p.mgr, p.opCtx
	return func() tea.Msg {
		return ScriptDeletedMsg{ID: id, Err: mgr.Delete(ctx, id)}
	}
}

// listenEvents waits for the next channel event. A closed stream ends the
// listener.
func listenEvents(events <-chan channel.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ChannelEventMsg{Event: ev}
	}
}

// Update handles messages.
func (p *Plugin) Update(teaMsg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch v := teaMsg.(type) {
	case tea.WindowSizeMsg:
		p.width = v.Width
		p.height = v.Height
		p.layout(v.Width, v.Height)

	case ScriptsLoadedMsg:
		if v.Err != nil {
			p.ctx.Log().Error("scripts: load failed", "error", v.Err)
			return p, msg.ShowError(fmt.Errorf("loading scripts: %w", v.Err), 0)
		}
		p.clampCursor()

	case ScriptSavedMsg:
		if v.Err != nil {
			if errors.Is(v.Err, scripts.ErrEmptyName) || errors.Is(v.Err, scripts.ErrEmptyContent) {
				return p, errorToast("Please provide both script name and content")
			}
			return p, msg.ShowError(fmt.Errorf("save failed: %w", v.Err), 0)
		}
		p.selectedID = v.Script.ID
		p.view = ViewEdit
		p.nameInput.SetValue(v.Script.Name)
		p.setEditMode(false)
		p.selectByID(v.Script.ID)
		return p, msg.ShowToast(fmt.Sprintf("Saved %q", v.Script.Name), 0)

	case ScriptDeletedMsg:
		if v.Err != nil {
			return p, msg.ShowError(fmt.Errorf("delete failed: %w", v.Err), 0)
		}
		if p.selectedID == v.ID {
			p.backToList()
		}
		p.clampCursor()
		return p, msg.ShowToast("Script deleted", 0)

	case ChannelEventMsg:
		p.applyEvent(v.Event)
		return p, listenEvents(p.events)

	case tea.KeyMsg:
		return p.handleKey(v)
	}
	return p, nil
}

// applyEvent feeds a channel event to the controller.
func (p *Plugin) applyEvent(ev channel.Event) {
	switch ev.Kind {
	case channel.EventConnected:
		p.ctrl.SetConnected()
	case channel.EventDisconnected:
		p.ctrl.HandleDisconnect(ev.Err)
	case channel.EventMessage:
		p.ctrl.HandleMessage(ev.Message)
	}
	p.refreshOutput()
}

func (p *Plugin) selectByID(id string) {
	for i, s := range p.mgr.List() {
		if s.ID == id {
			p.cursor = i
			return
		}
	}
}

func (p *Plugin) handleKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if p.notice != nil {
		if action := p.notice.HandleKey(k); action != "" {
			p.notice = nil
		}
		return p, nil
	}
	if p.confirm != nil {
		return p.handleConfirmKey(k)
	}

	switch p.view {
	case ViewList:
		return p.handleListKey(k)
	default:
		if p.editMode {
			return p.handleEditKey(k)
		}
		return p.handleViewKey(k)
	}
}

func (p *Plugin) handleConfirmKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.confirm.HandleKey(k) {
	case actionDelete:
		id := p.confirmID
		p.confirm, p.confirmID = nil, ""
		return p, p.deleteCmd(id)
	case modal.ActionCancel:
		p.confirm, p.confirmID = nil, ""
	}
	return p, nil
}

func (p *Plugin) handleListKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	n := p.mgr.Len()
	switch k.String() {
	case "j", "down":
		if p.cursor < n-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "g", "home":
		p.cursor = 0
	case "G", "end":
		if n > 0 {
			p.cursor = n - 1
		}
	case "n":
		return p, p.newScript()
	case "enter", "o":
		if s, ok := p.selectedScript(); ok {
			p.openScript(s.ID)
		}
	case "e":
		s, ok := p.selectedScript()
		if !ok {
			return p, nil
		}
		return p, p.execute(s.Name, s.Content)
	case "d":
		if s, ok := p.selectedScript(); ok {
			p.askDelete(s)
		}
	case "ctrl+l":
		p.ctrl.ClearLog()
		p.refreshOutput()
	case "pgdown", "ctrl+d":
		p.output.HalfViewDown()
	case "pgup", "ctrl+u":
		p.output.HalfViewUp()
	}
	return p, nil
}

// handleViewKey handles the read-only editor.
func (p *Plugin) handleViewKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch k.String() {
	case "esc", "backspace":
		p.backToList()
	case "E":
		return p, p.setEditMode(true)
	case "e", "ctrl+r":
		return p, p.execute(p.nameInput.Value(), p.contentArea.Value())
	case "d":
		if s, ok := p.mgr.Get(p.selectedID); ok {
			p.askDelete(s)
		}
	case "j", "down":
		p.contentOff++
	case "k", "up":
		if p.contentOff > 0 {
			p.contentOff--
		}
	case "ctrl+l":
		p.ctrl.ClearLog()
		p.refreshOutput()
	case "pgdown", "ctrl+d":
		p.output.HalfViewDown()
	case "pgup", "ctrl+u":
		p.output.HalfViewUp()
	}
	return p, nil
}

// handleEditKey handles the editable editor.
func (p *Plugin) handleEditKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch k.String() {
	case "esc":
		p.backToList()
		return p, nil
	case "ctrl+s":
		return p, p.saveCmd()
	case "ctrl+r":
		return p, p.execute(p.nameInput.Value(), p.contentArea.Value())
	case "tab", "shift+tab":
		return p, p.toggleField()
	case "enter":
		if p.field == fieldName {
			return p, p.toggleField()
		}
	}

	var cmd tea.Cmd
	if p.field == fieldName {
		p.nameInput, cmd = p.nameInput.Update(k)
	} else {
		p.contentArea, cmd = p.contentArea.Update(k)
	}
	return p, cmd
}

func (p *Plugin) askDelete(s scripts.Script) {
	p.confirmID = s.ID
	p.confirm = modal.New("Delete script?", modal.WithVariant(modal.VariantDanger)).
		AddText(fmt.Sprintf("Are you sure you want to delete %q?", s.Name)).
		AddButtons(
			modal.Button{ID: actionDelete, Label: "Delete"},
			modal.Button{ID: modal.ActionCancel, Label: "Cancel"},
		)
}

// execute runs a script through the controller and reports the outcome.
func (p *Plugin) execute(name, content string) tea.Cmd {
	err := p.ctrl.Execute(name, content)
	p.output.GotoBottom()
	p.refreshOutput()

	switch {
	case err == nil:
		return nil
	case errors.Is(err, execution.ErrNotConnected):
		p.notice = modal.New("Backend not connected", modal.WithVariant(modal.VariantDanger), modal.WithPrimaryAction(actionOK)).
			AddText(fmt.Sprintf("Backend service is not connected. Please make sure the backend is running at %s.", p.endpoint))
		return msg.ShowError(err, 0)
	case errors.Is(err, execution.ErrEmptyScript):
		return errorToast("No script content to execute")
	case errors.Is(err, execution.ErrAlreadyExecuting):
		return errorToast("A script is already executing")
	default:
		p.ctx.Log().Warn("scripts: send failed", "error", err)
		return errorToast("Failed to send script")
	}
}

func errorToast(text string) tea.Cmd {
	return func() tea.Msg {
		return msg.ToastMsg{Message: text, IsError: true}
	}
}

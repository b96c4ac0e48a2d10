package scripts

import (
	"github.com/marcus/workbench/internal/execution"
	"github.com/marcus/workbench/internal/plugin"
)

// Commands returns the available commands for the footer.
func (p *Plugin) Commands() []plugin.Command {
	if p.notice != nil || p.confirm != nil {
		return []plugin.Command{
			{ID: "confirm", Key: "enter", Name: "Confirm", Description: "Confirm", Category: plugin.CategoryActions, Context: "scripts-modal", Priority: 1},
			{ID: "cancel", Key: "esc", Name: "Cancel", Description: "Close dialog", Category: plugin.CategoryNavigation, Context: "scripts-modal", Priority: 2},
		}
	}

	switch {
	case p.view == ViewList:
		return []plugin.Command{
			{ID: "new", Key: "n", Name: "New", Description: "Create new script", Category: plugin.CategoryActions, Context: "scripts-list", Priority: 1},
			{ID: "open", Key: "enter", Name: "Open", Description: "Open script", Category: plugin.CategoryNavigation, Context: "scripts-list", Priority: 2},
			{ID: "execute", Key: "e", Name: "Execute", Description: "Execute script", Category: plugin.CategoryActions, Context: "scripts-list", Priority: 3},
			{ID: "delete", Key: "d", Name: "Delete", Description: "Delete script", Category: plugin.CategoryActions, Context: "scripts-list", Priority: 4},
			{ID: "clear-output", Key: "ctrl+l", Name: "Clear", Description: "Clear execution output", Category: plugin.CategoryView, Context: "scripts-list", Priority: 6},
		}
	case p.editMode:
		return []plugin.Command{
			{ID: "save", Key: "ctrl+s", Name: "Save", Description: "Save script", Category: plugin.CategoryActions, Context: "scripts-edit", Priority: 1},
			{ID: "execute", Key: "ctrl+r", Name: "Execute", Description: "Execute editor content", Category: plugin.CategoryActions, Context: "scripts-edit", Priority: 2},
			{ID: "switch-field", Key: "tab", Name: "Field", Description: "Switch between name and content", Category: plugin.CategoryNavigation, Context: "scripts-edit", Priority: 3},
			{ID: "back", Key: "esc", Name: "Back", Description: "Back to scripts", Category: plugin.CategoryNavigation, Context: "scripts-edit", Priority: 4},
		}
	default:
		return []plugin.Command{
			{ID: "edit", Key: "E", Name: "Edit", Description: "Enable editing", Category: plugin.CategoryActions, Context: "scripts-view", Priority: 1},
			{ID: "execute", Key: "e", Name: "Execute", Description: "Execute script", Category: plugin.CategoryActions, Context: "scripts-view", Priority: 2},
			{ID: "delete", Key: "d", Name: "Delete", Description: "Delete script", Category: plugin.CategoryActions, Context: "scripts-view", Priority: 3},
			{ID: "back", Key: "esc", Name: "Back", Description: "Back to scripts", Category: plugin.CategoryNavigation, Context: "scripts-view", Priority: 4},
		}
	}
}

// FocusContext returns the current focus context for keybinding dispatch.
func (p *Plugin) FocusContext() string {
	switch {
	case p.notice != nil || p.confirm != nil:
		return "scripts-modal"
	case p.view == ViewList:
		return "scripts-list"
	case p.editMode:
		return "scripts-edit"
	default:
		return "scripts-view"
	}
}

// Diagnostics reports store and backend state.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	snap := p.ctrl.Snapshot()
	status := "ok"
	if snap.Conn != execution.ConnConnected {
		status = "degraded"
	}
	return []plugin.Diagnostic{
		{ID: "scripts-store", Status: "ok", Detail: plural(p.mgr.Len(), "script", "scripts")},
		{ID: "scripts-backend", Status: status, Detail: p.endpoint + " " + snap.Conn.String()},
	}
}

package concat

import (
	"github.com/marcus/workbench/internal/concat"
	"github.com/marcus/workbench/internal/plugin"
)

// Commands returns the available commands for the footer.
func (p *Plugin) Commands() []plugin.Command {
	if p.editing {
		return []plugin.Command{
			{ID: "done-edit", Key: "esc", Name: "Done", Description: "Keep edits and leave the editor", Category: plugin.CategoryActions, Context: "concat-edit", Priority: 1},
		}
	}
	if p.inputFocused {
		return []plugin.Command{
			{ID: "add", Key: "enter", Name: "Add", Description: "Add pasted paths", Category: plugin.CategoryActions, Context: "concat-input", Priority: 1},
			{ID: "blur", Key: "esc", Name: "Done", Description: "Leave the drop input", Category: plugin.CategoryNavigation, Context: "concat-input", Priority: 2},
		}
	}

	cmds := []plugin.Command{
		{ID: "focus-input", Key: "i", Name: "Drop", Description: "Focus the drop input", Category: plugin.CategoryNavigation, Context: "concat", Priority: 1},
	}
	if len(p.drops) > 0 {
		cmds = append(cmds,
			plugin.Command{ID: "process", Key: "p", Name: "Process", Description: "Process all dropped entries", Category: plugin.CategoryActions, Context: "concat", Priority: 2},
			plugin.Command{ID: "clear", Key: "x", Name: "Clear", Description: "Clear entries and result", Category: plugin.CategoryActions, Context: "concat", Priority: 5},
		)
	}
	if p.processed {
		cmds = append(cmds,
			plugin.Command{ID: "copy", Key: "y", Name: "Copy", Description: "Copy result to clipboard", Category: plugin.CategoryActions, Context: "concat", Priority: 3},
			plugin.Command{ID: "edit", Key: "e", Name: "Edit", Description: "Edit the result before copying or saving", Category: plugin.CategoryActions, Context: "concat", Priority: 5},
			plugin.Command{ID: "save", Key: "s", Name: "Save", Description: "Save result as " + concat.DownloadName, Category: plugin.CategoryActions, Context: "concat", Priority: 4},
			plugin.Command{ID: "scroll", Key: "j/k", Name: "Scroll", Description: "Scroll the result", Category: plugin.CategoryView, Context: "concat", Priority: 6},
		)
	}
	return cmds
}

// FocusContext returns the current focus context for keybinding dispatch.
func (p *Plugin) FocusContext() string {
	switch {
	case p.editing:
		return "concat-edit"
	case p.inputFocused:
		return "concat-input"
	}
	return "concat"
}

// Diagnostics reports drop list and watcher state.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	watch := "off"
	if p.watcher != nil {
		watch = "watching"
	}
	return []plugin.Diagnostic{
		{ID: pluginID, Status: "ok", Detail: plural(len(p.drops), "entry", "entries") + ", watcher " + watch},
	}
}

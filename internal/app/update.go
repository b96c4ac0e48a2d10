package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/msg"
	"github.com/marcus/workbench/internal/plugin"
)

// Update handles messages.
func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.ready = true
		return m, m.broadcast(tea.WindowSizeMsg{Width: v.Width, Height: m.contentHeight()})

	case TickMsg:
		m.ui.Clock = time.Time(v)
		return m, tickCmd()

	case msg.ToastMsg:
		d := v.Duration
		if d <= 0 {
			d = m.toastDuration
		}
		m.ui.ToastMessage = v.Message
		m.ui.ToastIsError = v.IsError
		m.ui.ToastExpiry = m.now().Add(d)
		m.ui.Clock = m.now()
		if v.IsError {
			m.lastError = errors.New(v.Message)
		}
		return m, nil

	case msg.NavigateMsg:
		return m, m.navigate(v.Path)

	case tea.KeyMsg:
		return m.handleKey(v)
	}

	// Plugin-specific async results go to every plugin; each ignores what
	// it does not own.
	return m, m.broadcast(teaMsg)
}

func (m *Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()
	if key == "ctrl+c" {
		m.registry.Stop()
		return *m, tea.Quit
	}

	if modal := m.activeModal(); modal != ModalNone {
		switch key {
		case "esc", "q", "?", "!":
			m.showHelp = false
			m.showDiagnostics = false
		}
		return *m, nil
	}

	if !isTextInputContext(m.activeContext()) {
		switch key {
		case "q":
			m.registry.Stop()
			return *m, tea.Quit
		case "tab":
			cmd := m.cycle(1)
			return *m, cmd
		case "shift+tab":
			cmd := m.cycle(-1)
			return *m, cmd
		case "?":
			m.showHelp = true
			return *m, nil
		case "!":
			m.showDiagnostics = true
			return *m, nil
		case "ctrl+h":
			m.showFooter = !m.showFooter
			cmd := m.broadcast(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
			return *m, cmd
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			cmd := m.selectIndex(int(key[0] - '1'))
			return *m, cmd
		}
	}

	p := m.ActivePlugin()
	if p == nil {
		return *m, nil
	}
	_, cmd := p.Update(k)
	return *m, cmd
}

// navigate routes to path and refocuses.
func (m *Model) navigate(path string) tea.Cmd {
	prev := m.ActivePlugin()
	pg, ok := m.registry.Navigate(path)
	if !ok {
		return nil
	}
	return m.refocus(prev, pg.Plugin)
}

func (m *Model) cycle(delta int) tea.Cmd {
	prev := m.ActivePlugin()
	pg, ok := m.registry.Cycle(delta)
	if !ok {
		return nil
	}
	return m.refocus(prev, pg.Plugin)
}

func (m *Model) selectIndex(i int) tea.Cmd {
	prev := m.ActivePlugin()
	pg, ok := m.registry.Select(i)
	if !ok {
		return nil
	}
	return m.refocus(prev, pg.Plugin)
}

func (m *Model) refocus(prev, next plugin.Plugin) tea.Cmd {
	if prev == next {
		return nil
	}
	if prev != nil {
		prev.SetFocused(false)
	}
	next.SetFocused(true)
	_, cmd := next.Update(plugin.PluginFocusedMsg{})
	return cmd
}

// broadcast delivers msg to every plugin.
func (m *Model) broadcast(teaMsg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.registry.Plugins() {
		if _, cmd := p.Update(teaMsg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

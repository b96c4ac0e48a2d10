package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/config"
	"github.com/marcus/workbench/internal/msg"
	"github.com/marcus/workbench/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	id       string
	ctx      string
	focused  bool
	keys     []string
	msgs     []tea.Msg
	stopped  bool
	commands []plugin.Command
}

func (f *fakePlugin) ID() string                 { return f.id }
func (f *fakePlugin) Name() string               { return f.id }
func (f *fakePlugin) Icon() string               { return "" }
func (f *fakePlugin) Init(*plugin.Context) error { return nil }
func (f *fakePlugin) Start() tea.Cmd             { return nil }
func (f *fakePlugin) Stop()                      { f.stopped = true }
func (f *fakePlugin) View(int, int) string       { return "view:" + f.id }
func (f *fakePlugin) IsFocused() bool            { return f.focused }
func (f *fakePlugin) SetFocused(b bool)          { f.focused = b }
func (f *fakePlugin) Commands() []plugin.Command { return f.commands }
func (f *fakePlugin) FocusContext() string {
	if f.ctx != "" {
		return f.ctx
	}
	return f.id
}

func (f *fakePlugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	if k, ok := m.(tea.KeyMsg); ok {
		f.keys = append(f.keys, k.String())
	} else {
		f.msgs = append(f.msgs, m)
	}
	return f, nil
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func newTestModel(t *testing.T, start string) (Model, *fakePlugin, *fakePlugin) {
	t.Helper()
	concat := &fakePlugin{id: "concat"}
	scripts := &fakePlugin{id: "scripts"}
	reg := plugin.NewRegistry(&plugin.Context{})
	require.NoError(t, reg.Register("/", concat))
	require.NoError(t, reg.Register("/scripts", scripts))

	m := New(reg, config.Default(), start)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), concat, scripts
}

func TestNew_StartPage(t *testing.T) {
	m, concat, scripts := newTestModel(t, "/scripts")
	assert.Equal(t, "/scripts", m.CurrentPath())
	assert.True(t, scripts.focused)
	assert.False(t, concat.focused)
}

func TestNew_UnknownStartPageFallsBack(t *testing.T) {
	m, concat, _ := newTestModel(t, "/does-not-exist")
	assert.Equal(t, "/", m.CurrentPath())
	assert.True(t, concat.focused)
}

func TestUpdate_TabCyclesPages(t *testing.T) {
	m, concat, scripts := newTestModel(t, "/")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, "/scripts", m.CurrentPath())
	assert.False(t, concat.focused)
	assert.True(t, scripts.focused)
	assert.Contains(t, scripts.msgs, tea.Msg(plugin.PluginFocusedMsg{}))

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	assert.Equal(t, "/", m.CurrentPath())
}

func TestUpdate_NumberKeysSelectPage(t *testing.T) {
	m, _, _ := newTestModel(t, "/")

	next, _ := m.Update(runes("2"))
	m = next.(Model)
	assert.Equal(t, "/scripts", m.CurrentPath())

	next, _ = m.Update(runes("9"))
	m = next.(Model)
	assert.Equal(t, "/scripts", m.CurrentPath(), "out of range index is ignored")
}

func TestUpdate_NavigateMsg(t *testing.T) {
	m, _, _ := newTestModel(t, "/")

	next, _ := m.Update(msg.NavigateMsg{Path: "/scripts"})
	m = next.(Model)
	assert.Equal(t, "/scripts", m.CurrentPath())

	next, _ = m.Update(msg.NavigateMsg{Path: "/bogus"})
	m = next.(Model)
	assert.Equal(t, "/", m.CurrentPath())
}

func TestUpdate_KeysRouteToActivePlugin(t *testing.T) {
	m, concat, scripts := newTestModel(t, "/")

	m.Update(runes("p"))
	assert.Equal(t, []string{"p"}, concat.keys)
	assert.Empty(t, scripts.keys)
}

func TestUpdate_TextInputContextShieldsGlobals(t *testing.T) {
	m, concat, _ := newTestModel(t, "/")
	concat.ctx = "concat-input"

	next, cmd := m.Update(runes("q"))
	assert.Nil(t, cmd, "q must not quit while typing")
	next, _ = next.(Model).Update(runes("2"))
	m = next.(Model)

	assert.Equal(t, []string{"q", "2"}, concat.keys)
	assert.Equal(t, "/", m.CurrentPath())
}

func TestUpdate_QuitStopsPlugins(t *testing.T) {
	m, concat, scripts := newTestModel(t, "/")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, concat.stopped)
	assert.True(t, scripts.stopped)
}

func TestUpdate_AsyncMessagesBroadcast(t *testing.T) {
	type doneMsg struct{}
	m, concat, scripts := newTestModel(t, "/")

	m.Update(doneMsg{})
	assert.Contains(t, concat.msgs, tea.Msg(doneMsg{}))
	assert.Contains(t, scripts.msgs, tea.Msg(doneMsg{}))
}

func TestUpdate_WindowSizeShrinksForChrome(t *testing.T) {
	_, concat, _ := newTestModel(t, "/")

	var got tea.WindowSizeMsg
	for _, m := range concat.msgs {
		if ws, ok := m.(tea.WindowSizeMsg); ok {
			got = ws
		}
	}
	assert.Equal(t, 100, got.Width)
	assert.Equal(t, 30-headerHeight-footerHeight, got.Height)
}

func TestUpdate_ToastExpires(t *testing.T) {
	m, _, _ := newTestModel(t, "/")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	next, _ := m.Update(msg.ToastMsg{Message: "Copied", Duration: 2 * time.Second})
	m = next.(Model)
	assert.True(t, m.ui.HasToast())
	assert.Contains(t, m.View(), "Copied")

	next, _ = m.Update(TickMsg(base.Add(3 * time.Second)))
	m = next.(Model)
	assert.False(t, m.ui.HasToast())
}

func TestUpdate_ErrorToastUsesDefaultDuration(t *testing.T) {
	m, _, _ := newTestModel(t, "/")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	next, _ := m.Update(msg.ToastMsg{Message: "Not connected", IsError: true})
	m = next.(Model)
	assert.Equal(t, base.Add(config.Default().UI.ToastDuration), m.ui.ToastExpiry)
	assert.True(t, m.ui.ToastIsError)
	require.Error(t, m.lastError)
}

func TestUpdate_HelpOverlay(t *testing.T) {
	m, concat, _ := newTestModel(t, "/")
	concat.commands = []plugin.Command{
		{ID: "process", Key: "p", Name: "Process", Description: "Process dropped entries", Category: plugin.CategoryActions, Priority: 1},
	}

	next, _ := m.Update(runes("?"))
	m = next.(Model)
	assert.Equal(t, ModalHelp, m.activeModal())
	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Process dropped entries")

	// Keys are swallowed while the overlay is open.
	next, _ = m.Update(runes("p"))
	m = next.(Model)
	assert.Empty(t, concat.keys)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, ModalNone, m.activeModal())
}

func TestView_HeaderAndFooter(t *testing.T) {
	m, concat, _ := newTestModel(t, "/")
	concat.commands = []plugin.Command{{Key: "p", Name: "process", Priority: 1}}

	view := m.View()
	assert.Contains(t, view, "Workbench")
	assert.Contains(t, view, "concat")
	assert.Contains(t, view, "scripts")
	assert.Contains(t, view, "view:concat")
	assert.Contains(t, view, "process")
}

func TestView_NotReady(t *testing.T) {
	reg := plugin.NewRegistry(&plugin.Context{})
	m := New(reg, nil, "")
	assert.Equal(t, "Loading...", m.View())
}

func TestSortedCommands(t *testing.T) {
	cmds := []plugin.Command{{ID: "z"}, {ID: "b", Priority: 2}, {ID: "a", Priority: 1}}
	got := sortedCommands(cmds)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "z", got[2].ID)
}

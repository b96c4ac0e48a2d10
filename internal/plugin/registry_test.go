package plugin

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	id      string
	initErr error
	stopped bool
	focused bool
}

func (s *stubPlugin) ID() string                       { return s.id }
func (s *stubPlugin) Name() string                     { return s.id }
func (s *stubPlugin) Icon() string                     { return "" }
func (s *stubPlugin) Init(*Context) error              { return s.initErr }
func (s *stubPlugin) Start() tea.Cmd                   { return nil }
func (s *stubPlugin) Stop()                            { s.stopped = true }
func (s *stubPlugin) Update(tea.Msg) (Plugin, tea.Cmd) { return s, nil }
func (s *stubPlugin) View(int, int) string             { return s.id }
func (s *stubPlugin) IsFocused() bool                  { return s.focused }
func (s *stubPlugin) SetFocused(f bool)                { s.focused = f }
func (s *stubPlugin) Commands() []Command              { return nil }
func (s *stubPlugin) FocusContext() string             { return s.id }

func newTestRegistry(t *testing.T, ids ...string) *Registry {
	t.Helper()
	r := NewRegistry(&Context{})
	for _, id := range ids {
		require.NoError(t, r.Register("/"+id, &stubPlugin{id: id}))
	}
	return r
}

func TestRegistry_NavigateKnownPath(t *testing.T) {
	r := newTestRegistry(t, "concat", "scripts")

	page, ok := r.Navigate("/scripts")
	require.True(t, ok)
	assert.Equal(t, "/scripts", page.Path)
	assert.Equal(t, 1, r.CurrentIndex())
}

func TestRegistry_NavigateUnknownFallsBackToFirst(t *testing.T) {
	r := newTestRegistry(t, "concat", "scripts")
	r.Select(1)

	for _, path := range []string{"/nope", "", "/scripts/extra"} {
		page, ok := r.Navigate(path)
		require.True(t, ok)
		assert.Equal(t, "/concat", page.Path, "path %q", path)
	}
}

func TestRegistry_NavigateNormalizes(t *testing.T) {
	r := newTestRegistry(t, "concat", "scripts")

	page, _ := r.Navigate("scripts/")
	assert.Equal(t, "/scripts", page.Path)
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry(&Context{})

	_, ok := r.Navigate("/")
	assert.False(t, ok)
	_, ok = r.Current()
	assert.False(t, ok)
	_, ok = r.Cycle(1)
	assert.False(t, ok)
}

func TestRegistry_Cycle(t *testing.T) {
	r := newTestRegistry(t, "a", "b", "c")

	p, _ := r.Cycle(1)
	assert.Equal(t, "/b", p.Path)
	p, _ = r.Cycle(2)
	assert.Equal(t, "/a", p.Path)
	p, _ = r.Cycle(-1)
	assert.Equal(t, "/c", p.Path)
}

func TestRegistry_Select(t *testing.T) {
	r := newTestRegistry(t, "a", "b")

	_, ok := r.Select(5)
	assert.False(t, ok)
	assert.Equal(t, 0, r.CurrentIndex())

	p, ok := r.Select(1)
	assert.True(t, ok)
	assert.Equal(t, "/b", p.Path)
}

func TestRegistry_DuplicatePath(t *testing.T) {
	r := newTestRegistry(t, "a")

	err := r.Register("/a", &stubPlugin{id: "other"})
	assert.ErrorIs(t, err, ErrDuplicatePath)
	assert.Len(t, r.Pages(), 1)
}

func TestRegistry_InitFailureSkipsPlugin(t *testing.T) {
	r := newTestRegistry(t, "a")

	boom := errors.New("boom")
	err := r.Register("/b", &stubPlugin{id: "b", initErr: boom})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, r.Plugins(), 1)
	assert.ErrorIs(t, r.Failed()["b"], boom)
}

func TestRegistry_Stop(t *testing.T) {
	r := NewRegistry(&Context{})
	a, b := &stubPlugin{id: "a"}, &stubPlugin{id: "b"}
	require.NoError(t, r.Register("/a", a))
	require.NoError(t, r.Register("/b", b))

	r.Stop()
	assert.True(t, a.stopped)
	assert.True(t, b.stopped)
}

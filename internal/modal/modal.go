// Package modal provides a small declarative dialog for confirmations and
// blocking notices.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/workbench/internal/styles"
)

// Action IDs returned by HandleKey.
const (
	ActionCancel = "cancel"
)

// DefaultWidth is the modal width when none is set.
const DefaultWidth = 50

// Variant selects the modal accent.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
)

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the modal width.
func WithWidth(w int) Option { return func(m *Modal) { m.width = w } }

// WithVariant sets the modal accent.
func WithVariant(v Variant) Option { return func(m *Modal) { m.variant = v } }

// WithPrimaryAction sets the action returned when enter is pressed with no
// button focused.
func WithPrimaryAction(id string) Option { return func(m *Modal) { m.primaryAction = id } }

// Button is a selectable action.
type Button struct {
	ID    string
	Label string
}

// Modal is a dialog made of text lines and a button row.
type Modal struct {
	title         string
	variant       Variant
	width         int
	lines         []string
	buttons       []Button
	primaryAction string

	focusIdx int
}

// New creates a Modal with the given title and options.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:   title,
		variant: VariantDefault,
		width:   DefaultWidth,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddText appends a paragraph. Returns the modal for chaining.
func (m *Modal) AddText(text string) *Modal {
	m.lines = append(m.lines, text)
	return m
}

// AddButtons appends buttons to the button row. Returns the modal for
// chaining.
func (m *Modal) AddButtons(buttons ...Button) *Modal {
	m.buttons = append(m.buttons, buttons...)
	return m
}

// Focused returns the focused button ID, or "" when there are no buttons.
func (m *Modal) Focused() string {
	if len(m.buttons) == 0 {
		return ""
	}
	return m.buttons[m.focusIdx].ID
}

// HandleKey processes keyboard input and returns the triggered action:
// "cancel" for esc, a button ID for enter, or "" when nothing fired.
func (m *Modal) HandleKey(msg tea.KeyMsg) string {
	switch msg.String() {
	case "esc":
		return ActionCancel
	case "tab", "right", "l":
		m.cycleFocus(1)
	case "shift+tab", "left", "h":
		m.cycleFocus(-1)
	case "enter":
		if id := m.Focused(); id != "" {
			return id
		}
		if m.primaryAction != "" {
			return m.primaryAction
		}
		return ActionCancel
	default:
		// Single-letter shortcut matching a button label.
		k := msg.String()
		if len(k) != 1 {
			return ""
		}
		for _, b := range m.buttons {
			if strings.EqualFold(b.Label[:1], k) {
				return b.ID
			}
		}
	}
	return ""
}

func (m *Modal) cycleFocus(delta int) {
	n := len(m.buttons)
	if n == 0 {
		return
	}
	m.focusIdx = ((m.focusIdx+delta)%n + n) % n
}

// Render draws the modal centered on a screenW x screenH canvas.
func (m *Modal) Render(screenW, screenH int) string {
	width := m.width
	if width > screenW-4 {
		width = screenW - 4
	}
	if width < 20 {
		width = 20
	}

	accent := styles.Primary
	if m.variant == VariantDanger {
		accent = styles.Error
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitle.Foreground(accent).Render(m.title))
	b.WriteString("\n")
	for _, line := range m.lines {
		b.WriteString(lipgloss.NewStyle().Width(width - 6).Render(line))
		b.WriteString("\n")
	}
	if len(m.buttons) > 0 {
		b.WriteString("\n")
		btns := make([]string, len(m.buttons))
		for i, btn := range m.buttons {
			if i == m.focusIdx {
				btns[i] = styles.TabActive.Background(accent).Render(btn.Label)
			} else {
				btns[i] = styles.TabInactive.Render(btn.Label)
			}
		}
		b.WriteString(strings.Join(btns, " "))
		b.WriteString("\n")
	}
	b.WriteString(styles.Subtle.Render("esc close"))

	box := styles.ModalBox.BorderForeground(accent).Width(width - 2).Render(b.String())
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}

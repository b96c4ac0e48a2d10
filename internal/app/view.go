package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/workbench/internal/plugin"
	"github.com/marcus/workbench/internal/styles"
)

const (
	headerHeight = 1
	footerHeight = 1
	maxHints     = 6
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent(m.width, m.contentHeight()))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	switch m.activeModal() {
	case ModalHelp:
		return m.renderOverlay(m.buildHelpContent())
	case ModalDiagnostics:
		return m.renderOverlay(m.buildDiagnosticsContent())
	}
	return b.String()
}

// renderHeader renders the top bar with title, tabs, and clock.
func (m Model) renderHeader() string {
	title := styles.AppTitle.Render(" Workbench ")

	current := m.registry.CurrentIndex()
	var tabs []string
	for i, pg := range m.registry.Pages() {
		icon := pg.Plugin.Icon()
		if icon == "" {
			icon = "•"
		}
		label := fmt.Sprintf("%d %s %s", i+1, icon, pg.Name())
		if i == current {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}
	tabBar := strings.Join(tabs, "")

	var clock string
	if m.showClock {
		clock = styles.Muted.Render(m.ui.Clock.Format("15:04"))
	}

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(tabBar) - lipgloss.Width(clock) - 2
	if spacing < 0 {
		spacing = 0
	}
	header := title + strings.Repeat(" ", spacing/2) + tabBar + strings.Repeat(" ", spacing-(spacing/2)) + clock

	return styles.Header.Width(m.width).MaxHeight(headerHeight).Render(header)
}

// renderContent renders the main content area.
func (m Model) renderContent(width, height int) string {
	p := m.ActivePlugin()
	if p == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.Muted.Render("No plugins loaded"))
	}
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(p.View(width, height))
}

// renderFooter renders the bottom bar with key hints and the toast.
func (m Model) renderFooter() string {
	hints := m.footerHints()

	var status string
	if m.ui.HasToast() {
		if m.ui.ToastIsError {
			status = styles.ToastError.Render(m.ui.ToastMessage)
		} else {
			status = styles.Toast.Render(m.ui.ToastMessage)
		}
	}

	spacing := m.width - lipgloss.Width(hints) - lipgloss.Width(status) - 2
	if spacing < 0 {
		spacing = 0
	}
	footer := hints + strings.Repeat(" ", spacing) + status

	return styles.Footer.Width(m.width).MaxHeight(footerHeight).Render(footer)
}

// footerHints renders the active plugin's top commands then the globals.
func (m Model) footerHints() string {
	var parts []string
	if p := m.ActivePlugin(); p != nil {
		cmds := sortedCommands(p.Commands())
		if len(cmds) > maxHints {
			cmds = cmds[:maxHints]
		}
		for _, c := range cmds {
			parts = append(parts, styles.KeyHint.Render(c.Key)+" "+c.Name)
		}
	}
	if !isTextInputContext(m.activeContext()) {
		parts = append(parts, styles.KeyHint.Render("tab")+" switch", styles.KeyHint.Render("?")+" help", styles.KeyHint.Render("q")+" quit")
	}
	return strings.Join(parts, "  ")
}

func sortedCommands(cmds []plugin.Command) []plugin.Command {
	out := make([]plugin.Command, len(cmds))
	copy(out, cmds)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority, out[j].Priority
		if pi == 0 {
			return false
		}
		if pj == 0 {
			return true
		}
		return pi < pj
	})
	return out
}

// renderOverlay centers a modal box over the screen.
func (m Model) renderOverlay(content string) string {
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalBox.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

// buildHelpContent creates the help modal content.
func (m Model) buildHelpContent() string {
	var b strings.Builder

	b.WriteString(styles.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(styles.Title.Render("Global"))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("  q, ctrl+c") + "  quit\n")
	b.WriteString(styles.Muted.Render("  tab      ") + "  next page\n")
	b.WriteString(styles.Muted.Render("  shift+tab") + "  prev page\n")
	b.WriteString(styles.Muted.Render("  1-9      ") + "  go to page\n")
	b.WriteString(styles.Muted.Render("  ?        ") + "  toggle help\n")
	b.WriteString(styles.Muted.Render("  !        ") + "  diagnostics\n")
	b.WriteString(styles.Muted.Render("  ctrl+h   ") + "  toggle footer\n")

	if p := m.ActivePlugin(); p != nil {
		byCat := make(map[plugin.Category][]plugin.Command)
		var order []plugin.Category
		for _, c := range sortedCommands(p.Commands()) {
			if _, seen := byCat[c.Category]; !seen {
				order = append(order, c.Category)
			}
			byCat[c.Category] = append(byCat[c.Category], c)
		}
		for _, cat := range order {
			name := string(cat)
			if name == "" {
				name = p.Name()
			}
			b.WriteString("\n")
			b.WriteString(styles.Title.Render(name))
			b.WriteString("\n")
			for _, c := range byCat[cat] {
				b.WriteString(styles.Muted.Render(fmt.Sprintf("  %-9s", c.Key)) + "  " + c.Description + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render("Press esc to close"))
	return b.String()
}

// buildDiagnosticsContent creates the diagnostics modal content.
func (m Model) buildDiagnosticsContent() string {
	var b strings.Builder

	b.WriteString(styles.ModalTitle.Render("Diagnostics"))
	b.WriteString("\n\n")
	b.WriteString(styles.Title.Render("Pages"))
	b.WriteString("\n")

	pages := m.registry.Pages()
	for _, pg := range pages {
		status := styles.StatusCompleted.Render("✓")
		b.WriteString(fmt.Sprintf("  %s %-10s %s\n", status, pg.Name(), styles.Muted.Render(pg.Path)))
		if dp, ok := pg.Plugin.(plugin.DiagnosticProvider); ok {
			for _, d := range dp.Diagnostics() {
				b.WriteString(fmt.Sprintf("      %s: %s %s\n", d.ID, d.Status, styles.Muted.Render(d.Detail)))
			}
		}
	}

	failed := m.registry.Failed()
	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		status := styles.StatusBlocked.Render("✗")
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", status, id, failed[id]))
	}

	if len(pages) == 0 && len(failed) == 0 {
		b.WriteString(styles.Muted.Render("  No plugins registered\n"))
	}

	if m.lastError != nil {
		b.WriteString("\n")
		b.WriteString(styles.Title.Render("Last Error"))
		b.WriteString("\n")
		b.WriteString(styles.StatusBlocked.Render("  " + m.lastError.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render("Press esc to close"))
	return b.String()
}

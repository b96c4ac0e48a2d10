package scripts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/workbench/internal/execution"
	"github.com/marcus/workbench/internal/styles"
)

const dateLayout = "2006-01-02"

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	if p.notice != nil {
		return p.notice.Render(width, height)
	}
	if p.confirm != nil {
		return p.confirm.Render(width, height)
	}

	paneHeight, mainWidth, outputWidth := p.layout(width, height)

	var main string
	if p.view == ViewList {
		main = p.renderList(paneHeight-2, mainWidth-4)
	} else {
		main = p.renderEditor(paneHeight-2, mainWidth-4)
	}

	outputContent := styles.Title.Render("Execution Status") + "\n"
	if p.ctrl.Output() == "" {
		outputContent += styles.Muted.Render("No output yet")
	} else {
		outputContent += p.output.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.RenderPanel(main, mainWidth, paneHeight, true),
		strings.Repeat(" ", dividerWidth),
		styles.RenderPanel(outputContent, outputWidth, paneHeight, false),
	)

	content := p.renderStatusBar(width) + "\n" + body
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// layout sizes the panes and the output viewport.
func (p *Plugin) layout(width, height int) (paneHeight, mainWidth, outputWidth int) {
	paneHeight = height - 1 // status bar
	if paneHeight < 6 {
		paneHeight = 6
	}
	outputWidth = width * outputPct / 100
	if outputWidth < 24 {
		outputWidth = 24
	}
	mainWidth = width - outputWidth - dividerWidth
	if mainWidth < 24 {
		mainWidth = 24
	}

	// Title line inside the output panel.
	p.output.Width = outputWidth - 4
	p.output.Height = paneHeight - 3
	if p.output.Height < 1 {
		p.output.Height = 1
	}
	p.output.SetYOffset(p.output.YOffset)
	return paneHeight, mainWidth, outputWidth
}

// renderStatusBar shows the screen title and backend state.
func (p *Plugin) renderStatusBar(width int) string {
	var title string
	switch p.view {
	case ViewCreate:
		title = "PowerShell Scripts › New Script"
	case ViewEdit:
		title = "PowerShell Scripts › " + p.nameInput.Value()
	default:
		title = "PowerShell Scripts"
	}
	left := styles.Title.Render(title)

	snap := p.ctrl.Snapshot()
	right := backendStyle(snap.Conn).Render("● Backend: " + snap.Conn.String())
	if snap.Executing {
		right = styles.StatusInProgress.Render("Executing...") + "  " + right
	}
	if snap.Queued > 0 {
		right = styles.Muted.Render(fmt.Sprintf("%d queued", snap.Queued)) + "  " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func backendStyle(c execution.ConnState) lipgloss.Style {
	switch c {
	case execution.ConnConnected:
		return styles.StatusCompleted
	case execution.ConnError:
		return styles.StatusBlocked
	default:
		return styles.StatusIdle
	}
}

func (p *Plugin) renderList(innerHeight, innerWidth int) string {
	var sb strings.Builder
	list := p.mgr.List()
	sb.WriteString(styles.Title.Render(fmt.Sprintf("Scripts (%d)", len(list))))
	sb.WriteString("\n\n")

	if len(list) == 0 {
		sb.WriteString(styles.Muted.Render("No scripts found. Create your first PowerShell script!"))
		sb.WriteString("\n\n")
		sb.WriteString(styles.Subtle.Render("Press "))
		sb.WriteString(styles.Code.Render("n"))
		sb.WriteString(styles.Subtle.Render(" to create one"))
		return sb.String()
	}

	dateCol := len("Updated 2006-01-02")
	nameWidth := innerWidth - 2*dateCol - 6 // cursor prefix and gaps
	if nameWidth < 8 {
		nameWidth = 8
	}

	visible := innerHeight - 2
	if visible < 1 {
		visible = 1
	}
	p.ensureVisible(visible)

	end := p.scrollOff + visible
	if end > len(list) {
		end = len(list)
	}
	for i := p.scrollOff; i < end; i++ {
		s := list[i]
		name := styles.Truncate(s.Name, nameWidth)
		name += strings.Repeat(" ", nameWidth-lipgloss.Width(name))
		line := fmt.Sprintf("%s  %s  %s", name,
			styles.Muted.Render("Created "+s.CreatedAt.Local().Format(dateLayout)),
			styles.Muted.Render("Updated "+s.UpdatedAt.Local().Format(dateLayout)))
		if i == p.cursor {
			line = styles.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// ensureVisible adjusts scroll to keep the cursor visible.
func (p *Plugin) ensureVisible(visible int) {
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+visible {
		p.scrollOff = p.cursor - visible + 1
	}
	if p.scrollOff < 0 {
		p.scrollOff = 0
	}
}

func (p *Plugin) renderEditor(innerHeight, innerWidth int) string {
	var sb strings.Builder

	sb.WriteString(styles.Muted.Render("Script Name:"))
	sb.WriteString("\n")
	p.nameInput.Width = innerWidth - 1
	if p.editMode {
		sb.WriteString(p.nameInput.View())
	} else {
		sb.WriteString(styles.Body.Render(p.nameInput.Value()))
	}
	sb.WriteString("\n\n")

	label := "PowerShell Script:"
	if !p.editMode {
		label += styles.Subtle.Render("  read-only, E to edit")
	}
	sb.WriteString(styles.Muted.Render(label))
	sb.WriteString("\n")

	contentHeight := innerHeight - 5
	if contentHeight < 1 {
		contentHeight = 1
	}
	if p.editMode {
		p.contentArea.SetWidth(innerWidth)
		p.contentArea.SetHeight(contentHeight)
		sb.WriteString(p.contentArea.View())
		return sb.String()
	}

	lines := strings.Split(p.hl.render(p.contentArea.Value()), "\n")
	if maxOff := len(lines) - contentHeight; p.contentOff > maxOff {
		p.contentOff = maxOff
	}
	if p.contentOff < 0 {
		p.contentOff = 0
	}
	end := p.contentOff + contentHeight
	if end > len(lines) {
		end = len(lines)
	}
	sb.WriteString(strings.Join(lines[p.contentOff:end], "\n"))
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

package concat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/workbench/internal/styles"
)

const (
	iconDir  = "▸"
	iconFile = "·"
)

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	paneHeight := height
	if paneHeight < 6 {
		paneHeight = 6
	}

	sidebarWidth := width * sidebarPct / 100
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}
	resultWidth := width - sidebarWidth - dividerWidth
	if resultWidth < 10 {
		resultWidth = 10
	}

	// Preview viewport sits inside the result panel: borders, padding, header.
	p.preview.Width = resultWidth - 4
	p.preview.Height = paneHeight - 4
	if p.preview.Height < 1 {
		p.preview.Height = 1
	}
	p.input.Width = sidebarWidth - 8
	p.editor.SetWidth(p.preview.Width)
	p.editor.SetHeight(p.preview.Height)

	left := styles.RenderPanel(p.renderDropPane(paneHeight-2, sidebarWidth-4), sidebarWidth, paneHeight, p.inputFocused)
	right := styles.RenderPanel(p.renderResultPane(), resultWidth, paneHeight, p.editing || (!p.inputFocused && p.processed))

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", dividerWidth), right)
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

func (p *Plugin) renderDropPane(innerHeight, innerWidth int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("File & Folder Processor"))
	sb.WriteString("\n")
	sb.WriteString(p.input.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Subtle.Render("All files are processed recursively"))
	sb.WriteString("\n\n")

	if len(p.drops) == 0 {
		sb.WriteString(styles.Muted.Render("Drag and drop files or folders here"))
		return sb.String()
	}

	sb.WriteString(styles.Title.Render(fmt.Sprintf("Dropped Items (%d)", len(p.drops))))
	sb.WriteString("\n")

	// header, input, subtitle, blank, list title, status line
	room := innerHeight - 6
	if room < 1 {
		room = 1
	}
	for i, d := range p.drops {
		if i == room-1 && len(p.drops) > room {
			sb.WriteString(styles.Muted.Render(fmt.Sprintf("  … %d more", len(p.drops)-i)))
			sb.WriteString("\n")
			break
		}
		icon := iconFile
		if d.Entry.IsDir() {
			icon = iconDir
		}
		sb.WriteString(styles.Truncate(fmt.Sprintf("%s %s", icon, d.Entry.Name()), innerWidth))
		sb.WriteString("\n")
	}

	if p.processing {
		sb.WriteString(styles.StatusInProgress.Render("Processing..."))
	} else {
		sb.WriteString(styles.Muted.Render("p process all · x clear"))
	}
	return sb.String()
}

func (p *Plugin) renderResultPane() string {
	var sb strings.Builder
	if !p.processed {
		sb.WriteString(styles.Title.Render("Processed Content"))
		sb.WriteString("\n\n")
		sb.WriteString(styles.Muted.Render("Processed file contents will appear here..."))
		return sb.String()
	}

	header := styles.Title.Render("Processed Content") + "  " +
		styles.Muted.Render(fmt.Sprintf("%s · %016x", plural(p.artifact.Files, "file", "files"), p.artifact.Sum))
	if p.artifact.Failed > 0 {
		header += "  " + styles.StatusBlocked.Render(fmt.Sprintf("%d failed", p.artifact.Failed))
	}
	if p.edited {
		header += "  " + styles.StatusInProgress.Render("edited")
	}
	if p.stale {
		header += "  " + styles.StatusModified.Render("sources changed")
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	if p.editing {
		sb.WriteString(p.editor.View())
		return sb.String()
	}
	sb.WriteString(p.preview.View())
	return sb.String()
}

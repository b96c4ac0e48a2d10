package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// RenderPanel renders content in a rounded panel. width and height are the
// outer dimensions including borders. Content is clipped to fit.
func RenderPanel(content string, width, height int, active bool) string {
	if width < 3 || height < 3 {
		return content
	}
	border := BorderNormal
	if active {
		border = BorderActive
	}

	innerW := width - 4 // borders plus one column of padding per side
	innerH := height - 2
	if innerW < 0 {
		innerW = 0
	}

	lines := strings.Split(content, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > innerW {
			lines[i] = TruncateANSI(line, innerW)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
}

// Truncate shortens plain text to maxWidth cells, ending with an ellipsis
// when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// TruncateANSI is Truncate for styled text; escape sequences are kept intact.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "…")
}

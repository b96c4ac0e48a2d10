package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"zero", "hello", 0, ""},
		{"wide runes", "日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestRenderPanel_TooSmall(t *testing.T) {
	assert.Equal(t, "x", RenderPanel("x", 2, 10, true))
	assert.Equal(t, "x", RenderPanel("x", 10, 2, false))
}

func TestRenderPanel_Dimensions(t *testing.T) {
	content := strings.Repeat("a very long line that will not fit\n", 20)
	out := RenderPanel(content, 20, 6, true)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 20, lipgloss.Width(l))
	}
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╯")
}

func TestTruncateANSI_KeepsEscapes(t *testing.T) {
	styled := "\x1b[31mhello world\x1b[0m"
	out := TruncateANSI(styled, 6)
	assert.Equal(t, 6, lipgloss.Width(out))
	assert.True(t, strings.HasPrefix(out, "\x1b[31m"))
	assert.Equal(t, "", TruncateANSI(styled, 0))
}

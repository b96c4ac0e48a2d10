// Package styles holds the shared lipgloss palette and panel rendering.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#3B82F6")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body   = lipgloss.NewStyle().Foreground(TextPrimary)
	Muted  = lipgloss.NewStyle().Foreground(TextMuted)
	Subtle = lipgloss.NewStyle().Foreground(TextSubtle)

	Code = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgSecondary)

	Selected = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(BgTertiary).
			Bold(true)
)

// Status styles
var (
	StatusCompleted  = lipgloss.NewStyle().Foreground(Success)
	StatusInProgress = lipgloss.NewStyle().Foreground(Warning)
	StatusBlocked    = lipgloss.NewStyle().Foreground(Error)
	StatusModified   = lipgloss.NewStyle().Foreground(Warning)
	StatusIdle       = lipgloss.NewStyle().Foreground(TextMuted)
)

// Chrome
var (
	Header = lipgloss.NewStyle().
		Background(BgSecondary).
		Foreground(TextPrimary).
		Padding(0, 1)

	AppTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	TabActive = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Padding(0, 1)

	Footer = lipgloss.NewStyle().
		Background(BgSecondary).
		Foreground(TextMuted).
		Padding(0, 1)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary).
		Padding(0, 1)

	Toast = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Success).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Error).
			Padding(0, 1)
)

// Modal
var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimary).
			MarginBottom(1)
)

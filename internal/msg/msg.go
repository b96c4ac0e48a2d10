// Package msg holds tea messages shared between the app shell and plugins.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg asks the app to show a transient status message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}

// ShowToast returns a command that shows a success toast.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration}
	}
}

// ShowError returns a command that shows an error toast. A zero duration
// falls back to the app default.
func ShowError(err error, duration time.Duration) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return ToastMsg{Message: err.Error(), Duration: duration, IsError: true}
	}
}

// NavigateMsg asks the app to switch to the page at Path.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command that emits a NavigateMsg.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path}
	}
}

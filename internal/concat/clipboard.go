package concat

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no system clipboard tool exists.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// CopyToClipboard places text on the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboardWrite(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

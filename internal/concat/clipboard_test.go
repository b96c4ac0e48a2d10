package concat

import (
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyToClipboard(t *testing.T) {
	var got string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		got = s
		return nil
	}
	defer func() { clipboardWrite = orig }()

	err := CopyToClipboard("artifact")
	if clipboard.Unsupported {
		assert.ErrorIs(t, err, ErrClipboardUnavailable)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, "artifact", got)
}

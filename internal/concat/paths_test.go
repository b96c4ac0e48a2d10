package concat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDropped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "/tmp/a.txt", []string{"/tmp/a.txt"}},
		{"multiple", "/tmp/a /tmp/b\n/tmp/c", []string{"/tmp/a", "/tmp/b", "/tmp/c"}},
		{"escaped space", `/tmp/my\ file.txt`, []string{"/tmp/my file.txt"}},
		{"single quoted", `'/tmp/my file.txt' /x`, []string{"/tmp/my file.txt", "/x"}},
		{"double quoted", `"/tmp/a b"`, []string{"/tmp/a b"}},
		{"file uri", "file:///tmp/a%20b", []string{"/tmp/a b"}},
		{"file uri hash escape", "file:///tmp/issue%231.txt", []string{"/tmp/issue#1.txt"}},
		{"file uri utf8 escape", "file:///tmp/caf%C3%A9.txt", []string{"/tmp/café.txt"}},
		{"file uri with host", "file://localhost/tmp/x.txt", []string{"/tmp/x.txt"}},
		{"windows path", `C:\Users\me\doc.txt`, []string{`C:\Users\me\doc.txt`}},
		{"blank", "   \n ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDropped(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

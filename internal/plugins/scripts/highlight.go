package scripts

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

const (
	highlightLexer     = "powershell"
	highlightStyle     = "monokai"
	highlightFormatter = "terminal256"
)

// highlighter renders PowerShell source with ANSI colors, caching the last
// result.
type highlighter struct {
	src string
	out string
}

func (h *highlighter) render(src string) string {
	if src == h.src && h.out != "" {
		return h.out
	}
	h.src = src
	h.out = highlight(src)
	return h.out
}

// highlight returns src colored for a 256-color terminal, or src unchanged
// when tokenising fails.
func highlight(src string) string {
	lexer := lexers.Get(highlightLexer)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var sb strings.Builder
	if err := formatters.Get(highlightFormatter).Format(&sb, chromastyles.Get(highlightStyle), it); err != nil {
		return src
	}
	return strings.TrimRight(sb.String(), "\n")
}

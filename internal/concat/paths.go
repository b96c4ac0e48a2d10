package concat

import (
	"net/url"
	"strings"
	"unicode"
)

// escapable lists the characters a terminal backslash-escapes in dropped
// paths. Any other backslash is literal.
const escapable = " '\"\\()&;[]{}$!#*?"

// ParseDropped splits text pasted by a terminal drag-and-drop into paths.
// Terminals emit space separated paths, quoting or backslash-escaping
// spaces; file:// URIs are accepted as well.
func ParseDropped(s string) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	flush := func() {
		if inTok {
			paths = append(paths, normalizeDropped(cur.String()))
		}
		cur.Reset()
		inTok = false
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inTok = true
		case r == '\\' && i+1 < len(runes) && strings.ContainsRune(escapable, runes[i+1]):
			i++
			cur.WriteRune(runes[i])
			inTok = true
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeDropped(p string) string {
	if !strings.HasPrefix(p, "file://") {
		return p
	}
	u, err := url.Parse(p)
	if err != nil {
		return strings.TrimPrefix(p, "file://")
	}
	return u.Path
}

// Package cmdline splits raw profile argument strings into argv slices.
package cmdline

import "strings"

// Split tokenizes a shell-like argument string. Single and double quotes
// open a span that only the matching quote closes. A backslash escapes the
// next character when that character is a quote or another backslash;
// any other backslash is kept literally. Unterminated quotes are not an
// error: the rest of the text belongs to the open token.
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	args := make([]string, 0, 8)
	var cur strings.Builder
	var quote byte // 0 when outside a quoted span
	pending := false

	flush := func() {
		args = append(args, cur.String())
		cur.Reset()
		pending = false
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if ch == '\\' && i+1 < len(text) {
			next := text[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				cur.WriteByte(next)
				pending = true
				i++
				continue
			}
		}

		if quote != 0 {
			if ch == quote {
				quote = 0
				continue
			}
			cur.WriteByte(ch)
			continue
		}

		switch ch {
		case ' ', '\t', '\n', '\r':
			if pending || cur.Len() > 0 {
				flush()
			}
		case '\'', '"':
			quote = ch
			pending = true
		default:
			cur.WriteByte(ch)
			pending = true
		}
	}

	if pending || cur.Len() > 0 {
		flush()
	}
	return args
}

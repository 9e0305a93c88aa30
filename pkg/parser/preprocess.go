package parser

import "strings"

// StripWhitespace returns line with every space and tab removed.
// Reading stops at the first newline; carriage returns left at the end are
// dropped. StripWhitespace(StripWhitespace(s)) == StripWhitespace(s).
func StripWhitespace(line string) string {
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.IndexAny(line, " \t") >= 0 {
		var sb strings.Builder
		sb.Grow(len(line))
		for i := 0; i < len(line); i++ {
			if ch := line[i]; ch != ' ' && ch != '\t' {
				sb.WriteByte(ch)
			}
		}
		line = sb.String()
	}
	return strings.TrimRight(line, "\r")
}

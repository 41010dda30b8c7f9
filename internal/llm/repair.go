package llm

import "strings"

// Repair makes almost-JSON text parseable in one left-to-right pass. Inside
// string literals it turns raw newlines and tabs into spaces, drops raw
// carriage returns, and escapes double quotes that do not look like the end
// of the string (see closesString). Everything outside strings is copied.
//
// It is a best-effort repair, not a JSON grammar: a real closing quote that
// is directly followed by non-delimiter text is escaped instead of closed.
func Repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/16)

	inString := false
	escaped := false
	// Byte-wise is safe: every byte we act on is ASCII and never part of a
	// multi-byte UTF-8 sequence.
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			b.WriteByte(c)
			escaped = true
		case c == '"' && !inString:
			inString = true
			b.WriteByte(c)
		case c == '"':
			if closesString(s, i) {
				inString = false
				b.WriteByte(c)
			} else {
				b.WriteString(`\"`)
			}
		case !inString:
			b.WriteByte(c)
		case c == '\n', c == '\t':
			b.WriteByte(' ')
		case c == '\r':
			// dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closesString decides whether the quote at s[i], seen while inside a string
// literal, terminates it. It looks past spaces, tabs, newlines and carriage
// returns: the quote closes the string only when the next character is one
// of ':' ',' '}' ']'. End of input does not count as a delimiter.
func closesString(s string, i int) bool {
	j := i + 1
	for j < len(s) {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			j++
			continue
		case ':', ',', '}', ']':
			return true
		}
		return false
	}
	return false
}

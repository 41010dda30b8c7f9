package llm

import "strings"

// Sanitize strips markdown code fences and any prose around the outermost
// JSON object. It never fails: input without a '{' comes back unchanged
// (after trimming) and will fail to parse downstream.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	lines := strings.Split(s, "\n")
	if isFenceLine(lines[0], true) {
		lines = lines[1:]
	}
	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last >= 0 && isFenceLine(lines[last], false) {
		lines = lines[:last]
	}
	s = strings.Join(lines, "\n")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// isFenceLine reports whether line is a run of three or more identical
// backticks or tildes. With allowTag the run may be followed by a language
// tag such as "json"; the tag may not contain whitespace or braces.
func isFenceLine(line string, allowTag bool) bool {
	line = strings.TrimSpace(line)
	if len(line) < 3 || (line[0] != '`' && line[0] != '~') {
		return false
	}
	n := 0
	for n < len(line) && line[n] == line[0] {
		n++
	}
	if n < 3 {
		return false
	}
	tag := line[n:]
	if tag == "" {
		return true
	}
	if !allowTag {
		return false
	}
	return !strings.ContainsAny(tag, " \t{}`~")
}

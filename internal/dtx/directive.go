// Package dtx parses DTX chart files and SET.def song indexes and
// assembles song records from a chart directory.
//
// DTX metadata lives in text directives, lines beginning "#KEY". The
// separator between key and value varies between authoring tools
// ("#KEY: v", "#KEY v", "#KEYv"), so matching is prefix based.
package dtx

import "strings"

// DirectiveValue extracts the value of the #<key> directive from a
// single line. The returned bool reports whether the line carries the
// directive at all; the value itself may be empty. Matching is a plain
// prefix check with no boundary after the key, so key "BPM" also matches
// a "#BPMODE" line. The real key set is collision free, and the loose
// match is what existing files rely on.
func DirectiveValue(line, key string) (string, bool) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, "#"+key)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if after, found := strings.CutPrefix(rest, ":"); found {
		return strings.TrimSpace(after), true
	}
	return rest, true
}

// splitLines yields the trimmed logical lines of a decoded file. Files
// in the wild mix \n and \r\n; trimming per line makes the terminator
// irrelevant. A stray byte order mark is dropped so the first directive
// of a BOM-carrying file still matches.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		lines[i] = strings.TrimPrefix(line, "\ufeff")
	}
	return lines
}

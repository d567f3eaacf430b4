// Package base holds small text helpers shared by the format packages.
package base

import (
	"regexp"
	"strings"
)

var emptyLineRuns = regexp.MustCompile(`\n{2,}`)

// CollapseEmptyLines collapses runs of consecutive empty lines into a single
// empty line.
func CollapseEmptyLines(s string) string {
	return emptyLineRuns.ReplaceAllString(s, "\n\n")
}

// Indent prefixes every line that contains non-whitespace content.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Dedent strips the longest common leading whitespace from all non-blank
// lines. Blank lines are normalized to empty strings.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		margin = commonPrefix(margin, indent)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

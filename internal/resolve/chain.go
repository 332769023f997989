package resolve

import (
	"regexp"
	"strings"
)

// FirstNonEmpty is the field-resolver primitive: it walks an ordered list
// of extraction candidates and returns the first trimmed, non-empty one.
// A missing or empty candidate never aborts the chain. Returns "" when
// every candidate fails.
func FirstNonEmpty(candidates []string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return ""
}

// FirstPattern applies an ordered regex chain to text and returns the
// first match's capture group (whitespace-collapsed), or "" if nothing
// matches or the text is empty. When a pattern has no capture group the
// whole match is returned.
func FirstPattern(text string, chain []*regexp.Regexp) string {
	if text == "" {
		return ""
	}
	for _, re := range chain {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return CollapseWhitespace(m[1])
		}
		return CollapseWhitespace(m[0])
	}
	return ""
}

package resolve

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"first wins", []string{"a", "b"}, "a"},
		{"skips empty and whitespace", []string{"", "   ", "b"}, "b"},
		{"all empty", []string{"", ""}, ""},
		{"nil", nil, ""},
		{"trims winner", []string{"  padded  "}, "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstNonEmpty(tt.in))
		})
	}
}

func TestFirstPattern(t *testing.T) {
	chain := []*regexp.Regexp{
		regexp.MustCompile(`rate:\s*(\$[0-9.]+)`),
		regexp.MustCompile(`\$[0-9.]+`),
	}

	t.Run("first matching pattern wins", func(t *testing.T) {
		assert.Equal(t, "$25.50", FirstPattern("hourly rate: $25.50 per hour", chain))
	})
	t.Run("falls through to later pattern", func(t *testing.T) {
		assert.Equal(t, "$30", FirstPattern("earned $30 today", chain))
	})
	t.Run("collapses whitespace in capture", func(t *testing.T) {
		re := []*regexp.Regexp{regexp.MustCompile(`name:\s*([a-z]+\s+[a-z]+)`)}
		assert.Equal(t, "jane doe", FirstPattern("name: jane \n doe", re))
	})
	t.Run("no match", func(t *testing.T) {
		assert.Equal(t, "", FirstPattern("nothing here", chain))
	})
	t.Run("empty text", func(t *testing.T) {
		assert.Equal(t, "", FirstPattern("", chain))
	})
}

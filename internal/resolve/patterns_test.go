package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPatterns(t *testing.T) {
	p := DefaultPatterns()

	tests := []struct {
		field string
		text  string
		want  string
	}{
		{"hourlyRate", "Jane charges $45.00/hr for research", "$45.00"},
		{"earnings", "$10K+ in total earnings on the platform", "$10K+"},
		{"earnings", "Total earnings: 8,500", "8,500"},
		{"jobSuccess", "97% Job Success", "97%"},
		{"jobSuccess", "Job Success Score: 88%", "88%"},
		{"jobSuccess", "a Job Success score of 97%", "97%"},
		{"totalJobs", "142 total jobs completed", "142"},
		{"totalHours", "1,200 hours worked", "1,200"},
		{"memberSince", "Member since: March 12, 2019", "March 12, 2019"},
		{"memberSince", "Member since June 2020", "June 2020"},
		{"availability", "Available more than 30 hrs/week", "more than 30 hrs/week"},
		{"title", "Jane is a senior market researcher with ten years of experience", "senior market researcher"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.field, tt.text))
		})
	}
}

func TestDefaultPatterns_NoMatch(t *testing.T) {
	p := DefaultPatterns()
	assert.Equal(t, "", p.Match("earnings", "no numbers here"))
	assert.Equal(t, "", p.Match("unknownField", "anything"))
}

func TestLoadPatterns_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `patterns:
  earnings:
    - 'earned (\$[0-9,]+) so far'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadPatterns(path)
	require.NoError(t, err)

	// Overridden field uses only the file's chain.
	assert.Equal(t, "$9,000", p.Match("earnings", "earned $9,000 so far"))
	assert.Equal(t, "", p.Match("earnings", "$10K+ in total earnings"))

	// Untouched fields keep the defaults.
	assert.Equal(t, "97%", p.Match("jobSuccess", "97% Job Success"))
}

func TestLoadPatterns_BadRegex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns:\n  earnings:\n    - '(['\n"), 0o644))

	_, err := LoadPatterns(path)
	assert.Error(t, err)
}

func TestLoadPatterns_MissingFile(t *testing.T) {
	_, err := LoadPatterns(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

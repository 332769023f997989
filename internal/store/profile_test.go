package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/model"
)

func record(url, name string) model.ProfileRecord {
	return model.ProfileRecord{
		URL:  url,
		Name: model.Str(name),
	}
}

func TestProfileStore_AppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.jsonl")

	s, err := Open(path)
	require.NoError(t, err)

	ok, err := s.Append(record("https://www.upwork.com/freelancers/~01", "Jane"))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Append(record("https://www.upwork.com/freelancers/~02", "Bob"))
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	// Reload and verify round-trip plus seen set.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	assert.Equal(t, 2, s.Len())
	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Jane", *records[0].Name)
	assert.True(t, s.HasSeen("https://www.upwork.com/freelancers/~01"))
	assert.False(t, s.HasSeen("https://www.upwork.com/freelancers/~03"))
}

func TestProfileStore_DuplicateIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.jsonl")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	ok, err := s.Append(record("https://www.upwork.com/freelancers/~01", "Jane"))
	require.NoError(t, err)
	assert.True(t, ok)

	// Same canonical key: query string and trailing slash are stripped.
	ok, err = s.Append(record("https://www.upwork.com/freelancers/~01/?ref=search", "Jane Again"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "Jane", *s.Records()[0].Name)
}

func TestProfileStore_CorruptLinesSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.jsonl")
	content := `{"url":"https://a.test/one","name":"One"}
this line is not json
{"url":"https://a.test/two","name":"Two"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	assert.Equal(t, 2, s.Len())

	// Appends after a partial load still land on their own lines.
	ok, err := s.Append(record("https://a.test/three", "Three"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProfileStore_RecordsReturnsCopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "profiles.jsonl"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	_, err = s.Append(record("https://www.upwork.com/freelancers/~01", "Jane"))
	require.NoError(t, err)

	records := s.Records()
	records[0] = record("https://elsewhere.test/x", "Mutated")

	assert.Equal(t, "Jane", *s.Records()[0].Name)
	assert.Equal(t, "https://www.upwork.com/freelancers/~01", s.Records()[0].URL)
}

func TestProfileStore_RejectsUnusableURL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "profiles.jsonl"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	_, err = s.Append(model.ProfileRecord{URL: ""})
	assert.Error(t, err)
}

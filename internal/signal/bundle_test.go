package signal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBundles_JSONL(t *testing.T) {
	path := writeTemp(t, "bundles.jsonl", `
{"url":"https://www.upwork.com/freelancers/~01","pageText":"one"}

{"url":"https://www.upwork.com/freelancers/~02","pageText":"two"}
`)
	bundles, err := LoadBundles(path)
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "https://www.upwork.com/freelancers/~01", bundles[0].URL)
	assert.Equal(t, "two", bundles[1].PageText)
}

func TestLoadBundles_JSONLSkipsCorruptLines(t *testing.T) {
	path := writeTemp(t, "bundles.jsonl", `{"url":"https://a.test/x"}
{not json at all
{"url":"https://a.test/y"}
`)
	bundles, err := LoadBundles(path)
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "https://a.test/y", bundles[1].URL)
}

func TestLoadBundles_Array(t *testing.T) {
	path := writeTemp(t, "bundles.json", `[{"url":"https://a.test/1"},{"url":"https://a.test/2"}]`)
	bundles, err := LoadBundles(path)
	require.NoError(t, err)
	assert.Len(t, bundles, 2)
}

func TestLoadBundles_SingleObject(t *testing.T) {
	path := writeTemp(t, "bundle.json", `{"url":"https://a.test/1","searchQuery":"q"}`)
	bundles, err := LoadBundles(path)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, "q", bundles[0].SearchQuery)
}

func TestLoadBundles_Missing(t *testing.T) {
	_, err := LoadBundles(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestBundleAccessors(t *testing.T) {
	b := &Bundle{
		DOMCandidates: map[string][]string{"name": {"", "Jane"}},
		MetaTags:      map[string]string{"og:title": "Jane | Upwork"},
	}
	assert.Equal(t, []string{"", "Jane"}, b.Candidates("name"))
	assert.Nil(t, b.Candidates("missing"))
	assert.Equal(t, "Jane | Upwork", b.MetaTag("OG:Title"))
	assert.Equal(t, "", b.MetaTag("og:image"))

	empty := &Bundle{}
	assert.Nil(t, empty.Candidates("name"))
	assert.Equal(t, "", empty.MetaTag("og:title"))
}

package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotHTML = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Jane D. | Market Researcher | Upwork">
  <meta property="og:title" content="duplicate is ignored">
  <meta name="description" content="Freelance market research.">
  <script type="application/json">{"profile":{"fullName":"Jane Doe","hourlyRate":85}}</script>
  <script type="application/ld+json">{"@type":"Person","name":"Jane Doe"}</script>
  <script type="application/json">{broken json</script>
</head>
<body>
  <div class="profile-header"><h1>Jane Doe</h1><h2>Market Researcher</h2></div>
  <div data-test="hourly-rate">$85.00/hr</div>
  <div data-test="location">Toronto, Canada</div>
  <script>var ignored = true;</script>
  <style>.x{}</style>
  <p>97%   Job Success</p>
</body>
</html>`

func TestCollectFromHTML(t *testing.T) {
	bundle, err := CollectFromHTML("https://www.upwork.com/freelancers/~01", []byte(snapshotHTML), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://www.upwork.com/freelancers/~01", bundle.URL)
	assert.False(t, bundle.FetchedAt.IsZero())

	// First matching selector per probe slot.
	nameProbes := bundle.DOMCandidates["name"]
	require.Len(t, nameProbes, len(DefaultSelectors["name"]))
	assert.Contains(t, nameProbes, "Jane Doe")

	rateProbes := bundle.DOMCandidates["hourlyRate"]
	assert.Equal(t, "$85.00/hr", rateProbes[0])

	// Meta tags: first occurrence wins, keys lowercased.
	assert.Equal(t, "Jane D. | Market Researcher | Upwork", bundle.MetaTag("og:title"))
	assert.Equal(t, "Freelance market research.", bundle.MetaTag("description"))

	// JSON script blocks become payloads; the malformed one is skipped.
	require.Len(t, bundle.NetworkPayloads, 2)
	first, ok := bundle.NetworkPayloads[0].(map[string]any)
	require.True(t, ok)
	profile, ok := first["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", profile["fullName"])

	// Page text is whitespace-collapsed with scripts and styles removed.
	assert.Contains(t, bundle.PageText, "97% Job Success")
	assert.NotContains(t, bundle.PageText, "ignored")
	assert.NotContains(t, bundle.PageText, ".x{}")
}

func TestCollectFromHTML_CustomSelectors(t *testing.T) {
	selectors := map[string][]string{
		"name": {".custom-name", "h1"},
	}
	bundle, err := CollectFromHTML("https://a.test/p", []byte(`<html><body><h1>Only H1</h1></body></html>`), selectors)
	require.NoError(t, err)

	require.Len(t, bundle.DOMCandidates, 1)
	assert.Equal(t, []string{"", "Only H1"}, bundle.DOMCandidates["name"])
}

func TestCollectFromHTML_EmptyDocument(t *testing.T) {
	bundle, err := CollectFromHTML("https://a.test/p", []byte(""), nil)
	require.NoError(t, err)
	assert.Empty(t, bundle.NetworkPayloads)
	assert.Equal(t, "", bundle.PageText)
}

package linkfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Jane", FirstName("Jane Doe"))
	assert.Equal(t, "Jane", FirstName("  Jane   M.  "))
	assert.Equal(t, "", FirstName(""))
}

func TestLocationTokens(t *testing.T) {
	assert.Equal(t, []string{"Atlanta", "GA", "United", "States"}, LocationTokens("Atlanta, GA, United States"))
	assert.Nil(t, LocationTokens(""))
	// single-char tokens are dropped, two-char state codes kept
	assert.Equal(t, []string{"GA"}, LocationTokens("A GA"))
}

func TestBuildQueries_FullName(t *testing.T) {
	queries := BuildQueries("Jane Doe", "Toronto, Canada", "Canada", "Market Researcher", []string{"Surveys"})

	require.NotEmpty(t, queries)
	assert.Equal(t, `"Jane Doe" freelancer Toronto, Canada site:linkedin.com/in`, queries[0])
	assert.Contains(t, queries, `"Jane Doe" Toronto, Canada site:linkedin.com/in`)
	assert.Contains(t, queries, `"Jane Doe" Market Researcher Toronto, Canada site:linkedin.com/in`)
	assert.Contains(t, queries, `"Jane Doe" Surveys Toronto, Canada site:linkedin.com/in`)
	assert.Contains(t, queries, `"Jane Doe" site:linkedin.com/in`)
	assert.LessOrEqual(t, len(queries), 8)

	for _, q := range queries {
		assert.Contains(t, q, "site:linkedin.com/in")
	}
}

func TestBuildQueries_TruncatedName(t *testing.T) {
	queries := BuildQueries("Amna M.", "Lahore, Pakistan", "", "", nil)

	require.NotEmpty(t, queries)
	// First-name variants come before the quoted full name.
	assert.Equal(t, `"Amna" freelancer Lahore, Pakistan site:linkedin.com/in`, queries[0])
	assert.Contains(t, queries, `Amna freelancer Lahore, Pakistan site:linkedin.com/in`)
	assert.Contains(t, queries, `"Amna M." Lahore, Pakistan site:linkedin.com/in`)
}

func TestBuildQueries_CountryFallbackAndDedup(t *testing.T) {
	queries := BuildQueries("Jane Doe", "Canada", "Canada", "", nil)

	// location == country, so the country fallback is not duplicated
	for i, q := range queries {
		for j, other := range queries {
			if i != j {
				assert.NotEqual(t, q, other)
			}
		}
	}
	assert.Contains(t, queries, `"Jane Doe" site:linkedin.com/in`)
}

func TestBuildQueries_NoName(t *testing.T) {
	assert.Empty(t, BuildQueries("", "Toronto", "", "", nil))
}

func TestBuildQueries_Cap(t *testing.T) {
	queries := BuildQueries("Amna M.", "Lahore, Pakistan", "Pakistan", "Graphic Designer", []string{"Logo Design"})
	assert.LessOrEqual(t, len(queries), 8)
}

func TestCountryGL(t *testing.T) {
	assert.Equal(t, "us", CountryGL("United States"))
	assert.Equal(t, "gb", CountryGL("uk"))
	assert.Equal(t, "pk", CountryGL(" Pakistan "))
	assert.Equal(t, "", CountryGL("Atlantis"))
	assert.Equal(t, "", CountryGL(""))
}

package linkfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/pkg/serper"
)

func TestExtractCandidates(t *testing.T) {
	resp := &serper.SearchResponse{
		Organic: []serper.OrganicResult{
			{Link: "https://www.linkedin.com/in/janedoe?trk=search#about", Title: "Jane Doe"},
			{Link: "https://twitter.com/janedoe", Title: "not linkedin"},
			{Link: "https://www.linkedin.com/company/acme", Title: "not a profile"},
			{Link: "https://LinkedIn.com/in/JaneD", Title: "case folded"},
			{Link: "https://www.linkedin.com/pub/jane-doe/1/2/3", Title: "pub path"},
		},
	}
	cands := ExtractCandidates(resp)

	require.Len(t, cands, 3)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", cands[0].URL)
	assert.Equal(t, "https://linkedin.com/in/janed", cands[1].URL)
	assert.Equal(t, "https://www.linkedin.com/pub/jane-doe/1/2/3", cands[2].URL)
}

func TestExtractCandidates_Cap(t *testing.T) {
	var resp serper.SearchResponse
	for range 10 {
		resp.Organic = append(resp.Organic, serper.OrganicResult{Link: "https://www.linkedin.com/in/someone"})
	}
	assert.Len(t, ExtractCandidates(&resp), 5)
}

func TestExtractCandidates_Nil(t *testing.T) {
	assert.Nil(t, ExtractCandidates(nil))
}

func TestScoreCandidate(t *testing.T) {
	in := ScoreInput{
		FullName:       "Jane Doe",
		FirstName:      "Jane",
		LocationTokens: []string{"Toronto", "Canada"},
		SkillTokens:    []string{"surveys"},
		RoleTokens:     []string{"researcher"},
	}

	t.Run("first name missing from title scores zero", func(t *testing.T) {
		c := Candidate{URL: "https://www.linkedin.com/in/bob", Title: "Bob Smith - Toronto"}
		assert.Equal(t, 0, ScoreCandidate(in, c))
	})

	t.Run("strong candidate accumulates signals", func(t *testing.T) {
		c := Candidate{
			URL:     "https://www.linkedin.com/in/janedoe",
			Title:   "Jane Doe - Market Researcher",
			Snippet: "Freelancer in Toronto, Canada doing surveys",
		}
		// first name in title (3) + both name parts (3) + location capped (4)
		// + context word (2) + url prefix (2) + role (1) + skill (1)
		assert.Equal(t, 16, ScoreCandidate(in, c))
	})

	t.Run("weak candidate stays under threshold", func(t *testing.T) {
		c := Candidate{
			URL:   "https://www.linkedin.com/in/someone-else",
			Title: "Jane Smith",
		}
		assert.Less(t, ScoreCandidate(in, c), DefaultScoreThreshold)
	})
}

func TestPickCandidate(t *testing.T) {
	in := ScoreInput{
		FullName:       "Jane Doe",
		FirstName:      "Jane",
		LocationTokens: []string{"Toronto"},
	}
	strong := Candidate{
		URL:     "https://www.linkedin.com/in/janedoe",
		Title:   "Jane Doe",
		Snippet: "Freelancer in Toronto",
	}
	weak := Candidate{
		URL:   "https://www.linkedin.com/in/other",
		Title: "Jane Smith",
	}

	t.Run("best candidate above threshold wins", func(t *testing.T) {
		pick := PickCandidate(in, []Candidate{weak, strong}, DefaultScoreThreshold)
		require.NotNil(t, pick)
		assert.Equal(t, strong.URL, pick.URL)
	})

	t.Run("nothing above threshold yields nil", func(t *testing.T) {
		assert.Nil(t, PickCandidate(in, []Candidate{weak}, DefaultScoreThreshold))
	})

	t.Run("empty candidates yields nil", func(t *testing.T) {
		assert.Nil(t, PickCandidate(in, nil, DefaultScoreThreshold))
	})
}

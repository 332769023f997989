package linkfind

import (
	"strings"

	"github.com/sells-group/profile-cli/pkg/serper"
)

const (
	maxCandidates = 5

	// DefaultScoreThreshold is the minimum score for an automatic match.
	DefaultScoreThreshold = 5
)

// Candidate is a whitelisted LinkedIn profile URL from a search result.
type Candidate struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

var profilePrefixes = []string{
	"https://www.linkedin.com/in/",
	"https://linkedin.com/in/",
	"https://www.linkedin.com/pub/",
	"https://linkedin.com/pub/",
}

// ExtractCandidates filters organic results down to LinkedIn profile
// URLs (in/ or pub/ paths), lowercased with query and fragment stripped,
// capped at maxCandidates.
func ExtractCandidates(resp *serper.SearchResponse) []Candidate {
	if resp == nil {
		return nil
	}
	var cands []Candidate
	for _, item := range resp.Organic {
		link := strings.ToLower(item.Link)
		if i := strings.IndexAny(link, "?#"); i >= 0 {
			link = link[:i]
		}
		ok := false
		for _, p := range profilePrefixes {
			if strings.HasPrefix(link, p) {
				ok = true
				break
			}
		}
		if !ok {
			continue
		}
		cands = append(cands, Candidate{URL: link, Title: item.Title, Snippet: item.Snippet})
		if len(cands) >= maxCandidates {
			break
		}
	}
	return cands
}

// ScoreInput carries the record-side evidence a candidate is scored
// against. All token lists are matched case-insensitively.
type ScoreInput struct {
	FullName       string
	FirstName      string
	LocationTokens []string
	SkillTokens    []string
	RoleTokens     []string
}

var contextWords = []string{"freelancer", "upwork", "self employed", "self-employed", "consultant"}

// ScoreCandidate weighs one candidate against the record. A candidate
// whose title lacks the first name scores zero outright: it is almost
// certainly someone else.
func ScoreCandidate(in ScoreInput, c Candidate) int {
	fn := strings.ToLower(in.FirstName)
	title := strings.ToLower(c.Title)
	combined := title + " " + strings.ToLower(c.Snippet)
	url := strings.ToLower(c.URL)

	if fn == "" || !strings.Contains(title, fn) {
		return 0
	}
	score := 3

	nameParts := strings.Fields(strings.ToLower(in.FullName))
	if len(nameParts) > 1 {
		matching := 0
		for _, part := range nameParts {
			if len(part) > 1 && strings.Contains(combined, part) {
				matching++
			}
		}
		if matching >= 2 {
			score += 3
		} else if matching == 1 && len(nameParts[1]) > 2 {
			score++
		}
	}

	locMatches := 0
	for _, t := range in.LocationTokens {
		if strings.Contains(combined, strings.ToLower(t)) {
			locMatches++
		}
	}
	if locMatches > 0 {
		pts := locMatches * 2
		if pts > 4 {
			pts = 4
		}
		score += pts
	}

	for _, w := range contextWords {
		if strings.Contains(combined, w) {
			score += 2
			break
		}
	}

	if strings.HasPrefix(url, "https://www.linkedin.com/in/"+fn) ||
		strings.HasPrefix(url, "https://linkedin.com/in/"+fn) {
		score += 2
	} else {
		for _, part := range nameParts {
			if len(part) > 2 && strings.Contains(url, part) {
				score++
				break
			}
		}
	}

	if anyToken(combined, in.RoleTokens) {
		score++
	}
	if anyToken(combined, in.SkillTokens) {
		score++
	}
	return score
}

// PickCandidate returns the highest-scoring candidate at or above the
// threshold, or nil.
func PickCandidate(in ScoreInput, cands []Candidate, threshold int) *Candidate {
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}
	best := -1
	var pick *Candidate
	for i := range cands {
		if s := ScoreCandidate(in, cands[i]); s > best {
			best = s
			pick = &cands[i]
		}
	}
	if best >= threshold {
		return pick
	}
	return nil
}

func anyToken(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(haystack, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// Package linkfind locates likely LinkedIn profile URLs for resolved
// freelancer records via targeted Serper searches.
package linkfind

import (
	"regexp"
	"strings"
)

const maxQueries = 8

var (
	wsRe       = regexp.MustCompile(`\s+`)
	locSplitRe = regexp.MustCompile(`[\s,]+`)
)

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// FirstName returns the first whitespace-separated token of a name.
func FirstName(name string) string {
	name = normalizeWhitespace(name)
	if name == "" {
		return ""
	}
	return strings.SplitN(name, " ", 2)[0]
}

// LocationTokens splits a location on commas and whitespace, keeping
// tokens of two or more characters so state codes like "GA" survive.
func LocationTokens(loc string) []string {
	loc = normalizeWhitespace(loc)
	if loc == "" {
		return nil
	}
	var out []string
	for _, t := range locSplitRe.Split(loc, -1) {
		if len(t) >= 2 {
			out = append(out, t)
		}
	}
	return out
}

// SkillTokens splits a skill or role phrase into words.
func SkillTokens(s string) []string {
	s = normalizeWhitespace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// truncatedName reports a source-redacted surname: exactly two parts
// where the second is an initial like "M." or "D.".
func truncatedName(name string) bool {
	parts := strings.Fields(name)
	return len(parts) == 2 && len(parts[1]) <= 2 && strings.HasSuffix(parts[1], ".")
}

// BuildQueries assembles search queries from most to least specific.
// Truncated names get first-name variants ahead of the quoted full
// name. The list is deduplicated preserving order and capped.
func BuildQueries(name, location, country, role string, skills []string) []string {
	name = normalizeWhitespace(name)
	loc := normalizeWhitespace(location)
	ctry := normalizeWhitespace(country)
	role = normalizeWhitespace(role)

	var nameQ, topSkill, firstQ string
	if name != "" {
		nameQ = `"` + name + `"`
	}
	if len(skills) > 0 {
		topSkill = normalizeWhitespace(skills[0])
	}
	first := FirstName(name)
	if first != "" {
		firstQ = `"` + first + `"`
	}

	var queries []string

	if truncatedName(name) && firstQ != "" {
		if loc != "" {
			queries = append(queries,
				firstQ+" freelancer "+loc+" site:linkedin.com/in",
				firstQ+" "+loc+" site:linkedin.com/in",
			)
			if topSkill != "" {
				queries = append(queries, firstQ+" "+topSkill+" "+loc+" site:linkedin.com/in")
			}
		}
		// unquoted variant for broader matching
		queries = append(queries, strings.TrimSpace(first+" freelancer "+loc)+" site:linkedin.com/in")
	}

	if nameQ != "" && loc != "" {
		queries = append(queries,
			nameQ+" freelancer "+loc+" site:linkedin.com/in",
			nameQ+" "+loc+" site:linkedin.com/in",
		)
		if role != "" {
			queries = append(queries, nameQ+" "+role+" "+loc+" site:linkedin.com/in")
		}
		if topSkill != "" {
			queries = append(queries, nameQ+" "+topSkill+" "+loc+" site:linkedin.com/in")
		}
	}

	if nameQ != "" && ctry != "" && ctry != loc {
		queries = append(queries, nameQ+" "+ctry+" site:linkedin.com/in")
	}

	if nameQ != "" {
		queries = append(queries, nameQ+" site:linkedin.com/in")
	}

	seen := make(map[string]bool, len(queries))
	deduped := queries[:0]
	for _, q := range queries {
		if !seen[q] {
			seen[q] = true
			deduped = append(deduped, q)
		}
	}
	if len(deduped) > maxQueries {
		deduped = deduped[:maxQueries]
	}
	return deduped
}

// countryGL maps common country names to Serper gl codes.
var countryGL = map[string]string{
	"united states": "us", "usa": "us", "u.s.": "us", "u.s.a": "us",
	"pakistan": "pk", "india": "in", "nigeria": "ng", "philippines": "ph",
	"bangladesh": "bd", "canada": "ca", "morocco": "ma", "albania": "al",
	"venezuela": "ve", "united kingdom": "gb", "uk": "gb",
}

// CountryGL returns the gl hint for a country name, or "" when unknown.
func CountryGL(country string) string {
	return countryGL[strings.ToLower(strings.TrimSpace(country))]
}

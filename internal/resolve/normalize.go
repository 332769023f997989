// Package resolve reduces the raw signal bundle for one profile page into a
// single canonical ProfileRecord: per-field fallback chains over DOM
// candidates, meta tags, mined network payloads, and page-text regexes,
// followed by normalization of the accepted values.
package resolve

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// currencySymbols maps page currency symbols to ISO 4217 codes. Longer
// symbols must be tried before their prefixes ("A$" before "$").
var currencySymbols = []struct {
	Symbol string
	Code   string
}{
	{"A$", "AUD"},
	{"C$", "CAD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
}

// SymbolForCurrency returns the display symbol for an ISO code, or "" if
// the code is not in the table.
func SymbolForCurrency(code string) string {
	for _, cs := range currencySymbols {
		if cs.Code == code {
			return cs.Symbol
		}
	}
	return ""
}

var hostCharRe = regexp.MustCompile(`[0-9A-Za-z]`)

// validHost rejects empty or punctuation-only hosts that url.Parse
// tolerates, like the one produced by prefixing "https://" onto garbage.
func validHost(u *url.URL) bool {
	return hostCharRe.MatchString(u.Hostname())
}

// CanonicalURL strips query and fragment and lowercases scheme and host,
// returning scheme+host+path only. A missing scheme defaults to https.
// Returns "" when the input cannot be parsed into a usable host.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !validHost(u) {
		u, err = url.Parse("https://" + raw)
		if err != nil || !validHost(u) {
			return ""
		}
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	host := strings.ToLower(u.Host)
	path := u.EscapedPath()
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if path == "/" {
		path = ""
	}
	return scheme + "://" + host + path
}

// ExternalID derives the stable profile identifier from a canonical URL:
// the last non-empty path segment, with the marketplace's "~" id prefix
// stripped. Pure function of the URL.
func ExternalID(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return strings.TrimPrefix(segments[i], "~")
		}
	}
	return ""
}

// SourceFromURL derives the source label from the canonical URL host:
// "https://www.upwork.com/freelancers/~01ab" -> "upwork".
func SourceFromURL(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if idx := strings.Index(host, "."); idx > 0 {
		return host[:idx]
	}
	return host
}

var moneyRe = regexp.MustCompile(`(A\$|C\$|US\$|\$|€|£)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// ParseMoney extracts an amount and an ISO currency code from strings like
// "$1,234.50/hr" or "€50". Amount and currency are independent: the amount
// may be non-nil even when the symbol cannot be mapped. Both are nil when
// no numeric content is present.
func ParseMoney(s string) (amount *float64, currency *string) {
	m := moneyRe.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	raw := strings.ReplaceAll(m[2], ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, nil
	}
	amount = &v

	symbol := m[1]
	if symbol == "US$" {
		symbol = "$"
	}
	for _, cs := range currencySymbols {
		if cs.Symbol == symbol {
			code := cs.Code
			currency = &code
			break
		}
	}
	return amount, currency
}

var magnitudeKeep = regexp.MustCompile(`[^0-9.kKmM+]`)
var magnitudeNum = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([kKmM]?)`)

// ParseMagnitude parses human-scale counts like "10K+", "1.2M" or "850"
// into an absolute number. Non-numeric noise is stripped before parsing.
// Returns nil when no leading number survives.
func ParseMagnitude(s string) *float64 {
	cleaned := magnitudeKeep.ReplaceAllString(s, "")
	m := magnitudeNum.FindStringSubmatch(cleaned)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	return &v
}

var (
	pctBeforeRe = regexp.MustCompile(`([0-9]{1,3})\s*%`)
	pctAfterRe  = regexp.MustCompile(`%\s*([0-9]{1,3})`)
	digitRunRe  = regexp.MustCompile(`[0-9]{1,3}`)
	anyDigitRe  = regexp.MustCompile(`[0-9]`)
)

// ParseJobSuccess extracts a 0-100 integer score from strings like
// "Job Success 97%". Label-only strings with no digits yield nil rather
// than a placeholder value.
func ParseJobSuccess(s string) *int {
	if !anyDigitRe.MatchString(s) {
		return nil
	}
	var raw string
	if m := pctBeforeRe.FindStringSubmatch(s); m != nil {
		raw = m[1]
	} else if m := pctAfterRe.FindStringSubmatch(s); m != nil {
		raw = m[1]
	} else if m := digitRunRe.FindString(s); m != "" {
		raw = m
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v > 100 {
		return nil
	}
	return &v
}

// rejectedTitleRes match mis-captured location and UI strings that must
// never be kept as a professional title (or name).
var rejectedTitleRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^verified\s`),
	regexp.MustCompile(`^[A-Z][\w.'-]*(?: [A-Z][\w.'-]*)?, ?[A-Z][\w.'-]*(?: [A-Z][\w.'-]*)?$`), // bare "City, State"
	regexp.MustCompile(`(?i)^location\b`),
	regexp.MustCompile(`(?i)^view profile\b`),
	regexp.MustCompile(`(?i)^freelancer\b`),
}

// ValidTitle reports whether s is acceptable as a professional headline.
func ValidTitle(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, re := range rejectedTitleRes {
		if re.MatchString(s) {
			return false
		}
	}
	return true
}

var alphaRe = regexp.MustCompile(`[A-Za-z]`)

// HasAlpha reports whether s contains at least one ASCII letter.
func HasAlpha(s string) bool { return alphaRe.MatchString(s) }

// HasDigit reports whether s contains at least one digit.
func HasDigit(s string) bool { return anyDigitRe.MatchString(s) }

// CleanAccountURL validates and canonicalizes a linked-account profile URL:
// absolute, http(s) scheme, query and fragment stripped. Returns "" for
// anything else.
func CleanAccountURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// CollapseWhitespace folds runs of whitespace into single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

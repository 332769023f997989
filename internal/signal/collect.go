package signal

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultSelectors are the ordered structured probes per field used when
// collecting from an HTML snapshot. Earlier selectors are higher priority;
// the page markup churns often, so each field carries several generations
// of selector.
var DefaultSelectors = map[string][]string{
	"name": {
		`h1[itemprop="name"]`,
		`.profile-header h1`,
		`h1.identity-name`,
		`h1`,
	},
	"title": {
		`h2[itemprop="jobTitle"]`,
		`.profile-header h2`,
		`h2.profile-title`,
	},
	"description": {
		`[data-test="overview"]`,
		`.profile-overview`,
		`section.description p`,
	},
	"location": {
		`[itemprop="address"]`,
		`[data-test="location"]`,
		`.profile-location`,
	},
	"hourlyRate": {
		`[data-test="hourly-rate"]`,
		`.profile-rate`,
	},
	"earnings": {
		`[data-test="total-earnings"]`,
		`.stat-earnings`,
	},
	"jobSuccess": {
		`[data-test="job-success"]`,
		`.job-success-score`,
	},
	"memberSince": {
		`[data-test="member-since"]`,
	},
	"availability": {
		`[data-test="availability"]`,
	},
}

// CollectFromHTML builds a signal bundle from a saved page snapshot: it
// runs each field's selector probes in order, captures meta tag contents,
// harvests embedded JSON script blocks as network-payload objects, and
// collapses the visible body text. selectors may be nil to use
// DefaultSelectors.
func CollectFromHTML(pageURL string, html []byte, selectors map[string][]string) (*Bundle, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(err, "signal: parse snapshot %s", pageURL)
	}
	if selectors == nil {
		selectors = DefaultSelectors
	}

	bundle := &Bundle{
		URL:           pageURL,
		DOMCandidates: make(map[string][]string, len(selectors)),
		MetaTags:      make(map[string]string),
		FetchedAt:     time.Now().UTC(),
	}

	for field, probes := range selectors {
		results := make([]string, len(probes))
		for i, sel := range probes {
			results[i] = strings.TrimSpace(doc.Find(sel).First().Text())
		}
		bundle.DOMCandidates[field] = results
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("property")
		if !ok {
			name, ok = s.Attr("name")
		}
		if !ok {
			return
		}
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, taken := bundle.MetaTags[key]; !taken {
			bundle.MetaTags[key] = content
		}
	})

	bundle.NetworkPayloads = collectScriptPayloads(doc, pageURL)

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	bundle.PageText = strings.Join(strings.Fields(body.Text()), " ")

	return bundle, nil
}

// collectScriptPayloads decodes embedded JSON script blocks. These carry
// the same state objects the page's background requests return, so they
// feed the payload miner directly.
func collectScriptPayloads(doc *goquery.Document, pageURL string) []any {
	var payloads []any
	doc.Find(`script[type="application/json"], script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var obj any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			zap.L().Debug("signal: skipping malformed script payload",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			return
		}
		payloads = append(payloads, obj)
	})
	return payloads
}

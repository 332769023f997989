// Package signal defines the raw extraction inputs for one profile
// resolution and collectors that produce them from captured page
// snapshots. The resolution core consumes bundles and never talks to a
// browser itself.
package signal

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Bundle is the full set of raw signals captured for one profile page:
// structured DOM probe results per field, page meta tags, background
// network payloads, and the whitespace-collapsed visible text.
type Bundle struct {
	URL             string              `json:"url"`
	SearchQuery     string              `json:"searchQuery,omitempty"`
	DOMCandidates   map[string][]string `json:"domCandidates,omitempty"`
	MetaTags        map[string]string   `json:"metaTags,omitempty"`
	NetworkPayloads []any               `json:"networkPayloads,omitempty"`
	PageText        string              `json:"pageText,omitempty"`
	FetchedAt       time.Time           `json:"fetchedAt,omitempty"`
}

// Candidates returns the ordered DOM probe results for a field, or nil.
func (b *Bundle) Candidates(field string) []string {
	if b.DOMCandidates == nil {
		return nil
	}
	return b.DOMCandidates[field]
}

// MetaTag returns the content of a meta tag by property or name, or "".
func (b *Bundle) MetaTag(name string) string {
	if b.MetaTags == nil {
		return ""
	}
	return b.MetaTags[strings.ToLower(name)]
}

// LoadBundles reads captured signal bundles from a JSON file. A .jsonl
// file holds one bundle per line; anything else is parsed as either a
// single bundle object or a JSON array of bundles. Corrupt JSONL lines
// are skipped individually, never aborting the load.
func LoadBundles(path string) ([]Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "signal: open bundles %s", path)
	}
	defer f.Close() //nolint:errcheck

	if strings.HasSuffix(strings.ToLower(path), ".jsonl") {
		var bundles []Bundle
		var skipped int
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var b Bundle
			if err := json.Unmarshal([]byte(line), &b); err != nil {
				skipped++
				continue
			}
			bundles = append(bundles, b)
		}
		if err := scanner.Err(); err != nil {
			return nil, eris.Wrapf(err, "signal: scan bundles %s", path)
		}
		if skipped > 0 {
			zap.L().Warn("signal: skipped corrupt bundle lines",
				zap.String("path", path),
				zap.Int("skipped", skipped),
			)
		}
		return bundles, nil
	}

	dec := json.NewDecoder(f)
	var arr []Bundle
	if err := dec.Decode(&arr); err == nil {
		return arr, nil
	}
	// Rewind and retry as a single object.
	if _, err := f.Seek(0, 0); err != nil {
		return nil, eris.Wrap(err, "signal: rewind bundles")
	}
	var single Bundle
	if err := json.NewDecoder(f).Decode(&single); err != nil {
		return nil, eris.Wrapf(err, "signal: parse bundles %s", path)
	}
	return []Bundle{single}, nil
}

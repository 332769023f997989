package resolve

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/profile-cli/internal/model"
)

// scalarAliases maps JSON keys observed across captured background
// payloads to canonical field names. First value found during traversal
// wins per canonical field.
var scalarAliases = map[string]string{
	"name":        "name",
	"fullName":    "name",
	"displayName": "name",

	"title":        "title",
	"headline":     "title",
	"profileTitle": "title",

	"description": "description",
	"bio":         "description",
	"overview":    "description",

	"location": "location",
	"country":  "location",

	"timezone": "timezone",
	"timeZone": "timezone",

	"availability": "availability",

	"lastActive":   "lastActive",
	"lastActivity": "lastActive",

	"memberSince": "memberSince",
	"joinedAt":    "memberSince",

	"hourlyRate":       "hourlyRate",
	"rate":             "hourlyRate",
	"hourlyRateAmount": "hourlyRate",

	"currency":     "currency",
	"currencyCode": "currency",

	"totalEarnings": "earnings",
	"earnings":      "earnings",

	"jobSuccess":      "jobSuccess",
	"jobSuccessScore": "jobSuccess",
	"successScore":    "jobSuccess",

	"totalJobs":     "totalJobs",
	"jobCount":      "totalJobs",
	"completedJobs": "totalJobs",

	"totalHours":  "totalHours",
	"hoursWorked": "totalHours",

	"primaryCategory":   "primaryCategory",
	"secondaryCategory": "secondaryCategory",
	"searchQuery":       "searchQuery",
}

// collectionAliases maps JSON keys whose array values are concatenated
// across all payloads into deduplicated sets.
var collectionAliases = map[string]string{
	"skills":            "skills",
	"skillNames":        "skills",
	"categories":        "categories",
	"languages":         "languages",
	"linkedAccounts":    "linkedAccounts",
	"connectedAccounts": "linkedAccounts",
	"socialAccounts":    "linkedAccounts",
	"badges":            "badges",
}

// MinedProfile is the local accumulator returned by MinePayloads. It is
// never shared across entities or retained beyond one resolution.
type MinedProfile struct {
	Scalars        map[string]string
	Skills         []string
	Categories     []string
	Badges         []string
	Languages      []model.Language
	LinkedAccounts []model.LinkedAccount

	seenSkill    map[string]bool
	seenCategory map[string]bool
	seenBadge    map[string]bool
	seenLanguage map[string]bool
	seenAccount  map[string]bool
}

// Scalar returns the mined value for a canonical field, or "".
func (m *MinedProfile) Scalar(field string) string { return m.Scalars[field] }

// MinePayloads walks the captured network payload objects with an explicit
// stack (bounded memory, cycle-safe via a visited-node set) and collects
// the first value found for each known scalar alias plus concatenated,
// deduplicated sets for the collection keys. Traversal is depth-first with
// map keys visited in ascending order, so the result is deterministic for
// a given input. Malformed or non-object nodes are skipped silently.
func MinePayloads(payloads []any) *MinedProfile {
	mined := &MinedProfile{
		Scalars:      make(map[string]string),
		seenSkill:    make(map[string]bool),
		seenCategory: make(map[string]bool),
		seenBadge:    make(map[string]bool),
		seenLanguage: make(map[string]bool),
		seenAccount:  make(map[string]bool),
	}

	// Seed in reverse so payloads[0] is processed first.
	stack := make([]any, 0, len(payloads))
	for i := len(payloads) - 1; i >= 0; i-- {
		stack = append(stack, payloads[i])
	}
	visited := make(map[uintptr]bool)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := node.(type) {
		case map[string]any:
			ptr := reflect.ValueOf(n).Pointer()
			if visited[ptr] {
				continue
			}
			visited[ptr] = true

			keys := make([]string, 0, len(n))
			for k := range n {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			// Push children in reverse so the smallest key is popped first.
			for i := len(keys) - 1; i >= 0; i-- {
				k := keys[i]
				v := n[k]

				if canonical, ok := collectionAliases[k]; ok {
					if arr, isArr := v.([]any); isArr {
						mined.consumeCollection(canonical, arr)
						continue
					}
				}
				if canonical, ok := scalarAliases[k]; ok {
					if s := stringifyScalar(v); s != "" {
						if _, taken := mined.Scalars[canonical]; !taken {
							mined.Scalars[canonical] = s
						}
						continue
					}
				}
				switch v.(type) {
				case map[string]any, []any:
					stack = append(stack, v)
				}
			}

		case []any:
			if len(n) > 0 {
				ptr := reflect.ValueOf(n).Pointer()
				if visited[ptr] {
					continue
				}
				visited[ptr] = true
			}
			for i := len(n) - 1; i >= 0; i-- {
				switch n[i].(type) {
				case map[string]any, []any:
					stack = append(stack, n[i])
				}
			}
		}
	}

	return mined
}

// consumeCollection folds an array value under a recognized collection key
// into the matching deduplicated set. Elements of unexpected shape are
// skipped.
func (m *MinedProfile) consumeCollection(canonical string, arr []any) {
	switch canonical {
	case "skills":
		for _, el := range arr {
			if s := collectionItemName(el); s != "" && !m.seenSkill[s] {
				m.seenSkill[s] = true
				m.Skills = append(m.Skills, s)
			}
		}
	case "categories":
		for _, el := range arr {
			if s := collectionItemName(el); s != "" && !m.seenCategory[s] {
				m.seenCategory[s] = true
				m.Categories = append(m.Categories, s)
			}
		}
	case "badges":
		for _, el := range arr {
			if s := collectionItemName(el); s != "" && !m.seenBadge[s] {
				m.seenBadge[s] = true
				m.Badges = append(m.Badges, s)
			}
		}
	case "languages":
		for _, el := range arr {
			lang := decodeLanguage(el)
			if lang == nil || m.seenLanguage[lang.Name] {
				continue
			}
			m.seenLanguage[lang.Name] = true
			m.Languages = append(m.Languages, *lang)
		}
	case "linkedAccounts":
		for _, el := range arr {
			acct := decodeLinkedAccount(el)
			if acct == nil {
				continue
			}
			key := acct.Platform
			if acct.ProfileURL != nil {
				key += "|" + *acct.ProfileURL
			}
			if m.seenAccount[key] {
				continue
			}
			m.seenAccount[key] = true
			m.LinkedAccounts = append(m.LinkedAccounts, *acct)
		}
	}
}

// collectionItemName extracts the display text from a collection element
// that is either a plain string or an object with a name-ish key.
func collectionItemName(el any) string {
	switch v := el.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, k := range []string{"prettyName", "name", "label", "title"} {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func decodeLanguage(el any) *model.Language {
	switch v := el.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return &model.Language{Name: s}
		}
	case map[string]any:
		lang := model.Language{}
		for _, k := range []string{"name", "language"} {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				lang.Name = strings.TrimSpace(s)
				break
			}
		}
		for _, k := range []string{"level", "proficiency", "proficiencyLevel"} {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				lang.Level = model.LanguageLevel(strings.TrimSpace(s))
				break
			}
		}
		if lang.Name != "" {
			return &lang
		}
	}
	return nil
}

func decodeLinkedAccount(el any) *model.LinkedAccount {
	v, ok := el.(map[string]any)
	if !ok {
		return nil
	}
	acct := model.LinkedAccount{}
	for _, k := range []string{"platform", "provider", "type"} {
		if s, sok := v[k].(string); sok && strings.TrimSpace(s) != "" {
			acct.Platform = strings.TrimSpace(s)
			break
		}
	}
	if acct.Platform == "" {
		return nil
	}
	if s, sok := v["username"].(string); sok && s != "" {
		acct.Username = model.Str(s)
	}
	for _, k := range []string{"profileUrl", "url"} {
		if s, sok := v[k].(string); sok {
			if cleaned := CleanAccountURL(s); cleaned != "" {
				acct.ProfileURL = model.Str(cleaned)
				break
			}
		}
	}
	if s, sok := v["profileHost"].(string); sok && s != "" {
		acct.ProfileHost = model.Str(s)
	}
	if s, sok := v["since"].(string); sok && s != "" {
		acct.Since = model.Str(s)
	}
	if f, fok := v["sinceYear"].(float64); fok {
		acct.SinceYear = model.Int(int(f))
	}
	if s, sok := v["followers"].(string); sok && s != "" {
		acct.Followers = model.Str(s)
		if n := ParseMagnitude(s); n != nil {
			acct.FollowersCount = n
		}
	}
	if f, fok := v["followersCount"].(float64); fok {
		acct.FollowersCount = model.Float(f)
	}
	return &acct
}

// stringifyScalar renders a leaf JSON value as its page-text equivalent.
// Objects and arrays yield "" so they fall through to traversal.
func stringifyScalar(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

package resolve

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Patterns holds the ordered text-fallback regex chain for each field.
// Chains are evaluated short-circuit by FirstPattern.
type Patterns struct {
	fields map[string][]*regexp.Regexp
}

// defaultPatternSources are the built-in page-text fallbacks, keyed by
// field name. Order within a chain matters: most specific first.
var defaultPatternSources = map[string][]string{
	"hourlyRate": {
		`((?:A\$|C\$|US\$|\$|€|£)\s*[0-9][0-9,]*(?:\.[0-9]+)?)\s*/\s*hr`,
		`(?i)hourly rate:?\s*((?:A\$|C\$|US\$|\$|€|£)?\s*[0-9][0-9,]*(?:\.[0-9]+)?)`,
	},
	"earnings": {
		`(?i)((?:A\$|C\$|US\$|\$|€|£)[0-9][0-9.,]*[kKmM]?\+?)\s*(?:in\s+)?(?:total\s+)?earnings`,
		`(?i)(?:total\s+)?earnings:?\s*((?:A\$|C\$|US\$|\$|€|£)?[0-9][0-9.,]*[kKmM]?\+?)`,
	},
	"jobSuccess": {
		`(?i)([0-9]{1,3}\s*%)\s*job\s*success`,
		`(?i)job\s*success(?:\s*score)?[^0-9%]{0,12}([0-9]{1,3}\s*%)`,
	},
	"totalJobs": {
		`(?i)([0-9][0-9,]*)\s+(?:total\s+)?jobs`,
	},
	"totalHours": {
		`(?i)([0-9][0-9,.]*[kK]?\+?)\s+(?:total\s+)?hours`,
	},
	"memberSince": {
		`(?i)member since:?\s*([A-Z][a-z]+ [0-9]{1,2}, [0-9]{4})`,
		`(?i)member since:?\s*([A-Z][a-z]+ [0-9]{4})`,
	},
	"lastActive": {
		`(?i)last active:?\s*([A-Za-z0-9, ]+?(?:ago|[0-9]{4}))`,
	},
	"location": {
		`(?i)location:?\s*([A-Z][A-Za-z .'-]+, [A-Z][A-Za-z .'-]+)`,
	},
	"availability": {
		`(?i)(more than 30 hrs/week|less than 30 hrs/week|as needed[^.\n]*|available now)`,
	},
	// Professional-title shapes found in overview prose, used only when no
	// structured headline survived the chain.
	"title": {
		`(?i)\bis an? ([a-z][a-z /-]*(?:designer|developer|engineer|researcher|writer|marketer|analyst|consultant|specialist|translator|photographer|strategist|manager))\b`,
		`(?i)^([a-z][a-z /-]*(?:designer|developer|engineer|researcher|writer|marketer|analyst|consultant|specialist|translator|photographer|strategist|manager))\b`,
	},
}

// DefaultPatterns returns the built-in pattern set.
func DefaultPatterns() *Patterns {
	p := &Patterns{fields: make(map[string][]*regexp.Regexp, len(defaultPatternSources))}
	for field, sources := range defaultPatternSources {
		for _, src := range sources {
			p.fields[field] = append(p.fields[field], regexp.MustCompile(src))
		}
	}
	return p
}

// LoadPatterns reads a YAML file mapping field names to ordered regex
// lists and overlays it on the defaults. Fields present in the file
// replace the built-in chain for that field; absent fields keep theirs.
//
//	patterns:
//	  earnings:
//	    - '(?i)earned\s+(\$[0-9,.]+[kKmM]?\+?)'
func LoadPatterns(path string) (*Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read patterns %s", path)
	}

	var wrapper struct {
		Patterns map[string][]string `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "resolve: parse patterns")
	}

	p := DefaultPatterns()
	for field, sources := range wrapper.Patterns {
		var chain []*regexp.Regexp
		for _, src := range sources {
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, eris.Wrapf(err, "resolve: compile pattern for %s", field)
			}
			chain = append(chain, re)
		}
		p.fields[field] = chain
	}
	return p, nil
}

// Field returns the regex chain for a field, or nil when it has none.
func (p *Patterns) Field(name string) []*regexp.Regexp {
	return p.fields[name]
}

// Match runs the field's chain against text via FirstPattern.
func (p *Patterns) Match(field, text string) string {
	return FirstPattern(text, p.fields[field])
}

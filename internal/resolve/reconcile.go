package resolve

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/signal"
)

// metaSeparators split compound og:title values like
// "Jane D. - Market Research | Upwork".
var metaSeparators = []string{" | ", " - ", " – ", " — "}

// maxMetaLen bounds meta-derived headline segments; longer content is
// marketing copy, not a name or title.
const maxMetaLen = 120

// Reconciler merges the four signal sources into canonical records under
// the fixed precedence policy. It is stateless and safe for concurrent use.
type Reconciler struct {
	patterns *Patterns
}

// NewReconciler creates a Reconciler. patterns may be nil to use the
// built-in text-fallback chains.
func NewReconciler(patterns *Patterns) *Reconciler {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Reconciler{patterns: patterns}
}

// Reconcile resolves one signal bundle into a complete ProfileRecord.
// Per-field precedence is DOM probe, then meta tag, then mined payload,
// then page-text pattern; the first acceptable value wins and is never
// retracted, except that for earnings and job success a stronger text
// match replaces a label-only structured value. Parses that fail yield
// nil fields, never an error: the caller always receives a full record.
func (r *Reconciler) Reconcile(b *signal.Bundle) *model.ProfileRecord {
	canonical := CanonicalURL(b.URL)
	rec := &model.ProfileRecord{
		URL:         canonical,
		Source:      SourceFromURL(canonical),
		ExternalID:  ExternalID(canonical),
		SearchQuery: b.SearchQuery,
		ScrapedAt:   b.FetchedAt,
	}
	if rec.ScrapedAt.IsZero() {
		rec.ScrapedAt = time.Now().UTC()
	}

	mined := MinePayloads(b.NetworkPayloads)
	metaName, metaTitle := splitMetaHeadline(b.MetaTag("og:title"))
	metaDesc := boundMeta(b.MetaTag("og:description"), 0)

	// Identity and free text.
	if v := firstValid(ValidTitle,
		domFirst(b, "name"), metaName, mined.Scalar("name")); v != "" {
		rec.Name = model.Str(v)
	}
	if v := firstValid(ValidTitle,
		domFirst(b, "title"), metaTitle, mined.Scalar("title")); v != "" {
		rec.Title = model.Str(v)
	}
	if v := pick(domFirst(b, "description"), metaDesc, mined.Scalar("description")); v != "" {
		rec.Description = model.Str(v)
	}

	// Plain text fields: DOM, mined, then page-text fallback.
	rec.Location = optional(r.textField(b, mined, "location"))
	rec.Timezone = optional(pick(domFirst(b, "timezone"), mined.Scalar("timezone")))
	rec.Availability = optional(r.textField(b, mined, "availability"))
	rec.LastActive = optional(r.textField(b, mined, "lastActive"))
	rec.MemberSince = optional(r.textField(b, mined, "memberSince"))

	// Hourly rate: amount and currency are independent parses.
	rateRaw := r.textField(b, mined, "hourlyRate")
	amount, currency := ParseMoney(rateRaw)
	if amount != nil {
		rec.HourlyRate = amount
		if currency == nil {
			if code := mined.Scalar("currency"); len(code) == 3 {
				currency = model.Str(strings.ToUpper(code))
			}
		}
		rec.Currency = currency
	}

	// Earnings and job success honor the text-override exception.
	earningsRaw := r.overridableField(b, mined, "earnings", earningsStrong)
	if earningsRaw != "" {
		rec.EarningsTotal = ParseMagnitude(earningsRaw)
	}
	successRaw := r.overridableField(b, mined, "jobSuccess", jobSuccessStrong)
	if successRaw != "" {
		rec.JobSuccessScore = ParseJobSuccess(successRaw)
	}

	if v := ParseMagnitude(r.textField(b, mined, "totalJobs")); v != nil {
		rec.TotalJobs = model.Int(int(*v + 0.5))
	}
	if v := ParseMagnitude(r.textField(b, mined, "totalHours")); v != nil {
		rec.TotalHours = model.Int(int(*v + 0.5))
	}

	// Collections come from the miner; the DOM probes return single
	// strings and cannot express these shapes.
	rec.Skills = mined.Skills
	rec.Categories = mined.Categories
	rec.Languages = mined.Languages
	rec.LinkedAccounts = mined.LinkedAccounts
	rec.Badges = detectBadges(mined.Badges, b.PageText)

	if v := pick(mined.Scalar("primaryCategory"), indexOrEmpty(rec.Categories, 0)); v != "" {
		rec.PrimaryCategory = model.Str(v)
	}
	if v := pick(mined.Scalar("secondaryCategory"), indexOrEmpty(rec.Categories, 1)); v != "" {
		rec.SecondaryCategory = model.Str(v)
	}

	r.finishHeadline(rec, model.StrVal(rec.Description), b.PageText)

	if rec.Name == nil {
		zap.L().Debug("resolve: no name resolved",
			zap.String("url", rec.URL),
		)
	}
	return rec
}

// finishHeadline applies the name/title interaction rules: a title that
// circularly copies the name is dropped, and when no name survived the
// chain a title (or a professional-title match in the description) is
// promoted into it. The promotion is lossy and last-resort.
func (r *Reconciler) finishHeadline(rec *model.ProfileRecord, description, pageText string) {
	if rec.Title == nil {
		if m := pick(r.patterns.Match("title", description), r.patterns.Match("title", pageText)); m != "" {
			rec.Title = model.Str(titleCase(m))
		}
	}
	if rec.Title != nil && rec.Name != nil && *rec.Title == *rec.Name {
		rec.Title = nil
	}
	if rec.Name == nil && rec.Title != nil && HasAlpha(*rec.Title) {
		rec.Name = rec.Title
		rec.Title = nil
	}
}

// textField resolves a field through the standard precedence chain:
// DOM probe, mined payload, page-text pattern.
func (r *Reconciler) textField(b *signal.Bundle, mined *MinedProfile, field string) string {
	if v := domFirst(b, field); v != "" {
		return v
	}
	if v := mined.Scalar(field); v != "" {
		return v
	}
	return r.patterns.Match(field, b.PageText)
}

// overridableField resolves earnings/jobSuccess: the normal chain picks
// first, but a strong page-text match (per strong) replaces a structured
// value that carries no digit.
func (r *Reconciler) overridableField(b *signal.Bundle, mined *MinedProfile, field string, strong func(string) bool) string {
	structured := pick(domFirst(b, field), mined.Scalar(field))
	textMatch := r.patterns.Match(field, b.PageText)

	if textMatch != "" && strong(textMatch) && !HasDigit(structured) {
		if structured != "" {
			zap.L().Debug("resolve: text match overrides label-only value",
				zap.String("field", field),
				zap.String("structured", structured),
				zap.String("text", textMatch),
			)
		}
		return textMatch
	}
	if structured != "" {
		return structured
	}
	return textMatch
}

var currencyMarkRe = regexp.MustCompile(`[$€£]|\d\s*[kKmM]\b|\d[kKmM]\+?`)
var percentValueRe = regexp.MustCompile(`\d{1,3}\s*%`)

// earningsStrong reports whether a text match is authoritative for the
// earnings field: it carries digits plus a currency symbol or magnitude
// suffix.
func earningsStrong(s string) bool {
	return HasDigit(s) && currencyMarkRe.MatchString(s)
}

// jobSuccessStrong reports whether a text match is authoritative for the
// job-success field: a numeric percentage.
func jobSuccessStrong(s string) bool {
	return percentValueRe.MatchString(s)
}

// detectBadges folds mined badge labels and page-text markers into the
// badge enum. "Top Rated Plus" must be probed before its prefix.
func detectBadges(minedBadges []string, pageText string) []model.Badge {
	seen := make(map[model.Badge]bool)
	var badges []model.Badge
	add := func(b model.Badge) {
		if !seen[b] {
			seen[b] = true
			badges = append(badges, b)
		}
	}

	for _, raw := range minedBadges {
		switch normalizeBadge(raw) {
		case model.BadgeTopRatedPlus:
			add(model.BadgeTopRatedPlus)
		case model.BadgeTopRated:
			add(model.BadgeTopRated)
		}
	}
	lower := strings.ToLower(pageText)
	if strings.Contains(lower, "top rated plus") {
		add(model.BadgeTopRatedPlus)
	} else if strings.Contains(lower, "top rated") {
		add(model.BadgeTopRated)
	}
	return badges
}

func normalizeBadge(raw string) model.Badge {
	folded := strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(raw)))
	switch folded {
	case "top_rated_plus":
		return model.BadgeTopRatedPlus
	case "top_rated":
		return model.BadgeTopRated
	}
	return ""
}

// splitMetaHeadline splits an og:title into a name segment and a title
// segment. The trailing marketplace brand segment is discarded.
func splitMetaHeadline(ogTitle string) (name, title string) {
	ogTitle = strings.TrimSpace(ogTitle)
	if ogTitle == "" {
		return "", ""
	}
	segments := []string{ogTitle}
	for _, sep := range metaSeparators {
		if strings.Contains(ogTitle, sep) {
			segments = strings.Split(ogTitle, sep)
			break
		}
	}
	var kept []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" || isBrandSegment(seg) {
			continue
		}
		kept = append(kept, boundMeta(seg, maxMetaLen))
	}
	if len(kept) > 0 {
		name = kept[0]
	}
	if len(kept) > 1 {
		title = kept[1]
	}
	return name, title
}

func isBrandSegment(s string) bool {
	switch strings.ToLower(s) {
	case "upwork", "freelancer", "profile":
		return true
	}
	return false
}

// boundMeta trims and length-bounds meta content. limit 0 means the
// description bound of 2000.
func boundMeta(s string, limit int) string {
	s = CollapseWhitespace(s)
	if limit == 0 {
		limit = 2000
	}
	if len(s) > limit {
		return ""
	}
	return s
}

func domFirst(b *signal.Bundle, field string) string {
	return FirstNonEmpty(b.Candidates(field))
}

func pick(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstValid(valid func(string) bool, values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" && valid(v) {
			return v
		}
	}
	return ""
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return model.Str(v)
}

func indexOrEmpty(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

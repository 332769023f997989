// Package model defines the canonical record types shared across the pipeline.
package model

import "time"

// Badge is a marketplace trust tag attached to a profile.
type Badge string

const (
	BadgeTopRated     Badge = "top_rated"
	BadgeTopRatedPlus Badge = "top_rated_plus"
)

// LanguageLevel is the fixed proficiency vocabulary used on profile pages.
type LanguageLevel string

const (
	LevelBasic          LanguageLevel = "Basic"
	LevelConversational LanguageLevel = "Conversational"
	LevelFluent         LanguageLevel = "Fluent"
	LevelNative         LanguageLevel = "Native or Bilingual"
)

// Language is one entry of a profile's ordered language list.
type Language struct {
	Name  string        `json:"name"`
	Level LanguageLevel `json:"level,omitempty"`
}

// LinkedAccount is an external account surfaced on a profile page.
// Field availability varies by platform; absent sub-fields stay nil.
type LinkedAccount struct {
	Platform       string  `json:"platform"`
	Username       *string `json:"username,omitempty"`
	ProfileURL     *string `json:"profileUrl,omitempty"`
	ProfileHost    *string `json:"profileHost,omitempty"`
	Since          *string `json:"since,omitempty"`
	SinceYear      *int    `json:"sinceYear,omitempty"`
	Followers      *string `json:"followers,omitempty"`
	FollowersCount *float64 `json:"followersCount,omitempty"`
}

// ProfileRecord is the canonical, reconciled record for one freelancer
// profile. The URL is always the canonical form (scheme+host+path, query
// and fragment stripped) and is the sole identity key. Nullable fields are
// pointers: nil means no signal source produced an acceptable value.
type ProfileRecord struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	ExternalID string `json:"externalId"`

	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	Location     *string `json:"location"`
	Timezone     *string `json:"timezone"`
	Availability *string `json:"availability"`
	LastActive   *string `json:"lastActive"`
	MemberSince  *string `json:"memberSince"`

	HourlyRate      *float64 `json:"hourlyRate"`
	Currency        *string  `json:"currency"`
	EarningsTotal   *float64 `json:"earningsTotal"`
	JobSuccessScore *int     `json:"jobSuccessScore"`
	TotalJobs       *int     `json:"totalJobs"`
	TotalHours      *int     `json:"totalHours"`

	Skills            []string `json:"skills,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	PrimaryCategory   *string  `json:"primaryCategory"`
	SecondaryCategory *string  `json:"secondaryCategory"`

	Languages      []Language      `json:"languages,omitempty"`
	LinkedAccounts []LinkedAccount `json:"linkedAccounts,omitempty"`
	Badges         []Badge         `json:"badges,omitempty"`

	SearchQuery string    `json:"searchQuery,omitempty"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Str returns a pointer to s, for building records with nullable fields.
func Str(s string) *string { return &s }

// StrVal dereferences p, returning "" for nil.
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

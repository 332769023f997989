// Package export flattens canonical profile records into tabular output:
// CSV and XLSX full exports, and a merge mode that joins linked-account
// columns onto an arbitrary external CSV.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-cli/internal/model"
)

// BaseColumns is the fixed column set emitted before the dynamic
// linked-account columns. Display columns are derived from the normalized
// numeric fields at export time and never stored on the record.
var BaseColumns = []string{
	"url", "source", "externalId",
	"name", "title", "description",
	"location", "timezone", "availability", "lastActive", "memberSince",
	"hourlyRate", "currency", "hourlyRateDisplay",
	"earningsTotal", "earningsDisplay",
	"jobSuccessScore", "jobSuccessDisplay",
	"totalJobs", "totalHours",
	"skills", "categories", "primaryCategory", "secondaryCategory",
	"languages", "badges",
	"searchQuery", "scrapedAt",
}

// arrayJoin separates list values inside a single CSV cell.
const arrayJoin = "; "

// MaxLinkedAccounts returns the widest linkedAccounts list in the batch,
// which fixes the number of dynamic column groups.
func MaxLinkedAccounts(records []model.ProfileRecord) int {
	max := 0
	for _, r := range records {
		if len(r.LinkedAccounts) > max {
			max = len(r.LinkedAccounts)
		}
	}
	return max
}

// Header returns the full header row for a batch with maxLinked dynamic
// account slots: four sub-columns per slot.
func Header(maxLinked int) []string {
	header := make([]string, 0, len(BaseColumns)+4*maxLinked)
	header = append(header, BaseColumns...)
	for i := 1; i <= maxLinked; i++ {
		n := strconv.Itoa(i)
		header = append(header,
			"linked_account_"+n+"_platform",
			"linked_account_"+n+"_username",
			"linked_account_"+n+"_profile_url",
			"linked_account_"+n+"_profile_host",
		)
	}
	return header
}

// Flatten writes the full batch as CSV: header plus one row per record.
// Quoting follows RFC 4180 (cells containing comma, quote, or newline are
// quoted with internal quotes doubled), which encoding/csv implements.
func Flatten(records []model.ProfileRecord, w io.Writer) error {
	maxLinked := MaxLinkedAccounts(records)
	cw := csv.NewWriter(w)

	if err := cw.Write(Header(maxLinked)); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, rec := range records {
		if err := cw.Write(Row(rec, maxLinked)); err != nil {
			return eris.Wrapf(err, "export: write row %s", rec.URL)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// FlattenFile writes the batch CSV as a complete file.
func FlattenFile(records []model.ProfileRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := Flatten(records, f); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}

// Row maps one record onto the flat column layout. Each of the maxLinked
// account slots contributes its four sub-fields when present, or four
// empty cells.
func Row(rec model.ProfileRecord, maxLinked int) []string {
	row := make([]string, 0, len(BaseColumns)+4*maxLinked)
	row = append(row,
		rec.URL, rec.Source, rec.ExternalID,
		strCell(rec.Name), strCell(rec.Title), strCell(rec.Description),
		strCell(rec.Location), strCell(rec.Timezone), strCell(rec.Availability),
		strCell(rec.LastActive), strCell(rec.MemberSince),
		floatCell(rec.HourlyRate), strCell(rec.Currency), RateDisplay(rec.HourlyRate, rec.Currency),
		floatCell(rec.EarningsTotal), EarningsDisplay(rec.EarningsTotal, rec.Currency),
		intCell(rec.JobSuccessScore), ScoreDisplay(rec.JobSuccessScore),
		intCell(rec.TotalJobs), intCell(rec.TotalHours),
		joinCell(rec.Skills), joinCell(rec.Categories),
		strCell(rec.PrimaryCategory), strCell(rec.SecondaryCategory),
		languagesCell(rec.Languages), badgesCell(rec.Badges),
		rec.SearchQuery, timeCell(rec.ScrapedAt),
	)
	row = append(row, AccountCells(rec.LinkedAccounts, maxLinked)...)
	return row
}

// AccountCells renders the dynamic linked-account cells for one record.
func AccountCells(accounts []model.LinkedAccount, maxLinked int) []string {
	cells := make([]string, 0, 4*maxLinked)
	for i := 0; i < maxLinked; i++ {
		if i < len(accounts) {
			a := accounts[i]
			cells = append(cells, a.Platform, strCell(a.Username), strCell(a.ProfileURL), strCell(a.ProfileHost))
		} else {
			cells = append(cells, "", "", "", "")
		}
	}
	return cells
}

func strCell(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func intCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func joinCell(list []string) string {
	out := ""
	for i, v := range list {
		if i > 0 {
			out += arrayJoin
		}
		out += v
	}
	return out
}

func languagesCell(langs []model.Language) string {
	out := ""
	for i, l := range langs {
		if i > 0 {
			out += arrayJoin
		}
		out += l.Name
		if l.Level != "" {
			out += " (" + string(l.Level) + ")"
		}
	}
	return out
}

func badgesCell(badges []model.Badge) string {
	out := ""
	for i, b := range badges {
		if i > 0 {
			out += arrayJoin
		}
		out += string(b)
	}
	return out
}

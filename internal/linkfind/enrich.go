package linkfind

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/pkg/serper"
)

// Input is one record to enrich, reduced to the evidence the query
// builder and scorer use.
type Input struct {
	ExternalID string
	Name       string
	Location   string
	Country    string
	Role       string
	Skills     []string
}

// InputFromRecord projects a resolved profile record onto an Input.
func InputFromRecord(rec model.ProfileRecord) Input {
	return Input{
		ExternalID: rec.ExternalID,
		Name:       model.StrVal(rec.Name),
		Location:   model.StrVal(rec.Location),
		Role:       model.StrVal(rec.Title),
		Skills:     rec.Skills,
	}
}

// Row is one output line of the enrichment CSV.
type Row struct {
	ExternalID     string
	Name           string
	Location       string
	LinkedInURL    string
	MatchStatus    string
	QueryUsed      string
	CandidatesJSON string
}

var rowHeader = []string{
	"externalId", "name", "location",
	"linkedin_url", "match_status", "query_used", "candidates_json",
}

// Match statuses.
const (
	StatusMatched     = "matched"
	StatusNeedsReview = "needs_review"
	StatusNotFound    = "not_found"
	StatusError       = "error"
)

// Counters tallies enrichment outcomes.
type Counters struct {
	Processed   int `json:"processed"`
	Matched     int `json:"matched"`
	NeedsReview int `json:"needsReview"`
	NotFound    int `json:"notFound"`
	Errors      int `json:"errors"`
}

// Options tunes an enrichment run.
type Options struct {
	Sleep          time.Duration // politeness gap between API calls
	Start          int           // resume offset
	Limit          int           // 0 means all
	ScoreThreshold int
	Retries        int           // attempts per query on 429/5xx
	RetryBackoff   time.Duration // initial backoff, doubled per retry
}

// Enricher drives the search-and-score loop over a batch of inputs.
type Enricher struct {
	client serper.Client
	opts   Options
}

// NewEnricher creates an Enricher with defaults filled in.
func NewEnricher(client serper.Client, opts Options) *Enricher {
	if opts.Sleep <= 0 {
		opts.Sleep = 2 * time.Second
	}
	if opts.ScoreThreshold <= 0 {
		opts.ScoreThreshold = DefaultScoreThreshold
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 5 * time.Second
	}
	return &Enricher{client: client, opts: opts}
}

// checkpointEvery is how many processed rows between checkpoint writes.
const checkpointEvery = 100

// Run enriches inputs[Start:Start+Limit], writing the result CSV to
// outPath. Progress is checkpointed to outPath+".tmp.csv" periodically
// and the final file lands with an atomic rename, so an interrupted run
// loses at most one checkpoint interval.
func (e *Enricher) Run(ctx context.Context, inputs []Input, outPath string) (Counters, error) {
	var counters Counters
	var rows []Row

	limiter := rate.NewLimiter(rate.Every(e.opts.Sleep), 1)

	start := e.opts.Start
	if start < 0 {
		start = 0
	}
	end := len(inputs)
	if e.opts.Limit > 0 && start+e.opts.Limit < end {
		end = start + e.opts.Limit
	}

	for idx := start; idx < end; idx++ {
		row := e.enrichOne(ctx, limiter, inputs[idx])
		rows = append(rows, row)

		counters.Processed++
		switch row.MatchStatus {
		case StatusMatched:
			counters.Matched++
		case StatusNeedsReview:
			counters.NeedsReview++
		case StatusNotFound:
			counters.NotFound++
		case StatusError:
			counters.Errors++
		}

		if ctx.Err() != nil {
			break
		}
		if counters.Processed%checkpointEvery == 0 {
			if err := writeRows(rows, outPath+".tmp.csv"); err != nil {
				return counters, err
			}
			zap.L().Info("enrich checkpoint", zap.Int("processed", counters.Processed))
		}
	}

	if err := writeRows(rows, outPath+".tmp.csv"); err != nil {
		return counters, err
	}
	if err := os.Rename(outPath+".tmp.csv", outPath); err != nil {
		return counters, eris.Wrapf(err, "linkfind: rename to %s", outPath)
	}
	return counters, ctx.Err()
}

func (e *Enricher) enrichOne(ctx context.Context, limiter *rate.Limiter, in Input) Row {
	row := Row{
		ExternalID:  in.ExternalID,
		Name:        in.Name,
		Location:    in.Location,
		MatchStatus: StatusNotFound,
	}

	queries := BuildQueries(in.Name, in.Location, in.Country, in.Role, in.Skills)
	if len(queries) == 0 {
		row.CandidatesJSON = "[]"
		return row
	}

	scoreIn := ScoreInput{
		FullName:       in.Name,
		FirstName:      FirstName(in.Name),
		LocationTokens: append(LocationTokens(in.Location), LocationTokens(in.Country)...),
		RoleTokens:     SkillTokens(in.Role),
	}
	for i, s := range in.Skills {
		if i >= 2 {
			break
		}
		scoreIn.SkillTokens = append(scoreIn.SkillTokens, SkillTokens(s)...)
	}

	gl := CountryGL(in.Country)
	var allCandidates []Candidate

	for _, q := range queries {
		zap.L().Debug("enrich query", zap.String("externalId", in.ExternalID), zap.String("q", q))

		if err := limiter.Wait(ctx); err != nil {
			row.MatchStatus = StatusError
			row.QueryUsed = q
			break
		}
		resp, err := e.searchWithRetry(ctx, serper.SearchRequest{Q: q, GL: gl, HL: "en"})
		if err != nil {
			zap.L().Warn("enrich query failed",
				zap.String("externalId", in.ExternalID),
				zap.String("q", q),
				zap.Error(err),
			)
			row.MatchStatus = StatusError
			row.QueryUsed = q
			break
		}

		cands := ExtractCandidates(resp)
		if len(allCandidates) == 0 && len(cands) > 0 {
			allCandidates = cands
		}
		if pick := PickCandidate(scoreIn, cands, e.opts.ScoreThreshold); pick != nil {
			row.LinkedInURL = pick.URL
			row.MatchStatus = StatusMatched
			row.QueryUsed = q
			break
		}
	}

	if row.MatchStatus == StatusNotFound && len(allCandidates) > 0 {
		// candidates existed but none scored high enough
		row.MatchStatus = StatusNeedsReview
		row.QueryUsed = queries[0]
	}

	data, err := json.Marshal(allCandidates)
	if err != nil || len(allCandidates) == 0 {
		row.CandidatesJSON = "[]"
	} else {
		row.CandidatesJSON = string(data)
	}
	return row
}

func (e *Enricher) searchWithRetry(ctx context.Context, req serper.SearchRequest) (*serper.SearchResponse, error) {
	backoff := e.opts.RetryBackoff
	for attempt := 1; ; attempt++ {
		resp, err := e.client.Search(ctx, req)
		if err == nil {
			return resp, nil
		}
		var statusErr *serper.StatusError
		if attempt >= e.opts.Retries || !errors.As(err, &statusErr) || !statusErr.Retryable() {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > time.Minute {
			backoff = time.Minute
		}
	}
}

func writeRows(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "linkfind: create %s", path)
	}
	w := csv.NewWriter(f)

	if err := w.Write(rowHeader); err != nil {
		f.Close()
		return eris.Wrap(err, "linkfind: write header")
	}
	for _, r := range rows {
		rec := []string{r.ExternalID, r.Name, r.Location, r.LinkedInURL, r.MatchStatus, r.QueryUsed, r.CandidatesJSON}
		if err := w.Write(rec); err != nil {
			f.Close()
			return eris.Wrap(err, "linkfind: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return eris.Wrap(err, "linkfind: flush")
	}
	return eris.Wrapf(f.Close(), "linkfind: close %s", path)
}

// LoadCSVInputs reads enrichment inputs from a CSV with aliased
// headers, tolerating the column names of upstream exports.
func LoadCSVInputs(path string) ([]Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "linkfind: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "linkfind: read %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	get := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := idx[n]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	var inputs []Input
	for _, row := range rows[1:] {
		in := Input{
			ExternalID: get(row, "externalid", "external_id"),
			Name:       get(row, "name", "full_name", "short name"),
			Location:   get(row, "location"),
			Country:    get(row, "country"),
			Role:       get(row, "title", "headline"),
		}
		if in.Name == "" {
			first := get(row, "first name", "first_name", "first")
			last := get(row, "last name", "last_name", "last")
			in.Name = strings.TrimSpace(first + " " + last)
		}
		if in.Location == "" {
			var parts []string
			for _, v := range []string{get(row, "city"), get(row, "state"), get(row, "country")} {
				if v != "" {
					parts = append(parts, v)
				}
			}
			in.Location = strings.Join(parts, ", ")
		}
		if raw := get(row, "skills"); raw != "" {
			delim := ","
			if strings.Contains(raw, ";") {
				delim = ";"
			}
			for _, s := range strings.Split(raw, delim) {
				if s = strings.TrimSpace(s); s != "" {
					in.Skills = append(in.Skills, s)
				}
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

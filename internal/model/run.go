package model

import "time"

// RunStatus represents the current state of a resolution batch run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunCounters summarizes the outcome of a batch run.
type RunCounters struct {
	Processed  int `json:"processed"`
	Resolved   int `json:"resolved"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// Run is one ledger entry for a resolution batch.
type Run struct {
	ID        string      `json:"id"`
	Input     string      `json:"input"`
	Query     string      `json:"query,omitempty"`
	Status    RunStatus   `json:"status"`
	Counters  RunCounters `json:"counters"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

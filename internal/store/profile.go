// Package store persists canonical profile records (append-only NDJSON)
// and batch run metadata (SQLite or Postgres ledger).
package store

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/resolve"
)

// ProfileStore is an append-only NDJSON store of ProfileRecords keyed by
// canonical URL. Records are never updated or deleted; a record whose key
// is already present is silently dropped on Append. The seen set is
// authoritative for the whole process: it is loaded once at Open and
// updated under the same lock as every append, so duplicate resolutions
// within one batch are gated exactly like cross-run duplicates.
type ProfileStore struct {
	mu      sync.Mutex
	f       *os.File
	w       *bufio.Writer
	seen    map[string]bool
	records []model.ProfileRecord
}

// Open opens (or creates) the store file and loads existing records.
// Corrupt lines are skipped individually and logged; they never abort
// the load.
func Open(path string) (*ProfileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", path)
	}

	s := &ProfileStore{
		f:    f,
		seen: make(map[string]bool),
	}

	var skipped int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec model.ProfileRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			skipped++
			continue
		}
		key := resolve.CanonicalURL(rec.URL)
		if key == "" || s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.records = append(s.records, rec)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "store: scan %s", path)
	}
	if skipped > 0 {
		zap.L().Warn("store: skipped corrupt lines on load",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	// Position at end for appends.
	if _, err := f.Seek(0, 2); err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "store: seek end %s", path)
	}
	s.w = bufio.NewWriter(f)
	return s, nil
}

// HasSeen reports whether a record with this URL (canonicalized) is
// already persisted.
func (s *ProfileStore) HasSeen(rawURL string) bool {
	key := resolve.CanonicalURL(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key]
}

// Append persists a record as one NDJSON line and flushes it to disk
// immediately, so a crash after N appends loses nothing already written.
// The check-then-append is atomic under the store lock; a duplicate key
// returns (false, nil) without writing.
func (s *ProfileStore) Append(rec model.ProfileRecord) (bool, error) {
	key := resolve.CanonicalURL(rec.URL)
	if key == "" {
		return false, eris.Errorf("store: record has no usable url: %q", rec.URL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[key] {
		return false, nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return false, eris.Wrapf(err, "store: marshal record %s", key)
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return false, eris.Wrapf(err, "store: write record %s", key)
	}
	if err := s.w.Flush(); err != nil {
		return false, eris.Wrapf(err, "store: flush record %s", key)
	}
	if err := s.f.Sync(); err != nil {
		return false, eris.Wrapf(err, "store: sync record %s", key)
	}

	s.seen[key] = true
	s.records = append(s.records, rec)
	return true, nil
}

// Records returns a copy of the loaded and appended records in insertion
// order.
func (s *ProfileStore) Records() []model.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ProfileRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of distinct canonical keys in the store.
func (s *ProfileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Close flushes and closes the underlying file.
func (s *ProfileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return eris.Wrap(err, "store: flush on close")
	}
	return eris.Wrap(s.f.Close(), "store: close")
}

package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/signal"
	"github.com/sells-group/profile-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestRunner(t *testing.T) (*Runner, *store.ProfileStore, store.Ledger) {
	t.Helper()
	dir := t.TempDir()

	profiles, err := store.Open(filepath.Join(dir, "profiles.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { profiles.Close() }) //nolint:errcheck

	ledger, err := store.NewSQLite(filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() }) //nolint:errcheck
	require.NoError(t, ledger.Migrate(context.Background()))

	return NewRunner(nil, profiles, ledger, 2), profiles, ledger
}

func bundleFor(url, name string) signal.Bundle {
	return signal.Bundle{
		URL:           url,
		DOMCandidates: map[string][]string{"name": {name}},
	}
}

func TestRunner_Run(t *testing.T) {
	runner, profiles, ledger := newTestRunner(t)

	bundles := []signal.Bundle{
		bundleFor("https://www.upwork.com/freelancers/~01", "Jane Doe"),
		bundleFor("https://www.upwork.com/freelancers/~02", "Bob Smith"),
		// duplicate of the first, canonical key identical after stripping query
		bundleFor("https://www.upwork.com/freelancers/~01?ref=search", "Jane Doe"),
		{URL: ""}, // unusable, counted as failed
	}

	run, err := runner.Run(context.Background(), bundles, "bundles.jsonl", "market research")
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 4, run.Counters.Processed)
	assert.Equal(t, 2, run.Counters.Resolved)
	assert.Equal(t, 1, run.Counters.Duplicates)
	assert.Equal(t, 1, run.Counters.Failed)

	assert.Equal(t, 2, profiles.Len())

	// Ledger row was finalized with the same counters.
	got, err := ledger.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, run.Counters, got.Counters)
	assert.Equal(t, "market research", got.Query)
}

func TestRunner_NilLedger(t *testing.T) {
	profiles, err := store.Open(filepath.Join(t.TempDir(), "profiles.jsonl"))
	require.NoError(t, err)
	defer profiles.Close() //nolint:errcheck

	runner := NewRunner(nil, profiles, nil, 1)
	run, err := runner.Run(context.Background(), []signal.Bundle{
		bundleFor("https://www.upwork.com/freelancers/~01", "Jane Doe"),
	}, "inline", "")
	require.NoError(t, err)
	assert.Nil(t, run)
	assert.Equal(t, 1, profiles.Len())
}

func TestRunner_ResolveOne(t *testing.T) {
	profiles, err := store.Open(filepath.Join(t.TempDir(), "profiles.jsonl"))
	require.NoError(t, err)
	defer profiles.Close() //nolint:errcheck

	runner := NewRunner(nil, profiles, nil, 1)

	b := bundleFor("https://www.upwork.com/freelancers/~01", "Jane Doe")
	rec, appended, err := runner.ResolveOne(&b)
	require.NoError(t, err)
	assert.True(t, appended)
	require.NotNil(t, rec.Name)
	assert.Equal(t, "Jane Doe", *rec.Name)

	// Second resolution of the same page is a no-op append.
	rec, appended, err = runner.ResolveOne(&b)
	require.NoError(t, err)
	assert.False(t, appended)
	assert.Equal(t, "https://www.upwork.com/freelancers/~01", rec.URL)

	_, _, err = runner.ResolveOne(&signal.Bundle{URL: ""})
	assert.Error(t, err)
}

package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newMockLedger(t *testing.T) (pgxmock.PgxPoolIface, *PostgresLedger) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &PostgresLedger{pool: mock}
}

func TestPostgresLedger_Migrate(t *testing.T) {
	mock, l := newMockLedger(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, l.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_CreateRun(t *testing.T) {
	mock, l := newMockLedger(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), "bundles.jsonl", "market research", "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := l.CreateRun(context.Background(), "bundles.jsonl", "market research")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_CompleteRun(t *testing.T) {
	mock, l := newMockLedger(t)

	counters := model.RunCounters{Processed: 5, Resolved: 4, Duplicates: 1}
	countersJSON, err := json.Marshal(counters)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("complete", countersJSON, pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, l.CompleteRun(context.Background(), "run-1", model.RunStatusComplete, counters))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_CompleteRun_NotFound(t *testing.T) {
	mock, l := newMockLedger(t)

	mock.ExpectExec("UPDATE runs SET status").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := l.CompleteRun(context.Background(), "absent", model.RunStatusComplete, model.RunCounters{})
	assert.Error(t, err)
}

func TestPostgresLedger_GetRun(t *testing.T) {
	mock, l := newMockLedger(t)

	now := time.Now().UTC()
	countersJSON := []byte(`{"processed":3,"resolved":2,"duplicates":1,"failed":0}`)
	rows := pgxmock.NewRows([]string{"id", "input", "query", "status", "counters", "created_at", "updated_at"}).
		AddRow("run-1", "bundles.jsonl", "q", model.RunStatusComplete, countersJSON, now, now)

	mock.ExpectQuery("SELECT id, input, query, status, counters, created_at, updated_at FROM runs WHERE id").
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := l.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 3, run.Counters.Processed)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_ListRuns(t *testing.T) {
	mock, l := newMockLedger(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "input", "query", "status", "counters", "created_at", "updated_at"}).
		AddRow("run-1", "a.jsonl", "", model.RunStatusComplete, []byte(nil), now, now).
		AddRow("run-2", "b.jsonl", "", model.RunStatusComplete, []byte(nil), now, now)

	mock.ExpectQuery("SELECT id, input, query, status, counters, created_at, updated_at FROM runs").
		WithArgs("complete", 50).
		WillReturnRows(rows)

	runs, err := l.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete, Limit: 50})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

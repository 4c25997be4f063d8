package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLedger(t *testing.T, path string) *Ledger {
	t.Helper()
	l, err := OpenLedger(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerRecordAndEntries(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, filepath.Join(t.TempDir(), "ledger.db"))

	require.NoError(t, l.Record(ctx, Entry{SweepID: "a", Stage: StageGenerate, Filename: "one", Status: "ok", Duration: 3 * time.Millisecond}))
	require.NoError(t, l.Record(ctx, Entry{SweepID: "a", Stage: StageGenerate, Filename: "two", Status: "failed", Error: "gpr: input outside model range"}))
	require.NoError(t, l.Record(ctx, Entry{SweepID: "b", Stage: StageSolve, Filename: "one.in", Status: "ok"}))

	entries, err := l.Entries(ctx, "a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Filename)
	assert.Equal(t, 3*time.Millisecond, entries[0].Duration)
	assert.False(t, entries[0].RecordedAt.IsZero())
	assert.Equal(t, "gpr: input outside model range", entries[1].Error)
	assert.Empty(t, entries[0].Error)
}

func TestLedgerSummaries(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, filepath.Join(t.TempDir(), "ledger.db"))

	for _, status := range []string{"ok", "ok", "failed", "cancelled"} {
		require.NoError(t, l.Record(ctx, Entry{SweepID: "first", Stage: StageGenerate, Filename: "f", Status: status}))
	}
	require.NoError(t, l.Record(ctx, Entry{SweepID: "second", Stage: StageSolve, Filename: "f.in", Status: "failed"}))

	sums, err := l.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "second", sums[0].SweepID)
	assert.Equal(t, SweepSummary{SweepID: "first", Stage: StageGenerate, Started: sums[1].Started, OK: 2, Failed: 1, Total: 4}, sums[1])
	assert.False(t, sums[1].Started.IsZero())
}

func TestLedgerReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	l, err := OpenLedger(ctx, path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Entry{SweepID: "s", Stage: StageSolve, Filename: "x.in", Status: "ok"}))
	require.NoError(t, l.Close())

	l = openLedger(t, path)
	entries, err := l.Entries(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	var versions int
	require.NoError(t, l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestNewSweepID(t *testing.T) {
	at := time.Unix(0, 42)
	assert.Equal(t, "gpr_42", NewSweepID("gpr", at))
}

package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/papercheck/internal/apperr"
	"github.com/starford/papercheck/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "papercheck-history-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func run(id, path, cs string, verdict bool, at time.Time) models.Run {
	return models.Run{
		ID:       id,
		Path:     path,
		Checksum: cs,
		Report: models.Report{
			Path:    path,
			Verdict: verdict,
			Stats:   models.Stats{Paragraphs: 3, Characters: 120},
			Checks: []models.CheckResult{
				{Name: "abstract", Title: "Abstract", Status: models.StatusPass, Critical: true},
			},
		},
		CheckedAt: at,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&count))
	assert.Zero(t, count)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestRecordAndGet(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Record(run("r1", "paper.docx", "abc", true, base)))

	got, err := db.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "paper.docx", got.Path)
	assert.Equal(t, "abc", got.Checksum)
	assert.True(t, got.Report.Verdict)
	assert.Equal(t, 120, got.Report.Stats.Characters)
	require.Len(t, got.Report.Checks, 1)
	assert.Equal(t, models.StatusPass, got.Report.Checks[0].Status)
	assert.True(t, got.CheckedAt.Equal(base))
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Get("missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecord_DuplicateID(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Record(run("r1", "a.docx", "1", true, base)))
	assert.Error(t, db.Record(run("r1", "a.docx", "1", true, base)))
}

func TestList_NewestFirstWithFilter(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Record(run("r1", "a.docx", "1", true, base)))
	require.NoError(t, db.Record(run("r2", "b.docx", "2", false, base.Add(time.Minute))))
	require.NoError(t, db.Record(run("r3", "a.docx", "3", false, base.Add(2*time.Minute))))

	runs, total, err := db.List(10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	runs, total, err = db.List(1, 0, "a.docx")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, runs, 1)
	assert.Equal(t, "r3", runs[0].ID)

	runs, _, err = db.List(1, 1, "a.docx")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)
}

func TestList_Empty(t *testing.T) {
	db := testDB(t)
	runs, total, err := db.List(0, -5, "")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, runs)
}

func TestLatestChecksums(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Record(run("r1", "a.docx", "old", true, base)))
	require.NoError(t, db.Record(run("r2", "a.docx", "new", true, base.Add(time.Minute))))
	require.NoError(t, db.Record(run("r3", "b.docx", "only", true, base)))

	got, err := db.LatestChecksums()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.docx": "new", "b.docx": "only"}, got)
}

func TestPrune(t *testing.T) {
	db := testDB(t)
	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, db.Record(run(id, "a.docx", id, true, base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, db.Record(run("r4", "b.docx", "x", true, base)))

	n, err := db.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = db.Prune(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	runs, total, err := db.List(10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "r3", runs[0].ID)
}

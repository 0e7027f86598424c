package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/papercheck/internal/apperr"
	"github.com/starford/papercheck/internal/models"
)

// Record inserts a run.
func (db *DB) Record(run models.Run) error {
	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("history: encode report: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO runs (id, path, checksum, verdict, error, paragraphs, characters, report, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Path, run.Checksum, run.Report.Verdict, run.Report.Error,
		run.Report.Stats.Paragraphs, run.Report.Stats.Characters, string(report), run.CheckedAt.UTC())
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

// Get returns the run with the given id.
func (db *DB) Get(id string) (*models.Run, error) {
	row := db.conn.QueryRow(`SELECT id, path, checksum, report, checked_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run: %w", err)
	}
	return run, nil
}

// List returns runs newest first, optionally filtered by document path,
// together with the total number of matching runs.
func (db *DB) List(limit, offset int, path string) ([]models.Run, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if path != "" {
		where = "WHERE path = ?"
		args = append(args, path)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("history: count runs: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, path, checksum, report, checked_at
		FROM runs `+where+`
		ORDER BY checked_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	out := []models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("history: scan run: %w", err)
		}
		out = append(out, *run)
	}
	return out, total, rows.Err()
}

// LatestChecksums maps every recorded path to the checksum of its newest run.
func (db *DB) LatestChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`
		SELECT path, checksum FROM (
			SELECT path, checksum,
			       ROW_NUMBER() OVER (PARTITION BY path ORDER BY checked_at DESC, rowid DESC) AS rn
			FROM runs
		) WHERE rn = 1
	`)
	if err != nil {
		return nil, fmt.Errorf("history: latest checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Prune keeps the newest keep runs per path and deletes the rest.
// keep <= 0 disables pruning.
func (db *DB) Prune(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := db.conn.Exec(`
		DELETE FROM runs WHERE id IN (
			SELECT id FROM (
				SELECT id,
				       ROW_NUMBER() OVER (PARTITION BY path ORDER BY checked_at DESC, rowid DESC) AS rn
				FROM runs
			) WHERE rn > ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		run    models.Run
		report string
	)
	if err := s.Scan(&run.ID, &run.Path, &run.Checksum, &report, &run.CheckedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report), &run.Report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &run, nil
}

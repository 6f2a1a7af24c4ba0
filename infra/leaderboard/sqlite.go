// Package leaderboard keeps per (task, estimator, scorer) standings across
// benchmark runs in a SQLite database.
package leaderboard

import (
	"context"
	"database/sql"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/fcbench/core/report"
)

// Entry is the standing of an estimator on a task for one scorer. Lower
// scores are better.
type Entry struct {
	TaskID      string    `json:"validation_id"`
	EstimatorID string    `json:"model_id"`
	Scorer      string    `json:"scorer"`
	Runs        int       `json:"runs"`
	LastMean    float64   `json:"last_mean"`
	BestMean    float64   `json:"best_mean"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SQLiteStore persists leaderboard entries in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS leaderboard (
        validation_id TEXT,
        model_id TEXT,
        scorer TEXT,
        runs INTEGER,
        last_mean REAL,
        best_mean REAL,
        updated INTEGER,
        PRIMARY KEY(validation_id, model_id, scorer)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Update folds the successful rows of tbl into the standings. Rows with a
// NaN mean are skipped.
func (s *SQLiteStore) Update(ctx context.Context, tbl *report.Table, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, r := range tbl.Rows {
		if r.Err != "" {
			continue
		}
		for _, sc := range r.Scorers {
			mean := r.Summary[sc].Mean
			if math.IsNaN(mean) || math.IsInf(mean, 0) {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO leaderboard
                (validation_id, model_id, scorer, runs, last_mean, best_mean, updated)
                VALUES (?, ?, ?, 1, ?, ?, ?)
                ON CONFLICT(validation_id, model_id, scorer) DO UPDATE SET
                    runs = runs + 1,
                    last_mean = excluded.last_mean,
                    best_mean = MIN(best_mean, excluded.best_mean),
                    updated = excluded.updated`,
				r.TaskID, r.EstimatorID, sc, mean, mean, at.UnixNano()); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Standings returns the entries of a task and scorer ordered from best to
// worst. An empty task matches every task.
func (s *SQLiteStore) Standings(ctx context.Context, taskID, scorer string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT validation_id, model_id, scorer, runs, last_mean, best_mean, updated
        FROM leaderboard WHERE (? = '' OR validation_id = ?) AND scorer = ?
        ORDER BY validation_id, best_mean, model_id`,
		taskID, taskID, scorer)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.TaskID, &e.EstimatorID, &e.Scorer, &e.Runs, &e.LastMean, &e.BestMean, &ts); err != nil {
			return nil, err
		}
		e.UpdatedAt = time.Unix(0, ts).UTC()
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/run"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RunStore is a SQLite-backed implementation of run.Store.
type RunStore struct {
	db *sql.DB
}

// NewRunStore opens the database and creates the runs table if needed.
func NewRunStore(cfg Config, opts ...Option) (*RunStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &RunStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the runs table if it doesn't exist.
func (s *RunStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			status TEXT NOT NULL,
			error_kind TEXT NOT NULL DEFAULT '',
			data BLOB NOT NULL,
			start_time INTEGER NOT NULL,
			end_time INTEGER,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
		CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs(start_time);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Save persists a new record.
func (s *RunStore) Save(ctx context.Context, rec run.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rec.ID == "" {
		return run.ErrInvalidRunID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	var endTime sql.NullInt64
	if !rec.EndTime.IsZero() {
		endTime = sql.NullInt64{Int64: rec.EndTime.UnixNano(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, question, status, error_kind, data, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Question, string(rec.Status), string(rec.ErrorKind),
		data, rec.StartTime.UnixNano(), endTime, time.Now().UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return run.ErrRunExists
		}
		return errors.Join(run.ErrConnectionFailed, err)
	}

	return nil
}

// Get retrieves a record by run ID.
func (s *RunStore) Get(ctx context.Context, id string) (run.Record, error) {
	if err := ctx.Err(); err != nil {
		return run.Record{}, err
	}

	if id == "" {
		return run.Record{}, run.ErrInvalidRunID
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM runs WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return run.Record{}, run.ErrRunNotFound
	}
	if err != nil {
		return run.Record{}, errors.Join(run.ErrConnectionFailed, err)
	}

	var rec run.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return run.Record{}, err
	}
	return rec, nil
}

// Delete removes a record by run ID.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return run.ErrInvalidRunID
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return errors.Join(run.ErrConnectionFailed, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return run.ErrRunNotFound
	}

	return nil
}

// List returns records matching the filter, newest first.
func (s *RunStore) List(ctx context.Context, filter run.ListFilter) ([]run.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter, false)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(run.ErrConnectionFailed, err)
	}
	defer func() { _ = rows.Close() }()

	records := []run.Record{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var rec run.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue // Skip malformed entries
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of records matching the filter.
func (s *RunStore) Count(ctx context.Context, filter run.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	query, args := buildListQuery(filter, true)

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Join(run.ErrConnectionFailed, err)
	}
	return count, nil
}

// Summary returns aggregate statistics.
func (s *RunStore) Summary(ctx context.Context, filter run.ListFilter) (run.Summary, error) {
	if err := ctx.Err(); err != nil {
		return run.Summary{}, err
	}

	where, args := buildWhereClause(filter)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(CASE WHEN end_time IS NOT NULL THEN end_time - start_time ELSE NULL END), 0)
		FROM runs`
	if where != "" {
		query += " WHERE " + where
	}

	var (
		summary run.Summary
		avgNs   float64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&summary.TotalRuns,
		&summary.CompletedRuns,
		&summary.FailedRuns,
		&avgNs,
	)
	if err != nil {
		return run.Summary{}, errors.Join(run.ErrConnectionFailed, err)
	}
	summary.AverageDuration = time.Duration(avgNs)

	kindQuery := "SELECT error_kind, COUNT(*) FROM runs WHERE error_kind != ''"
	if where != "" {
		kindQuery += " AND " + where
	}
	kindQuery += " GROUP BY error_kind"

	rows, err := s.db.QueryContext(ctx, kindQuery, args...)
	if err != nil {
		return run.Summary{}, errors.Join(run.ErrConnectionFailed, err)
	}
	defer func() { _ = rows.Close() }()

	summary.ByErrorKind = make(map[agent.ErrorKind]int64)
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return run.Summary{}, err
		}
		summary.ByErrorKind[agent.ErrorKind(kind)] = count
	}

	return summary, rows.Err()
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// buildListQuery builds the SQL query for listing records.
func buildListQuery(filter run.ListFilter, countOnly bool) (string, []any) {
	query := "SELECT data FROM runs"
	if countOnly {
		query = "SELECT COUNT(*) FROM runs"
	}

	where, args := buildWhereClause(filter)
	if where != "" {
		query += " WHERE " + where
	}

	if !countOnly {
		query += " ORDER BY start_time DESC, id DESC"

		if filter.Limit > 0 || filter.Offset > 0 {
			limit := filter.Limit
			if limit <= 0 {
				limit = -1
			}
			query += " LIMIT ?"
			args = append(args, limit)
		}
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return query, args
}

// buildWhereClause builds the WHERE clause for filtering.
func buildWhereClause(filter run.ListFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.ErrorKinds) > 0 {
		placeholders := make([]string, len(filter.ErrorKinds))
		for i, kind := range filter.ErrorKinds {
			placeholders[i] = "?"
			args = append(args, string(kind))
		}
		conditions = append(conditions, "error_kind IN ("+strings.Join(placeholders, ", ")+")")
	}

	if !filter.FromTime.IsZero() {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.FromTime.UnixNano())
	}

	if !filter.ToTime.IsZero() {
		conditions = append(conditions, "start_time < ?")
		args = append(args, filter.ToTime.UnixNano())
	}

	if filter.QuestionPattern != "" {
		conditions = append(conditions, "question LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(filter.QuestionPattern)+"%")
	}

	return strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// isUniqueViolation reports whether err is a primary key conflict.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure RunStore implements run.Store and run.SummaryProvider
var (
	_ run.Store           = (*RunStore)(nil)
	_ run.SummaryProvider = (*RunStore)(nil)
)

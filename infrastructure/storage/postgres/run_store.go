package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/run"
)

const uniqueViolation = "23505"

const selectColumns = `id, question, status, answer, error_kind, error, iterations, completions, searches, start_time, end_time`

// RunStore is a PostgreSQL-backed implementation of run.Store.
type RunStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewRunStore creates a new PostgreSQL run store.
func NewRunStore(pool *pgxpool.Pool, schema string) *RunStore {
	if schema == "" {
		schema = "public"
	}
	return &RunStore{
		pool:   pool,
		schema: schema,
	}
}

// tableName returns the fully qualified table name.
func (s *RunStore) tableName() string {
	return fmt.Sprintf("%s.runs", s.schema)
}

// Migrate creates the runs table if it doesn't exist.
func (s *RunStore) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			status TEXT NOT NULL,
			answer TEXT NOT NULL DEFAULT '',
			error_kind TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			iterations INTEGER NOT NULL DEFAULT 0,
			completions INTEGER NOT NULL DEFAULT 0,
			searches INTEGER NOT NULL DEFAULT 0,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS runs_start_time_idx ON %[1]s (start_time DESC);
	`, s.tableName())

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return s.wrapError(err)
	}
	return nil
}

// Save persists a new record.
func (s *RunStore) Save(ctx context.Context, rec run.Record) error {
	if rec.ID == "" {
		return run.ErrInvalidRunID
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.tableName(), selectColumns)

	var endTime *time.Time
	if !rec.EndTime.IsZero() {
		endTime = &rec.EndTime
	}

	_, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.Question,
		string(rec.Status),
		rec.Answer,
		string(rec.ErrorKind),
		rec.Error,
		rec.Iterations,
		rec.Completions,
		rec.Searches,
		rec.StartTime,
		endTime,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return run.ErrRunExists
		}
		return s.wrapError(err)
	}

	return nil
}

// Get retrieves a record by run ID.
func (s *RunStore) Get(ctx context.Context, id string) (run.Record, error) {
	if id == "" {
		return run.Record{}, run.ErrInvalidRunID
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns, s.tableName())

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return run.Record{}, run.ErrRunNotFound
		}
		return run.Record{}, s.wrapError(err)
	}
	return rec, nil
}

// Delete removes a record by run ID.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return run.ErrInvalidRunID
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName())

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return s.wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return run.ErrRunNotFound
	}
	return nil
}

// List returns records matching the filter, newest first.
func (s *RunStore) List(ctx context.Context, filter run.ListFilter) ([]run.Record, error) {
	query, args := s.buildListQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	records := []run.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrapError(err)
	}
	return records, nil
}

// Count returns the number of records matching the filter.
func (s *RunStore) Count(ctx context.Context, filter run.ListFilter) (int64, error) {
	query, args := s.buildCountQuery(filter)

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, s.wrapError(err)
	}
	return count, nil
}

// Summary returns aggregate statistics.
func (s *RunStore) Summary(ctx context.Context, filter run.ListFilter) (run.Summary, error) {
	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(AVG(EXTRACT(EPOCH FROM (end_time - start_time)) * 1000000000) FILTER (WHERE end_time IS NOT NULL), 0)::float8
		FROM %s
		%s
	`, s.tableName(), whereClause)

	var (
		summary run.Summary
		avgNs   float64
	)
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&summary.TotalRuns,
		&summary.CompletedRuns,
		&summary.FailedRuns,
		&avgNs,
	)
	if err != nil {
		return run.Summary{}, s.wrapError(err)
	}
	summary.AverageDuration = time.Duration(avgNs)

	kindWhere := "WHERE error_kind <> ''"
	if whereClause != "" {
		kindWhere += " AND " + strings.TrimPrefix(whereClause, "WHERE ")
	}
	kindQuery := fmt.Sprintf(`SELECT error_kind, COUNT(*) FROM %s %s GROUP BY error_kind`, s.tableName(), kindWhere)

	rows, err := s.pool.Query(ctx, kindQuery, args...)
	if err != nil {
		return run.Summary{}, s.wrapError(err)
	}
	defer rows.Close()

	summary.ByErrorKind = make(map[agent.ErrorKind]int64)
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return run.Summary{}, s.wrapError(err)
		}
		summary.ByErrorKind[agent.ErrorKind(kind)] = count
	}

	return summary, rows.Err()
}

// buildListQuery constructs the SELECT query for listing records.
func (s *RunStore) buildListQuery(filter run.ListFilter) (string, []any) {
	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY start_time DESC, id DESC`,
		selectColumns, s.tableName(), whereClause)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

// buildCountQuery constructs the COUNT query.
func (s *RunStore) buildCountQuery(filter run.ListFilter) (string, []any) {
	whereClause, args := s.buildWhereClause(filter)
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, s.tableName(), whereClause), args
}

// buildWhereClause constructs the WHERE clause from filter.
func (s *RunStore) buildWhereClause(filter run.ListFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			statuses[i] = string(status)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	if len(filter.ErrorKinds) > 0 {
		kinds := make([]string, len(filter.ErrorKinds))
		for i, kind := range filter.ErrorKinds {
			kinds[i] = string(kind)
		}
		args = append(args, kinds)
		conditions = append(conditions, fmt.Sprintf("error_kind = ANY($%d)", len(args)))
	}

	if !filter.FromTime.IsZero() {
		args = append(args, filter.FromTime)
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)))
	}

	if !filter.ToTime.IsZero() {
		args = append(args, filter.ToTime)
		conditions = append(conditions, fmt.Sprintf("start_time < $%d", len(args)))
	}

	if filter.QuestionPattern != "" {
		args = append(args, "%"+filter.QuestionPattern+"%")
		conditions = append(conditions, fmt.Sprintf("question ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// scanRecord scans one row into a Record.
func scanRecord(row pgx.Row) (run.Record, error) {
	var (
		rec               run.Record
		status, errorKind string
		endTime           *time.Time
	)

	err := row.Scan(
		&rec.ID,
		&rec.Question,
		&status,
		&rec.Answer,
		&errorKind,
		&rec.Error,
		&rec.Iterations,
		&rec.Completions,
		&rec.Searches,
		&rec.StartTime,
		&endTime,
	)
	if err != nil {
		return run.Record{}, err
	}

	rec.Status = agent.RunStatus(status)
	rec.ErrorKind = agent.ErrorKind(errorKind)
	if endTime != nil {
		rec.EndTime = *endTime
	}
	return rec, nil
}

// wrapError wraps database errors with domain errors.
func (s *RunStore) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return errors.Join(run.ErrConnectionFailed, err)
}

// Ensure RunStore implements run.Store and run.SummaryProvider
var (
	_ run.Store           = (*RunStore)(nil)
	_ run.SummaryProvider = (*RunStore)(nil)
)

// Package run provides the domain interface for persisting run outcomes.
//
// Only the outcome of a run is stored. Transcripts belong to a single
// question and are discarded when it resolves.
package run

import (
	"context"
	"time"

	"github.com/felixgeelhaar/react-agent/domain/agent"
)

// Record is the persisted outcome of one run.
type Record struct {
	ID          string          `json:"id"`
	Question    string          `json:"question"`
	Status      agent.RunStatus `json:"status"`
	Answer      string          `json:"answer,omitempty"`
	ErrorKind   agent.ErrorKind `json:"error_kind,omitempty"`
	Error       string          `json:"error,omitempty"`
	Iterations  int             `json:"iterations"`
	Completions int             `json:"completions"`
	Searches    int             `json:"searches"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
}

// RecordFrom summarizes a run into its outcome record.
func RecordFrom(r *agent.Run) Record {
	return Record{
		ID:          r.ID,
		Question:    r.Question,
		Status:      r.Status,
		Answer:      r.Answer,
		ErrorKind:   r.ErrorKind,
		Error:       r.Error,
		Iterations:  r.Iterations,
		Completions: r.Completions,
		Searches:    r.Searches,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// Duration returns how long the run took.
func (r Record) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Store defines the interface for outcome persistence.
// Implementations may be in-memory, SQLite, PostgreSQL, or any other backend.
type Store interface {
	// Save persists a new record.
	Save(ctx context.Context, rec Record) error

	// Get retrieves a record by run ID.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record by run ID.
	Delete(ctx context.Context, id string) error

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Record, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

// ListFilter specifies criteria for listing records.
type ListFilter struct {
	// Status filters by run status (empty means all).
	Status []agent.RunStatus

	// ErrorKinds filters by failure kind (empty means all).
	ErrorKinds []agent.ErrorKind

	// FromTime filters runs started at or after this time.
	FromTime time.Time

	// ToTime filters runs started before this time.
	ToTime time.Time

	// QuestionPattern filters by question text (substring match).
	QuestionPattern string

	// Limit is the maximum number of records to return (0 = no limit).
	Limit int

	// Offset is the number of records to skip for pagination.
	Offset int
}

// Summary provides aggregate statistics about stored outcomes.
type Summary struct {
	TotalRuns       int64
	CompletedRuns   int64
	FailedRuns      int64
	ByErrorKind     map[agent.ErrorKind]int64
	AverageDuration time.Duration
}

// SummaryProvider is an optional interface for stores that support summaries.
type SummaryProvider interface {
	Summary(ctx context.Context, filter ListFilter) (Summary, error)
}

// Matches reports whether rec satisfies the filter's predicates.
// Limit and Offset are not considered.
func (f ListFilter) Matches(rec Record) bool {
	if len(f.Status) > 0 && !contains(f.Status, rec.Status) {
		return false
	}
	if len(f.ErrorKinds) > 0 && !contains(f.ErrorKinds, rec.ErrorKind) {
		return false
	}
	if !f.FromTime.IsZero() && rec.StartTime.Before(f.FromTime) {
		return false
	}
	if !f.ToTime.IsZero() && !rec.StartTime.Before(f.ToTime) {
		return false
	}
	if f.QuestionPattern != "" && !containsFold(rec.Question, f.QuestionPattern) {
		return false
	}
	return true
}

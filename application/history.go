package application

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/run"
)

// ErrNoRunStore indicates history was requested without a configured store.
var ErrNoRunStore = errors.New("no run store configured")

// HistoryService reads recorded run outcomes.
type HistoryService struct {
	store run.Store
}

// NewHistoryService creates a new history service.
func NewHistoryService(store run.Store) *HistoryService {
	return &HistoryService{
		store: store,
	}
}

// Recent returns the newest outcomes matching filter.
func (s *HistoryService) Recent(ctx context.Context, filter run.ListFilter) ([]run.Record, error) {
	if s.store == nil {
		return nil, ErrNoRunStore
	}
	return s.store.List(ctx, filter)
}

// Get returns one outcome by run ID.
func (s *HistoryService) Get(ctx context.Context, id string) (run.Record, error) {
	if s.store == nil {
		return run.Record{}, ErrNoRunStore
	}
	return s.store.Get(ctx, id)
}

// Count returns how many outcomes match filter, ignoring its limit.
func (s *HistoryService) Count(ctx context.Context, filter run.ListFilter) (int64, error) {
	if s.store == nil {
		return 0, ErrNoRunStore
	}
	filter.Limit, filter.Offset = 0, 0
	return s.store.Count(ctx, filter)
}

// Delete removes one outcome by run ID.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoRunStore
	}
	return s.store.Delete(ctx, id)
}

// Summary aggregates the outcomes matching filter. Stores without native
// aggregation are summarized from their listing.
func (s *HistoryService) Summary(ctx context.Context, filter run.ListFilter) (run.Summary, error) {
	if s.store == nil {
		return run.Summary{}, ErrNoRunStore
	}
	if sp, ok := s.store.(run.SummaryProvider); ok {
		return sp.Summary(ctx, filter)
	}

	filter.Limit, filter.Offset = 0, 0
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return run.Summary{}, err
	}
	return summarize(records), nil
}

func summarize(records []run.Record) run.Summary {
	summary := run.Summary{
		ByErrorKind: make(map[agent.ErrorKind]int64),
	}
	var total time.Duration
	for _, rec := range records {
		summary.TotalRuns++
		switch rec.Status {
		case agent.RunStatusCompleted:
			summary.CompletedRuns++
		case agent.RunStatusFailed:
			summary.FailedRuns++
		}
		if rec.ErrorKind != "" {
			summary.ByErrorKind[rec.ErrorKind]++
		}
		total += rec.Duration()
	}
	if summary.TotalRuns > 0 {
		summary.AverageDuration = total / time.Duration(summary.TotalRuns)
	}
	return summary
}

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	demand "heatdemand/internal/demand/domain"
)

// RunRepository keeps runs in memory for the CLI and tests.
type RunRepository struct {
	mu   sync.RWMutex
	data map[string]*demand.Run
}

// NewRunRepository constructs a repository.
func NewRunRepository() *RunRepository {
	return &RunRepository{
		data: make(map[string]*demand.Run),
	}
}

// Save stores a run, replacing one with the same id.
func (r *RunRepository) Save(ctx context.Context, run *demand.Run) error {
	_ = ctx
	if run == nil {
		return errors.New("memory run repo: nil run")
	}
	if run.ID == "" {
		return errors.New("memory run repo: empty run id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[run.ID] = run
	return nil
}

// Get loads a run by id.
func (r *RunRepository) Get(ctx context.Context, id string) (*demand.Run, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	run := r.data[id]
	if run == nil {
		return nil, demand.ErrRunNotFound
	}
	return run, nil
}

// List returns run summaries, newest first.
func (r *RunRepository) List(ctx context.Context) ([]demand.RunSummary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]demand.RunSummary, 0, len(r.data))
	for _, run := range r.data {
		result = append(result, run.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].GeneratedAt.Equal(result[j].GeneratedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].GeneratedAt.After(result[j].GeneratedAt)
	})
	return result, nil
}

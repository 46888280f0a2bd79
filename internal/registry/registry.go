// Package registry is the process-wide store of execution records. State is
// process-lifetime only: records do not survive a restart, by design. The
// registry is an explicitly constructed instance handed to the service layer
// at composition time; there is no ambient global.
package registry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/opencatalog/researchd/internal/domain"
)

// Registry maps execution ids to records. All operations on a given id are
// linearizable: readers never observe a torn event list, and every read
// returns a copy. Contention is low: one writer per execution interleaved
// with any number of stream readers.
type Registry struct {
	mu         sync.RWMutex
	executions map[string]*domain.Execution
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		executions: make(map[string]*domain.Execution),
	}
}

// Create registers a new execution in running status.
func (r *Registry) Create(id, subjectKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions[id] = &domain.Execution{
		ID:         id,
		SubjectKey: subjectKey,
		Status:     domain.StatusRunning,
		StartedAt:  time.Now(),
	}
}

// Append appends an event to an execution's event list. Unknown ids are
// ignored: the record may already have been swept.
func (r *Registry) Append(id string, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exec, ok := r.executions[id]
	if !ok {
		return
	}
	exec.Events = append(exec.Events, event)
}

// Finalize moves an execution out of running status. The first finalize
// wins: calls against an already-terminal record change nothing and return
// false. Exactly one of result/errMsg should be set, matching the status.
func (r *Registry) Finalize(id string, status domain.ExecutionStatus, result json.RawMessage, errMsg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	exec, ok := r.executions[id]
	if !ok || exec.Status != domain.StatusRunning {
		return false
	}
	exec.Status = status
	exec.Result = result
	exec.Error = errMsg
	now := time.Now()
	exec.EndedAt = &now
	return true
}

// Snapshot returns a copy of the execution record. The events slice is
// copied; individual events are immutable once appended, so a shallow copy
// of each element is sufficient.
func (r *Registry) Snapshot(id string) (domain.Execution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executions[id]
	if !ok {
		return domain.Execution{}, false
	}
	snap := *exec
	snap.Events = make([]domain.Event, len(exec.Events))
	copy(snap.Events, exec.Events)
	return snap, true
}

// Status returns the execution's current status without copying events.
func (r *Registry) Status(id string) (domain.ExecutionStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executions[id]
	if !ok {
		return "", false
	}
	return exec.Status, true
}

// EventsSince returns a copy of the events at index >= from. The second
// return is false when the id is unknown.
func (r *Registry) EventsSince(id string, from int) ([]domain.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executions[id]
	if !ok {
		return nil, false
	}
	if from >= len(exec.Events) {
		return nil, true
	}
	events := make([]domain.Event, len(exec.Events)-from)
	copy(events, exec.Events[from:])
	return events, true
}

// Sweep removes terminal records that ended more than maxAge ago, bounding
// memory for long-lived processes. Running records are never removed.
// Returns the number of records removed.
func (r *Registry) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, exec := range r.executions {
		if exec.Status.Terminal() && exec.EndedAt != nil && exec.EndedAt.Before(cutoff) {
			delete(r.executions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps on a fixed interval until ctx is cancelled. Run it as a
// goroutine from the composition root.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxAge)
		}
	}
}

// Len returns the number of records currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.executions)
}

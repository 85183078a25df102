// Package tasks owns the current page of task records, the active record,
// and the filter/sort/pagination state driving the next fetch. Every
// mutation re-fetches the list rather than patching it locally, so the
// store only ever holds server-confirmed state.
package tasks

import (
	"context"
	"errors"
	"sync"

	"taskman/internal/api"
	"taskman/internal/model"
)

// Client is the slice of the API client the task store needs.
type Client interface {
	List(ctx context.Context, params model.FilterParams) (model.TaskPage, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Create(ctx context.Context, in model.CreateTaskInput) (model.Task, error)
	Update(ctx context.Context, id string, in model.UpdateTaskInput) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// Result is the discriminated outcome of a store operation. FieldErrors is
// populated only for validation failures, one message per field (first
// message wins).
type Result struct {
	Success     bool
	Error       string
	FieldErrors map[string]string
	Task        *model.Task
	Message     string
}

// State is a point-in-time snapshot of the collection.
type State struct {
	Tasks   []model.Task
	Current *model.Task
	Meta    model.Meta
	Links   model.Links
	Filters model.FilterParams
	Loading bool
	Err     string
}

// Store is the process-wide task collection store. Single-writer: state is
// mutated only inside its own operations. Two concurrent mutations both
// trigger independent re-fetches; the last response to arrive wins.
type Store struct {
	client     Client
	convention api.Convention

	mu    sync.Mutex
	state State

	subMu sync.Mutex
	subs  []func()
}

// New creates the task store with default filter state.
func New(client Client, conv api.Convention) *Store {
	return &Store{
		client:     client,
		convention: conv,
		state:      State{Filters: model.DefaultFilters()},
	}
}

// Subscribe registers fn to run after every state change.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Snapshot returns a copy of the current collection state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Tasks = make([]model.Task, len(s.state.Tasks))
	copy(st.Tasks, s.state.Tasks)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	return st
}

// Filters returns the current filter state.
func (s *Store) Filters() model.FilterParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filters
}

// SetFilters shallow-merges newFilters onto the current filter state. It
// does not trigger a fetch; the merged state drives the next one.
func (s *Store) SetFilters(newFilters model.FilterParams) {
	s.mu.Lock()
	s.state.Filters = s.state.Filters.Merge(newFilters)
	s.mu.Unlock()
	s.notify()
}

// ResetFilters restores the fixed default filter state. Idempotent.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.state.Filters = model.DefaultFilters()
	s.mu.Unlock()
	s.notify()
}

// FetchTasks lists tasks using the current filters with overrides applied
// on top. The merge is request-scoped: overrides are not written back to
// the filter state. On success tasks, meta and links are overwritten
// wholesale.
func (s *Store) FetchTasks(ctx context.Context, overrides model.FilterParams) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	params := s.state.Filters.Merge(overrides)
	s.mu.Unlock()

	page, err := s.client.List(ctx, params)
	if err != nil {
		msg := failureMessage(err, "Failed to fetch tasks")
		s.setError(msg)
		return Result{Success: false, Error: msg}
	}

	s.mu.Lock()
	s.state.Tasks = page.Tasks
	s.state.Meta = page.Meta
	s.state.Links = page.Links
	s.state.Err = ""
	s.mu.Unlock()
	s.notify()
	return Result{Success: true}
}

// FetchTask loads a single task into the active-record slot.
func (s *Store) FetchTask(ctx context.Context, id string) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	task, err := s.client.Get(ctx, id)
	if err != nil {
		msg := failureMessage(err, "Failed to fetch task")
		s.setError(msg)
		return Result{Success: false, Error: msg}
	}

	s.mu.Lock()
	s.state.Current = &task
	s.state.Err = ""
	s.mu.Unlock()
	s.notify()
	return Result{Success: true, Task: &task}
}

// CreateTask creates a task, then re-fetches the list with the store's
// current filter state so the page reflects server truth, pagination shifts
// included.
func (s *Store) CreateTask(ctx context.Context, in model.CreateTaskInput) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	task, err := s.client.Create(ctx, in)
	if err != nil {
		return s.mutationFailure(err, "Failed to create task")
	}

	s.refetch(ctx)
	return Result{Success: true, Task: &task}
}

// UpdateTask applies a partial update, then re-fetches the list.
func (s *Store) UpdateTask(ctx context.Context, id string, in model.UpdateTaskInput) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	task, err := s.client.Update(ctx, id, in)
	if err != nil {
		return s.mutationFailure(err, "Failed to update task")
	}

	s.refetch(ctx)
	return Result{Success: true, Task: &task}
}

// DeleteTask deletes a task, then re-fetches the list.
func (s *Store) DeleteTask(ctx context.Context, id string) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.Delete(ctx, id); err != nil {
		msg := failureMessage(err, "Failed to delete task")
		s.setError(msg)
		return Result{Success: false, Error: msg}
	}

	s.refetch(ctx)
	return Result{Success: true, Message: "Task deleted"}
}

// refetch runs the post-mutation list refresh with no overrides, using
// whatever filter state is currently set.
func (s *Store) refetch(ctx context.Context) {
	s.mu.Lock()
	params := s.state.Filters
	s.mu.Unlock()

	page, err := s.client.List(ctx, params)
	if err != nil {
		s.setError(failureMessage(err, "Failed to fetch tasks"))
		return
	}

	s.mu.Lock()
	s.state.Tasks = page.Tasks
	s.state.Meta = page.Meta
	s.state.Links = page.Links
	s.state.Err = ""
	s.mu.Unlock()
	s.notify()
}

// mutationFailure classifies a create/update failure. Validation failures
// yield a field -> message map; everything else reduces to one string.
func (s *Store) mutationFailure(err error, fallback string) Result {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.IsValidation(s.convention) {
		if fieldErrs := flattenFieldErrors(apiErr.Body); len(fieldErrs) > 0 {
			s.setError("Validation failed")
			return Result{Success: false, Error: "Validation failed", FieldErrors: fieldErrs}
		}
		msg := apiErr.Body.Message
		if msg == "" {
			msg = "Validation failed"
		}
		s.setError(msg)
		return Result{Success: false, Error: msg}
	}

	msg := failureMessage(err, fallback)
	s.setError(msg)
	return Result{Success: false, Error: msg}
}

// flattenFieldErrors reduces either validation-error shape to one message
// per field. The first message wins when a field carries several.
func flattenFieldErrors(body api.ErrorBody) map[string]string {
	out := make(map[string]string)
	for _, fe := range body.List {
		if fe.Path == "" {
			continue
		}
		if _, ok := out[fe.Path]; !ok {
			out[fe.Path] = fe.Msg
		}
	}
	for field, msgs := range body.Fields {
		if len(msgs) == 0 {
			continue
		}
		if _, ok := out[field]; !ok {
			out[field] = msgs[0]
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// failureMessage extracts the backend message from a non-validation
// failure, falling back to an action-specific default.
func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Body.Message != "" {
			return apiErr.Body.Message
		}
		return fallback
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.state.Loading = v
	if v {
		s.state.Err = ""
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.state.Err = msg
	s.mu.Unlock()
	s.notify()
}

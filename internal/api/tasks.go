package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"taskman/internal/model"
)

// TasksAPI groups the task CRUD endpoints.
type TasksAPI struct {
	c *Client
}

type taskListEnvelope struct {
	Success bool         `json:"success"`
	Data    []model.Task `json:"data"`
	Meta    model.Meta   `json:"meta"`
	Links   model.Links  `json:"links"`
}

type taskEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    model.Task `json:"data"`
}

// List fetches one page of tasks for the given filter state.
func (t *TasksAPI) List(ctx context.Context, params model.FilterParams) (model.TaskPage, error) {
	var env taskListEnvelope
	err := t.c.do(ctx, http.MethodGet, "/tasks", encodeFilters(params), nil, &env)
	if err != nil {
		return model.TaskPage{}, err
	}
	return model.TaskPage{Tasks: env.Data, Meta: env.Meta, Links: env.Links}, nil
}

// Get fetches a single task by ID.
func (t *TasksAPI) Get(ctx context.Context, id string) (model.Task, error) {
	var env taskEnvelope
	err := t.c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &env)
	if err != nil {
		return model.Task{}, err
	}
	return env.Data, nil
}

// Create creates a task.
func (t *TasksAPI) Create(ctx context.Context, in model.CreateTaskInput) (model.Task, error) {
	var env taskEnvelope
	err := t.c.do(ctx, http.MethodPost, "/tasks", nil, in, &env)
	if err != nil {
		return model.Task{}, err
	}
	return env.Data, nil
}

// Update applies a partial update to a task.
func (t *TasksAPI) Update(ctx context.Context, id string, in model.UpdateTaskInput) (model.Task, error) {
	var env taskEnvelope
	err := t.c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), nil, in, &env)
	if err != nil {
		return model.Task{}, err
	}
	return env.Data, nil
}

// Delete deletes a task.
func (t *TasksAPI) Delete(ctx context.Context, id string) error {
	return t.c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// encodeFilters builds the list query string. Unset filters are omitted;
// sort and pagination fields are sent whenever present.
func encodeFilters(p model.FilterParams) url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Priority != "" {
		q.Set("priority", string(p.Priority))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.DueDateFrom != "" {
		q.Set("due_date_from", p.DueDateFrom)
	}
	if p.DueDateTo != "" {
		q.Set("due_date_to", p.DueDateTo)
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sort_order", p.SortOrder)
	}
	if p.PerPage != 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Page != 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q
}

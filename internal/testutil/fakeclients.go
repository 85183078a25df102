// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskman/internal/model"
)

// FakeAuthClient is an in-memory session.AuthClient for testing.
type FakeAuthClient struct {
	Payload model.AuthPayload
	User    model.User

	// Error injection for testing
	LoginErr    error
	RegisterErr error
	LogoutErr   error
	MeErr       error

	// Call counters
	LogoutCalls int
}

// NewFakeAuthClient creates a fake auth client returning a fixed payload.
func NewFakeAuthClient() *FakeAuthClient {
	user := model.User{ID: "u1", Name: "Test User", Email: "test@example.com", Role: "user"}
	return &FakeAuthClient{
		Payload: model.AuthPayload{Token: "tok-123", User: user},
		User:    user,
	}
}

func (f *FakeAuthClient) Login(ctx context.Context, creds model.Credentials) (model.AuthPayload, error) {
	if f.LoginErr != nil {
		return model.AuthPayload{}, f.LoginErr
	}
	return f.Payload, nil
}

func (f *FakeAuthClient) Register(ctx context.Context, in model.RegisterInput) (model.AuthPayload, error) {
	if f.RegisterErr != nil {
		return model.AuthPayload{}, f.RegisterErr
	}
	return f.Payload, nil
}

func (f *FakeAuthClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *FakeAuthClient) Me(ctx context.Context) (model.User, error) {
	if f.MeErr != nil {
		return model.User{}, f.MeErr
	}
	return f.User, nil
}

// FakeTasksClient is an in-memory tasks.Client for testing. List serves the
// stored tasks without applying filters; the params of every List call are
// recorded so tests can assert what the store asked for.
type FakeTasksClient struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int

	// ListCalls records the params of every List invocation in order.
	ListCalls []model.FilterParams

	// Error injection for testing
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeTasksClient creates an empty fake tasks client.
func NewFakeTasksClient() *FakeTasksClient {
	return &FakeTasksClient{nextID: 1}
}

// AddTask seeds a task.
func (f *FakeTasksClient) AddTask(task model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeTasksClient) Tasks() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeTasksClient) List(ctx context.Context, params model.FilterParams) (model.TaskPage, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, params)
	f.mu.Unlock()
	if f.ListErr != nil {
		return model.TaskPage{}, f.ListErr
	}

	tasks := f.Tasks()
	perPage := params.PerPage
	if perPage == 0 {
		perPage = 10
	}
	lastPage := (len(tasks) + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}
	meta := model.Meta{
		CurrentPage: params.Page,
		From:        1,
		To:          len(tasks),
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       len(tasks),
	}
	return model.TaskPage{Tasks: tasks, Meta: meta}, nil
}

func (f *FakeTasksClient) Get(ctx context.Context, id string) (model.Task, error) {
	if f.GetErr != nil {
		return model.Task{}, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("task not found: %s", id)
}

func (f *FakeTasksClient) Create(ctx context.Context, in model.CreateTaskInput) (model.Task, error) {
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task := model.Task{
		ID:          fmt.Sprintf("t%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *FakeTasksClient) Update(ctx context.Context, id string, in model.UpdateTaskInput) (model.Task, error) {
	if f.UpdateErr != nil {
		return model.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Status != nil {
			t.Status = *in.Status
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = *in.DueDate
		}
		f.tasks[i] = t
		return t, nil
	}
	return model.Task{}, fmt.Errorf("task not found: %s", id)
}

func (f *FakeTasksClient) Delete(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task not found: %s", id)
}

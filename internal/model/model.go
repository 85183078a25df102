// Package model defines the wire-level entities shared by the API client
// and the stores.
package model

import "encoding/json"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is one of the known task priorities.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// User is the authenticated account snapshot. Immutable from the client's
// point of view; there is no update-profile operation.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts the primary key under either "id" or the
// Mongo-backed convention's "_id". When both are present "_id" wins.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.MongoID != "" {
		u.ID = aux.MongoID
	}
	return nil
}

// Task is a single task record. IDs are opaque strings.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"due_date"` // YYYY-MM-DD
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts the primary key under either "id" or the
// Mongo-backed convention's "_id". When both are present "_id" wins.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.MongoID != "" {
		t.ID = aux.MongoID
	}
	return nil
}

// Credentials are the inputs for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput are the inputs for account registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload is the token plus user returned by login and register.
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateTaskInput is the body for task creation.
type CreateTaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"due_date"`
}

// UpdateTaskInput is the body for a partial task update. Nil fields are
// omitted from the request.
type UpdateTaskInput struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *string       `json:"due_date,omitempty"`
}

// SortableFields are the server-side sort keys accepted for task listings.
var SortableFields = []string{"createdAt", "updatedAt", "due_date", "title", "description", "priority", "status"}

// ValidSortField reports whether f is an accepted sort key.
func ValidSortField(f string) bool {
	for _, s := range SortableFields {
		if s == f {
			return true
		}
	}
	return false
}

// FilterParams is the query state for a task listing. Zero values mean the
// filter is not applied.
type FilterParams struct {
	Status      TaskStatus
	Priority    TaskPriority
	Search      string
	DueDateFrom string // YYYY-MM-DD
	DueDateTo   string // YYYY-MM-DD
	SortBy      string
	SortOrder   string // "asc" or "desc"
	PerPage     int
	Page        int
}

// DefaultFilters returns the fixed default filter state: no filters, newest
// first, ten per page, page one.
func DefaultFilters() FilterParams {
	return FilterParams{
		SortBy:    "createdAt",
		SortOrder: "desc",
		PerPage:   10,
		Page:      1,
	}
}

// Merge returns f with every non-zero field of overrides applied on top.
func (f FilterParams) Merge(overrides FilterParams) FilterParams {
	merged := f
	if overrides.Status != "" {
		merged.Status = overrides.Status
	}
	if overrides.Priority != "" {
		merged.Priority = overrides.Priority
	}
	if overrides.Search != "" {
		merged.Search = overrides.Search
	}
	if overrides.DueDateFrom != "" {
		merged.DueDateFrom = overrides.DueDateFrom
	}
	if overrides.DueDateTo != "" {
		merged.DueDateTo = overrides.DueDateTo
	}
	if overrides.SortBy != "" {
		merged.SortBy = overrides.SortBy
	}
	if overrides.SortOrder != "" {
		merged.SortOrder = overrides.SortOrder
	}
	if overrides.PerPage != 0 {
		merged.PerPage = overrides.PerPage
	}
	if overrides.Page != 0 {
		merged.Page = overrides.Page
	}
	return merged
}

// Meta is the server-derived pagination block, overwritten wholesale on
// every successful list fetch.
type Meta struct {
	CurrentPage int `json:"current_page"`
	From        int `json:"from"`
	To          int `json:"to"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Links holds the server-derived page links.
type Links struct {
	First *int `json:"first"`
	Prev  *int `json:"prev"`
	Next  *int `json:"next"`
	Last  *int `json:"last"`
}

// TaskPage is one page of tasks plus its pagination blocks.
type TaskPage struct {
	Tasks []Task
	Meta  Meta
	Links Links
}

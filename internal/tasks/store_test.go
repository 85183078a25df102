package tasks_test

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"taskman/internal/api"
	"taskman/internal/model"
	"taskman/internal/tasks"
	"taskman/internal/testutil"
)

func seedTask(fc *testutil.FakeTasksClient, id, title string) {
	fc.AddTask(model.Task{
		ID:       id,
		Title:    title,
		Status:   model.StatusPending,
		Priority: model.PriorityMedium,
	})
}

func TestFetchTasks_UsesDefaultFilters(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	seedTask(fc, "t1", "Buy milk")
	store := tasks.New(fc, api.ConventionExpress)

	res := store.FetchTasks(context.Background(), model.FilterParams{})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}

	if len(fc.ListCalls) != 1 {
		t.Fatalf("expected one list call, got %d", len(fc.ListCalls))
	}
	if !reflect.DeepEqual(fc.ListCalls[0], model.DefaultFilters()) {
		t.Errorf("expected default filters, got %+v", fc.ListCalls[0])
	}

	state := store.Snapshot()
	if len(state.Tasks) != 1 || state.Tasks[0].ID != "t1" {
		t.Errorf("unexpected tasks: %+v", state.Tasks)
	}
	if state.Meta.Total != 1 {
		t.Errorf("expected meta overwritten, got %+v", state.Meta)
	}
}

func TestFetchTasks_OverridesAreRequestScoped(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	store := tasks.New(fc, api.ConventionExpress)

	overrides := model.FilterParams{Status: model.StatusCompleted, Page: 3}
	store.FetchTasks(context.Background(), overrides)

	sent := fc.ListCalls[0]
	if sent.Status != model.StatusCompleted || sent.Page != 3 {
		t.Errorf("expected overrides applied to request, got %+v", sent)
	}
	if sent.SortBy != "createdAt" || sent.PerPage != 10 {
		t.Errorf("expected unset overrides filled from current filters, got %+v", sent)
	}

	// The merge must not leak back into the persistent filter state.
	if got := store.Filters(); !reflect.DeepEqual(got, model.DefaultFilters()) {
		t.Errorf("expected filter state unchanged, got %+v", got)
	}

	store.FetchTasks(context.Background(), model.FilterParams{})
	if !reflect.DeepEqual(fc.ListCalls[1], model.DefaultFilters()) {
		t.Errorf("expected next fetch to use default filters, got %+v", fc.ListCalls[1])
	}
}

func TestFetchTasks_OverwritesWholesale(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	seedTask(fc, "t1", "one")
	seedTask(fc, "t2", "two")
	store := tasks.New(fc, api.ConventionExpress)

	store.FetchTasks(context.Background(), model.FilterParams{})
	if len(store.Snapshot().Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(store.Snapshot().Tasks))
	}

	fc.Delete(context.Background(), "t1")
	fc.ListCalls = nil
	store.FetchTasks(context.Background(), model.FilterParams{})

	state := store.Snapshot()
	if len(state.Tasks) != 1 || state.Tasks[0].ID != "t2" {
		t.Errorf("expected wholesale overwrite, got %+v", state.Tasks)
	}
}

func TestFetchTasks_FailureSetsErrorAndClearsLoading(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	fc.ListErr = &api.Error{StatusCode: http.StatusInternalServerError, Body: api.ErrorBody{Message: "boom"}}
	store := tasks.New(fc, api.ConventionExpress)

	res := store.FetchTasks(context.Background(), model.FilterParams{})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "boom" {
		t.Errorf("expected backend message, got %q", res.Error)
	}

	state := store.Snapshot()
	if state.Loading {
		t.Error("expected loading flag cleared after failure")
	}
	if state.Err != "boom" {
		t.Errorf("expected error recorded in state, got %q", state.Err)
	}
}

func TestFetchTask_SetsCurrent(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	seedTask(fc, "t7", "active record")
	store := tasks.New(fc, api.ConventionExpress)

	res := store.FetchTask(context.Background(), "t7")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	state := store.Snapshot()
	if state.Current == nil || state.Current.ID != "t7" {
		t.Errorf("expected current task t7, got %+v", state.Current)
	}
}

func TestCreateTask_RefetchesWithCurrentFilters(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	store := tasks.New(fc, api.ConventionExpress)
	store.SetFilters(model.FilterParams{Status: model.StatusPending, Search: "report"})

	res := store.CreateTask(context.Background(), model.CreateTaskInput{
		Title:    "Write report",
		Status:   model.StatusPending,
		Priority: model.PriorityHigh,
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Task == nil || res.Task.Title != "Write report" {
		t.Errorf("expected created task returned, got %+v", res.Task)
	}

	if len(fc.ListCalls) != 1 {
		t.Fatalf("expected one re-fetch after create, got %d", len(fc.ListCalls))
	}
	want := model.DefaultFilters().Merge(model.FilterParams{Status: model.StatusPending, Search: "report"})
	if !reflect.DeepEqual(fc.ListCalls[0], want) {
		t.Errorf("expected re-fetch with current filter state %+v, got %+v", want, fc.ListCalls[0])
	}
}

func TestUpdateTask_Refetches(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	seedTask(fc, "t1", "old title")
	store := tasks.New(fc, api.ConventionExpress)

	title := "new title"
	res := store.UpdateTask(context.Background(), "t1", model.UpdateTaskInput{Title: &title})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if len(fc.ListCalls) != 1 {
		t.Fatalf("expected one re-fetch after update, got %d", len(fc.ListCalls))
	}
	if !reflect.DeepEqual(fc.ListCalls[0], model.DefaultFilters()) {
		t.Errorf("expected re-fetch with current filters, got %+v", fc.ListCalls[0])
	}
}

func TestDeleteTask_Refetches(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	seedTask(fc, "t1", "doomed")
	store := tasks.New(fc, api.ConventionExpress)

	res := store.DeleteTask(context.Background(), "t1")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if len(fc.ListCalls) != 1 {
		t.Fatalf("expected one re-fetch after delete, got %d", len(fc.ListCalls))
	}
	if len(store.Snapshot().Tasks) != 0 {
		t.Errorf("expected empty page after delete, got %+v", store.Snapshot().Tasks)
	}
}

func TestCreateTask_ValidationErrorsListConvention(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	fc.CreateErr = &api.Error{StatusCode: 400, Body: api.ErrorBody{
		List: []api.FieldError{{Path: "title", Msg: "required"}},
	}}
	store := tasks.New(fc, api.ConventionExpress)

	res := store.CreateTask(context.Background(), model.CreateTaskInput{})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "Validation failed" {
		t.Errorf("expected Validation failed, got %q", res.Error)
	}
	if !reflect.DeepEqual(res.FieldErrors, map[string]string{"title": "required"}) {
		t.Errorf("unexpected field errors: %+v", res.FieldErrors)
	}
	if len(fc.ListCalls) != 0 {
		t.Error("expected no re-fetch after failed create")
	}
}

func TestCreateTask_ValidationErrorsFieldMapFirstWins(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	fc.CreateErr = &api.Error{StatusCode: 422, Body: api.ErrorBody{
		Fields: map[string][]string{"title": {"required", "too short"}},
	}}
	store := tasks.New(fc, api.ConventionLaravel)

	res := store.CreateTask(context.Background(), model.CreateTaskInput{})
	if res.Success {
		t.Fatal("expected failure")
	}
	if got := res.FieldErrors["title"]; got != "required" {
		t.Errorf("expected first message to win, got %q", got)
	}
}

func TestCreateTask_NonValidationFailure(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	fc.CreateErr = &api.Error{StatusCode: 500}
	store := tasks.New(fc, api.ConventionExpress)

	res := store.CreateTask(context.Background(), model.CreateTaskInput{Title: "x"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "Failed to create task" {
		t.Errorf("expected generic failure message, got %q", res.Error)
	}
	if res.FieldErrors != nil {
		t.Errorf("expected no field errors, got %+v", res.FieldErrors)
	}
}

func TestDeleteTask_FailureMessage(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	fc.DeleteErr = errors.New("request failed: connection refused")
	store := tasks.New(fc, api.ConventionExpress)

	res := store.DeleteTask(context.Background(), "t1")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "request failed: connection refused" {
		t.Errorf("expected transport error text, got %q", res.Error)
	}
}

func TestSetFilters_ShallowMerge(t *testing.T) {
	store := tasks.New(testutil.NewFakeTasksClient(), api.ConventionExpress)

	store.SetFilters(model.FilterParams{Status: model.StatusInProgress})
	store.SetFilters(model.FilterParams{Search: "urgent", Page: 2})

	got := store.Filters()
	if got.Status != model.StatusInProgress || got.Search != "urgent" || got.Page != 2 {
		t.Errorf("expected merged filters, got %+v", got)
	}
	if got.SortBy != "createdAt" || got.PerPage != 10 {
		t.Errorf("expected defaults preserved through merges, got %+v", got)
	}
}

func TestResetFilters_Idempotent(t *testing.T) {
	store := tasks.New(testutil.NewFakeTasksClient(), api.ConventionExpress)
	store.SetFilters(model.FilterParams{Status: model.StatusCompleted, Search: "x", Page: 5})

	store.ResetFilters()
	once := store.Filters()
	store.ResetFilters()
	twice := store.Filters()

	if !reflect.DeepEqual(once, model.DefaultFilters()) {
		t.Errorf("expected defaults after reset, got %+v", once)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("expected reset to be idempotent: %+v vs %+v", once, twice)
	}
}

func TestSubscribe_NotifiedOnFetch(t *testing.T) {
	fc := testutil.NewFakeTasksClient()
	store := tasks.New(fc, api.ConventionExpress)

	notified := 0
	store.Subscribe(func() { notified++ })

	store.FetchTasks(context.Background(), model.FilterParams{})
	if notified == 0 {
		t.Error("expected subscriber to be notified on fetch")
	}
}

package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"taskman/internal/api"
	"taskman/internal/model"
	"taskman/internal/session"
	"taskman/internal/storage"
	"taskman/internal/testutil"
)

func newStorage(t *testing.T) *storage.Store {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLogin_Success(t *testing.T) {
	st := newStorage(t)
	auth := testutil.NewFakeAuthClient()
	store := session.New(auth, st, nil)

	res := store.Login(context.Background(), model.Credentials{Email: "test@example.com", Password: "pw"})
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated session after login")
	}

	tok, ok, _ := st.Get(storage.KeyAuthToken)
	if !ok || tok != "tok-123" {
		t.Errorf("expected persisted token tok-123, got (%q, %v)", tok, ok)
	}

	raw, ok, _ := st.Get(storage.KeyUser)
	if !ok {
		t.Fatal("expected persisted user entry")
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		t.Fatalf("persisted user does not parse: %v", err)
	}
	if user.Email != "test@example.com" {
		t.Errorf("unexpected persisted user: %+v", user)
	}
}

func TestLogin_FailureDoesNotPersist(t *testing.T) {
	st := newStorage(t)
	auth := testutil.NewFakeAuthClient()
	auth.LoginErr = &api.Error{StatusCode: http.StatusUnauthorized, Body: api.ErrorBody{Message: "Invalid credentials"}}
	store := session.New(auth, st, nil)

	res := store.Login(context.Background(), model.Credentials{Email: "x@y.z", Password: "bad"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "Invalid credentials" {
		t.Errorf("expected backend message, got %q", res.Error)
	}
	if store.IsAuthenticated() {
		t.Error("expected unauthenticated session after failed login")
	}
	if _, ok, _ := st.Get(storage.KeyAuthToken); ok {
		t.Error("expected no persisted token after failed login")
	}
	if state := store.Snapshot(); state.Loading {
		t.Error("expected loading flag cleared after failure")
	}
}

func TestRegister_Success(t *testing.T) {
	st := newStorage(t)
	auth := testutil.NewFakeAuthClient()
	store := session.New(auth, st, nil)

	res := store.Register(context.Background(), model.RegisterInput{Name: "Test User", Email: "test@example.com", Password: "pw"})
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated session after register")
	}
}

func TestLogout_AlwaysClears(t *testing.T) {
	st := newStorage(t)
	auth := testutil.NewFakeAuthClient()
	store := session.New(auth, st, nil)
	store.Login(context.Background(), model.Credentials{Email: "a@b.c", Password: "pw"})

	// Server-side logout fails; local state must still be cleared.
	auth.LogoutErr = errors.New("network down")
	store.Logout(context.Background())

	if auth.LogoutCalls != 1 {
		t.Errorf("expected one logout call, got %d", auth.LogoutCalls)
	}
	if store.IsAuthenticated() {
		t.Error("expected session cleared after logout")
	}
	if _, ok, _ := st.Get(storage.KeyAuthToken); ok {
		t.Error("expected persisted token cleared after logout")
	}
	if _, ok, _ := st.Get(storage.KeyUser); ok {
		t.Error("expected persisted user cleared after logout")
	}
}

func TestInitializeFromStorage_Rehydrates(t *testing.T) {
	st := newStorage(t)
	st.Set(storage.KeyAuthToken, "tok-old")
	st.Set(storage.KeyUser, `{"id":"u9","name":"Old","email":"old@example.com","role":"admin"}`)

	store := session.New(testutil.NewFakeAuthClient(), st, nil)

	state := store.Snapshot()
	if state.Token != "tok-old" {
		t.Errorf("expected rehydrated token, got %q", state.Token)
	}
	if state.User == nil || state.User.Email != "old@example.com" {
		t.Errorf("expected rehydrated user, got %+v", state.User)
	}
}

func TestInitializeFromStorage_CorruptUserKeepsToken(t *testing.T) {
	st := newStorage(t)
	st.Set(storage.KeyAuthToken, "tok-keep")
	st.Set(storage.KeyUser, `{not json`)

	store := session.New(testutil.NewFakeAuthClient(), st, nil)

	state := store.Snapshot()
	if state.User != nil {
		t.Errorf("expected absent user, got %+v", state.User)
	}
	if state.Token != "tok-keep" {
		t.Errorf("expected token left alone, got %q", state.Token)
	}

	// Only the user entry is discarded from storage.
	if _, ok, _ := st.Get(storage.KeyUser); ok {
		t.Error("expected corrupt user entry to be removed")
	}
	if tok, ok, _ := st.Get(storage.KeyAuthToken); !ok || tok != "tok-keep" {
		t.Errorf("expected persisted token intact, got (%q, %v)", tok, ok)
	}
}

func TestRefreshUser_UpdatesSnapshotAndStorage(t *testing.T) {
	st := newStorage(t)
	auth := testutil.NewFakeAuthClient()
	store := session.New(auth, st, nil)

	user, err := store.RefreshUser(context.Background())
	if err != nil {
		t.Fatalf("refresh user: %v", err)
	}
	if user.Email != "test@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if state := store.Snapshot(); state.User == nil || state.User.ID != "u1" {
		t.Errorf("expected user in snapshot, got %+v", state.User)
	}
	if _, ok, _ := st.Get(storage.KeyUser); !ok {
		t.Error("expected refreshed user persisted")
	}
}

func TestSubscribe_NotifiedOnLogin(t *testing.T) {
	st := newStorage(t)
	store := session.New(testutil.NewFakeAuthClient(), st, nil)

	notified := 0
	store.Subscribe(func() { notified++ })

	store.Login(context.Background(), model.Credentials{Email: "a@b.c", Password: "pw"})
	if notified == 0 {
		t.Error("expected subscriber to be notified on login")
	}
}

func TestNormalizeError_Precedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "errors list wins over message",
			err: &api.Error{StatusCode: 400, Body: api.ErrorBody{
				Message: "Validation failed",
				List: []api.FieldError{
					{Path: "email", Msg: "email required"},
					{Path: "password", Msg: "password too short"},
				},
			}},
			want: "email required, password too short",
		},
		{
			name: "message when no list",
			err:  &api.Error{StatusCode: 401, Body: api.ErrorBody{Message: "Invalid credentials"}},
			want: "Invalid credentials",
		},
		{
			name: "field map flattened in sorted field order",
			err: &api.Error{StatusCode: 422, Body: api.ErrorBody{
				Fields: map[string][]string{
					"password": {"too short"},
					"email":    {"required", "invalid"},
				},
			}},
			want: "required, invalid, too short",
		},
		{
			name: "empty body falls back",
			err:  &api.Error{StatusCode: 500},
			want: "Login failed. Please try again.",
		},
		{
			name: "transport error uses its text",
			err:  errors.New("request failed: connection refused"),
			want: "request failed: connection refused",
		},
		{
			name: "nil error falls back",
			err:  nil,
			want: "Login failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := session.NormalizeError(tt.err, "Login failed. Please try again.")
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// Package session owns the authenticated session: the bearer token, the
// user snapshot, and their mirror in persistent storage. It is the only
// place that normalizes backend error shapes into human-readable strings.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"taskman/internal/model"
	"taskman/internal/storage"
)

// Action-specific fallbacks used when an auth failure carries no usable
// message.
const (
	loginFallback    = "Login failed. Please try again."
	registerFallback = "Registration failed. Please try again."
)

// AuthClient is the slice of the API client the session store needs.
type AuthClient interface {
	Login(ctx context.Context, creds model.Credentials) (model.AuthPayload, error)
	Register(ctx context.Context, in model.RegisterInput) (model.AuthPayload, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (model.User, error)
}

// Result is the discriminated outcome of login and register. Expected
// failures never surface as Go errors past the store boundary.
type Result struct {
	Success bool
	Error   string
}

// State is a point-in-time snapshot of the session.
type State struct {
	User    *model.User
	Token   string
	Loading bool
	Err     string
}

// Store is the process-wide session store. Constructed once, rehydrated
// from storage at construction, torn down never. Single-writer: state is
// mutated only inside its own operations.
type Store struct {
	client  AuthClient
	storage *storage.Store
	debug   io.Writer

	mu    sync.Mutex
	state State

	subMu sync.Mutex
	subs  []func()
}

// New creates the session store and rehydrates it from persistent storage.
// debug may be nil.
func New(client AuthClient, st *storage.Store, debug io.Writer) *Store {
	if debug == nil {
		debug = io.Discard
	}
	s := &Store{client: client, storage: st, debug: debug}
	s.initializeFromStorage()
	return s
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

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	return st
}

// IsAuthenticated reports whether a session token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token != ""
}

// Login authenticates with credentials. On success the token and user are
// stored in memory and in persistent storage (two keys, written together;
// not atomic, acceptable for a client-local cache).
func (s *Store) Login(ctx context.Context, creds model.Credentials) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	payload, err := s.client.Login(ctx, creds)
	if err != nil {
		msg := NormalizeError(err, loginFallback)
		s.setError(msg)
		return Result{Success: false, Error: msg}
	}

	s.storeSession(payload)
	return Result{Success: true}
}

// Register creates an account. Same shape and storage side effects as Login.
func (s *Store) Register(ctx context.Context, in model.RegisterInput) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	payload, err := s.client.Register(ctx, in)
	if err != nil {
		msg := NormalizeError(err, registerFallback)
		s.setError(msg)
		return Result{Success: false, Error: msg}
	}

	s.storeSession(payload)
	return Result{Success: true}
}

// Logout invalidates the server session best-effort, then unconditionally
// clears in-memory and persisted state. It always succeeds from the
// caller's point of view.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		fmt.Fprintf(s.debug, "logout error: %v\n", err)
	}

	s.mu.Lock()
	s.state.Token = ""
	s.state.User = nil
	s.state.Err = ""
	s.mu.Unlock()

	if err := s.storage.Delete(storage.KeyAuthToken); err != nil {
		fmt.Fprintf(s.debug, "clear stored token: %v\n", err)
	}
	if err := s.storage.Delete(storage.KeyUser); err != nil {
		fmt.Fprintf(s.debug, "clear stored user: %v\n", err)
	}
	s.notify()
}

// RefreshUser fetches the current user from the backend and updates the
// stored snapshot.
func (s *Store) RefreshUser(ctx context.Context) (model.User, error) {
	user, err := s.client.Me(ctx)
	if err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	u := user
	s.state.User = &u
	s.mu.Unlock()

	if data, err := json.Marshal(user); err == nil {
		if err := s.storage.Set(storage.KeyUser, string(data)); err != nil {
			fmt.Fprintf(s.debug, "persist user: %v\n", err)
		}
	}
	s.notify()
	return user, nil
}

// initializeFromStorage rehydrates token and user from persistent storage.
// A malformed persisted user is discarded (and its entry removed) while the
// token is left alone.
func (s *Store) initializeFromStorage() {
	tok, ok, err := s.storage.Get(storage.KeyAuthToken)
	if err != nil {
		fmt.Fprintf(s.debug, "read stored token: %v\n", err)
	} else if ok {
		s.state.Token = tok
	}

	raw, ok, err := s.storage.Get(storage.KeyUser)
	if err != nil {
		fmt.Fprintf(s.debug, "read stored user: %v\n", err)
		return
	}
	if !ok {
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		fmt.Fprintf(s.debug, "stored user is malformed, discarding: %v\n", err)
		if err := s.storage.Delete(storage.KeyUser); err != nil {
			fmt.Fprintf(s.debug, "discard stored user: %v\n", err)
		}
		return
	}
	s.state.User = &user
}

// storeSession writes a fresh token and user to memory and storage.
func (s *Store) storeSession(payload model.AuthPayload) {
	s.mu.Lock()
	u := payload.User
	s.state.Token = payload.Token
	s.state.User = &u
	s.state.Err = ""
	s.mu.Unlock()

	if err := s.storage.Set(storage.KeyAuthToken, payload.Token); err != nil {
		fmt.Fprintf(s.debug, "persist token: %v\n", err)
	}
	if data, err := json.Marshal(payload.User); err == nil {
		if err := s.storage.Set(storage.KeyUser, string(data)); err != nil {
			fmt.Fprintf(s.debug, "persist user: %v\n", err)
		}
	}
	s.notify()
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

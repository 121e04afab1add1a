package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Normalized action error messages.
const (
	MsgTimeout            = "Request timeout. Please check your connection and try again."
	MsgNetwork            = "Network error. Please check your connection and try again."
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
)

// AuthAPI is the subset of API the store calls.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, email, password, name string) (*Session, error)
	Verify(ctx context.Context, token string) (*User, error)
}

var _ AuthAPI = (*API)(nil)

// AuthStatus reports whether a session is active and whether an action is in flight.
type AuthStatus struct {
	IsAuthenticated bool `json:"is_authenticated"`
	IsLoading       bool `json:"is_loading"`
}

// State is a snapshot of the client session.
type State struct {
	CurrentUser  *User      `json:"current_user"`
	AuthToken    string     `json:"auth_token"`
	Status       AuthStatus `json:"authentication_status"`
	ErrorMessage string     `json:"error_message"`
}

// ActionError is returned by Login and Register. Message is the normalized text also
// stored in State.ErrorMessage.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// Store holds the authenticated session and notifies subscribers on every change.
// Concurrent Login/Register calls are not deduplicated.
type Store struct {
	api     AuthAPI
	storage SessionStorage

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore restores any persisted session from storage. The store starts loading
// until Initialize runs. A storage read failure is logged and the store starts empty.
func NewStore(ctx context.Context, api AuthAPI, storage SessionStorage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		api:       api,
		storage:   storage,
		state:     State{Status: AuthStatus{IsLoading: true}},
		listeners: make(map[int]func(State)),
	}

	persisted, err := storage.Load(ctx)
	if err != nil {
		slog.Warn("failed to restore session", "error", err)
	} else if persisted != nil {
		s.state.CurrentUser = persisted.User
		s.state.AuthToken = persisted.Token
		s.state.Status.IsAuthenticated = persisted.IsAuthenticated
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn to receive every new state. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Login authenticates and stores the resulting session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()
	sess, err := s.api.Login(ctx, email, password)
	return s.finish(ctx, sess, err, MsgLoginFailed)
}

// Register creates an account and stores the resulting session.
func (s *Store) Register(ctx context.Context, email, password, name string) error {
	s.begin()
	sess, err := s.api.Register(ctx, email, password, name)
	return s.finish(ctx, sess, err, MsgRegistrationFailed)
}

// Initialize re-validates a restored token. Without a token it only clears the loading flag.
// A rejected token clears the session without setting an error message.
func (s *Store) Initialize(ctx context.Context) {
	token := s.State().AuthToken
	if token == "" {
		s.update(ctx, func(st *State) { st.Status.IsLoading = false })
		return
	}

	user, err := s.api.Verify(ctx, token)
	if err != nil {
		slog.Debug("auth verification failed", "error", err)
		s.update(ctx, func(st *State) { *st = State{} })
		return
	}
	s.update(ctx, func(st *State) {
		*st = State{
			CurrentUser: user,
			AuthToken:   token,
			Status:      AuthStatus{IsAuthenticated: true},
		}
	})
}

// Logout clears the session locally. The in-memory state is always cleared; the
// returned error only reports a failure to clear storage.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = State{}
	st, listeners := s.snapshot(), s.listenerList()
	s.mu.Unlock()

	notify(listeners, st)
	return s.storage.Clear(ctx)
}

// ClearError resets the error message.
func (s *Store) ClearError() {
	s.update(context.Background(), func(st *State) { st.ErrorMessage = "" })
}

func (s *Store) begin() {
	s.update(context.Background(), func(st *State) {
		st.Status.IsLoading = true
		st.ErrorMessage = ""
	})
}

func (s *Store) finish(ctx context.Context, sess *Session, err error, fallback string) error {
	if err == nil && sess == nil {
		err = errors.New("empty session response")
	}
	if err != nil {
		msg := normalizeError(err, fallback)
		s.update(ctx, func(st *State) { *st = State{ErrorMessage: msg} })
		return &ActionError{Message: msg, Err: err}
	}

	user := sess.User
	s.update(ctx, func(st *State) {
		*st = State{
			CurrentUser: &user,
			AuthToken:   sess.Token,
			Status:      AuthStatus{IsAuthenticated: true},
		}
	})
	return nil
}

// update applies fn, persists the session part and notifies subscribers outside the lock.
func (s *Store) update(ctx context.Context, fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	st, listeners := s.snapshot(), s.listenerList()
	s.mu.Unlock()

	s.persist(ctx, st)
	notify(listeners, st)
}

func (s *Store) persist(ctx context.Context, st State) {
	var err error
	if st.AuthToken == "" {
		err = s.storage.Clear(ctx)
	} else {
		err = s.storage.Save(ctx, &PersistedSession{
			User:            st.CurrentUser,
			Token:           st.AuthToken,
			IsAuthenticated: st.Status.IsAuthenticated,
		})
	}
	if err != nil {
		slog.Warn("failed to persist session", "error", err)
	}
}

// snapshot must be called with mu held.
func (s *Store) snapshot() State {
	st := s.state
	if st.CurrentUser != nil {
		u := *st.CurrentUser
		st.CurrentUser = &u
	}
	return st
}

// listenerList must be called with mu held.
func (s *Store) listenerList() []func(State) {
	out := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(State), st State) {
	for _, fn := range listeners {
		fn(st)
	}
}

// normalizeError turns an action failure into a message fit for display.
func normalizeError(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Server error: %d", apiErr.Status)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return MsgTimeout
		}
		return MsgNetwork
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

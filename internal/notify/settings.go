// Package notify owns the process-wide notification settings record.
//
// The record is the only shared mutable state in the system: HTTP handlers and
// the scheduler callback both touch it, so the Store guards it with a mutex and
// hands out copies. Only the most recent value survives — no history is kept.
package notify

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrInvalidEmail is returned by Setup when the address is empty or lacks '@'.
var ErrInvalidEmail = errors.New("invalid email address")

// DefaultMethod is used when a setup request does not name a delivery method.
const DefaultMethod = "email"

// Settings is the current notification configuration. LastSent is nil until
// the first successful real (non-test) send and serializes as null.
type Settings struct {
	Email    string     `json:"email,omitempty"`
	Method   string     `json:"method,omitempty"`
	Enabled  bool       `json:"enabled"`
	LastSent *time.Time `json:"lastSent"`
}

// Configured reports whether the record can be dispatched to.
func (s Settings) Configured() bool {
	return s.Enabled && s.Email != ""
}

// Store is the single owner of the Settings record.
type Store struct {
	mu sync.Mutex
	s  Settings
}

// NewStore returns a Store in the quiescent default state: no email, disabled,
// never sent.
func NewStore() *Store {
	return &Store{}
}

// Setup validates email and replaces the whole record: enabled becomes true,
// lastSent resets to nil, method falls back to DefaultMethod when empty.
// On validation failure the stored record is left untouched.
func (st *Store) Setup(email, method string) (Settings, error) {
	if email == "" || !strings.Contains(email, "@") {
		return Settings{}, ErrInvalidEmail
	}
	if method == "" {
		method = DefaultMethod
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = Settings{Email: email, Method: method, Enabled: true}
	return st.s, nil
}

// Get returns a copy of the current record.
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// MarkSent records t as the moment of the last successful real send.
func (st *Store) MarkSent(t time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.LastSent = &t
}

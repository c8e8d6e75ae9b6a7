package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixbrock/arigato/internal/components"
	"github.com/felixbrock/arigato/internal/domain"
	"github.com/felixbrock/arigato/internal/metrics"
)

const unexpectedErrMsg = "An unexpected error occurred."

type RunFunc func(ctx context.Context, input domain.UserInput) (*domain.OptimizationResult, error)

// Session is the form state of one browser. At most one optimization is in
// flight per session.
type Session struct {
	Id string

	mu       sync.Mutex
	input    domain.UserInput
	state    domain.RequestState
	result   *domain.OptimizationResult
	errMsg   string
	done     chan struct{}
	lastSeen time.Time
}

func NewSession(id string) *Session {
	done := make(chan struct{})
	close(done)

	return &Session{
		Id:       id,
		input:    domain.DefaultUserInput(),
		state:    domain.StateIdle,
		done:     done,
		lastSeen: time.Now(),
	}
}

// Update records form changes without submitting. Ignored while pending.
func (s *Session) Update(input domain.UserInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StatePending {
		return
	}
	s.input = input
}

// Submit starts an optimization and reports whether one was started. An
// empty prompt or an outstanding request makes it a no-op. The run outlives
// ctx cancellation: once issued it cannot be aborted.
func (s *Session) Submit(ctx context.Context, input domain.UserInput, run RunFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StatePending {
		return false
	}
	s.input = input
	if !input.Submittable() {
		return false
	}

	s.state = domain.StatePending
	s.result = nil
	s.errMsg = ""
	done := make(chan struct{})
	s.done = done

	go s.run(context.WithoutCancel(ctx), input, run, done)

	return true
}

func (s *Session) run(ctx context.Context, input domain.UserInput, fn RunFunc, done chan struct{}) {
	var (
		result *domain.OptimizationResult
		err    error
	)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error(fmt.Sprintf("Error occurred: optimization panicked: %v", rec), "session", s.Id)
			result, err = nil, fmt.Errorf("%v", rec)
		}
		s.resolve(result, err)
		close(done)
	}()

	result, err = fn(ctx, input)
}

func (s *Session) resolve(result *domain.OptimizationResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err != nil:
		s.state = domain.StateFailed
		s.errMsg = err.Error()
		if s.errMsg == "" {
			s.errMsg = unexpectedErrMsg
		}
	case result == nil:
		s.state = domain.StateFailed
		s.errMsg = unexpectedErrMsg
	default:
		s.state = domain.StateSucceeded
		s.result = result
	}
}

// Done is closed once the latest submission has resolved.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Session) Snapshot() components.WorkspaceView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := components.WorkspaceView{Input: s.input, State: s.state}
	switch s.state {
	case domain.StateSucceeded:
		result := *s.result
		result.Improvements = append([]string(nil), s.result.Improvements...)
		view.Result = &result
	case domain.StateFailed:
		view.Error = s.errMsg
	}
	return view
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != domain.StatePending && s.lastSeen.Before(cutoff)
}

// SessionStore keeps sessions in memory only.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	st.mu.Unlock()

	if ok {
		sess.touch(st.now())
	}
	return sess, ok
}

func (st *SessionStore) Create() *Session {
	sess := NewSession(uuid.NewString())
	sess.touch(st.now())

	st.mu.Lock()
	st.sessions[sess.Id] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return sess
}

// Prune drops sessions idle for longer than the TTL. Pending sessions are kept.
func (st *SessionStore) Prune() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return removed
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

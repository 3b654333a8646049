package flow

import (
	"sync"

	"github.com/projexfx/signal-trader/internal/signal"
)

// Mode selects what happens after a signal is parsed: Calculate presents
// the risk report and asks for confirmation, Trade places the orders
// immediately.
type Mode int

const (
	ModeCalculate Mode = iota
	ModeTrade
)

// Phase is the conversation state within one trade request.
type Phase int

const (
	PhaseAwaitingSignal Phase = iota
	PhaseAwaitingDecision
)

// Session is the ephemeral per-chat conversation state: at most one
// pending intent and the current phase. It is created when a trade or
// calculate command starts and cleared on any terminal outcome.
type Session struct {
	Mode   Mode
	Phase  Phase
	Intent *signal.TradeIntent
}

// SessionStore holds sessions keyed by chat ID with exclusive per-key
// access. Nothing is persisted across restarts.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Begin replaces any existing session for the chat with a fresh one.
func (s *SessionStore) Begin(chatID int64, mode Mode) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &Session{Mode: mode, Phase: PhaseAwaitingSignal}
	s.sessions[chatID] = session
	return session
}

// Get returns the chat's session, if one is in progress.
func (s *SessionStore) Get(chatID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[chatID]
	return session, ok
}

// End clears the chat's session.
func (s *SessionStore) End(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Package session implements the client side of the conversational widget: a
// turn-capped chat session driven as an explicit state machine, with a
// simulated typewriter reveal for assistant replies.
package session

import (
	"errors"
	"strings"

	"github.com/elaralabs/elara/backend/internal/model/chat"
)

// State identifies the session's position in its lifecycle.
type State int

const (
	// StateIdle accepts user input while turns remain.
	StateIdle State = iota
	// StateAwaitingReply has a relay call in flight; input is disabled.
	StateAwaitingReply
	// StateRevealing is presenting a reply character by character.
	StateRevealing
	// StateTerminal has exhausted the turn cap; input stays disabled until
	// teardown.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting-reply"
	case StateRevealing:
		return "revealing"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// DefaultCap is the number of user turns allowed per session.
const DefaultCap = 3

// FallbackReply replaces the assistant reply when the relay call fails. The
// failed turn stays counted, bounding upstream calls per session.
const FallbackReply = "Desculpe, ocorreu um erro. Por favor, tente novamente. 🙏"

var (
	// ErrEmptyInput rejects empty or whitespace-only submissions.
	ErrEmptyInput = errors.New("input is empty")
	// ErrTurnsExhausted rejects submissions once the cap is reached.
	ErrTurnsExhausted = errors.New("turn cap reached")
	// ErrRequestPending rejects submissions while a relay call is in flight
	// or a reply is still revealing.
	ErrRequestPending = errors.New("request already in flight")
	// ErrBadTransition reports an event applied in the wrong state.
	ErrBadTransition = errors.New("invalid state transition")
)

// Session holds the bounded conversation state. All methods are pure state
// transitions: no I/O and no timers, so the machine tests independently of
// rendering and transport. Session is not safe for concurrent use; the Runner
// serializes access.
type Session struct {
	transcript chat.Transcript
	turnCount  int
	cap        int
	state      State
}

// New creates a session seeded with the assistant greeting, which does not
// count against the cap. A cap below one falls back to DefaultCap.
func New(turnCap int, greeting string) *Session {
	if turnCap < 1 {
		turnCap = DefaultCap
	}

	s := &Session{
		transcript: make(chat.Transcript, 0, 2*turnCap+1),
		cap:        turnCap,
		state:      StateIdle,
	}
	if greeting != "" {
		s.transcript = append(s.transcript, chat.NewTurn(chat.RoleAssistant, greeting))
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// TurnCount returns the number of user turns consumed so far.
func (s *Session) TurnCount() int { return s.turnCount }

// Cap returns the fixed user-turn limit.
func (s *Session) Cap() int { return s.cap }

// InputEnabled reports whether a submission would currently be accepted.
func (s *Session) InputEnabled() bool {
	return s.state == StateIdle && s.turnCount < s.cap
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() chat.Transcript {
	return append(chat.Transcript(nil), s.transcript...)
}

// Submit validates user input and, when accepted, appends the user turn,
// consumes a turn and moves to AwaitingReply. It returns the full
// transcript-so-far projected to relay messages, including the turn just
// appended. Rejected submissions leave the session untouched.
func (s *Session) Submit(text string) ([]chat.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}
	if s.state == StateAwaitingReply || s.state == StateRevealing {
		return nil, ErrRequestPending
	}
	if s.state == StateTerminal || s.turnCount >= s.cap {
		return nil, ErrTurnsExhausted
	}

	s.transcript = append(s.transcript, chat.NewTurn(chat.RoleUser, trimmed))
	s.turnCount++
	s.state = StateAwaitingReply

	return s.transcript.Messages(), nil
}

// AcceptReply handles a successful relay response: the assistant turn is
// appended marked revealing and the session moves to Revealing.
func (s *Session) AcceptReply(text string) error {
	if s.state != StateAwaitingReply {
		return ErrBadTransition
	}

	turn := chat.NewTurn(chat.RoleAssistant, text)
	turn.Revealing = true
	s.transcript = append(s.transcript, turn)
	s.state = StateRevealing
	return nil
}

// FailReply handles a relay failure: a fixed fallback assistant turn is
// appended (not revealing) and the session settles to Idle, or Terminal when
// the failed turn was the last one. The consumed turn is not refunded.
func (s *Session) FailReply() error {
	if s.state != StateAwaitingReply {
		return ErrBadTransition
	}

	s.transcript = append(s.transcript, chat.NewTurn(chat.RoleAssistant, FallbackReply))
	s.state = s.settledState()
	return nil
}

// FinishReveal completes the reveal of the latest assistant turn, clearing
// its revealing flag, and settles to Idle or Terminal.
func (s *Session) FinishReveal() error {
	if s.state != StateRevealing {
		return ErrBadTransition
	}

	last := len(s.transcript) - 1
	s.transcript[last].Revealing = false
	s.state = s.settledState()
	return nil
}

func (s *Session) settledState() State {
	if s.turnCount >= s.cap {
		return StateTerminal
	}
	return StateIdle
}

package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is the wire-level projection of a turn, as exchanged with the relay
// and with the upstream model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is one message in a conversation transcript. Content is immutable once
// created; only the transient Revealing flag changes afterwards.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Revealing bool      `json:"revealing,omitempty"`
}

// NewTurn mints a turn with a fresh opaque identifier.
func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// Transcript is an ordered conversation history. Insertion order is
// significant: it forms the exact history sent to the relay.
type Transcript []Turn

// Messages projects the transcript to wire messages, order preserved.
func (t Transcript) Messages() []Message {
	messages := make([]Message, 0, len(t))
	for _, turn := range t {
		messages = append(messages, Message{Role: turn.Role, Content: turn.Text})
	}
	return messages
}

// Last returns the most recent turn, or false when the transcript is empty.
func (t Transcript) Last() (Turn, bool) {
	if len(t) == 0 {
		return Turn{}, false
	}
	return t[len(t)-1], true
}

package chat

import (
	"sync"
	"time"
)

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// Message is one entry in a session's transcript. Pending marks the
// transient "analyzing" placeholder shown while an answer is in flight.
type Message struct {
	Sender  Sender `json:"sender"`
	Text    string `json:"text"`
	Pending bool   `json:"pending"`
}

// State is the chat panel's lifecycle state.
type State string

const (
	StateClosed      State = "closed"
	StateOpenIdle    State = "open-idle"
	StateOpenPending State = "open-pending"
)

const (
	greetingText    = "Hello! I am the flood risk assistant. Pick a question below."
	placeholderText = "Analyzing..."
)

// Session holds one visitor's chat state. Each session owns its own pending
// flag and transcript; nothing here is process-wide, so concurrent visitors
// cannot corrupt each other. HTTP handlers and the resolution tick run on
// different goroutines, hence the mutex.
type Session struct {
	mu sync.Mutex

	id           string
	modalVisible bool
	messages     []Message

	// pendingQuestion is the question awaiting its answer, empty when idle.
	pendingQuestion string
	// resolveAt is when the pending placeholder becomes due for resolution.
	resolveAt time.Time
}

func newSession(id string) *Session {
	return &Session{
		id: id,
		messages: []Message{
			{Sender: SenderSystem, Text: greetingText},
		},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State reports the current lifecycle state. A pending question survives
// closing the modal: reopening shows the spinner until resolution fires.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case !s.modalVisible:
		return StateClosed
	case s.pendingQuestion != "":
		return StateOpenPending
	default:
		return StateOpenIdle
	}
}

// Messages returns a copy of the transcript in append order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

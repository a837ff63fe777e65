package chat

import (
	"errors"
	"fmt"
	"time"
)

// EventKind enumerates the chat panel events. Handlers dispatch explicit
// event values; the reducer switches on the kind, never on which UI element
// happened to fire.
type EventKind string

const (
	EventOpen  EventKind = "open"
	EventClose EventKind = "close"
	EventAsk   EventKind = "ask"
)

// Event is one user action applied to a session.
type Event struct {
	Kind     EventKind
	Question string // set for EventAsk only
}

var (
	// ErrUnknownQuestion guards the closed question set. The page generates
	// its buttons from that same set, so this only fires for requests that
	// bypass the UI.
	ErrUnknownQuestion = errors.New("question is not in the fixed question set")

	// ErrQuestionPending rejects a new question while one is in flight.
	// At most one pending placeholder exists per session.
	ErrQuestionPending = errors.New("a question is already awaiting its answer")

	errBadEvent = errors.New("unknown chat event kind")
)

// Questions is the closed, ordered set of questions the panel offers. The
// answers are fixed; there is no language processing behind them.
var Questions = []string{
	"What is the Risk Level in the District?",
	"What do the monitoring scores mean?",
	"What should I do in a Critical risk area?",
}

var answers = map[string]string{
	Questions[0]: "[LEVEL] (Moderate / High / Critical).",
	Questions[1]: "The srtm, gpm and smap scores measure terrain elevation, " +
		"accumulated precipitation and soil moisture for the occurrence site. " +
		"Higher combined scores indicate higher flood susceptibility.",
	Questions[2]: "Avoid low-lying streets, move to higher ground and follow " +
		"the recommended action attached to the occurrence nearest to you.",
}

// Apply runs the reducer for one event against the session. Ask enqueues the
// user message plus a single pending placeholder and schedules its resolution
// after delay; it returns ErrQuestionPending while a question is in flight
// and ErrUnknownQuestion for a question outside the fixed set.
func (s *Session) Apply(ev Event, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventOpen:
		s.modalVisible = true
		return nil

	case EventClose:
		// Pending state is kept: the placeholder resolves even while the
		// modal is hidden, and reopening shows the finished transcript.
		s.modalVisible = false
		return nil

	case EventAsk:
		if s.pendingQuestion != "" {
			return ErrQuestionPending
		}
		if _, ok := answers[ev.Question]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, ev.Question)
		}
		s.messages = append(s.messages,
			Message{Sender: SenderUser, Text: ev.Question},
			Message{Sender: SenderBot, Text: placeholderText, Pending: true},
		)
		s.pendingQuestion = ev.Question
		s.resolveAt = time.Now().Add(delay)
		return nil

	default:
		return fmt.Errorf("%w: %q", errBadEvent, ev.Kind)
	}
}

// resolveDue replaces the pending placeholder with its fixed answer once the
// session's resolve deadline has passed. Returns true if a resolution fired.
func (s *Session) resolveDue(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingQuestion == "" || now.Before(s.resolveAt) {
		return false
	}

	answer, ok := answers[s.pendingQuestion]
	if !ok {
		// Unreachable: Apply validated the question against the same table.
		panic(fmt.Sprintf("chat: pending question %q has no answer", s.pendingQuestion))
	}

	// Replace the most recent pending placeholder in place, never append.
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Pending {
			s.messages[i] = Message{Sender: SenderBot, Text: answer}
			break
		}
	}

	s.pendingQuestion = ""
	s.resolveAt = time.Time{}
	return true
}

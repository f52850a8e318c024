// Package history provides the in-memory conversation log.
package history

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diogo/codexside/internal/models"
)

// ContextHeader prefixes the serialized conversation sent with each prompt.
const ContextHeader = "Conversation so far:\n"

// Store holds the ordered message log of one panel session.
// The store is never persisted; it lives as long as the process.
type Store struct {
	mu       sync.RWMutex
	order    []string
	byID     map[string]models.Message
	nextID   int
	boundary int
	now      func() time.Time
}

// NewStore creates an empty message store
func NewStore() *Store {
	return &Store{
		byID: make(map[string]models.Message),
		now:  time.Now,
	}
}

// Add appends a new message and returns it
func (s *Store) Add(role models.Role, content string) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	msg := models.Message{
		ID:        fmt.Sprintf("msg-%d", s.nextID),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.order = append(s.order, msg.ID)
	s.byID[msg.ID] = msg
	return msg
}

// Get returns the message with the given id
func (s *Store) Get(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.byID[id]
	return msg, ok
}

// SetContent replaces the content of a message. Unknown ids are ignored.
func (s *Store) SetContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.byID[id]
	if !ok {
		return
	}
	msg.Content = content
	s.byID[id] = msg
}

// AppendContent appends a streamed chunk to a message. Unknown ids are ignored.
func (s *Store) AppendContent(id, chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.byID[id]
	if !ok {
		return
	}
	msg.Content += chunk
	s.byID[id] = msg
}

// StartNewChat moves the session boundary to the end of the log.
// Earlier messages stay visible but are excluded from BuildContext.
func (s *Store) StartNewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.boundary = len(s.order)
}

// Boundary returns the index of the first message of the current session
func (s *Store) Boundary() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundary
}

// Len returns the number of messages ever added
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Messages returns a snapshot of the whole log in insertion order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(0)
}

// Session returns a snapshot of the messages added since the last StartNewChat
func (s *Store) Session() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(s.boundary)
}

// LastOf returns the most recent message with the given role
func (s *Store) LastOf(role models.Role) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.order) - 1; i >= 0; i-- {
		msg := s.byID[s.order[i]]
		if msg.Role == role {
			return msg, true
		}
	}
	return models.Message{}, false
}

// BuildContext serializes the user and assistant turns of the current
// session. It returns "" when the session has no such turns.
func (s *Store) BuildContext() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []string
	for _, id := range s.order[s.boundary:] {
		msg := s.byID[id]
		if !msg.Role.Conversational() {
			continue
		}
		parts = append(parts, msg.Role.Label()+": "+msg.Content)
	}
	if len(parts) == 0 {
		return ""
	}
	return ContextHeader + strings.Join(parts, "\n\n")
}

func (s *Store) snapshot(from int) []models.Message {
	out := make([]models.Message, 0, len(s.order)-from)
	for _, id := range s.order[from:] {
		out = append(out, s.byID[id])
	}
	return out
}

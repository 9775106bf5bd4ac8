// Package conversation holds the in-memory chat thread and the dispatcher
// that turns one user question into exactly one answer in that thread.
package conversation

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cinematen/wabliefteru/internal/models"
)

// EventKind identifies what changed in the store
type EventKind int

const (
	// EventAppended is emitted after a message was added
	EventAppended EventKind = iota + 1
	// EventPending is emitted after the pending flag changed
	EventPending
)

// Event describes one store change
type Event struct {
	Kind    EventKind
	Message models.Message // set for EventAppended
	Pending bool           // pending flag after the change
}

// Store is an append-only, ordered list of messages plus a pending flag.
// It is safe for concurrent use. Subscribers are notified outside the lock,
// in the order changes were made, and must not modify the store themselves.
type Store struct {
	mu          sync.RWMutex
	sessionID   string
	messages    []models.Message
	pending     bool
	subscribers map[int]func(Event)
	nextSubID   int

	// notifyMu serializes notifications so subscribers never see events out of order
	notifyMu sync.Mutex
}

// NewStore creates a store holding seed. Seed messages are renumbered from 1.
func NewStore(seed ...models.Message) *Store {
	s := &Store{
		sessionID:   uuid.NewString(),
		messages:    make([]models.Message, 0, len(seed)+8),
		subscribers: make(map[int]func(Event)),
	}
	for _, msg := range seed {
		s.messages = append(s.messages, models.Message{
			ID:      len(s.messages) + 1,
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return s
}

// NewSeededStore creates a store with the welcome and scope reminder messages
func NewSeededStore() *Store {
	return NewStore(models.SeedMessages()...)
}

// SessionID identifies this conversation in logs
func (s *Store) SessionID() string {
	return s.sessionID
}

// Append adds a message at the end of the thread and returns it with its id
func (s *Store) Append(role models.Role, content string) models.Message {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	msg := s.appendLocked(role, content)
	pending := s.pending
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventAppended, Message: msg, Pending: pending})
	return msg
}

// SetPending sets the pending flag. Subscribers are only notified on change.
func (s *Store) SetPending(pending bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changed := s.pending != pending
	s.pending = pending
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if changed {
		notify(subs, Event{Kind: EventPending, Pending: pending})
	}
}

// BeginDispatch appends a user message and sets pending in one step.
// It returns false, changing nothing, when a dispatch is already pending.
func (s *Store) BeginDispatch(content string) (models.Message, bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return models.Message{}, false
	}
	msg := s.appendLocked(models.RoleUser, content)
	s.pending = true
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventAppended, Message: msg, Pending: false})
	notify(subs, Event{Kind: EventPending, Pending: true})
	return msg, true
}

// Pending reports whether a dispatch is in flight
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Messages returns a copy of the thread in order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message
func (s *Store) Last() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastAssistant returns the most recent assistant message
func (s *Store) LastAssistant() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == models.RoleAssistant {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// Subscribe registers fn for every future change and returns a function that removes it
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// appendLocked must be called with s.mu held
func (s *Store) appendLocked(role models.Role, content string) models.Message {
	// ids are never reused because nothing is ever removed
	msg := models.Message{
		ID:      len(s.messages) + 1,
		Role:    role,
		Content: content,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// subscribersLocked returns subscribers in registration order; s.mu must be held
func (s *Store) subscribersLocked() []func(Event) {
	if len(s.subscribers) == 0 {
		return nil
	}
	subs := make([]func(Event), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

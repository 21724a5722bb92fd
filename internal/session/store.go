package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrNoActiveSession = errors.New("no active survey session")

// Store owns the single active session and writes every change through to
// its Storage.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.Logger
	now     func() time.Time

	slug    string
	current *Session
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(storage Storage, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSession loads the session for slug, or starts a fresh one when none
// is stored or the stored value cannot be decoded. It is a no-op when slug is
// already active.
func (s *Store) EnsureSession(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.slug == slug {
		return nil
	}

	key := StorageKey(slug)
	loaded, err := s.load(key)
	if err != nil {
		return err
	}
	if loaded == nil {
		loaded = New(s.now())
	}

	s.slug = slug
	s.current = loaded
	return s.persist()
}

func (s *Store) load(key string) (*Session, error) {
	data, ok, err := s.storage.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var loaded Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("Discarding unreadable session",
			zap.String("key", key),
			zap.Error(err))
		return nil, nil
	}
	loaded.normalize()
	return &loaded, nil
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.Set(StorageKey(s.slug), data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *Store) mutate(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoActiveSession
	}
	fn(s.current)
	return s.persist()
}

func (s *Store) SetAnswer(questionID string, repeatIndex int, value AnswerValue) error {
	return s.mutate(func(sess *Session) {
		sess.Answers[AnswerKey(questionID, repeatIndex)] = value
	})
}

func (s *Store) Answer(questionID string, repeatIndex int) (AnswerValue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Answer(questionID, repeatIndex)
}

func (s *Store) SetRepeatCount(groupKey string, count int) error {
	return s.mutate(func(sess *Session) {
		sess.RepeatCounts[groupKey] = count
	})
}

func (s *Store) RepeatCount(groupKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.RepeatCount(groupKey)
}

func (s *Store) SetContactInfo(update ContactInfoUpdate) error {
	return s.mutate(func(sess *Session) {
		sess.ContactInfo = sess.ContactInfo.apply(update)
	})
}

// ClearSession forgets the active session and removes it from storage.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	if err := s.storage.Delete(StorageKey(s.slug)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.current = nil
	s.slug = ""
	return nil
}

// Session returns a copy of the active session, or nil.
func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

func (s *Store) Slug() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slug
}

package session

import (
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/memory"
)

// Store is the authoritative per-user conversational state during a
// connection. History is bounded; the oldest turns fall off first. Working
// context is replaced wholesale, never merged.
type Store struct {
	repo         *memory.SessionRepository
	historyLimit int
}

func NewStore(repo *memory.SessionRepository, historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Store{
		repo:         repo,
		historyLimit: historyLimit,
	}
}

// Get returns the session for a user, creating an empty one on first touch.
// Guest ids get identical treatment.
func (s *Store) Get(userId string) *entity.Session {
	if sess, ok := s.repo.Get(userId); ok {
		return sess
	}
	sess := &entity.Session{
		UserId:  userId,
		History: []entity.ChatTurn{},
	}
	s.repo.Save(sess)
	return sess
}

// AppendTurn records one history entry and trims to the limit.
func (s *Store) AppendTurn(userId, role, text string) {
	sess := s.Get(userId)
	sess.History = append(sess.History, entity.ChatTurn{Role: role, Text: text})
	if len(sess.History) > s.historyLimit {
		sess.History = sess.History[len(sess.History)-s.historyLimit:]
	}
	s.repo.Save(sess)
}

// Recent returns up to depth most-recent turns, oldest first.
func (s *Store) Recent(userId string, depth int) []entity.ChatTurn {
	sess := s.Get(userId)
	if depth <= 0 || depth >= len(sess.History) {
		out := make([]entity.ChatTurn, len(sess.History))
		copy(out, sess.History)
		return out
	}
	out := make([]entity.ChatTurn, depth)
	copy(out, sess.History[len(sess.History)-depth:])
	return out
}

// SetWorkingContext replaces the working context wholesale. Callers that
// want to preserve the previous context simply do not call this.
func (s *Store) SetWorkingContext(userId, workingContext string) {
	sess := s.Get(userId)
	sess.WorkingContext = workingContext
	s.repo.Save(sess)
}

func (s *Store) SetPendingInstruction(userId, instruction string) {
	sess := s.Get(userId)
	sess.PendingInstruction = instruction
	s.repo.Save(sess)
}

// ClearPendingInstruction drops the one-shot directive after it has been
// consumed by a normalization pass.
func (s *Store) ClearPendingInstruction(userId string) {
	sess := s.Get(userId)
	if sess.PendingInstruction == "" {
		return
	}
	sess.PendingInstruction = ""
	s.repo.Save(sess)
}

func (s *Store) SetLastCategory(userId, category string) {
	sess := s.Get(userId)
	sess.LastCategory = category
	s.repo.Save(sess)
}

func (s *Store) Reset(userId string) {
	s.repo.Delete(userId)
}

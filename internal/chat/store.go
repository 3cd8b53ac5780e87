package chat

import "aurelia/internal/types"

// SessionStore is the single source of truth for session metadata and the
// active-session id. It holds local state only; every mutation happens after
// the server confirms the corresponding write.
type SessionStore struct {
	sessions []*types.Session
	activeID string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Replace swaps the whole collection for the server's ordering. No
// merge-by-field; the server response wins. The active id survives only if
// it still names a present session.
func (s *SessionStore) Replace(sessions []*types.Session) {
	s.sessions = append([]*types.Session{}, sessions...)
	if s.activeID != "" && s.byID(s.activeID) == nil {
		s.activeID = ""
	}
}

func (s *SessionStore) Sessions() []*types.Session {
	return s.sessions
}

func (s *SessionStore) Len() int {
	return len(s.sessions)
}

func (s *SessionStore) ActiveID() string {
	return s.activeID
}

func (s *SessionStore) Active() *types.Session {
	return s.byID(s.activeID)
}

func (s *SessionStore) Get(id string) *types.Session {
	return s.byID(id)
}

// Select is a no-op when id is not in the collection; callers re-list first
// if they expect a fresher view.
func (s *SessionStore) Select(id string) {
	if s.byID(id) == nil {
		return
	}
	s.activeID = id
}

func (s *SessionStore) ClearActive() {
	s.activeID = ""
}

// Prepend inserts a freshly created, copied, or branched session at the
// front: most-recent-first, independent of the server's bulk list ordering.
func (s *SessionStore) Prepend(session *types.Session) {
	if session == nil {
		return
	}
	s.sessions = append([]*types.Session{session}, s.sessions...)
}

// Update replaces the matching entry by id with the server's merged result.
func (s *SessionStore) Update(session *types.Session) {
	if session == nil {
		return
	}
	for i, existing := range s.sessions {
		if existing.ID == session.ID {
			s.sessions[i] = session
			return
		}
	}
}

// Remove drops the listed ids. When the active session is among them the
// active id is cleared; picking the next active session is the caller's
// decision.
func (s *SessionStore) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.sessions[:0]
	for _, session := range s.sessions {
		if _, gone := drop[session.ID]; !gone {
			kept = append(kept, session)
		}
	}
	s.sessions = kept
	if _, gone := drop[s.activeID]; gone {
		s.activeID = ""
	}
}

func (s *SessionStore) byID(id string) *types.Session {
	if id == "" {
		return nil
	}
	for _, session := range s.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

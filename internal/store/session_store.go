package store

import (
	"path/filepath"
	"sync"

	"vauchi/internal/domain"
)

const sessionsFilename = "sessions.enc"

// SessionFileStore persists pending exchange sessions to disk, keyed by the
// hex of each session's signed prekey.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// SaveSession writes a session record.
func (s *SessionFileStore) SaveSession(passphrase string, session domain.ExchangeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	sessions := map[string]domain.ExchangeSession{}
	if _, err := readSealed(path, passphrase, &sessions); err != nil {
		return err
	}
	sessions[session.Bundle.SignedPrekey.Hex()] = session
	return writeSealed(path, passphrase, sessions)
}

// LoadSession retrieves a stored session by prekey hex.
func (s *SessionFileStore) LoadSession(passphrase, prekeyHex string) (domain.ExchangeSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := map[string]domain.ExchangeSession{}
	if _, err := readSealed(filepath.Join(s.dir, sessionsFilename), passphrase, &sessions); err != nil {
		return domain.ExchangeSession{}, false, err
	}
	session, ok := sessions[prekeyHex]
	return session, ok, nil
}

// DeleteSession removes a session once completed or expired.
func (s *SessionFileStore) DeleteSession(passphrase, prekeyHex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	sessions := map[string]domain.ExchangeSession{}
	if _, err := readSealed(path, passphrase, &sessions); err != nil {
		return err
	}
	if _, ok := sessions[prekeyHex]; !ok {
		return nil
	}
	delete(sessions, prekeyHex)
	return writeSealed(path, passphrase, sessions)
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)

package store

import (
	"path/filepath"
	"sync"

	"vauchi/internal/domain"
)

const cardFilename = "card.enc"

// CardFileStore persists the owner's contact card to disk.
type CardFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewCardFileStore returns a CardFileStore rooted at dir.
func NewCardFileStore(dir string) *CardFileStore {
	return &CardFileStore{dir: dir}
}

// SaveCard writes the encrypted card to disk.
func (s *CardFileStore) SaveCard(passphrase string, c domain.ContactCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeSealed(filepath.Join(s.dir, cardFilename), passphrase, c)
}

// LoadCard reads and decrypts the card. The second return is false when no
// card has been saved yet.
func (s *CardFileStore) LoadCard(passphrase string) (domain.ContactCard, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c domain.ContactCard
	ok, err := readSealed(filepath.Join(s.dir, cardFilename), passphrase, &c)
	if err != nil {
		return domain.ContactCard{}, false, err
	}
	return c, ok, nil
}

// Compile-time assertion that CardFileStore implements domain.CardStore.
var _ domain.CardStore = (*CardFileStore)(nil)

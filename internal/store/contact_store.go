package store

import (
	"path/filepath"
	"sort"
	"sync"

	"vauchi/internal/domain"
)

const contactsFilename = "contacts.enc"

// ContactFileStore persists contacts, including their ratchet and sync
// state, to a single encrypted file.
type ContactFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewContactFileStore returns a ContactFileStore rooted at dir.
func NewContactFileStore(dir string) *ContactFileStore {
	return &ContactFileStore{dir: dir}
}

// SaveContact inserts or replaces one contact record.
func (s *ContactFileStore) SaveContact(passphrase string, c domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFilename)
	contacts := map[string]domain.Contact{}
	if _, err := readSealed(path, passphrase, &contacts); err != nil {
		return err
	}
	contacts[c.ID] = c
	return writeSealed(path, passphrase, contacts)
}

// LoadContact retrieves one contact by id.
func (s *ContactFileStore) LoadContact(passphrase, id string) (domain.Contact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := map[string]domain.Contact{}
	if _, err := readSealed(filepath.Join(s.dir, contactsFilename), passphrase, &contacts); err != nil {
		return domain.Contact{}, false, err
	}
	c, ok := contacts[id]
	return c, ok, nil
}

// ListContacts returns all contacts ordered by creation time, then id.
func (s *ContactFileStore) ListContacts(passphrase string) ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := map[string]domain.Contact{}
	if _, err := readSealed(filepath.Join(s.dir, contactsFilename), passphrase, &contacts); err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedUnix != out[j].CreatedUnix {
			return out[i].CreatedUnix < out[j].CreatedUnix
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteContact removes one contact; deleting an unknown id is a no-op.
func (s *ContactFileStore) DeleteContact(passphrase, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFilename)
	contacts := map[string]domain.Contact{}
	if _, err := readSealed(path, passphrase, &contacts); err != nil {
		return err
	}
	if _, ok := contacts[id]; !ok {
		return nil
	}
	delete(contacts, id)
	return writeSealed(path, passphrase, contacts)
}

// Compile-time assertion that ContactFileStore implements domain.ContactStore.
var _ domain.ContactStore = (*ContactFileStore)(nil)

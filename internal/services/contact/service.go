package contact

import (
	"errors"

	"vauchi/internal/domain"
)

// ErrNoContact is returned when an operation targets an unknown contact id.
var ErrNoContact = errors.New("no such contact")

// Service manages contacts through the backing store.
type Service struct {
	contacts domain.ContactStore
	cards    domain.CardStore
}

// New returns a contact service backed by the given stores.
func New(contacts domain.ContactStore, cards domain.CardStore) *Service {
	return &Service{contacts: contacts, cards: cards}
}

// List returns all contacts in creation order.
func (s *Service) List(passphrase string) ([]domain.Contact, error) {
	return s.contacts.ListContacts(passphrase)
}

// Get returns one contact by id.
func (s *Service) Get(passphrase, id string) (domain.Contact, bool, error) {
	return s.contacts.LoadContact(passphrase, id)
}

// SetVisibility records a per-field rule for one contact. The field must
// exist on the owner's card; the rule takes effect on the next sync push.
func (s *Service) SetVisibility(passphrase, contactID, fieldID string, v domain.Visibility) error {
	card, ok, err := s.cards.LoadCard(passphrase)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrFieldNotFound
	}
	if _, ok := card.FieldByID(fieldID); !ok {
		return domain.ErrFieldNotFound
	}

	c, ok, err := s.contacts.LoadContact(passphrase, contactID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoContact
	}
	if c.Visibility == nil {
		c.Visibility = make(map[string]domain.Visibility)
	}
	c.Visibility[fieldID] = v
	return s.contacts.SaveContact(passphrase, c)
}

// MarkVerified flags a contact whose fingerprint was compared out of band.
func (s *Service) MarkVerified(passphrase, id string) error {
	c, ok, err := s.contacts.LoadContact(passphrase, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoContact
	}
	c.Verified = true
	return s.contacts.SaveContact(passphrase, c)
}

// Compile-time assertion that Service implements domain.ContactService.
var _ domain.ContactService = (*Service)(nil)

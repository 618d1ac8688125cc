package card

import (
	"vauchi/internal/card"
	"vauchi/internal/domain"
)

// Service edits the owner's card through the backing store.
type Service struct {
	ids   domain.IdentityStore
	cards domain.CardStore
}

// New returns a card service backed by the given stores.
func New(ids domain.IdentityStore, cards domain.CardStore) *Service {
	return &Service{ids: ids, cards: cards}
}

// Get returns the stored card, creating one from the identity's display
// name if none has been saved yet.
func (s *Service) Get(passphrase string) (domain.ContactCard, error) {
	c, ok, err := s.cards.LoadCard(passphrase)
	if err != nil {
		return domain.ContactCard{}, err
	}
	if ok {
		return c, nil
	}
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.ContactCard{}, err
	}
	c, err = card.New(id.DisplayName)
	if err != nil {
		return domain.ContactCard{}, err
	}
	if err := s.cards.SaveCard(passphrase, c); err != nil {
		return domain.ContactCard{}, err
	}
	return c, nil
}

// SetDisplayName renames the card owner.
func (s *Service) SetDisplayName(passphrase, name string) error {
	c, err := s.Get(passphrase)
	if err != nil {
		return err
	}
	if err := card.SetDisplayName(&c, name); err != nil {
		return err
	}
	return s.cards.SaveCard(passphrase, c)
}

// AddField validates and appends a field, returning it with its new id.
func (s *Service) AddField(passphrase string, typ domain.FieldType, label, value string) (domain.Field, error) {
	c, err := s.Get(passphrase)
	if err != nil {
		return domain.Field{}, err
	}
	f := card.NewField(typ, label, value)
	if err := card.AddField(&c, f); err != nil {
		return domain.Field{}, err
	}
	if err := s.cards.SaveCard(passphrase, c); err != nil {
		return domain.Field{}, err
	}
	return f, nil
}

// UpdateField rewrites an existing field's label and value in place.
func (s *Service) UpdateField(passphrase, fieldID, label, value string) error {
	c, err := s.Get(passphrase)
	if err != nil {
		return err
	}
	if err := card.UpdateField(&c, fieldID, label, value); err != nil {
		return err
	}
	return s.cards.SaveCard(passphrase, c)
}

// RemoveField deletes a field by id.
func (s *Service) RemoveField(passphrase, fieldID string) error {
	c, err := s.Get(passphrase)
	if err != nil {
		return err
	}
	if err := card.RemoveField(&c, fieldID); err != nil {
		return err
	}
	return s.cards.SaveCard(passphrase, c)
}

// ExportVCard renders the owner's card as a vCard 4.0 document.
func (s *Service) ExportVCard(passphrase string) (string, error) {
	c, err := s.Get(passphrase)
	if err != nil {
		return "", err
	}
	return card.ExportVCard(c), nil
}

// ImportVCard replaces the owner's card with the parsed document. The
// version counter keeps moving forward so contacts see the replacement as
// a fresh edit on the next push.
func (s *Service) ImportVCard(passphrase, data string) (domain.ContactCard, error) {
	next, err := card.ImportVCard(data)
	if err != nil {
		return domain.ContactCard{}, err
	}
	prev, ok, err := s.cards.LoadCard(passphrase)
	if err != nil {
		return domain.ContactCard{}, err
	}
	if ok {
		next.Version = prev.Version + 1
	}
	if err := s.cards.SaveCard(passphrase, next); err != nil {
		return domain.ContactCard{}, err
	}
	return next, nil
}

// Compile-time assertion that Service implements domain.CardService.
var _ domain.CardService = (*Service)(nil)

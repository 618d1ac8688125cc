package identity

import (
	"encoding/json"
	"fmt"
	"unicode"

	"vauchi/internal/crypto"
	"vauchi/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12

	backupVersion = 1
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrIdentityExists is returned when Create is called on an initialized home.
	ErrIdentityExists = fmt.Errorf("identity already exists")

	// ErrBadBackup is returned when a backup blob has an unknown version.
	ErrBadBackup = fmt.Errorf("unrecognized backup format")
)

// Service manages the local identity using a backing store.
//
// The identity holds a single master seed; the Ed25519 signing pair and the
// X25519 exchange pair are derived from it on creation and on restore.
type Service struct {
	ids      domain.IdentityStore
	cards    domain.CardStore
	contacts domain.ContactStore
}

// New returns an identity service backed by the given stores.
func New(ids domain.IdentityStore, cards domain.CardStore, contacts domain.ContactStore) *Service {
	return &Service{ids: ids, cards: cards, contacts: contacts}
}

// Create generates a new identity, saves it encrypted with the passphrase,
// and returns the identity plus a short fingerprint of the signing key. An
// initial card carrying only the display name is saved alongside.
func (s *Service) Create(passphrase, displayName string) (domain.Identity, string, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", ErrWeakPassphrase
	}
	if ok, err := s.ids.HasIdentity(); err != nil {
		return domain.Identity{}, "", err
	} else if ok {
		return domain.Identity{}, "", ErrIdentityExists
	}

	id, err := crypto.NewIdentity(displayName)
	if err != nil {
		return domain.Identity{}, "", err
	}
	if err := s.ids.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", err
	}

	c := domain.ContactCard{DisplayName: displayName, Version: 1}
	if err := s.cards.SaveCard(passphrase, c); err != nil {
		return domain.Identity{}, "", err
	}
	return id, crypto.Fingerprint(id.EdPub.Slice()), nil
}

// Load decrypts and returns the local identity.
func (s *Service) Load(passphrase string) (domain.Identity, error) {
	return s.ids.LoadIdentity(passphrase)
}

// Fingerprint returns a short fingerprint of the local signing public key,
// the value two people compare aloud when verifying each other.
func (s *Service) Fingerprint(passphrase string) (string, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(id.EdPub.Slice()), nil
}

// backupPayload is what a backup blob decrypts to.
type backupPayload struct {
	V           int                `json:"v"`
	Seed        []byte             `json:"seed"`
	DisplayName string             `json:"display_name"`
	Card        domain.ContactCard `json:"card"`
	Contacts    []domain.Contact   `json:"contacts"`
}

// ExportBackup seals the seed, card, and contacts under the backup password.
// The blob is self-contained; restoring needs no network.
func (s *Service) ExportBackup(passphrase, backupPassword string) ([]byte, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	card, _, err := s.cards.LoadCard(passphrase)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListContacts(passphrase)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(backupPayload{
		V:           backupVersion,
		Seed:        id.MasterSeed[:],
		DisplayName: id.DisplayName,
		Card:        card,
		Contacts:    contacts,
	})
	if err != nil {
		return nil, err
	}
	return crypto.SealBackup(backupPassword, raw)
}

// ImportBackup restores a backup blob into the local stores, re-deriving the
// key pairs from the seed, and re-encrypts everything under the passphrase.
func (s *Service) ImportBackup(blob []byte, backupPassword, passphrase string) (domain.Identity, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, ErrWeakPassphrase
	}

	raw, err := crypto.OpenBackup(backupPassword, blob)
	if err != nil {
		return domain.Identity{}, err
	}
	var p backupPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Identity{}, err
	}
	if p.V != backupVersion {
		return domain.Identity{}, fmt.Errorf("%w: version %d", ErrBadBackup, p.V)
	}

	id, err := crypto.IdentityFromSeed(p.Seed, p.DisplayName)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.ids.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, err
	}
	if err := s.cards.SaveCard(passphrase, p.Card); err != nil {
		return domain.Identity{}, err
	}
	for _, c := range p.Contacts {
		if err := s.contacts.SaveContact(passphrase, c); err != nil {
			return domain.Identity{}, err
		}
	}
	return id, nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)

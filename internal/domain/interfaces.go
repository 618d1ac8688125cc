package domain

import "context"

// IdentityStore persists the encrypted identity.
type IdentityStore interface {
	SaveIdentity(passphrase string, id Identity) error
	LoadIdentity(passphrase string) (Identity, error)
	HasIdentity() (bool, error)
}

// CardStore persists the owner's card.
type CardStore interface {
	SaveCard(passphrase string, c ContactCard) error
	LoadCard(passphrase string) (ContactCard, bool, error)
}

// ContactStore persists contacts, including their ratchet and sync state.
type ContactStore interface {
	SaveContact(passphrase string, c Contact) error
	LoadContact(passphrase, id string) (Contact, bool, error)
	ListContacts(passphrase string) ([]Contact, error)
	DeleteContact(passphrase, id string) error
}

// SessionStore persists pending exchange sessions keyed by prekey hex.
type SessionStore interface {
	SaveSession(passphrase string, s ExchangeSession) error
	LoadSession(passphrase, prekeyHex string) (ExchangeSession, bool, error)
	DeleteSession(passphrase, prekeyHex string) error
}

// RelayClient is the store-and-forward transport. It only ever carries
// envelopes; see Envelope for what the relay is allowed to learn.
type RelayClient interface {
	Send(ctx context.Context, env Envelope) error
	Fetch(ctx context.Context, addr string, limit int) ([]Envelope, error)
	Ack(ctx context.Context, addr string, count int) error
}

// IdentityService creates, loads, and backs up the identity.
type IdentityService interface {
	Create(passphrase, displayName string) (Identity, string, error)
	Load(passphrase string) (Identity, error)
	Fingerprint(passphrase string) (string, error)
	ExportBackup(passphrase, backupPassword string) ([]byte, error)
	ImportBackup(blob []byte, backupPassword, passphrase string) (Identity, error)
}

// CardService edits the owner's card.
type CardService interface {
	Get(passphrase string) (ContactCard, error)
	SetDisplayName(passphrase, name string) error
	AddField(passphrase string, typ FieldType, label, value string) (Field, error)
	UpdateField(passphrase, fieldID, label, value string) error
	RemoveField(passphrase, fieldID string) error
	ExportVCard(passphrase string) (string, error)
	ImportVCard(passphrase, data string) (ContactCard, error)
}

// ContactService lists contacts and manages per-contact rules.
type ContactService interface {
	List(passphrase string) ([]Contact, error)
	Get(passphrase, id string) (Contact, bool, error)
	SetVisibility(passphrase, contactID, fieldID string, v Visibility) error
	MarkVerified(passphrase, id string) error
}

// ExchangeService drives the first-contact state machine.
//
// Begin creates a session and returns the bundle URI to display; Complete
// consumes a scanned URI, finishes the key agreement, and returns the new
// contact. The publisher's half completes when the peer's hello arrives via
// SyncService.Pull.
type ExchangeService interface {
	Begin(passphrase string) (string, error)
	Complete(ctx context.Context, passphrase, bundleURI string) (Contact, error)
}

// AppliedUpdate summarizes one applied remote delta for the caller.
type AppliedUpdate struct {
	ContactID   string
	DisplayName string
	NewContact  bool
	Added       int
	Changed     int
	Removed     int
}

// SyncService computes, encrypts, and applies card deltas.
type SyncService interface {
	Push(ctx context.Context, passphrase string) error
	PushContact(ctx context.Context, passphrase, contactID string) error
	Pull(ctx context.Context, passphrase string) ([]AppliedUpdate, error)
}

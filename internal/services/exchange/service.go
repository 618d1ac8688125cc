package exchange

import (
	"context"
	"time"

	"vauchi/internal/crypto"
	"vauchi/internal/domain"
	"vauchi/internal/exchange"
	"vauchi/internal/protocol/ratchet"
	"vauchi/internal/protocol/x3dh"
)

// Service runs the two halves of an exchange against the backing stores.
type Service struct {
	ids      domain.IdentityStore
	contacts domain.ContactStore
	sessions domain.SessionStore
	sync     domain.SyncService
	now      func() time.Time
}

// New constructs an exchange service. The sync service delivers the first
// message of each completed exchange.
func New(
	ids domain.IdentityStore,
	contacts domain.ContactStore,
	sessions domain.SessionStore,
	sync domain.SyncService,
) *Service {
	return &Service{ids: ids, contacts: contacts, sessions: sessions, sync: sync, now: time.Now}
}

// Begin mints a session with a fresh signed prekey, persists it, and
// returns the bundle URI to display as a QR code or copy to the peer.
func (s *Service) Begin(passphrase string) (string, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	sess, err := exchange.NewSession(id, s.now())
	if err != nil {
		return "", err
	}
	if err := exchange.Advance(&sess, domain.ExchangeBundlePublished, s.now()); err != nil {
		return "", err
	}
	if err := s.sessions.SaveSession(passphrase, sess); err != nil {
		return "", err
	}
	return exchange.EncodeBundleURI(sess.Bundle), nil
}

// Complete consumes a scanned bundle URI as the initiating side: verify the
// bundle, run the key agreement, store the contact, and send the hello with
// our initial card delta.
func (s *Service) Complete(ctx context.Context, passphrase, bundleURI string) (domain.Contact, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.Contact{}, err
	}

	bundle, err := exchange.DecodeBundleURI(bundleURI)
	if err != nil {
		return domain.Contact{}, err
	}
	if err := x3dh.VerifyBundle(bundle, s.now()); err != nil {
		return domain.Contact{}, err
	}
	if bundle.IdentityEd == id.EdPub {
		return domain.Contact{}, domain.ErrSelfExchange
	}
	peerID := bundle.IdentityEd.Hex()
	if _, ok, err := s.contacts.LoadContact(passphrase, peerID); err != nil {
		return domain.Contact{}, err
	} else if ok {
		return domain.Contact{}, domain.ErrDuplicateContact
	}

	ephPriv, ephPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.Contact{}, err
	}
	root, err := x3dh.InitiatorSecret(id.XPriv, ephPriv, bundle.IdentityX, bundle.SignedPrekey, nil)
	if err != nil {
		return domain.Contact{}, err
	}
	st, err := ratchet.InitInitiator(root, bundle.SignedPrekey)
	if err != nil {
		return domain.Contact{}, err
	}

	c := domain.Contact{
		ID:         peerID,
		EdPub:      bundle.IdentityEd,
		XPub:       bundle.IdentityX,
		Ratchet:    st,
		Visibility: make(map[string]domain.Visibility),
		Sync: domain.SyncStatus{
			State: domain.SyncPending,
			Hello: &domain.ExchangeHello{
				IdentityEd:   id.EdPub,
				IdentityX:    id.XPub,
				Ephemeral:    ephPub,
				SignedPrekey: bundle.SignedPrekey,
			},
		},
		CreatedUnix: s.now().Unix(),
	}
	if err := s.contacts.SaveContact(passphrase, c); err != nil {
		return domain.Contact{}, err
	}

	// First message: hello plus our full visible card as a delta. The peer's
	// card arrives on the next pull.
	if err := s.sync.PushContact(ctx, passphrase, peerID); err != nil {
		return c, err
	}

	got, _, err := s.contacts.LoadContact(passphrase, peerID)
	if err != nil {
		return c, err
	}
	return got, nil
}

// Compile-time assertion that Service implements domain.ExchangeService.
var _ domain.ExchangeService = (*Service)(nil)

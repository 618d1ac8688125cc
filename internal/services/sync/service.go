package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/sirupsen/logrus"

	"vauchi/internal/card"
	"vauchi/internal/domain"
	"vauchi/internal/exchange"
	"vauchi/internal/protocol/ratchet"
	"vauchi/internal/protocol/x3dh"
	deltas "vauchi/internal/sync"
)

// fetchLimit bounds how many envelopes one Pull drains from the relay.
const fetchLimit = 100

// ErrNoContact is returned when PushContact targets an unknown id.
var ErrNoContact = errors.New("no such contact")

// Service computes, encrypts, and applies card deltas over the relay.
type Service struct {
	ids      domain.IdentityStore
	cards    domain.CardStore
	contacts domain.ContactStore
	sessions domain.SessionStore
	relay    domain.RelayClient
	log      *logrus.Logger
	now      func() time.Time

	mu    gosync.Mutex
	locks map[string]*gosync.Mutex
}

// New constructs a sync service over the given stores and relay client.
func New(
	ids domain.IdentityStore,
	cards domain.CardStore,
	contacts domain.ContactStore,
	sessions domain.SessionStore,
	relay domain.RelayClient,
	log *logrus.Logger,
) *Service {
	return &Service{
		ids:      ids,
		cards:    cards,
		contacts: contacts,
		sessions: sessions,
		relay:    relay,
		log:      log,
		now:      time.Now,
		locks:    make(map[string]*gosync.Mutex),
	}
}

// contactLock returns the mutex serializing protocol steps for one contact.
func (s *Service) contactLock(id string) *gosync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.locks[id]
	if !ok {
		lk = &gosync.Mutex{}
		s.locks[id] = lk
	}
	return lk
}

// Push sends the current card, filtered per contact, to every contact whose
// acknowledged view is out of date. Contacts that fail are logged and
// skipped; the rest proceed.
func (s *Service) Push(ctx context.Context, passphrase string) error {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return err
	}
	own, ok, err := s.cards.LoadCard(passphrase)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	all, err := s.contacts.ListContacts(passphrase)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range all {
		if err := s.pushOne(ctx, passphrase, id, own, c.ID); err != nil {
			s.log.WithFields(logrus.Fields{
				"contact": shortID(c.ID),
				"err":     err,
			}).Warn("push failed")
			errs = append(errs, fmt.Errorf("contact %s: %w", shortID(c.ID), err))
		}
	}
	return errors.Join(errs...)
}

// PushContact sends the current card to a single contact.
func (s *Service) PushContact(ctx context.Context, passphrase, contactID string) error {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return err
	}
	own, ok, err := s.cards.LoadCard(passphrase)
	if err != nil {
		return err
	}
	if !ok {
		own = domain.ContactCard{DisplayName: id.DisplayName, Version: 1}
	}
	return s.pushOne(ctx, passphrase, id, own, contactID)
}

func (s *Service) pushOne(ctx context.Context, passphrase string, id domain.Identity, own domain.ContactCard, contactID string) error {
	lk := s.contactLock(contactID)
	lk.Lock()
	defer lk.Unlock()

	c, ok, err := s.contacts.LoadContact(passphrase, contactID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoContact
	}

	// Visibility is evaluated fresh on every push; a rule change since the
	// last push surfaces here as adds or removals.
	visible := card.VisibleTo(own, c.ID, c.Visibility)
	delta := deltas.ComputeDelta(c.Sync.LastSentCard, visible)

	body := c.Sync.Outbox
	if !delta.IsEmpty() || body == nil {
		if c.Sync.Pending != nil {
			delta = deltas.MergeDeltas(*c.Sync.Pending, delta)
		}
		if delta.IsEmpty() && c.Sync.Hello == nil {
			// New edits cancelled the undelivered ones out; nothing is owed.
			if c.Sync.State != domain.SyncSynced || c.Sync.Outbox != nil {
				c.Sync.State = domain.SyncSynced
				c.Sync.Pending = nil
				c.Sync.Outbox = nil
				c.Sync.LastSentCard = visible
				return s.contacts.SaveContact(passphrase, c)
			}
			return nil
		}

		payload, err := deltas.EncodeDelta(delta)
		if err != nil {
			return err
		}
		header, cipher, err := ratchet.Encrypt(&c.Ratchet, channelAD(id.EdPub, c.EdPub), payload)
		if err != nil {
			return err
		}
		body, err = json.Marshal(domain.WireMessage{
			Hello:  c.Sync.Hello,
			Header: header,
			Cipher: cipher,
		})
		if err != nil {
			return err
		}

		// The advanced ratchet, the pending delta, and the ciphertext must
		// hit disk before the send: a crash after Send would otherwise reuse
		// a message key, and a failed send retries this exact ciphertext.
		c.Sync.State = domain.SyncPending
		c.Sync.Pending = &delta
		c.Sync.Outbox = body
		c.Sync.LastSentCard = visible
		if err := s.contacts.SaveContact(passphrase, c); err != nil {
			return err
		}
	} else if c.Sync.Pending != nil {
		delta = *c.Sync.Pending
	}

	env := domain.Envelope{
		To:        c.ID,
		From:      id.EdPub.Hex(),
		Payload:   body,
		Timestamp: s.now().Unix(),
	}
	if err := s.relay.Send(ctx, env); err != nil {
		c.Sync.State = domain.SyncFailed
		c.Sync.LastError = err.Error()
		if saveErr := s.contacts.SaveContact(passphrase, c); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		return err
	}

	c.Sync.State = domain.SyncSynced
	c.Sync.LastSentCard = visible
	c.Sync.Pending = nil
	c.Sync.Outbox = nil
	c.Sync.Hello = nil
	c.Sync.LastSyncUnix = s.now().Unix()
	c.Sync.LastError = ""
	if err := s.contacts.SaveContact(passphrase, c); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"contact": shortID(c.ID),
		"added":   len(delta.Added),
		"changed": len(delta.Changed),
		"removed": len(delta.RemovedIDs),
	}).Debug("delta pushed")
	return nil
}

// Pull drains queued envelopes, applies their deltas, and acknowledges what
// it consumed. Envelopes that fail to decrypt or apply are dropped with a
// log line; ratchet state advanced by a successful decrypt is kept even
// when the delta inside is rejected.
func (s *Service) Pull(ctx context.Context, passphrase string) ([]domain.AppliedUpdate, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	addr := id.EdPub.Hex()

	envs, err := s.relay.Fetch(ctx, addr, fetchLimit)
	if err != nil {
		return nil, err
	}

	var updates []domain.AppliedUpdate
	processed := 0
	for _, env := range envs {
		upd, err := s.handleEnvelope(ctx, passphrase, id, env)
		processed++
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"from": shortID(env.From),
				"err":  err,
			}).Warn("dropping envelope")
			continue
		}
		if upd != nil {
			updates = append(updates, *upd)
		}
	}
	if processed > 0 {
		if err := s.relay.Ack(ctx, addr, processed); err != nil {
			return updates, err
		}
	}
	return updates, nil
}

func (s *Service) handleEnvelope(ctx context.Context, passphrase string, id domain.Identity, env domain.Envelope) (*domain.AppliedUpdate, error) {
	var wire domain.WireMessage
	if err := json.Unmarshal(env.Payload, &wire); err != nil {
		return nil, fmt.Errorf("malformed wire message: %w", err)
	}

	c, ok, err := s.contacts.LoadContact(passphrase, env.From)
	if err != nil {
		return nil, err
	}
	if !ok {
		if wire.Hello == nil {
			return nil, fmt.Errorf("message from unknown sender")
		}
		return s.acceptHello(ctx, passphrase, id, wire)
	}

	lk := s.contactLock(c.ID)
	lk.Lock()
	defer lk.Unlock()
	// Reload under the lock; a concurrent push may have advanced the ratchet.
	c, ok, err = s.contacts.LoadContact(passphrase, env.From)
	if err != nil || !ok {
		return nil, err
	}

	plaintext, err := ratchet.Decrypt(&c.Ratchet, channelAD(c.EdPub, id.EdPub), wire.Header, wire.Cipher)
	if errors.Is(err, domain.ErrDuplicateMessage) {
		s.log.WithField("contact", shortID(c.ID)).Debug("duplicate message skipped")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	upd, applyErr := s.applyDelta(&c, plaintext)
	// The decrypt advanced the ratchet; persist that even when the delta
	// inside was rejected.
	if err := s.contacts.SaveContact(passphrase, c); err != nil {
		return nil, err
	}
	if applyErr != nil {
		return nil, applyErr
	}
	return upd, nil
}

// applyDelta decodes plaintext and folds it into the contact's remote card.
func (s *Service) applyDelta(c *domain.Contact, plaintext []byte) (*domain.AppliedUpdate, error) {
	delta, err := deltas.DecodeDelta(plaintext)
	if err != nil {
		return nil, err
	}
	next, err := deltas.ApplyDelta(c.RemoteCard, delta)
	if err != nil {
		return nil, err
	}
	c.RemoteCard = next
	if delta.DisplayName != nil {
		c.DisplayName = *delta.DisplayName
	}
	return &domain.AppliedUpdate{
		ContactID:   c.ID,
		DisplayName: c.DisplayName,
		Added:       len(delta.Added),
		Changed:     len(delta.Changed),
		Removed:     len(delta.RemovedIDs),
	}, nil
}

// acceptHello completes the publisher's half of an exchange: the first
// message from a new peer carries their identity and ephemeral keys plus
// their initial card delta. On success the peer becomes a contact and our
// own card is pushed back so both sides finish with each other's cards.
func (s *Service) acceptHello(ctx context.Context, passphrase string, id domain.Identity, wire domain.WireMessage) (*domain.AppliedUpdate, error) {
	// The header's ratchet key seeds InitResponder below, before Decrypt
	// gets a chance to reject it, so its shape is checked here.
	if len(wire.Header.DHPub) != 32 {
		return nil, domain.ErrUnknownRatchetKey
	}

	h := wire.Hello
	peerID := h.IdentityEd.Hex()
	if peerID == id.EdPub.Hex() {
		return nil, domain.ErrSelfExchange
	}
	if _, ok, err := s.contacts.LoadContact(passphrase, peerID); err != nil {
		return nil, err
	} else if ok {
		return nil, domain.ErrDuplicateContact
	}

	prekeyHex := h.SignedPrekey.Hex()
	sess, ok, err := s.sessions.LoadSession(passphrase, prekeyHex)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no exchange session for hello")
	}
	now := s.now()
	if err := exchange.Advance(&sess, domain.ExchangeSecretEstablished, now); err != nil {
		_ = s.sessions.DeleteSession(passphrase, prekeyHex)
		return nil, err
	}

	root, err := x3dh.ResponderSecret(id.XPriv, sess.PrekeyPriv, h.IdentityX, h.Ephemeral, nil)
	if err != nil {
		return nil, err
	}
	st, err := ratchet.InitResponder(root, sess.PrekeyPriv, domain.MustX25519Public(wire.Header.DHPub))
	if err != nil {
		return nil, err
	}

	c := domain.Contact{
		ID:          peerID,
		EdPub:       h.IdentityEd,
		XPub:        h.IdentityX,
		Ratchet:     st,
		Visibility:  make(map[string]domain.Visibility),
		Sync:        domain.SyncStatus{State: domain.SyncPending},
		CreatedUnix: now.Unix(),
	}
	plaintext, err := ratchet.Decrypt(&c.Ratchet, channelAD(c.EdPub, id.EdPub), wire.Header, wire.Cipher)
	if err != nil {
		return nil, err
	}
	upd, err := s.applyDelta(&c, plaintext)
	if err != nil {
		return nil, err
	}
	upd.NewContact = true

	if err := s.contacts.SaveContact(passphrase, c); err != nil {
		return nil, err
	}
	if err := exchange.Advance(&sess, domain.ExchangeCompleted, now); err != nil {
		return nil, err
	}
	if err := s.sessions.DeleteSession(passphrase, prekeyHex); err != nil {
		return nil, err
	}

	s.log.WithField("contact", shortID(peerID)).Info("exchange completed")

	// Answer with our card so the scanning side learns it without another
	// round trip.
	if err := s.PushContact(ctx, passphrase, peerID); err != nil {
		s.log.WithFields(logrus.Fields{
			"contact": shortID(peerID),
			"err":     err,
		}).Warn("initial push back failed")
	}
	return upd, nil
}

// channelAD binds ciphertexts to the sender/recipient identity pair.
func channelAD(sender, recipient domain.Ed25519Public) []byte {
	ad := make([]byte, 0, 64)
	ad = append(ad, sender[:]...)
	return append(ad, recipient[:]...)
}

// shortID truncates a contact id for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Compile-time assertion that Service implements domain.SyncService.
var _ domain.SyncService = (*Service)(nil)

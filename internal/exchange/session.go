package exchange

import (
	"fmt"
	"time"

	"vauchi/internal/crypto"
	"vauchi/internal/domain"
)

// Validity is how long a published bundle may be completed against.
const Validity = 300 * time.Second

// NewSession mints a session with a fresh signed prekey, valid for Validity
// from now. The returned session is in the Created state; the caller moves
// it to BundlePublished once the URI has been displayed or published.
func NewSession(id domain.Identity, now time.Time) (domain.ExchangeSession, error) {
	spkPriv, spkPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.ExchangeSession{}, err
	}

	b := domain.ExchangeBundle{
		IdentityEd:   id.EdPub,
		IdentityX:    id.XPub,
		SignedPrekey: spkPub,
		ExpiresAt:    now.Add(Validity).Unix(),
	}
	b.Signature = crypto.SignEd25519(id.EdPriv, b.SignedPayload())

	return domain.ExchangeSession{
		State:      domain.ExchangeCreated,
		Bundle:     b,
		PrekeyPriv: spkPriv,
		CreatedAt:  now.Unix(),
	}, nil
}

// Expired reports whether the session's validity window has passed.
func Expired(s domain.ExchangeSession, now time.Time) bool {
	return now.Unix() > s.Bundle.ExpiresAt
}

// Advance moves a session to next, enforcing the state machine. Expiry is
// checked first: any pre-Completed session past its window goes terminal
// Expired and the move fails with domain.ErrExpiredSession.
func Advance(s *domain.ExchangeSession, next domain.ExchangeState, now time.Time) error {
	if s.State != domain.ExchangeCompleted && Expired(*s, now) {
		s.State = domain.ExchangeExpired
		return domain.ErrExpiredSession
	}
	if !validMove(s.State, next) {
		return fmt.Errorf("exchange: cannot move from %s to %s", s.State, next)
	}
	s.State = next
	return nil
}

func validMove(from, to domain.ExchangeState) bool {
	switch from {
	case domain.ExchangeCreated:
		return to == domain.ExchangeBundlePublished
	case domain.ExchangeBundlePublished:
		return to == domain.ExchangeSecretEstablished
	case domain.ExchangeSecretEstablished:
		return to == domain.ExchangeCompleted
	default:
		return false
	}
}

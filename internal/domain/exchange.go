package domain

import "encoding/binary"

// ExchangeBundle is the published material enabling offline key agreement:
// identity keys, a session-ephemeral signed prekey, and an expiry, signed by
// the identity signing key. Encoded as a vauchi: URI for QR display or
// copy-paste (see internal/exchange).
type ExchangeBundle struct {
	IdentityEd   Ed25519Public `json:"identity_ed"`
	IdentityX    X25519Public  `json:"identity_x"`
	SignedPrekey X25519Public  `json:"signed_prekey"`
	Signature    []byte        `json:"signature"` // Ed25519 over SignedPayload
	ExpiresAt    int64         `json:"expires_at"`
}

// SignedPayload returns the bytes covered by Signature: the signed prekey
// followed by the big-endian expiry.
func (b ExchangeBundle) SignedPayload() []byte {
	out := make([]byte, 0, 40)
	out = append(out, b.SignedPrekey[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(b.ExpiresAt))
	return append(out, ts[:]...)
}

// ExchangeState is the session state machine position.
type ExchangeState string

const (
	ExchangeCreated           ExchangeState = "created"
	ExchangeBundlePublished   ExchangeState = "bundle_published"
	ExchangeSecretEstablished ExchangeState = "secret_established"
	ExchangeCompleted         ExchangeState = "completed"
	ExchangeExpired           ExchangeState = "expired"
)

// ExchangeSession is the persisted record of a short-lived exchange, keyed
// by the hex of its signed prekey. The state machine over it lives in
// internal/exchange.
type ExchangeSession struct {
	State      ExchangeState  `json:"state"`
	Bundle     ExchangeBundle `json:"bundle"`
	PrekeyPriv X25519Private  `json:"prekey_priv"`
	CreatedAt  int64          `json:"created_at"`
}

// ExchangeHello rides the first message from the scanning party so the
// bundle publisher can complete its half of the key agreement. SignedPrekey
// echoes the bundle's prekey so the publisher can locate the session.
type ExchangeHello struct {
	IdentityEd   Ed25519Public `json:"identity_ed"`
	IdentityX    X25519Public  `json:"identity_x"`
	Ephemeral    X25519Public  `json:"ephemeral"`
	SignedPrekey X25519Public  `json:"signed_prekey"`
}

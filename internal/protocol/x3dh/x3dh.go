package x3dh

import (
	"crypto/sha256"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"vauchi/internal/crypto"
	"vauchi/internal/domain"
	"vauchi/internal/util/memzero"
)

// Domain-separation label for the root key derivation.
const kdfInfo = "vauchi-x3dh-v1"

// RootKeyBytes is the size of the derived initial root key.
const RootKeyBytes = 32

// VerifyBundle checks the bundle's Ed25519 signature and expiry against now.
func VerifyBundle(b domain.ExchangeBundle, now time.Time) error {
	if !crypto.VerifyEd25519(b.IdentityEd, b.SignedPayload(), b.Signature) {
		return domain.ErrInvalidBundleSignature
	}
	if now.Unix() > b.ExpiresAt {
		return domain.ErrStaleBundle
	}
	return nil
}

// InitiatorSecret derives the initial root key for the scanning party.
//
// ourXPriv is our identity exchange key, ourEphPriv a fresh ephemeral pair
// generated for this agreement. peerOPK, when non-nil, mixes a one-time
// prekey into the transcript as a fourth DH.
func InitiatorSecret(
	ourXPriv domain.X25519Private,
	ourEphPriv domain.X25519Private,
	peerXPub domain.X25519Public,
	peerSPK domain.X25519Public,
	peerOPK *domain.X25519Public,
) ([]byte, error) {
	dh1, err := crypto.DH(ourXPriv, peerSPK) // IKa · SPKb
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(ourEphPriv, peerXPub) // EKa · IKb
	if err != nil {
		return nil, err
	}
	dh3, err := crypto.DH(ourEphPriv, peerSPK) // EKa · SPKb
	if err != nil {
		return nil, err
	}

	transcript := make([]byte, 0, 32*4)
	transcript = append(transcript, dh1[:]...)
	transcript = append(transcript, dh2[:]...)
	transcript = append(transcript, dh3[:]...)
	if peerOPK != nil {
		dh4, err := crypto.DH(ourEphPriv, *peerOPK) // EKa · OPKb
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, dh4[:]...)
	}
	return deriveRoot(transcript)
}

// ResponderSecret derives the same root key for the bundle publisher once
// the scanner's identity and ephemeral publics arrive.
func ResponderSecret(
	ourXPriv domain.X25519Private,
	ourSPKPriv domain.X25519Private,
	peerXPub domain.X25519Public,
	peerEph domain.X25519Public,
	ourOPKPriv *domain.X25519Private,
) ([]byte, error) {
	dh1, err := crypto.DH(ourSPKPriv, peerXPub) // SPKb · IKa
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(ourXPriv, peerEph) // IKb · EKa
	if err != nil {
		return nil, err
	}
	dh3, err := crypto.DH(ourSPKPriv, peerEph) // SPKb · EKa
	if err != nil {
		return nil, err
	}

	transcript := make([]byte, 0, 32*4)
	transcript = append(transcript, dh1[:]...)
	transcript = append(transcript, dh2[:]...)
	transcript = append(transcript, dh3[:]...)
	if ourOPKPriv != nil {
		dh4, err := crypto.DH(*ourOPKPriv, peerEph) // OPKb · EKa
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, dh4[:]...)
	}
	return deriveRoot(transcript)
}

func deriveRoot(transcript []byte) ([]byte, error) {
	defer memzero.Zero(transcript)

	root := make([]byte, RootKeyBytes)
	r := hkdf.New(sha256.New, transcript, nil, []byte(kdfInfo))
	if _, err := io.ReadFull(r, root); err != nil {
		return nil, err
	}
	return root, nil
}

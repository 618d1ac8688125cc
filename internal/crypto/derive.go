package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"vauchi/internal/domain"
	"vauchi/internal/util/memzero"
)

// Domain-separation label for the exchange sub-seed.
const exchangeSeedInfo = "vauchi-exchange-v1"

// NewMasterSeed returns 32 fresh random bytes.
func NewMasterSeed() ([domain.SeedBytes]byte, error) {
	var seed [domain.SeedBytes]byte
	_, err := rand.Read(seed[:])
	return seed, err
}

// DeriveIdentityKeys derives the signing and exchange key pairs from the
// master seed. The derivation is pure: the same seed always yields the same
// keys, which is what makes restore-from-seed work without re-exchanging
// with existing contacts.
func DeriveIdentityKeys(seed []byte) (edPriv domain.Ed25519Private, edPub domain.Ed25519Public, xPriv domain.X25519Private, xPub domain.X25519Public, err error) {
	if len(seed) != domain.SeedBytes {
		err = domain.ErrInvalidSeedLength
		return
	}

	edPriv, edPub = Ed25519FromSeed(seed)

	xSeed := make([]byte, 32)
	r := hkdf.New(sha256.New, seed, nil, []byte(exchangeSeedInfo))
	if _, err = io.ReadFull(r, xSeed); err != nil {
		return
	}
	xPriv, xPub, err = X25519FromSeed(xSeed)
	memzero.Zero(xSeed)
	return
}

// NewIdentity generates a fresh seed and derives an identity from it.
func NewIdentity(displayName string) (domain.Identity, error) {
	seed, err := NewMasterSeed()
	if err != nil {
		return domain.Identity{}, err
	}
	return IdentityFromSeed(seed[:], displayName)
}

// IdentityFromSeed rebuilds an identity from an existing seed.
func IdentityFromSeed(seed []byte, displayName string) (domain.Identity, error) {
	edPriv, edPub, xPriv, xPub, err := DeriveIdentityKeys(seed)
	if err != nil {
		return domain.Identity{}, err
	}
	id := domain.Identity{
		EdPub:       edPub,
		EdPriv:      edPriv,
		XPub:        xPub,
		XPriv:       xPriv,
		DisplayName: displayName,
	}
	copy(id.MasterSeed[:], seed)
	return id, nil
}

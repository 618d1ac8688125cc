package domain

import "vauchi/internal/util/memzero"

// SeedBytes is the fixed master seed length.
const SeedBytes = 32

// Identity holds the master seed and the keypairs derived from it.
//
// The seed is the single secret: signing and exchange keys are recomputed
// deterministically from it (see crypto.DeriveIdentityKeys), which is what
// makes restore-from-backup work without re-exchanging with contacts.
// Identity values are passed explicitly, never held in package state.
type Identity struct {
	MasterSeed [SeedBytes]byte

	EdPub  Ed25519Public
	EdPriv Ed25519Private
	XPub   X25519Public
	XPriv  X25519Private

	DisplayName string
}

// Wipe zeroes the seed and private keys. The identity is unusable afterwards.
func (id *Identity) Wipe() {
	memzero.Zero(id.MasterSeed[:])
	memzero.Zero(id.EdPriv[:])
	memzero.Zero(id.XPriv[:])
}

package domain

import (
	"encoding/hex"
	"fmt"
)

// ------------- X25519 -------------

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// X25519Private is a Curve25519 private key (clamped per RFC 7748).
type X25519Private [32]byte

func (p X25519Public) Slice() []byte  { return p[:] }
func (k X25519Private) Slice() []byte { return k[:] }

// Hex returns the lowercase hex of the public key, used as a lookup key.
func (p X25519Public) Hex() string { return hex.EncodeToString(p[:]) }

// ------------- Ed25519 -------------

// Ed25519Public is a signing public key.
type Ed25519Public [32]byte

// Ed25519Private is a signing private key (ed25519.PrivateKey layout).
type Ed25519Private [64]byte

func (p Ed25519Public) Slice() []byte  { return p[:] }
func (k Ed25519Private) Slice() []byte { return k[:] }

// Hex returns the lowercase hex of the public key. It doubles as the
// contact id and the relay address.
func (p Ed25519Public) Hex() string { return hex.EncodeToString(p[:]) }

// MustX25519Public copies b into a fixed-size public key.
func MustX25519Public(b []byte) X25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("X25519 public: want 32 bytes, got %d", len(b)))
	}
	var out X25519Public
	copy(out[:], b)
	return out
}

// MustEd25519Public copies b into a fixed-size signing public key.
func MustEd25519Public(b []byte) Ed25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("Ed25519 public: want 32 bytes, got %d", len(b)))
	}
	var out Ed25519Public
	copy(out[:], b)
	return out
}

// Package crypto exposes the primitives used by Vauchi.
//
// Contents
//
//   - Deterministic identity derivation from a 32-byte master seed
//     (DeriveIdentityKeys): Ed25519 signing pair directly from the seed,
//     X25519 exchange pair from an HKDF-expanded sub-seed
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Ed25519 signing and verification (SignEd25519, VerifyEd25519)
//   - Passphrase envelopes for at-rest encryption (SealWithPassphrase,
//     OpenWithPassphrase) built on Argon2id and ChaCha20-Poly1305
//   - The password-stretched backup blob format (SealBackup, OpenBackup)
//   - Short public-key fingerprints for display (Fingerprint)
//
// # Notes
//
// All functions return fixed-size array types defined in internal/domain to
// avoid accidental reallocations. Callers should treat returned secrets as
// sensitive and rely on memzero.Zero when practical to reduce lifetime in
// memory. Nothing in this package logs.
package crypto

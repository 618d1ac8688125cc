// Package x3dh implements the X3DH-style key agreement used to bootstrap a
// Double Ratchet channel after a single in-person bundle exchange.
//
// # Overview
//
// One party publishes an exchange bundle (identity keys, a session-ephemeral
// signed prekey, and an expiry, signed under its Ed25519 identity key). The
// scanning party derives a shared 32-byte root key from the bundle alone; the
// publisher need not be online. The bundle is asymmetric in timing: the
// publisher completes its half later, from the scanner's first message.
//
// # Flows
//
// Initiator (the scanner):
//  1. Verify the bundle signature and expiry (VerifyBundle).
//  2. Generate an ephemeral X25519 key pair.
//  3. Compute DH values (IKa·SPKb, EKa·IKb, EKa·SPKb[, EKa·OPKb]).
//  4. HKDF over the concatenated DH transcript to produce the root key.
//
// Responder (the publisher):
//  1. Receive the hello (initiator identity key and ephemeral public).
//  2. Compute the symmetric DH set (SPKb·IKa, IKb·EKa, SPKb·EKa[, OPKb·EKa]).
//  3. HKDF the same transcript to the identical root key.
//
// # Security notes
//
// Only public material is sent over the wire. The root key must be consumed
// immediately by ratchet initialization and never logged or retained.
package x3dh

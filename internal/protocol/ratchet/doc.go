// Package ratchet implements the Double Ratchet algorithm following Signal's
// design.
//
// The algorithm maintains a root key and two message chains (send and
// receive). Each message advances a KDF chain so that keys are forward
// secure. When a party changes its DH ratchet public key, both sides derive
// new chain keys from a new root derived via DH, which restores
// confidentiality after a state compromise.
//
// Out-of-order delivery is handled by caching skipped message keys, bounded
// by maxSkippedKeys; exceeding the bound fails with
// domain.ErrTooManySkippedMessages. Redelivery of an already-decrypted
// message number fails with domain.ErrDuplicateMessage. Decrypt works on a
// scratch copy of the state and commits only on success, so a failed message
// never corrupts persisted ratchet state.
//
// Concurrency: RatchetState is NOT safe for concurrent use. Callers must
// serialise access per contact.
package ratchet

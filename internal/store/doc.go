// Package store provides file-based persistence for vauchi's core data.
//
// It contains concrete implementations of the domain storage interfaces.
// Every file is sealed with a passphrase-derived key before it touches disk
// and written via a temp file plus rename, so an interrupted write never
// leaves a torn record. All methods are concurrency-safe via internal
// locking. Stored files live under the user's configured home directory.
//
// The package includes stores for:
//   - The local identity (IdentityFileStore)
//   - The owner's contact card (CardFileStore)
//   - Contacts with their ratchet and sync state (ContactFileStore)
//   - Pending exchange sessions (SessionFileStore)
package store

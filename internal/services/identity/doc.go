// Package identity manages creation, loading, and backup of the local
// identity.
//
// It enforces passphrase policy, derives the key pairs from the master seed,
// and persists them via the domain.IdentityStore. Backups wrap the seed and
// the user's data in a slow argon2id envelope; restoring re-derives the same
// key pairs, so contacts established before the backup keep working.
package identity

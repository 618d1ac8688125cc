package domain

import "errors"

// Cryptographic failures. These always fail closed and never carry secret
// material or plaintext field values.
var (
	// ErrInvalidSeedLength is returned when a master seed is not SeedBytes long.
	ErrInvalidSeedLength = errors.New("invalid master seed length")

	// ErrInvalidBundleSignature is returned when an exchange bundle's
	// signature does not verify under the claimed identity key.
	ErrInvalidBundleSignature = errors.New("invalid bundle signature")

	// ErrStaleBundle is returned when an exchange bundle is past its expiry.
	ErrStaleBundle = errors.New("stale exchange bundle")

	// ErrMalformedBundle is returned when a bundle URI cannot be decoded.
	ErrMalformedBundle = errors.New("malformed exchange bundle")

	// ErrAuthenticationFailed is returned when AEAD authentication of a
	// message fails. The message is dropped; ratchet state is untouched.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrUnknownRatchetKey is returned when a header carries a ratchet key
	// that cannot be reconciled with the current receive chain.
	ErrUnknownRatchetKey = errors.New("unknown ratchet key")
)

// Protocol-state failures. Recoverable by caller policy; persisted ratchet
// and sync state stay intact.
var (
	// ErrExpiredSession is returned when exchange completion is attempted
	// after the validity window.
	ErrExpiredSession = errors.New("exchange session expired")

	// ErrDuplicateContact is returned when a completed exchange maps to an
	// identity we already hold a contact for.
	ErrDuplicateContact = errors.New("contact already exists for identity")

	// ErrSelfExchange is returned when a scanned bundle belongs to our own
	// identity.
	ErrSelfExchange = errors.New("cannot exchange with own identity")

	// ErrDuplicateMessage is returned when a message number has already been
	// decrypted on the current receive chain.
	ErrDuplicateMessage = errors.New("message already decrypted")

	// ErrTooManySkippedMessages is returned when decrypting a message would
	// require caching more skipped keys than the fixed limit.
	ErrTooManySkippedMessages = errors.New("too many skipped messages")
)

// Data-integrity failures. The offending delta is discarded; other contacts
// are unaffected.
var (
	// ErrUnknownField is returned when a delta change or removal references
	// a field id absent from the snapshot.
	ErrUnknownField = errors.New("delta references unknown field")

	// ErrMalformedDelta is returned when a received delta cannot be decoded.
	ErrMalformedDelta = errors.New("malformed card delta")

	// ErrOversizedField is returned when a delta carries a display name or
	// field value beyond the card limits.
	ErrOversizedField = errors.New("field value exceeds size limit")

	// ErrFieldNotFound is returned by card edits targeting a missing field.
	ErrFieldNotFound = errors.New("field not found")

	// ErrCardFull is returned when adding a field would exceed MaxFields.
	ErrCardFull = errors.New("maximum number of fields reached")
)

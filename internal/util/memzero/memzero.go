package memzero

import "crypto/subtle"

// Zero clears b so key material does not linger after use. The write goes
// through crypto/subtle, which the compiler will not elide as a dead store.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}

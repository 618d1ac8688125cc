package domain

// RatchetHeader accompanies each ciphertext.
type RatchetHeader struct {
	DHPub []byte `json:"dh"` // sender's current ratchet public key, 32 bytes
	PN    uint32 `json:"pn"` // length of the previous sending chain
	N     uint32 `json:"n"`  // message number within the current chain
}

// RatchetState holds Double Ratchet state for one contact.
//
// Skipped caches message keys derived for not-yet-seen message numbers so
// out-of-order delivery still decrypts. It is bounded (see the ratchet
// package) to cap memory under adversarial reordering; keys are indexed by
// chain public key and message number.
type RatchetState struct {
	RootKey []byte `json:"root_key"`

	DHPriv X25519Private `json:"dh_priv"`
	DHPub  X25519Public  `json:"dh_pub"`

	PeerDHPub X25519Public `json:"peer_dh_pub"`

	SendCK []byte `json:"send_ck"`
	RecvCK []byte `json:"recv_ck"`

	Ns uint32 `json:"ns"` // send message number
	Nr uint32 `json:"nr"` // receive message number
	PN uint32 `json:"pn"` // previous sending chain length

	Skipped map[string][]byte `json:"skipped,omitempty"`
}

// Clone returns a deep copy, used to keep failed decrypts from touching
// persisted state.
func (s RatchetState) Clone() RatchetState {
	out := s
	out.RootKey = append([]byte(nil), s.RootKey...)
	out.SendCK = append([]byte(nil), s.SendCK...)
	out.RecvCK = append([]byte(nil), s.RecvCK...)
	out.Skipped = make(map[string][]byte, len(s.Skipped))
	for k, v := range s.Skipped {
		out.Skipped[k] = append([]byte(nil), v...)
	}
	return out
}

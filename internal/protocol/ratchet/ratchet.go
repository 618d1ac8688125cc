package ratchet

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"vauchi/internal/crypto"
	"vauchi/internal/domain"
	"vauchi/internal/util/memzero"
)

const (
	aeadKeySize = 32
	nonceSize   = chacha20poly1305.NonceSize

	// Hard cap on cached skipped message keys across all chains.
	maxSkippedKeys = 1000
)

// KDF labels for root and chain advancement.
const (
	rootInfo  = "vauchi-rk"
	chainInfo = "vauchi-ck"
)

var errChainUninitialised = errors.New("ratchet chain key is uninitialised")

// InitInitiator seeds the sending chain from the X3DH root using a fresh
// ratchet key pair against the peer's published seed key (its signed prekey).
func InitInitiator(root []byte, peerSeedPub domain.X25519Public) (domain.RatchetState, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.RatchetState{}, err
	}

	dh, err := crypto.DH(priv, peerSeedPub)
	if err != nil {
		return domain.RatchetState{}, err
	}
	newRK, sendCK := kdfRK(root, dh[:])
	memzero.Zero(dh[:])

	return domain.RatchetState{
		RootKey:   newRK,
		DHPriv:    priv,
		DHPub:     pub,
		PeerDHPub: peerSeedPub, // placeholder until the first remote ratchet pub arrives
		SendCK:    sendCK,
		Skipped:   make(map[string][]byte),
	}, nil
}

// InitResponder seeds the receiving chain from the X3DH root using our seed
// key pair (the signed prekey) and the sender's first ratchet public key.
func InitResponder(root []byte, ourSeedPriv domain.X25519Private, senderRatchetPub domain.X25519Public) (domain.RatchetState, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.RatchetState{}, err
	}

	dh, err := crypto.DH(ourSeedPriv, senderRatchetPub)
	if err != nil {
		return domain.RatchetState{}, err
	}
	newRK, recvCK := kdfRK(root, dh[:])
	memzero.Zero(dh[:])

	return domain.RatchetState{
		RootKey:   newRK,
		DHPriv:    priv,
		DHPub:     pub,
		PeerDHPub: senderRatchetPub,
		RecvCK:    recvCK,
		Skipped:   make(map[string][]byte),
	}, nil
}

// Encrypt produces a header and ciphertext, advancing the sending chain.
// The responder's first send performs a DH ratchet step to establish its
// sending chain. ad binds caller context (sender and recipient identity);
// the header is additionally bound inside the AEAD.
func Encrypt(st *domain.RatchetState, ad, plaintext []byte) (domain.RatchetHeader, []byte, error) {
	if len(st.SendCK) == 0 {
		if err := stepSending(st); err != nil {
			return domain.RatchetHeader{}, nil, err
		}
	}

	mk, err := nextSendKey(st)
	if err != nil {
		return domain.RatchetHeader{}, nil, err
	}
	h := domain.RatchetHeader{DHPub: st.DHPub.Slice(), PN: st.PN, N: st.Ns}

	ct, err := seal(mk, h, ad, plaintext)
	memzero.Zero(mk)
	if err != nil {
		return domain.RatchetHeader{}, nil, err
	}
	st.Ns++
	return h, ct, nil
}

// Decrypt opens a message, tolerating arbitrary reordering within the skip
// window and ratcheting forward when the header carries a new remote key.
//
// All state mutation happens on a scratch copy committed only on success:
// any error leaves *st exactly as it was.
func Decrypt(st *domain.RatchetState, ad []byte, header domain.RatchetHeader, ciphertext []byte) ([]byte, error) {
	if len(header.DHPub) != 32 {
		return nil, domain.ErrUnknownRatchetKey
	}

	scratch := st.Clone()

	// A cached skipped key covers out-of-order delivery on any chain,
	// including chains already left behind by a ratchet step.
	if pt, ok, err := trySkipped(&scratch, ad, header, ciphertext); err != nil {
		return nil, err
	} else if ok {
		commit(st, scratch)
		return pt, nil
	}

	sameChain := equal32(scratch.PeerDHPub[:], header.DHPub)
	if sameChain && header.N < scratch.Nr {
		// Already consumed and no skipped key left for it.
		return nil, domain.ErrDuplicateMessage
	}

	if !sameChain {
		// Close out the old receive chain, then take a DH ratchet step
		// with the new remote key.
		if err := skipUntil(&scratch, header.PN); err != nil {
			return nil, err
		}
		if err := stepReceiving(&scratch, header.DHPub); err != nil {
			return nil, err
		}
	}

	if err := skipUntil(&scratch, header.N); err != nil {
		return nil, err
	}
	mk, err := nextRecvKey(&scratch)
	if err != nil {
		return nil, err
	}
	pt, err := open(mk, header, ad, ciphertext)
	memzero.Zero(mk)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	scratch.Nr++

	commit(st, scratch)
	return pt, nil
}

// --- state transitions ---

// stepSending establishes a fresh sending chain: new ratchet key pair, root
// advanced with the peer's current key.
func stepSending(st *domain.RatchetState) error {
	newPriv, newPub, err := crypto.GenerateX25519()
	if err != nil {
		return err
	}
	dh, err := crypto.DH(newPriv, st.PeerDHPub)
	if err != nil {
		return err
	}
	newRK, sendCK := kdfRK(st.RootKey, dh[:])
	memzero.Zero(dh[:])

	memzero.Zero(st.RootKey)
	st.PN = st.Ns
	st.Ns = 0
	st.RootKey = newRK
	st.DHPriv, st.DHPub = newPriv, newPub
	st.SendCK = sendCK
	return nil
}

// stepReceiving performs the receive half of a DH ratchet step triggered by
// a new remote ratchet key, then immediately rotates our own key so the next
// send advances the root again.
func stepReceiving(st *domain.RatchetState, remotePub []byte) error {
	var newPeer domain.X25519Public
	copy(newPeer[:], remotePub)

	dh, err := crypto.DH(st.DHPriv, newPeer)
	if err != nil {
		return err
	}
	rk2, recvCK := kdfRK(st.RootKey, dh[:])
	memzero.Zero(dh[:])

	newPriv, newPub, err := crypto.GenerateX25519()
	if err != nil {
		return err
	}
	dh2, err := crypto.DH(newPriv, newPeer)
	if err != nil {
		return err
	}
	rk3, sendCK := kdfRK(rk2, dh2[:])
	memzero.Zero(dh2[:])
	memzero.Zero(rk2)

	memzero.Zero(st.RootKey)
	memzero.Zero(st.SendCK)
	memzero.Zero(st.RecvCK)
	st.PN = st.Ns
	st.Ns, st.Nr = 0, 0
	st.RootKey = rk3
	st.DHPriv, st.DHPub = newPriv, newPub
	st.PeerDHPub = newPeer
	st.SendCK, st.RecvCK = sendCK, recvCK
	return nil
}

// skipUntil derives and caches receive keys up to message number n on the
// current chain. Exceeding the cap is a hard failure, not an eviction:
// silently dropping a cached key would turn a delayed message into an
// unexplained authentication error later.
func skipUntil(st *domain.RatchetState, n uint32) error {
	if st.Nr < n && len(st.RecvCK) == 0 {
		return domain.ErrUnknownRatchetKey
	}
	for st.Nr < n {
		if len(st.Skipped) >= maxSkippedKeys {
			return domain.ErrTooManySkippedMessages
		}
		mk, err := nextRecvKey(st)
		if err != nil {
			return err
		}
		st.Skipped[skippedKeyID(st.PeerDHPub[:], st.Nr)] = mk
		st.Nr++
	}
	return nil
}

func trySkipped(st *domain.RatchetState, ad []byte, header domain.RatchetHeader, ciphertext []byte) ([]byte, bool, error) {
	keyID := skippedKeyID(header.DHPub, header.N)
	mk, ok := st.Skipped[keyID]
	if !ok {
		return nil, false, nil
	}
	pt, err := open(mk, header, ad, ciphertext)
	if err != nil {
		return nil, false, domain.ErrAuthenticationFailed
	}
	memzero.Zero(mk)
	delete(st.Skipped, keyID)
	return pt, true, nil
}

// commit replaces the caller's state with the scratch copy, wiping the key
// material the old state held.
func commit(st *domain.RatchetState, scratch domain.RatchetState) {
	memzero.Zero(st.RootKey)
	memzero.Zero(st.SendCK)
	memzero.Zero(st.RecvCK)
	*st = scratch
}

// --- AEAD ---

func seal(mk []byte, header domain.RatchetHeader, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.N)
	return aead.Seal(nil, nonce, plaintext, fullAD(ad, header)), nil
}

func open(mk []byte, header domain.RatchetHeader, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.N)
	return aead.Open(nil, nonce, ciphertext, fullAD(ad, header))
}

// fullAD binds the caller's associated data and the header, so a ciphertext
// cannot be replayed against a different ratchet position or channel.
func fullAD(ad []byte, h domain.RatchetHeader) []byte {
	out := make([]byte, 0, len(ad)+len(h.DHPub)+8)
	out = append(out, ad...)
	out = append(out, h.DHPub...)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], h.PN)
	out = append(out, b[:]...)
	binary.BigEndian.PutUint32(b[:], h.N)
	return append(out, b[:]...)
}

// --- KDF chains ---

func kdfRK(rk, dh []byte) (newRK, ck []byte) {
	r := hkdf.New(sha256.New, dh, rk, []byte(rootInfo))
	newRK = make([]byte, 32)
	ck = make([]byte, 32)
	_, _ = io.ReadFull(r, newRK)
	_, _ = io.ReadFull(r, ck)
	return
}

func kdfCK(ck []byte) (nextCK, mk []byte) {
	r := hkdf.New(sha256.New, ck, nil, []byte(chainInfo))
	nextCK = make([]byte, 32)
	mk = make([]byte, 32)
	_, _ = io.ReadFull(r, nextCK)
	_, _ = io.ReadFull(r, mk)
	return
}

func nextSendKey(st *domain.RatchetState) ([]byte, error) {
	if len(st.SendCK) == 0 {
		return nil, errChainUninitialised
	}
	nextCK, mk := kdfCK(st.SendCK)
	memzero.Zero(st.SendCK)
	st.SendCK = nextCK
	return mk, nil
}

func nextRecvKey(st *domain.RatchetState) ([]byte, error) {
	if len(st.RecvCK) == 0 {
		return nil, errChainUninitialised
	}
	nextCK, mk := kdfCK(st.RecvCK)
	memzero.Zero(st.RecvCK)
	st.RecvCK = nextCK
	return mk, nil
}

func skippedKeyID(pub []byte, n uint32) string {
	b := make([]byte, 36)
	copy(b, pub)
	binary.BigEndian.PutUint32(b[32:], n)
	return string(b)
}

func equal32(a, b []byte) bool {
	if len(a) != 32 || len(b) != 32 {
		return false
	}
	var v byte
	for i := 0; i < 32; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

package ratchet_test

import (
	"bytes"
	"errors"
	"testing"

	"vauchi/internal/crypto"
	"vauchi/internal/domain"
	"vauchi/internal/protocol/ratchet"
)

// makePair returns a fresh X25519 key pair standing in for a signed prekey.
func makePair(t *testing.T) (priv domain.X25519Private, pub domain.X25519Public) {
	t.Helper()
	p, P, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	return p, P
}

// makeStates wires an initiator/responder pair sharing a fixed root key.
func makeStates(t *testing.T) (a, b domain.RatchetState) {
	t.Helper()
	rk := bytes.Repeat([]byte{0x42}, 32)

	seedPriv, seedPub := makePair(t)

	a, err := ratchet.InitInitiator(rk, seedPub)
	if err != nil {
		t.Fatalf("InitInitiator: %v", err)
	}
	b, err = ratchet.InitResponder(rk, seedPriv, a.DHPub)
	if err != nil {
		t.Fatalf("InitResponder: %v", err)
	}
	return a, b
}

func TestDoubleRatchet_OneRoundTrip(t *testing.T) {
	aState, bState := makeStates(t)

	header, ct, err := ratchet.Encrypt(&aState, nil, []byte("hi"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := ratchet.Decrypt(&bState, nil, header, ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != "hi" {
		t.Fatalf("got %q, want %q", pt, "hi")
	}
}

func TestDoubleRatchet_Bidirectional(t *testing.T) {
	aState, bState := makeStates(t)

	// Several full turns; each direction change forces a DH ratchet step.
	for turn := 0; turn < 4; turn++ {
		msg := []byte{byte(turn)}

		h, ct, err := ratchet.Encrypt(&aState, nil, msg)
		if err != nil {
			t.Fatalf("turn %d a->b Encrypt: %v", turn, err)
		}
		pt, err := ratchet.Decrypt(&bState, nil, h, ct)
		if err != nil {
			t.Fatalf("turn %d a->b Decrypt: %v", turn, err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("turn %d a->b mismatch", turn)
		}

		h, ct, err = ratchet.Encrypt(&bState, nil, msg)
		if err != nil {
			t.Fatalf("turn %d b->a Encrypt: %v", turn, err)
		}
		pt, err = ratchet.Decrypt(&aState, nil, h, ct)
		if err != nil {
			t.Fatalf("turn %d b->a Decrypt: %v", turn, err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("turn %d b->a mismatch", turn)
		}
	}
}

func TestDoubleRatchet_OutOfOrderDelivery(t *testing.T) {
	aState, bState := makeStates(t)

	type msg struct {
		h  domain.RatchetHeader
		ct []byte
	}
	var sent [3]msg
	for i := range sent {
		h, ct, err := ratchet.Encrypt(&aState, nil, []byte{byte(i + 1)})
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		sent[i] = msg{h, ct}
	}

	// Deliver in order 3,1,2; all must decrypt exactly once.
	for _, i := range []int{2, 0, 1} {
		pt, err := ratchet.Decrypt(&bState, nil, sent[i].h, sent[i].ct)
		if err != nil {
			t.Fatalf("Decrypt message %d: %v", i+1, err)
		}
		if pt[0] != byte(i+1) {
			t.Fatalf("message %d: got %d", i+1, pt[0])
		}
	}

	// Redelivering message 2 must fail, not silently reapply.
	if _, err := ratchet.Decrypt(&bState, nil, sent[1].h, sent[1].ct); !errors.Is(err, domain.ErrDuplicateMessage) {
		t.Fatalf("redelivery: got %v, want ErrDuplicateMessage", err)
	}
}

func TestDoubleRatchet_DuplicateInOrder(t *testing.T) {
	aState, bState := makeStates(t)

	h, ct, err := ratchet.Encrypt(&aState, nil, []byte("once"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := ratchet.Decrypt(&bState, nil, h, ct); err != nil {
		t.Fatalf("first Decrypt: %v", err)
	}
	if _, err := ratchet.Decrypt(&bState, nil, h, ct); !errors.Is(err, domain.ErrDuplicateMessage) {
		t.Fatalf("second Decrypt: got %v, want ErrDuplicateMessage", err)
	}
}

func TestDoubleRatchet_ForwardSecrecy(t *testing.T) {
	aState, bState := makeStates(t)

	h0, ct0, err := ratchet.Encrypt(&aState, nil, []byte("past"))
	if err != nil {
		t.Fatalf("Encrypt 0: %v", err)
	}
	h1, ct1, err := ratchet.Encrypt(&aState, nil, []byte("present"))
	if err != nil {
		t.Fatalf("Encrypt 1: %v", err)
	}

	if _, err := ratchet.Decrypt(&bState, nil, h0, ct0); err != nil {
		t.Fatalf("Decrypt 0: %v", err)
	}
	if _, err := ratchet.Decrypt(&bState, nil, h1, ct1); err != nil {
		t.Fatalf("Decrypt 1: %v", err)
	}

	// bState now only holds chain material at message number 2; an attacker
	// capturing it must not be able to recover message 0.
	captured := bState.Clone()
	if _, err := ratchet.Decrypt(&captured, nil, h0, ct0); err == nil {
		t.Fatal("decrypted past message from later state")
	}
}

func TestDoubleRatchet_CorruptCiphertextLeavesStateIntact(t *testing.T) {
	aState, bState := makeStates(t)

	h, ct, err := ratchet.Encrypt(&aState, nil, []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	bad := append([]byte(nil), ct...)
	bad[0] ^= 0xff
	if _, err := ratchet.Decrypt(&bState, nil, h, bad); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("corrupt Decrypt: got %v, want ErrAuthenticationFailed", err)
	}

	// The genuine ciphertext must still decrypt: the failure was terminal
	// for that message only.
	pt, err := ratchet.Decrypt(&bState, nil, h, ct)
	if err != nil {
		t.Fatalf("Decrypt after failure: %v", err)
	}
	if string(pt) != "payload" {
		t.Fatalf("got %q", pt)
	}
}

func TestDoubleRatchet_SkipWindowBounded(t *testing.T) {
	aState, bState := makeStates(t)

	// Advance the send chain far past the skip cap, keeping only the last
	// ciphertext.
	var h domain.RatchetHeader
	var ct []byte
	var err error
	for i := 0; i < 1002; i++ {
		h, ct, err = ratchet.Encrypt(&aState, nil, []byte("x"))
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
	}

	if _, err := ratchet.Decrypt(&bState, nil, h, ct); !errors.Is(err, domain.ErrTooManySkippedMessages) {
		t.Fatalf("got %v, want ErrTooManySkippedMessages", err)
	}
	if bState.Nr != 0 || len(bState.Skipped) != 0 {
		t.Fatalf("failed decrypt mutated state: Nr=%d skipped=%d", bState.Nr, len(bState.Skipped))
	}
}

func TestDoubleRatchet_ADBindsChannel(t *testing.T) {
	aState, bState := makeStates(t)

	ad := []byte("alice->bob")
	h, ct, err := ratchet.Encrypt(&aState, ad, []byte("bound"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Replaying under different associated data must fail.
	if _, err := ratchet.Decrypt(&bState, []byte("mallory->bob"), h, ct); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("wrong AD: got %v, want ErrAuthenticationFailed", err)
	}
	if _, err := ratchet.Decrypt(&bState, ad, h, ct); err != nil {
		t.Fatalf("correct AD: %v", err)
	}
}

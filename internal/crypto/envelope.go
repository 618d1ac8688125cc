package crypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"vauchi/internal/util/memzero"
)

const (
	KeyBytes  = 32
	SaltBytes = 16

	// Current on-disk envelope format version.
	envelopeVersion = 1
)

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// ciphertext was modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted data")

// argonParams pins the Argon2id cost used for a sealed blob, stored alongside
// it so old blobs stay readable after a cost bump.
type argonParams struct {
	Time    uint32 `json:"t"`
	Memory  uint32 `json:"m"` // KiB
	Threads uint8  `json:"p"`
}

// Interactive cost for at-rest store envelopes.
var storeParams = argonParams{Time: 1, Memory: 64 * 1024, Threads: 4}

// Deliberately slow cost for backup exports.
var backupParams = argonParams{Time: 4, Memory: 256 * 1024, Threads: 4}

// envelope is the on-disk JSON structure holding the ciphertext and KDF
// parameters.
type envelope struct {
	V      int         `json:"v"`
	KDF    argonParams `json:"kdf"`
	Salt   []byte      `json:"salt"`
	Nonce  []byte      `json:"nonce"`
	Cipher []byte      `json:"cipher"`
}

// DeriveKEK derives a key-encryption key from a passphrase and salt using
// Argon2id with the given cost.
func deriveKEK(passphrase string, salt []byte, p argonParams) []byte {
	return argon2.IDKey([]byte(passphrase), salt, p.Time, p.Memory, p.Threads, KeyBytes)
}

// SealWithPassphrase encrypts plaintext under a passphrase-derived key using
// the interactive cost. The result is a self-describing JSON blob.
func SealWithPassphrase(passphrase string, plaintext []byte) ([]byte, error) {
	return seal(passphrase, plaintext, storeParams)
}

// OpenWithPassphrase reverses SealWithPassphrase.
func OpenWithPassphrase(passphrase string, blob []byte) ([]byte, error) {
	return open(passphrase, blob)
}

// SealBackup encrypts plaintext under a deliberately slow key stretch for
// the portable backup blob.
func SealBackup(password string, plaintext []byte) ([]byte, error) {
	return seal(password, plaintext, backupParams)
}

// OpenBackup reverses SealBackup.
func OpenBackup(password string, blob []byte) ([]byte, error) {
	return open(password, blob)
}

func seal(passphrase string, plaintext []byte, p argonParams) ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	kek := deriveKEK(passphrase, salt, p)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, plaintext, salt)

	return json.Marshal(envelope{
		V:      envelopeVersion,
		KDF:    p,
		Salt:   salt,
		Nonce:  nonce,
		Cipher: ct,
	})
}

func open(passphrase string, blob []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.V > envelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version %d", env.V)
	}
	kek := deriveKEK(passphrase, env.Salt, env.KDF)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, env.Nonce, env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

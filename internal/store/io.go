package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"vauchi/internal/crypto"
)

// readSealed reads and decrypts path into out. Returns false when the file
// does not exist.
func readSealed(path, passphrase string, out any) (bool, error) {
	blob, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	raw, err := crypto.OpenWithPassphrase(passphrase, blob)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// writeSealed encrypts v under the passphrase and writes it atomically.
func writeSealed(path, passphrase string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	blob, err := crypto.SealWithPassphrase(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(path, blob, 0o600)
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

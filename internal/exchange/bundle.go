package exchange

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"vauchi/internal/domain"
)

// URI layout: "vauchi:" + base64url(version | ed 32 | x 32 | spk 32 |
// sig 64 | expiry 8). All fields fixed width so the payload is exactly
// bundleLen bytes.
const (
	uriScheme     = "vauchi:"
	bundleVersion = 1
	bundleLen     = 1 + 32 + 32 + 32 + 64 + 8
)

// EncodeBundleURI renders a bundle as a vauchi: URI.
func EncodeBundleURI(b domain.ExchangeBundle) string {
	buf := make([]byte, 0, bundleLen)
	buf = append(buf, bundleVersion)
	buf = append(buf, b.IdentityEd[:]...)
	buf = append(buf, b.IdentityX[:]...)
	buf = append(buf, b.SignedPrekey[:]...)
	buf = append(buf, b.Signature...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(b.ExpiresAt))
	buf = append(buf, ts[:]...)
	return uriScheme + base64.RawURLEncoding.EncodeToString(buf)
}

// DecodeBundleURI parses a vauchi: URI back into a bundle. It checks shape
// only; signature and expiry are the caller's job via x3dh.VerifyBundle.
func DecodeBundleURI(uri string) (domain.ExchangeBundle, error) {
	if len(uri) < len(uriScheme) || uri[:len(uriScheme)] != uriScheme {
		return domain.ExchangeBundle{}, fmt.Errorf("%w: missing %q scheme", domain.ErrMalformedBundle, uriScheme)
	}
	raw, err := base64.RawURLEncoding.DecodeString(uri[len(uriScheme):])
	if err != nil {
		return domain.ExchangeBundle{}, fmt.Errorf("%w: %v", domain.ErrMalformedBundle, err)
	}
	if len(raw) != bundleLen {
		return domain.ExchangeBundle{}, fmt.Errorf("%w: %d bytes, want %d", domain.ErrMalformedBundle, len(raw), bundleLen)
	}
	if raw[0] != bundleVersion {
		return domain.ExchangeBundle{}, fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedBundle, raw[0])
	}

	var b domain.ExchangeBundle
	off := 1
	copy(b.IdentityEd[:], raw[off:off+32])
	off += 32
	copy(b.IdentityX[:], raw[off:off+32])
	off += 32
	copy(b.SignedPrekey[:], raw[off:off+32])
	off += 32
	b.Signature = append([]byte(nil), raw[off:off+64]...)
	off += 64
	b.ExpiresAt = int64(binary.BigEndian.Uint64(raw[off : off+8]))
	return b, nil
}

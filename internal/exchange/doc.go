// Package exchange implements the first-contact handshake: the bundle URI
// codec shown as a QR code or pasted between devices, and the short-lived
// session state machine that tracks one exchange from creation to the
// moment both sides hold a shared ratchet.
package exchange

// Package exchange drives the first-contact flow between the service layer
// and the relay.
//
// Begin mints a session and returns a bundle URI for the other party to
// scan. Complete consumes a scanned URI: it verifies the bundle, runs the
// key agreement as the scanning side, records the new contact, and sends
// the hello plus our initial card delta in one message. The publisher's
// half completes when that message arrives via the sync service's Pull.
package exchange

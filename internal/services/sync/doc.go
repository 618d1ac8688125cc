// Package sync pushes the owner's card changes to contacts and pulls
// theirs, one encrypted delta per message over the relay.
//
// A push recomputes each contact's visible view fresh, diffs it against the
// view that contact last acknowledged, and coalesces with any undelivered
// delta before encrypting. A pull decrypts queued envelopes, applies the
// deltas to the stored remote cards, and completes the publisher's half of
// any exchange whose hello arrives. One protocol step runs at a time per
// contact; different contacts proceed independently, and a failure for one
// never blocks the others.
package sync

// Package sync computes and applies card deltas.
//
// Deltas are keyed strictly by field id, never by label or value, so a
// renamed label is a change rather than a remove-and-add. Application is
// idempotent and order-tolerant: re-applying a delivered delta is a no-op,
// and a delta with a stale base version is still applied field-by-field,
// since fields are independently owned.
//
// MergeDeltas coalesces a still-pending outgoing delta with newer local
// edits into a single delta, bounding relay traffic to one in-flight delta
// per contact.
package sync

// Package card implements contact-card editing, validation, and the
// per-contact field-visibility model.
//
// Visibility evaluation (VisibleTo) is the single place a field's disclosure
// is decided. It is recomputed fresh before every delta computation and
// never persisted, so a rule change takes effect on the very next sync.
package card

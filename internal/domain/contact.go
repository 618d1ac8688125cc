package domain

// VisibilityKind discriminates the three visibility variants.
type VisibilityKind string

const (
	// VisibleToEveryone discloses the field to all contacts (default).
	VisibleToEveryone VisibilityKind = "everyone"
	// VisibleToNobody hides the field from every contact.
	VisibleToNobody VisibilityKind = "nobody"
	// VisibleToContacts discloses the field to the listed contact ids only.
	VisibleToContacts VisibilityKind = "contacts"
)

// Visibility is a tagged union over the three variants. Contacts is only
// meaningful for VisibleToContacts. Evaluated per field, per contact, at
// delta-computation time; never cached past that computation.
type Visibility struct {
	Kind     VisibilityKind `json:"kind"`
	Contacts []string       `json:"contacts,omitempty"`
}

// Everyone is the default rule for fields without an explicit entry.
func Everyone() Visibility { return Visibility{Kind: VisibleToEveryone} }

// Nobody hides the field entirely.
func Nobody() Visibility { return Visibility{Kind: VisibleToNobody} }

// OnlyContacts restricts the field to the given contact ids.
func OnlyContacts(ids ...string) Visibility {
	return Visibility{Kind: VisibleToContacts, Contacts: ids}
}

// SyncState tracks delta delivery per contact.
type SyncState string

const (
	SyncSynced  SyncState = "synced"
	SyncPending SyncState = "pending"
	SyncFailed  SyncState = "failed"
)

// SyncStatus is the per-contact delta bookkeeping owned by the sync service.
//
// LastSentCard is the visible card as most recently encoded for the peer;
// it is the base for the next delta. Pending holds the outgoing delta while
// undelivered, so a newer local edit coalesces into it instead of queueing
// a second delta. Outbox holds the encrypted wire message for that delta:
// a retry after a relay failure resends it as-is, so a flaky relay consumes
// one send-chain key per batch of edits rather than one per attempt.
// Hello, when set, rides the next outgoing message so a freshly exchanged
// peer can bootstrap its ratchet; it is cleared after the first delivery.
type SyncStatus struct {
	State        SyncState      `json:"state"`
	LastSentCard ContactCard    `json:"last_sent_card"`
	Pending      *CardDelta     `json:"pending,omitempty"`
	Outbox       []byte         `json:"outbox,omitempty"`
	Hello        *ExchangeHello `json:"hello,omitempty"`
	LastSyncUnix int64          `json:"last_sync_unix"`
	LastError    string         `json:"last_error,omitempty"`
}

// Contact is a peer established through a completed exchange.
//
// Ratchet is mutated exclusively by the ratchet engine and RemoteCard
// exclusively by delta application; front ends read them only.
type Contact struct {
	ID          string        `json:"id"` // hex fingerprint of EdPub
	EdPub       Ed25519Public `json:"ed_pub"`
	XPub        X25519Public  `json:"x_pub"`
	DisplayName string        `json:"display_name"`
	Verified    bool          `json:"verified"`

	RemoteCard ContactCard           `json:"remote_card"`
	Ratchet    RatchetState          `json:"ratchet"`
	Visibility map[string]Visibility `json:"visibility"` // field id -> rule
	Sync       SyncStatus            `json:"sync"`

	CreatedUnix int64 `json:"created_unix"`
}

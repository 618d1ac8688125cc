package domain

// FieldEdit carries the new label and value for a changed field.
type FieldEdit struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CardDelta is the minimal difference between two card states. It is
// ephemeral: computed, encrypted, sent, then discarded, never persisted as
// history (the pending copy in SyncStatus lives only until acknowledged).
type CardDelta struct {
	BaseVersion uint64               `json:"base_version"`
	DisplayName *string              `json:"display_name,omitempty"`
	Added       []Field              `json:"added,omitempty"`
	Changed     map[string]FieldEdit `json:"changed,omitempty"` // field id -> edit
	RemovedIDs  []string             `json:"removed,omitempty"`
}

// IsEmpty reports whether the delta carries no changes.
func (d CardDelta) IsEmpty() bool {
	return d.DisplayName == nil && len(d.Added) == 0 && len(d.Changed) == 0 && len(d.RemovedIDs) == 0
}

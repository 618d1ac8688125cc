package sync

import (
	"encoding/json"
	"fmt"

	"vauchi/internal/domain"
)

// ComputeDelta returns the minimal change set transforming prev into cur.
// Both inputs are visibility-filtered views for the same contact; the
// caller guarantees they were produced by card.VisibleTo immediately before
// this call.
func ComputeDelta(prev, cur domain.ContactCard) domain.CardDelta {
	d := domain.CardDelta{BaseVersion: prev.Version}

	if prev.DisplayName != cur.DisplayName {
		name := cur.DisplayName
		d.DisplayName = &name
	}

	prevByID := make(map[string]domain.Field, len(prev.Fields))
	for _, f := range prev.Fields {
		prevByID[f.ID] = f
	}

	for _, f := range cur.Fields {
		old, ok := prevByID[f.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, f)
		case old.Label != f.Label || old.Value != f.Value:
			if d.Changed == nil {
				d.Changed = make(map[string]domain.FieldEdit)
			}
			d.Changed[f.ID] = domain.FieldEdit{Label: f.Label, Value: f.Value}
		}
	}

	curIDs := make(map[string]struct{}, len(cur.Fields))
	for _, f := range cur.Fields {
		curIDs[f.ID] = struct{}{}
	}
	for _, f := range prev.Fields {
		if _, ok := curIDs[f.ID]; !ok {
			d.RemovedIDs = append(d.RemovedIDs, f.ID)
		}
	}
	return d
}

// ApplyDelta applies d to a remote card snapshot and returns the new
// snapshot.
//
// Additions create fields only if absent, so re-applying a delivered delta
// is a no-op. Changes overwrite by id; a change referencing an id absent
// from the snapshot fails with domain.ErrUnknownField and the caller
// discards the delta. Removals are no-ops when the id is already gone.
//
// Remote input is held to the same card limits as local edits: an oversized
// display name or value, or a field count past domain.MaxFields, rejects
// the whole delta without touching the snapshot.
func ApplyDelta(snapshot domain.ContactCard, d domain.CardDelta) (domain.ContactCard, error) {
	if err := checkDeltaLimits(d); err != nil {
		return snapshot, err
	}

	out := snapshot.Clone()

	if d.DisplayName != nil {
		out.DisplayName = *d.DisplayName
	}

	for _, f := range d.Added {
		if _, ok := out.FieldByID(f.ID); !ok {
			out.Fields = append(out.Fields, f)
		}
	}

	for id, edit := range d.Changed {
		applied := false
		for i := range out.Fields {
			if out.Fields[i].ID == id {
				out.Fields[i].Label = edit.Label
				out.Fields[i].Value = edit.Value
				applied = true
				break
			}
		}
		if !applied {
			// Unless the same delta added the field above, this change
			// targets a field we never saw.
			return snapshot, fmt.Errorf("%w: change for %q", domain.ErrUnknownField, id)
		}
	}

	for _, id := range d.RemovedIDs {
		for i := range out.Fields {
			if out.Fields[i].ID == id {
				out.Fields = append(out.Fields[:i], out.Fields[i+1:]...)
				break
			}
		}
	}

	// The cap applies to the resulting card, so a delta that swaps one
	// field for another still fits at the limit.
	if len(out.Fields) > domain.MaxFields {
		return snapshot, fmt.Errorf("%w: delta yields %d fields", domain.ErrCardFull, len(out.Fields))
	}

	if d.BaseVersion >= out.Version {
		out.Version = d.BaseVersion + 1
	}
	return out, nil
}

// checkDeltaLimits bounds what a peer can grow our copy of their card to.
func checkDeltaLimits(d domain.CardDelta) error {
	if d.DisplayName != nil && len(*d.DisplayName) > domain.MaxDisplayNameLength {
		return fmt.Errorf("%w: display name", domain.ErrOversizedField)
	}
	for _, f := range d.Added {
		if len(f.Value) > domain.MaxValueLength {
			return fmt.Errorf("%w: added %q", domain.ErrOversizedField, f.ID)
		}
	}
	for id, e := range d.Changed {
		if len(e.Value) > domain.MaxValueLength {
			return fmt.Errorf("%w: change for %q", domain.ErrOversizedField, id)
		}
	}
	return nil
}

// MergeDeltas coalesces a pending (undelivered) delta with a newer one over
// the same base. The newer delta wins conflicts across categories: a field
// the newer delta adds or changes is not removed, and a field it removes
// loses its pending add or change.
func MergeDeltas(older, newer domain.CardDelta) domain.CardDelta {
	out := domain.CardDelta{BaseVersion: older.BaseVersion}

	switch {
	case newer.DisplayName != nil:
		out.DisplayName = newer.DisplayName
	default:
		out.DisplayName = older.DisplayName
	}

	removed := make(map[string]struct{}, len(older.RemovedIDs)+len(newer.RemovedIDs))
	for _, id := range older.RemovedIDs {
		removed[id] = struct{}{}
	}
	for _, id := range newer.RemovedIDs {
		removed[id] = struct{}{}
	}
	// Newer adds and changes resurrect anything the older delta removed.
	for _, f := range newer.Added {
		delete(removed, f.ID)
	}
	for id := range newer.Changed {
		delete(removed, id)
	}

	changed := make(map[string]domain.FieldEdit, len(older.Changed)+len(newer.Changed))
	for id, e := range older.Changed {
		changed[id] = e
	}
	for id, e := range newer.Changed {
		changed[id] = e
	}

	addedByID := make(map[string]int, len(older.Added))
	for _, f := range older.Added {
		if _, gone := removed[f.ID]; gone {
			// Added while pending, then removed: the peer never sees it.
			delete(removed, f.ID)
			continue
		}
		// A newer edit folds into the pending add instead of shipping both.
		if e, ok := changed[f.ID]; ok {
			f.Label, f.Value = e.Label, e.Value
			delete(changed, f.ID)
		}
		addedByID[f.ID] = len(out.Added)
		out.Added = append(out.Added, f)
	}
	for _, f := range newer.Added {
		if i, ok := addedByID[f.ID]; ok {
			out.Added[i] = f
			continue
		}
		out.Added = append(out.Added, f)
	}

	for id := range changed {
		if _, gone := removed[id]; gone {
			delete(changed, id)
		}
	}
	if len(changed) > 0 {
		out.Changed = changed
	}
	for _, f := range out.Added {
		delete(removed, f.ID)
	}
	for id := range removed {
		out.RemovedIDs = append(out.RemovedIDs, id)
	}
	return out
}

// EncodeDelta serializes a delta for encryption.
func EncodeDelta(d domain.CardDelta) ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDelta parses a received delta, mapping any decode failure to
// domain.ErrMalformedDelta.
func DecodeDelta(b []byte) (domain.CardDelta, error) {
	var d domain.CardDelta
	if err := json.Unmarshal(b, &d); err != nil {
		return domain.CardDelta{}, fmt.Errorf("%w: %v", domain.ErrMalformedDelta, err)
	}
	return d, nil
}

package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vauchi/internal/domain"
)

func field(id, label, value string) domain.Field {
	return domain.Field{ID: id, Type: domain.FieldCustom, Label: label, Value: value}
}

func TestComputeDeltaRoundTrip(t *testing.T) {
	prev := domain.ContactCard{
		DisplayName: "Alice",
		Fields: []domain.Field{
			field("f1", "email", "alice@old.example"),
			field("f2", "phone", "+1 555 0100"),
			field("f3", "site", "https://alice.example"),
		},
		Version: 4,
	}
	cur := prev.Clone()
	cur.DisplayName = "Alice L"
	cur.Fields[0].Value = "alice@new.example"
	cur.Fields = append(cur.Fields[:2], field("f4", "signal", "@alice"))
	cur.Version = 7

	d := ComputeDelta(prev, cur)
	require.NotNil(t, d.DisplayName)
	assert.Equal(t, "Alice L", *d.DisplayName)
	assert.Equal(t, uint64(4), d.BaseVersion)

	got, err := ApplyDelta(prev, d)
	require.NoError(t, err)
	assert.Equal(t, cur.DisplayName, got.DisplayName)
	assert.ElementsMatch(t, cur.Fields, got.Fields)
}

func TestApplyDeltaIsIdempotent(t *testing.T) {
	snap := domain.ContactCard{
		DisplayName: "Bob",
		Fields:      []domain.Field{field("f1", "email", "bob@example.com")},
		Version:     2,
	}
	d := domain.CardDelta{
		BaseVersion: 2,
		Added:       []domain.Field{field("f2", "phone", "+1 555 0101")},
		Changed:     map[string]domain.FieldEdit{"f1": {Label: "email", Value: "bob@new.example"}},
	}

	once, err := ApplyDelta(snap, d)
	require.NoError(t, err)
	twice, err := ApplyDelta(once, d)
	require.NoError(t, err)
	assert.Equal(t, once.Fields, twice.Fields)
	assert.Len(t, twice.Fields, 2)
}

func TestApplyDeltaRemovalOfMissingFieldIsNoOp(t *testing.T) {
	snap := domain.ContactCard{DisplayName: "Bob", Version: 1}
	d := domain.CardDelta{BaseVersion: 1, RemovedIDs: []string{"gone"}}
	got, err := ApplyDelta(snap, d)
	require.NoError(t, err)
	assert.Empty(t, got.Fields)
}

func TestApplyDeltaUnknownChangeFails(t *testing.T) {
	snap := domain.ContactCard{DisplayName: "Bob", Version: 1}
	d := domain.CardDelta{
		BaseVersion: 1,
		Changed:     map[string]domain.FieldEdit{"missing": {Label: "x", Value: "y"}},
	}
	_, err := ApplyDelta(snap, d)
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestApplyDeltaChangeToFieldAddedInSameDelta(t *testing.T) {
	snap := domain.ContactCard{DisplayName: "Bob", Version: 1}
	d := domain.CardDelta{
		BaseVersion: 1,
		Added:       []domain.Field{field("f1", "email", "bob@example.com")},
		Changed:     map[string]domain.FieldEdit{"f1": {Label: "email", Value: "bob@new.example"}},
	}
	got, err := ApplyDelta(snap, d)
	require.NoError(t, err)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "bob@new.example", got.Fields[0].Value)
}

func TestApplyDeltaVersionMonotonic(t *testing.T) {
	snap := domain.ContactCard{DisplayName: "Bob", Version: 9}
	stale := domain.CardDelta{BaseVersion: 3}
	got, err := ApplyDelta(snap, stale)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Version)

	fresh := domain.CardDelta{BaseVersion: 9}
	got, err = ApplyDelta(snap, fresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.Version)
}

func TestMergeDeltasNewerWins(t *testing.T) {
	older := domain.CardDelta{
		BaseVersion: 2,
		Changed:     map[string]domain.FieldEdit{"f1": {Label: "email", Value: "a@1.example"}},
		RemovedIDs:  []string{"f2", "f3"},
	}
	newName := "Alice L"
	newer := domain.CardDelta{
		BaseVersion: 3,
		DisplayName: &newName,
		Changed:     map[string]domain.FieldEdit{"f2": {Label: "phone", Value: "+1 555 0102"}},
	}

	m := MergeDeltas(older, newer)
	assert.Equal(t, uint64(2), m.BaseVersion)
	require.NotNil(t, m.DisplayName)
	assert.Equal(t, "Alice L", *m.DisplayName)
	// The newer change of f2 cancels the pending removal.
	assert.Equal(t, []string{"f3"}, m.RemovedIDs)
	assert.Equal(t, "+1 555 0102", m.Changed["f2"].Value)
	assert.Equal(t, "a@1.example", m.Changed["f1"].Value)
}

func TestMergeDeltasEditFoldsIntoPendingAdd(t *testing.T) {
	older := domain.CardDelta{
		BaseVersion: 1,
		Added:       []domain.Field{field("f1", "email", "a@1.example")},
	}
	newer := domain.CardDelta{
		BaseVersion: 2,
		Changed:     map[string]domain.FieldEdit{"f1": {Label: "email", Value: "a@2.example"}},
	}

	m := MergeDeltas(older, newer)
	require.Len(t, m.Added, 1)
	assert.Equal(t, "a@2.example", m.Added[0].Value)
	assert.NotContains(t, m.Changed, "f1")
}

func TestMergeDeltasAddThenRemoveVanishes(t *testing.T) {
	older := domain.CardDelta{
		BaseVersion: 1,
		Added:       []domain.Field{field("f1", "email", "a@1.example")},
	}
	newer := domain.CardDelta{BaseVersion: 2, RemovedIDs: []string{"f1"}}

	m := MergeDeltas(older, newer)
	assert.Empty(t, m.Added)
	assert.Empty(t, m.RemovedIDs)
	assert.Empty(t, m.Changed)
	assert.True(t, m.IsEmpty())
}

func TestDecodeDeltaMalformed(t *testing.T) {
	_, err := DecodeDelta([]byte("{not json"))
	assert.ErrorIs(t, err, domain.ErrMalformedDelta)
}

func TestApplyDeltaRejectsOversizedValues(t *testing.T) {
	snapshot := domain.ContactCard{
		DisplayName: "Alice",
		Fields:      []domain.Field{field("f1", "email", "alice@old.example")},
		Version:     2,
	}
	big := make([]byte, domain.MaxValueLength+1)
	for i := range big {
		big[i] = 'a'
	}

	d := domain.CardDelta{BaseVersion: 2, Added: []domain.Field{field("f2", "bio", string(big))}}
	got, err := ApplyDelta(snapshot, d)
	assert.ErrorIs(t, err, domain.ErrOversizedField)
	assert.Equal(t, snapshot, got)

	d = domain.CardDelta{
		BaseVersion: 2,
		Changed:     map[string]domain.FieldEdit{"f1": {Label: "email", Value: string(big)}},
	}
	got, err = ApplyDelta(snapshot, d)
	assert.ErrorIs(t, err, domain.ErrOversizedField)
	assert.Equal(t, snapshot, got)

	name := string(big[:domain.MaxDisplayNameLength+1])
	d = domain.CardDelta{BaseVersion: 2, DisplayName: &name}
	got, err = ApplyDelta(snapshot, d)
	assert.ErrorIs(t, err, domain.ErrOversizedField)
	assert.Equal(t, snapshot, got)
}

func TestApplyDeltaRejectsTooManyFields(t *testing.T) {
	snapshot := domain.ContactCard{DisplayName: "Alice", Version: 1}
	for i := 0; i < domain.MaxFields; i++ {
		snapshot.Fields = append(snapshot.Fields, field(string(rune('a'+i)), "label", "value"))
	}

	d := domain.CardDelta{BaseVersion: 1, Added: []domain.Field{field("overflow", "label", "value")}}
	got, err := ApplyDelta(snapshot, d)
	assert.ErrorIs(t, err, domain.ErrCardFull)
	assert.Equal(t, snapshot, got)

	// Swapping one field for another in the same delta still fits.
	d = domain.CardDelta{
		BaseVersion: 1,
		Added:       []domain.Field{field("swap", "label", "value")},
		RemovedIDs:  []string{"a"},
	}
	next, err := ApplyDelta(snapshot, d)
	require.NoError(t, err)
	assert.Len(t, next.Fields, domain.MaxFields)
}

package domain

// Limits carried over from the card format.
const (
	MaxFields            = 25
	MaxValueLength       = 1000
	MaxDisplayNameLength = 100
)

// FieldType classifies a card field. Social networks are handled generically:
// the label names the network ("Twitter", "LinkedIn").
type FieldType string

const (
	FieldEmail   FieldType = "email"
	FieldPhone   FieldType = "phone"
	FieldWebsite FieldType = "website"
	FieldAddress FieldType = "address"
	FieldSocial  FieldType = "social"
	FieldCustom  FieldType = "custom"
)

// Field is a single card entry. ID is assigned at creation and never reused;
// edits to Label or Value keep the ID, which is the invariant delta
// computation relies on.
type Field struct {
	ID    string    `json:"id"`
	Type  FieldType `json:"type"`
	Label string    `json:"label"`
	Value string    `json:"value"`
}

// ContactCard is the owner's structured card. Version increases on every
// local mutation; there is no further history, conflict resolution is
// per-field.
type ContactCard struct {
	DisplayName string  `json:"display_name"`
	Fields      []Field `json:"fields"`
	Version     uint64  `json:"version"`
}

// Clone returns a deep copy.
func (c ContactCard) Clone() ContactCard {
	out := c
	out.Fields = make([]Field, len(c.Fields))
	copy(out.Fields, c.Fields)
	return out
}

// FieldByID returns the field with the given id.
func (c ContactCard) FieldByID(id string) (Field, bool) {
	for _, f := range c.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

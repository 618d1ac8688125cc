package card

import "vauchi/internal/domain"

// CanSee reports whether contactID may see the field under rule. This is the
// single evaluation site for the visibility union; fields without an
// explicit rule default to Everyone.
func CanSee(rule domain.Visibility, contactID string) bool {
	switch rule.Kind {
	case domain.VisibleToEveryone:
		return true
	case domain.VisibleToNobody:
		return false
	case domain.VisibleToContacts:
		for _, id := range rule.Contacts {
			if id == contactID {
				return true
			}
		}
		return false
	default:
		// Unknown kind from a newer peer: fail closed.
		return false
	}
}

// VisibleTo returns a copy of c filtered to the fields contactID may see.
//
// The result is consumed immediately by delta computation and must not be
// persisted: caching it would let a later rule change miss the next sync.
func VisibleTo(c domain.ContactCard, contactID string, rules map[string]domain.Visibility) domain.ContactCard {
	out := c
	out.Fields = make([]domain.Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		rule, ok := rules[f.ID]
		if !ok {
			rule = domain.Everyone()
		}
		if CanSee(rule, contactID) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

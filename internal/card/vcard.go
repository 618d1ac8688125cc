package card

import (
	"errors"
	"fmt"
	"strings"

	"vauchi/internal/domain"
)

// vCard 4.0 bridge (RFC 6350). Export renders every field type; import
// reads back the common properties (FN, TEL, EMAIL, URL, ADR) so a card
// survives a round trip through other address books.

// ErrMalformedVCard is returned when a vCard document cannot be parsed.
var ErrMalformedVCard = errors.New("malformed vCard")

// ExportVCard renders c as a vCard 4.0 document.
func ExportVCard(c domain.ContactCard) string {
	lines := []string{"BEGIN:VCARD", "VERSION:4.0", "FN:" + escapeVCard(c.DisplayName)}
	for _, f := range c.Fields {
		switch f.Type {
		case domain.FieldPhone:
			lines = append(lines, fmt.Sprintf("TEL;TYPE=%s:%s", escapeVCard(f.Label), escapeVCard(f.Value)))
		case domain.FieldEmail:
			lines = append(lines, fmt.Sprintf("EMAIL;TYPE=%s:%s", escapeVCard(f.Label), escapeVCard(f.Value)))
		case domain.FieldWebsite:
			lines = append(lines, "URL:"+escapeVCard(f.Value))
		case domain.FieldAddress:
			lines = append(lines, fmt.Sprintf("ADR;TYPE=%s:;;%s;;;;", escapeVCard(f.Label), escapeVCard(f.Value)))
		case domain.FieldSocial:
			lines = append(lines, fmt.Sprintf("X-SOCIALPROFILE;TYPE=%s:%s", escapeVCard(f.Label), escapeVCard(f.Value)))
		default:
			lines = append(lines, fmt.Sprintf("NOTE;TYPE=%s:%s", escapeVCard(f.Label), escapeVCard(f.Value)))
		}
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}

// ImportVCard parses a vCard document into a fresh card at version 1.
// Properties without a card counterpart are skipped, and so are entries
// that fail field validation; a missing FN rejects the document.
func ImportVCard(s string) (domain.ContactCard, error) {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if strings.TrimSpace(lines[0]) == "" || !strings.EqualFold(strings.TrimSpace(lines[0]), "BEGIN:VCARD") {
		return domain.ContactCard{}, fmt.Errorf("%w: missing BEGIN:VCARD", ErrMalformedVCard)
	}

	var name string
	type entry struct {
		typ          domain.FieldType
		label, value string
	}
	var entries []entry
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "FN:"):
			name = unescapeVCard(strings.TrimPrefix(line, "FN:"))
		case strings.HasPrefix(line, "TEL"):
			label, value := parseTypedProperty(line, "TEL")
			entries = append(entries, entry{domain.FieldPhone, label, value})
		case strings.HasPrefix(line, "EMAIL"):
			label, value := parseTypedProperty(line, "EMAIL")
			entries = append(entries, entry{domain.FieldEmail, label, value})
		case strings.HasPrefix(line, "URL:"):
			entries = append(entries, entry{domain.FieldWebsite, "Website", unescapeVCard(strings.TrimPrefix(line, "URL:"))})
		case strings.HasPrefix(line, "ADR"):
			label, value := parseTypedProperty(line, "ADR")
			if addr := strings.TrimSpace(strings.Trim(value, ";")); addr != "" {
				entries = append(entries, entry{domain.FieldAddress, label, addr})
			}
		}
	}
	if name == "" {
		return domain.ContactCard{}, fmt.Errorf("%w: missing FN", ErrMalformedVCard)
	}

	c, err := New(name)
	if err != nil {
		return domain.ContactCard{}, err
	}
	for _, e := range entries {
		_ = AddField(&c, NewField(e.typ, e.label, e.value))
	}
	c.Version = 1
	return c, nil
}

// parseTypedProperty splits "PREFIX;TYPE=label:value" (or "PREFIX:value")
// into its label and unescaped value.
func parseTypedProperty(line, prefix string) (label, value string) {
	rest := line[len(prefix):]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "Other", unescapeVCard(rest)
	}
	label = "Other"
	for _, p := range strings.Split(rest[:colon], ";") {
		if v, ok := strings.CutPrefix(p, "TYPE="); ok {
			label = v
			break
		}
	}
	return label, unescapeVCard(rest[colon+1:])
}

func escapeVCard(s string) string {
	return strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\n", `\n`).Replace(s)
}

func unescapeVCard(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`).Replace(s)
}

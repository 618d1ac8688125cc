package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vauchi/internal/domain"
)

// Validation errors.
var (
	ErrEmptyDisplayName   = errors.New("display name cannot be empty")
	ErrDisplayNameTooLong = fmt.Errorf("display name too long (max %d characters)", domain.MaxDisplayNameLength)
	ErrValueTooLong       = fmt.Errorf("field value too long (max %d characters)", domain.MaxValueLength)
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPhone       = errors.New("invalid phone number")
)

// New returns an empty card with the given display name at version 1.
func New(displayName string) (domain.ContactCard, error) {
	if err := validateDisplayName(displayName); err != nil {
		return domain.ContactCard{}, err
	}
	return domain.ContactCard{DisplayName: displayName, Version: 1}, nil
}

// NewField creates a field with a fresh stable id.
func NewField(typ domain.FieldType, label, value string) domain.Field {
	return domain.Field{ID: uuid.NewString(), Type: typ, Label: label, Value: value}
}

// SetDisplayName validates and applies a new display name, bumping the
// version.
func SetDisplayName(c *domain.ContactCard, name string) error {
	if err := validateDisplayName(name); err != nil {
		return err
	}
	c.DisplayName = name
	c.Version++
	return nil
}

// AddField validates and appends a field, bumping the version.
func AddField(c *domain.ContactCard, f domain.Field) error {
	if len(c.Fields) >= domain.MaxFields {
		return domain.ErrCardFull
	}
	if err := ValidateField(f); err != nil {
		return err
	}
	c.Fields = append(c.Fields, f)
	c.Version++
	return nil
}

// UpdateField edits label and value by id, preserving the id, and bumps the
// version.
func UpdateField(c *domain.ContactCard, fieldID, label, value string) error {
	for i := range c.Fields {
		if c.Fields[i].ID != fieldID {
			continue
		}
		updated := c.Fields[i]
		updated.Label = label
		updated.Value = value
		if err := ValidateField(updated); err != nil {
			return err
		}
		c.Fields[i] = updated
		c.Version++
		return nil
	}
	return domain.ErrFieldNotFound
}

// RemoveField deletes a field by id and bumps the version.
func RemoveField(c *domain.ContactCard, fieldID string) error {
	for i := range c.Fields {
		if c.Fields[i].ID != fieldID {
			continue
		}
		c.Fields = append(c.Fields[:i], c.Fields[i+1:]...)
		c.Version++
		return nil
	}
	return domain.ErrFieldNotFound
}

// ValidateField checks value length and type-specific format.
func ValidateField(f domain.Field) error {
	if len(f.Value) > domain.MaxValueLength {
		return ErrValueTooLong
	}
	switch f.Type {
	case domain.FieldEmail:
		return validateEmail(f.Value)
	case domain.FieldPhone:
		return validatePhone(f.Value)
	default:
		return nil
	}
}

func validateDisplayName(name string) error {
	if name == "" {
		return ErrEmptyDisplayName
	}
	if len(name) > domain.MaxDisplayNameLength {
		return ErrDisplayNameTooLong
	}
	return nil
}

func validateEmail(v string) error {
	at := strings.Count(v, "@")
	if at != 1 {
		return ErrInvalidEmail
	}
	parts := strings.SplitN(v, "@", 2)
	if parts[0] == "" || parts[1] == "" {
		return ErrInvalidEmail
	}
	return nil
}

func validatePhone(v string) error {
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
		default:
			return ErrInvalidPhone
		}
	}
	if digits < 7 {
		return ErrInvalidPhone
	}
	return nil
}

// Package values contains validated value objects shared across the
// analyzer's domain model.
package values

import (
	"fmt"
	"strings"
)

// Category classifies a violation by the kind of unfinished code it
// represents. Enforces valid category values and provides ordering for
// deterministic report output.
type Category struct {
	value categoryLevel
}

type categoryLevel int

const (
	categoryUnknown categoryLevel = iota
	categoryIncomplete
	categoryDebugging
	categoryUnused
	categoryPrematureCelebration
	categoryOther
)

// Predefined category values.
var (
	CatIncomplete = Category{categoryIncomplete}
	CatDebugging  = Category{categoryDebugging}
	CatUnused     = Category{categoryUnused}
	CatPremature  = Category{categoryPrematureCelebration}
	CatOther      = Category{categoryOther}
)

// NewCategory creates a Category from its string form.
func NewCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incomplete-implementation":
		return CatIncomplete, nil
	case "debugging-code":
		return CatDebugging, nil
	case "unused-code":
		return CatUnused, nil
	case "premature-celebration":
		return CatPremature, nil
	case "other":
		return CatOther, nil
	default:
		return Category{}, fmt.Errorf("invalid category: %s", s)
	}
}

// MustNewCategory creates a Category or panics (for tests/constants).
func MustNewCategory(s string) Category {
	c, err := NewCategory(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the string representation.
func (c Category) String() string {
	switch c.value {
	case categoryIncomplete:
		return "incomplete-implementation"
	case categoryDebugging:
		return "debugging-code"
	case categoryUnused:
		return "unused-code"
	case categoryPrematureCelebration:
		return "premature-celebration"
	case categoryOther:
		return "other"
	default:
		return ""
	}
}

// IsZero returns true if this is the zero value.
func (c Category) IsZero() bool {
	return c.value == categoryUnknown
}

// Equals checks if two categories are equal.
func (c Category) Equals(other Category) bool {
	return c.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Category) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid category JSON")
	}
	s = s[1 : len(s)-1]

	cat, err := NewCategory(s)
	if err != nil {
		return err
	}
	*c = cat
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Category) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Category) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	cat, err := NewCategory(s)
	if err != nil {
		return err
	}
	*c = cat
	return nil
}

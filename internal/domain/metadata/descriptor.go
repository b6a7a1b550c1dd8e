// Package metadata holds plain descriptors for compiled types and
// members. Descriptors are built once by a loader and are read-only for
// the lifetime of an analysis run; nothing in this package mutates them
// after construction.
package metadata

import "strings"

// MemberKind identifies what sort of symbol a Member describes.
type MemberKind int

const (
	KindMethod MemberKind = iota
	KindProperty
	KindField
	KindEnumValue
)

// String returns the lowercase kind name used in reports and filter
// expressions.
func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindField:
		return "field"
	case KindEnumValue:
		return "enum-value"
	default:
		return "unknown"
	}
}

// Attribute is a declared annotation on a type or member. Justification
// carries the reason string for markers that require one (exemptions,
// deprecations).
type Attribute struct {
	Name          string
	Justification string
}

// Assembly is an opaque handle to one loaded compiled module. It is
// owned by the loader that produced it; the analyzer only reads it.
// LoadErrors records types that failed to load so a walk can continue
// with what did load and surface a diagnostic note.
type Assembly struct {
	Name       string
	Types      []*Type
	LoadErrors []string
}

// Type describes one compiled type.
type Type struct {
	Name       string
	Namespace  string
	Abstract   bool
	Interface  bool
	ValueType  bool
	Enum       bool
	Attributes []Attribute
	Members    []*Member
	Base       *Type
	Enclosing  *Type
	Nested     []*Type
	Assembly   *Assembly
}

// FullName returns the namespace-qualified name. Nested types are
// joined to their enclosing type with "+", matching the compiled
// naming scheme.
func (t *Type) FullName() string {
	if t.Enclosing != nil {
		return t.Enclosing.FullName() + "+" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// HasAttribute reports whether any declared attribute name contains the
// given fragment (case-insensitive). Attribute names in compiled
// metadata may or may not carry the "Attribute" suffix, so matching is
// deliberately loose.
func (t *Type) HasAttribute(fragment string) bool {
	return hasAttribute(t.Attributes, fragment)
}

// EnumValueNames returns the declared enum value names in order.
// Empty for non-enum types.
func (t *Type) EnumValueNames() []string {
	if !t.Enum {
		return nil
	}
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		if m.Kind == KindEnumValue {
			names = append(names, m.Name)
		}
	}
	return names
}

// Parameter describes one declared method parameter.
type Parameter struct {
	Name string
}

// Member describes one compiled member of a type. Body holds the raw
// binary method body and is nil for non-methods and for methods with no
// body (abstract, extern).
type Member struct {
	Kind            MemberKind
	Name            string
	Declaring       *Type
	ReturnType      string
	Body            []byte
	Attributes      []Attribute
	Parameters      []Parameter
	Abstract        bool
	Static          bool
	SpecialName     bool
	AutoImplemented bool
	Token           uint32
}

// HasBody reports whether the member carries a binary body to analyze.
func (m *Member) HasBody() bool {
	return m.Kind == KindMethod && len(m.Body) > 0
}

// ReturnsValue reports whether a method returns something other than
// void. Always false for non-methods.
func (m *Member) ReturnsValue() bool {
	return m.Kind == KindMethod && m.ReturnType != "" && m.ReturnType != "void"
}

// HasAttribute reports whether any declared attribute name contains the
// given fragment (case-insensitive).
func (m *Member) HasAttribute(fragment string) bool {
	return hasAttribute(m.Attributes, fragment)
}

func hasAttribute(attrs []Attribute, fragment string) bool {
	fragment = strings.ToLower(fragment)
	for _, a := range attrs {
		if strings.Contains(strings.ToLower(a.Name), fragment) {
			return true
		}
	}
	return false
}

// Subject is one (type, member) pair yielded by a walk. Member is nil
// for type-level subjects, which precede the type's member subjects in
// walk order.
type Subject struct {
	Type   *Type
	Member *Member
}

// IsTypeLevel reports whether the subject stands for the type itself.
func (s Subject) IsTypeLevel() bool {
	return s.Member == nil
}

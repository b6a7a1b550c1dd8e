package metadata

import "strings"

// ExemptAttributeName is the marker attribute that opts a symbol out of
// all rule evaluation. The marker is only honored when it carries a
// non-empty justification string; a bare marker does not exempt.
const ExemptAttributeName = "AnalysisExempt"

// Exempt reports whether the type carries a valid exemption marker,
// either directly or via an enclosing type.
func (t *Type) Exempt() bool {
	for ; t != nil; t = t.Enclosing {
		if hasValidExemption(t.Attributes) {
			return true
		}
	}
	return false
}

// Exempt reports whether the member carries a valid exemption marker,
// either directly or via its declaring type.
func (m *Member) Exempt() bool {
	if hasValidExemption(m.Attributes) {
		return true
	}
	return m.Declaring != nil && m.Declaring.Exempt()
}

func hasValidExemption(attrs []Attribute) bool {
	for _, a := range attrs {
		if strings.Contains(a.Name, ExemptAttributeName) && strings.TrimSpace(a.Justification) != "" {
			return true
		}
	}
	return false
}

package rules

import "fmt"

// Registry is the fixed, explicit rule catalog assembled once at
// startup. There is no dynamic discovery: what is registered is what
// runs. Order is preserved so repeated runs evaluate rules
// identically.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry builds a registry from an explicit rule list. Duplicate
// or empty IDs and nil checks are rejected.
func NewRegistry(catalog ...Rule) (*Registry, error) {
	r := &Registry{
		rules: make([]Rule, 0, len(catalog)),
		byID:  make(map[string]Rule, len(catalog)),
	}
	for _, rule := range catalog {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule with empty ID")
		}
		if rule.Check == nil {
			return nil, fmt.Errorf("rule %s has no check function", rule.ID)
		}
		if _, exists := r.byID[rule.ID]; exists {
			return nil, fmt.Errorf("duplicate rule ID: %s", rule.ID)
		}
		r.rules = append(r.rules, rule)
		r.byID[rule.ID] = rule
	}
	return r, nil
}

// MustNewRegistry builds a registry or panics (for the static default
// catalog, where a failure is a programming error).
func MustNewRegistry(catalog ...Rule) *Registry {
	r, err := NewRegistry(catalog...)
	if err != nil {
		panic(err)
	}
	return r
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Get returns the rule with the given ID.
func (r *Registry) Get(id string) (Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// Subset returns the named rules in the given order. Unknown IDs are
// an error: a phase referencing a rule that does not exist is a
// configuration mistake, not something to silently skip.
func (r *Registry) Subset(ids ...string) ([]Rule, error) {
	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		rule, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown rule ID: %s", id)
		}
		out = append(out, rule)
	}
	return out, nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

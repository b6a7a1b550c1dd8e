package config

import "strings"

// InvalidConfigError reports a contradictory or malformed
// configuration. It is fatal at run start; nothing is walked once it
// is returned.
type InvalidConfigError struct {
	Reasons []string
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return "invalid configuration:\n  - " + strings.Join(e.Reasons, "\n  - ")
}

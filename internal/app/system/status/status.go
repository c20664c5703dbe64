// Package status defines account status values for users.
package status

// User account statuses. A disabled user keeps their record and role but
// cannot sign in.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a known account status.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}

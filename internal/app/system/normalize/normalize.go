// Package normalize provides canonical forms for values used as lookup or
// comparison keys. Every function is pure and idempotent.
package normalize

import "strings"

// Email canonicalizes an email address: trimmed and lower-cased. This is the
// form used wherever an email is a lookup key (users.email and
// partner_applications.lead_email).
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role canonicalizes a role value for comparison against the role constants.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status canonicalizes a status value (user, application, or message status).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package domain

import (
	"slices"
	"strings"
)

// Principal is the caller identity resolved from a verified bearer token.
type Principal struct {
	Subject    string
	Username   string
	Email      string
	GivenName  string
	FamilyName string
	// Roles holds lower-cased role names collected from the token claims.
	Roles []string
}

// HasAnyRole reports whether the principal holds at least one of roles.
// Comparison is case-insensitive.
func (p *Principal) HasAnyRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if slices.Contains(p.Roles, strings.ToLower(r)) {
			return true
		}
	}
	return false
}

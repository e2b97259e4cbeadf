package domain

import (
	"slices"
	"strings"
	"time"
)

// Role is a coarse-grained permission label stored on the local profile.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// Token-side role names used by the access policy. Identity providers
// conventionally emit these in lower case.
const (
	ClaimRoleUser    = "user"
	ClaimRoleAdmin   = "admin"
	ClaimRoleManager = "manager"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	}
	return "", NewValidationError("unknown role: " + s)
}

// NormalizeRoles returns the roles as a sorted set without duplicates.
func NormalizeRoles(roles []Role) []Role {
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out
}

// ProvisioningStatus tracks whether the identity provider holds a matching account.
type ProvisioningStatus string

const (
	ProvisioningPendingRemote ProvisioningStatus = "PENDING_REMOTE"
	ProvisioningSynced        ProvisioningStatus = "SYNCED"
	ProvisioningRemoteFailed  ProvisioningStatus = "REMOTE_FAILED"
	// ProvisioningLocalOnly marks records created directly through the user
	// management API, which never reach the identity provider.
	ProvisioningLocalOnly ProvisioningStatus = "LOCAL_ONLY"
)

// User is the local profile mirror of an identity provider account.
type User struct {
	ID                 string             `json:"id"`
	Username           string             `json:"username"`
	Email              string             `json:"email"`
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Roles              []Role             `json:"roles"`
	Active             bool               `json:"active"`
	ProvisioningStatus ProvisioningStatus `json:"provisioningStatus"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// HasRole reports whether the user holds r.
func (u *User) HasRole(r Role) bool {
	return slices.Contains(u.Roles, r)
}

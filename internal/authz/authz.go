// Package authz decides whether a principal may reach a route.
package authz

import "socialai/internal/models"

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

// RoleSet is the set of roles a route admits. A nil set admits any
// authenticated principal.
type RoleSet map[models.Role]struct{}

func Roles(roles ...models.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

var (
	AnyRole      RoleSet
	TenantAdmins = Roles(models.RoleTenantAdmin, models.RoleSuperAdmin)
	SuperAdmins  = Roles(models.RoleSuperAdmin)
)

func (s RoleSet) Contains(r models.Role) bool {
	if s == nil {
		return true
	}
	_, ok := s[r]
	return ok
}

// Authorize is pure: no I/O, so it runs before any data access.
func Authorize(p *models.Principal, allowed RoleSet) Decision {
	if p == nil {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if !allowed.Contains(p.Role) {
		return Decision{Reason: ReasonForbidden}
	}
	return Decision{Allowed: true}
}

// Err converts a denial into the matching sentinel error.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonUnauthenticated:
		return models.ErrUnauthenticated
	case ReasonForbidden:
		return models.ErrForbidden
	}
	return nil
}

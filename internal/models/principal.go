package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleTenantAdmin Role = "TENANT_ADMIN"
	RoleUser        Role = "USER"
)

// ParseRole accepts only the three platform roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated identity for one request.
type Principal struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id"`
}

// Validate enforces the role/tenant pairing: a SUPER_ADMIN has no tenant,
// everyone else belongs to exactly one.
func (p *Principal) Validate() error {
	if p == nil {
		return errors.New("principal is nil")
	}
	if p.ID == uuid.Nil {
		return errors.New("principal id is required")
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	if p.Role == RoleSuperAdmin {
		if p.TenantID != nil {
			return errors.New("super admin must not belong to a tenant")
		}
		return nil
	}
	if p.TenantID == nil || *p.TenantID == uuid.Nil {
		return fmt.Errorf("%s must belong to a tenant", p.Role)
	}
	return nil
}

func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

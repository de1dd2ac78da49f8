package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialai/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is what a single statement needs; both the pool and a pgx.Tx
// satisfy it.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DBTX is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// satisfies it as well.
type DBTX interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

const uniqueViolation = "23505"

var errUnboundScope = errors.New("repositories: query issued without a tenant scope")

type scopeKind int

const (
	scopeUnbound scopeKind = iota
	scopeTenant
	scopeCrossTenant
)

// Scope binds every tenant-owned query to one tenant, or marks it as an
// explicit cross-tenant query. The zero value is unbound and refuses to
// render, so a forgotten scope fails instead of leaking rows.
type Scope struct {
	kind     scopeKind
	tenantID uuid.UUID
}

// TenantScope binds queries to a known tenant id.
func TenantScope(tenantID uuid.UUID) Scope {
	return Scope{kind: scopeTenant, tenantID: tenantID}
}

// ScopeFor binds queries to the principal's own tenant.
func ScopeFor(p *models.Principal) (Scope, error) {
	if p == nil {
		return Scope{}, models.ErrUnauthenticated
	}
	if p.TenantID == nil || *p.TenantID == uuid.Nil {
		return Scope{}, models.ErrNoTenant
	}
	return TenantScope(*p.TenantID), nil
}

// CrossTenant is the platform-operator path: no tenant filter is applied.
// Only a SUPER_ADMIN principal may obtain it.
func CrossTenant(p *models.Principal) (Scope, error) {
	if p == nil {
		return Scope{}, models.ErrUnauthenticated
	}
	if !p.IsSuperAdmin() {
		return Scope{}, models.ErrForbidden
	}
	return Scope{kind: scopeCrossTenant}, nil
}

// AdminScope is used by tenant-admin actions that a SUPER_ADMIN may also
// perform on any tenant.
func AdminScope(p *models.Principal) (Scope, error) {
	if p.IsSuperAdmin() {
		return CrossTenant(p)
	}
	return ScopeFor(p)
}

// SystemScope is the unscoped path for background jobs that act on behalf
// of no principal. Request handlers must not use it.
func SystemScope() Scope {
	return Scope{kind: scopeCrossTenant}
}

func (s Scope) IsCrossTenant() bool { return s.kind == scopeCrossTenant }

// TenantID returns the bound tenant, if any.
func (s Scope) TenantID() (uuid.UUID, bool) {
	return s.tenantID, s.kind == scopeTenant
}

func (s Scope) String() string {
	switch s.kind {
	case scopeTenant:
		return "tenant:" + s.tenantID.String()
	case scopeCrossTenant:
		return "cross-tenant"
	}
	return "unbound"
}

// Cond is one equality filter ANDed onto the scope.
type Cond struct {
	Column string
	Value  any
}

func Eq(column string, value any) Cond {
	return Cond{Column: column, Value: value}
}

// Where renders the WHERE clause for the scope and the extra conditions.
// Tenant-scoped clauses always begin with "tenant_id = $1". column may be
// table-qualified via prefix (e.g. "i.").
func (s Scope) Where(prefix string, conds ...Cond) (string, []any, error) {
	parts := make([]string, 0, len(conds)+1)
	args := make([]any, 0, len(conds)+1)

	switch s.kind {
	case scopeTenant:
		args = append(args, s.tenantID)
		parts = append(parts, fmt.Sprintf("%stenant_id = $1", prefix))
	case scopeCrossTenant:
	default:
		return "", nil, errUnboundScope
	}

	for _, c := range conds {
		args = append(args, c.Value)
		parts = append(parts, fmt.Sprintf("%s%s = $%d", prefix, c.Column, len(args)))
	}

	if len(parts) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(parts, " AND "), args, nil
}

// translate maps driver errors onto the domain taxonomy.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

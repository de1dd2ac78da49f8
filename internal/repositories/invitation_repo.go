package repositories

import (
	"context"
	"fmt"

	"socialai/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvitationRepository interface {
	Create(ctx context.Context, scope Scope, invitation *models.Invitation) error
	List(ctx context.Context, scope Scope, status string) ([]*models.Invitation, error)
	// Delete removes one invitation; ErrNotFound when nothing in scope matched.
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	GetPendingByTokenHash(ctx context.Context, tokenHash string) (*models.Invitation, error)
	// Accept flips a PENDING invitation to ACCEPTED and creates its user in
	// one transaction. ErrNotFound when the invitation is no longer pending,
	// ErrConflict when the email is already registered.
	Accept(ctx context.Context, scope Scope, id uuid.UUID, user *models.User) error
}

type invitationRepo struct {
	db DBTX
}

func NewInvitationRepo(db DBTX) InvitationRepository {
	return &invitationRepo{db: db}
}

const invitationColumns = `id, tenant_id, email, role, token_hash, status, invited_by, expires_at, created_at`

func scanInvitation(row interface{ Scan(...any) error }) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.TokenHash, &inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create writes the invitation under the scope's tenant; the row's own
// TenantID is overwritten so callers cannot plant rows in another tenant.
func (r *invitationRepo) Create(ctx context.Context, scope Scope, inv *models.Invitation) error {
	tenantID, ok := scope.TenantID()
	if !ok {
		return errUnboundScope
	}
	inv.TenantID = tenantID

	query := `
		INSERT INTO invitations (id, tenant_id, email, role, token_hash, status, invited_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, inv.ID, inv.TenantID, inv.Email, inv.Role, inv.TokenHash, inv.Status, inv.InvitedBy, inv.ExpiresAt)
	return err
}

func (r *invitationRepo) List(ctx context.Context, scope Scope, status string) ([]*models.Invitation, error) {
	where, args, err := scope.Where("", Eq("status", status))
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + invitationColumns + ` FROM invitations ` + where + ` ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []*models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepo) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	where, args, err := scope.Where("", Eq("id", id))
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM invitations `+where, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetPendingByTokenHash is unscoped: the invitation token itself is the credential.
func (r *invitationRepo) GetPendingByTokenHash(ctx context.Context, tokenHash string) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token_hash = $1 AND status = $2`
	inv, err := scanInvitation(r.db.QueryRow(ctx, query, tokenHash, models.InvitationPending))
	if err != nil {
		return nil, translate(err)
	}
	return inv, nil
}

func (r *invitationRepo) Accept(ctx context.Context, scope Scope, id uuid.UUID, user *models.User) error {
	where, args, err := scope.Where("", Eq("id", id), Eq("status", models.InvitationPending))
	if err != nil {
		return err
	}
	args = append(args, models.InvitationAccepted)
	query := fmt.Sprintf("UPDATE invitations SET status = $%d %s", len(args), where)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin accept invitation: %w", err)
	}
	if err := acceptInTx(ctx, tx, query, args, user); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func acceptInTx(ctx context.Context, tx pgx.Tx, query string, args []any, user *models.User) error {
	// The status predicate claims the row; a concurrent accept waits on the
	// row lock and then matches nothing.
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark invitation accepted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return insertUser(ctx, tx, user)
}

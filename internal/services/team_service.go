package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"socialai/internal/common"
	"socialai/internal/models"
	"socialai/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const InvitationTTL = 7 * 24 * time.Hour

type CreateInvitationRequest struct {
	Email string      `json:"email" validate:"required,email"`
	Role  models.Role `json:"role" validate:"omitempty,oneof=USER TENANT_ADMIN"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"max=200"`
	Password string `json:"password" validate:"min=8,max=72"`
}

// TeamService manages a tenant's members and invitations.
type TeamService interface {
	ListMembers(ctx context.Context, p *models.Principal) ([]*models.User, error)
	ListInvitations(ctx context.Context, p *models.Principal) ([]*models.Invitation, error)
	// CreateInvitation returns the stored invitation and the one-time token.
	CreateInvitation(ctx context.Context, p *models.Principal, req CreateInvitationRequest) (*models.Invitation, string, error)
	CancelInvitation(ctx context.Context, p *models.Principal, id uuid.UUID) error
	AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*models.User, error)
}

type teamService struct {
	userRepo       repositories.UserRepository
	invitationRepo repositories.InvitationRepository
	log            *zap.Logger
	now            func() time.Time
}

func NewTeamService(userRepo repositories.UserRepository, invitationRepo repositories.InvitationRepository, log *zap.Logger) TeamService {
	return &teamService{userRepo: userRepo, invitationRepo: invitationRepo, log: log, now: time.Now}
}

func (s *teamService) ListMembers(ctx context.Context, p *models.Principal) ([]*models.User, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, scope)
}

func (s *teamService) ListInvitations(ctx context.Context, p *models.Principal) ([]*models.Invitation, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return nil, err
	}
	return s.invitationRepo.List(ctx, scope, models.InvitationPending)
}

func (s *teamService) CreateInvitation(ctx context.Context, p *models.Principal, req CreateInvitationRequest) (*models.Invitation, string, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return nil, "", err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := common.ValidateStruct(req); err != nil {
		return nil, "", err
	}
	email := req.Email
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return nil, "", err
	}

	inviter := p.ID
	inv := &models.Invitation{
		ID:        uuid.New(),
		Email:     email,
		Role:      role,
		TokenHash: hashToken(token),
		Status:    models.InvitationPending,
		InvitedBy: &inviter,
		ExpiresAt: s.now().Add(InvitationTTL),
	}
	if err := s.invitationRepo.Create(ctx, scope, inv); err != nil {
		return nil, "", fmt.Errorf("create invitation: %w", err)
	}

	s.log.Info("invitation created",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("tenant_id", inv.TenantID.String()),
	)
	return inv, token, nil
}

// CancelInvitation deletes a pending invitation. A SUPER_ADMIN may cancel in
// any tenant; everyone else only within their own.
func (s *teamService) CancelInvitation(ctx context.Context, p *models.Principal, id uuid.UUID) error {
	scope, err := repositories.AdminScope(p)
	if err != nil {
		return err
	}
	return s.invitationRepo.Delete(ctx, scope, id)
}

func (s *teamService) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*models.User, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	inv, err := s.invitationRepo.GetPendingByTokenHash(ctx, hashToken(req.Token))
	if err != nil {
		return nil, err
	}
	if inv.Expired(s.now()) {
		return nil, fmt.Errorf("%w: invitation has expired", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tenantID := inv.TenantID
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     &tenantID,
		Email:        inv.Email,
		Role:         inv.Role,
		PasswordHash: string(hash),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}
	if err := s.invitationRepo.Accept(ctx, repositories.TenantScope(tenantID), inv.ID, user); err != nil {
		return nil, err
	}

	s.log.Info("invitation accepted",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return user, nil
}

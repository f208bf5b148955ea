package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"printdesk-backend/internal/authz"
	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/repository"
)

type accountService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	emailSvc EmailService
	validate *validator.Validate
}

func NewAccountService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, emailSvc EmailService) AccountService {
	return &accountService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		emailSvc: emailSvc,
		validate: validator.New(),
	}
}

func (s *accountService) CreateAccount(ctx context.Context, actor *domain.User, input CreateAccountInput) (*domain.User, error) {
	if !authz.Allowed(actor.Role, authz.OpManageAccounts) {
		return nil, domain.ErrForbidden
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.Validation("role", "unknown role")
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(ctx, actor.OrgID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if err := s.checkQuota(ctx, org, input.Role); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		OrgID:        actor.OrgID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendAccountCreated(ctx, user.Email, user.Name, org.Name); err != nil {
		logger.Warn("Failed to send account welcome email", "user_id", user.ID, "error", err)
	}

	return user, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !authz.Allowed(actor.Role, authz.OpManageAccounts) {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.ListByOrg(ctx, actor.OrgID)
}

func (s *accountService) SetAccountActive(ctx context.Context, actor *domain.User, userID int32, active bool, reason string) error {
	if !authz.Allowed(actor.Role, authz.OpManageAccounts) {
		return domain.ErrForbidden
	}

	user, err := s.getScopedUser(ctx, actor, userID)
	if err != nil {
		return err
	}
	if user.Active == active {
		return nil
	}

	org, err := s.orgRepo.GetByID(ctx, actor.OrgID)
	if err != nil {
		return mapRepoErr(err)
	}

	// Reactivation counts against the tier quota again.
	if active {
		if err := s.checkQuota(ctx, org, user.Role); err != nil {
			return err
		}
	}

	user.Active = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Deactivation also ends every live session immediately.
	if !active {
		if _, err := s.userRepo.IncrementSessionEpoch(ctx, user.ID); err != nil {
			logger.Error("Failed to bump session epoch on deactivation", "user_id", user.ID, "error", err)
		}
	}

	status := "ACTIVE"
	if !active {
		status = "DEACTIVATED"
	}
	if err := s.emailSvc.SendAccountStatusNotification(ctx, user.Email, user.Name, org.Name, status, reason); err != nil {
		logger.Warn("Failed to send account status email", "user_id", user.ID, "error", err)
	}

	return nil
}

func (s *accountService) TerminateSessions(ctx context.Context, actor *domain.User, userID int32) error {
	if !authz.Allowed(actor.Role, authz.OpManageAccounts) {
		return domain.ErrForbidden
	}

	user, err := s.getScopedUser(ctx, actor, userID)
	if err != nil {
		return err
	}

	// The account stays active; only outstanding credentials die.
	if _, err := s.userRepo.IncrementSessionEpoch(ctx, user.ID); err != nil {
		return err
	}
	logger.Info("Terminated sessions", "user_id", user.ID, "actor_id", actor.ID)
	return nil
}

// getScopedUser applies the tenant rule to account lookups: accounts of
// other organizations read as missing.
func (s *accountService) getScopedUser(ctx context.Context, actor *domain.User, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if user.OrgID != actor.OrgID {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *accountService) checkQuota(ctx context.Context, org *domain.Organization, role domain.UserRole) error {
	limit := domain.QuotaFor(org.Tier).Limit(role)
	if limit < 0 {
		return nil
	}
	count, err := s.userRepo.CountActiveByOrgAndRole(ctx, org.ID, role)
	if err != nil {
		return err
	}
	if count >= limit {
		return domain.ErrQuotaExceeded
	}
	return nil
}

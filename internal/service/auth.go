package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/repository"
	"printdesk-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	tokens   security.TokenManager
	validate *validator.Validate
}

func NewAuthService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (s *authService) RegisterOrganization(ctx context.Context, input RegisterOrgInput) (*domain.Organization, *domain.User, string, string, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, nil, "", "", validationError(err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.AdminEmail); err == nil {
		return nil, nil, "", "", domain.ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, "", "", err
	}

	tier := input.Tier
	if tier == "" {
		tier = domain.TierStarter
	}
	tz := input.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, nil, "", "", domain.Validation("timezone", "unknown IANA zone")
	}

	org := &domain.Organization{
		Name:       input.OrgName,
		AdminEmail: input.AdminEmail,
		Tier:       tier,
		Timezone:   tz,
		Active:     true,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, "", "", err
	}

	admin := &domain.User{
		OrgID:        org.ID,
		Name:         input.AdminName,
		Email:        input.AdminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleOrgAdmin,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, nil, "", "", err
	}

	access, refresh, err := s.issueTokens(admin)
	if err != nil {
		return nil, nil, "", "", err
	}
	return org, admin, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, "", "", domain.ErrSessionInvalid
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", domain.ErrSessionInvalid
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.ErrSessionInvalid
	}

	// The refresh token carries an epoch too; a terminated session
	// cannot mint fresh credentials.
	user, err := s.VerifySession(ctx, claims.UserID, claims.SessionEpoch)
	if err != nil {
		return "", "", err
	}

	return s.issueTokens(user)
}

func (s *authService) VerifySession(ctx context.Context, userID, presentedEpoch int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrSessionInvalid
	}
	if user.SessionEpoch != presentedEpoch {
		return nil, domain.ErrSessionInvalid
	}
	return user, nil
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

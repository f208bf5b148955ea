package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"printdesk-backend/internal/domain"
)

func newAccountFixture() (*MockUserRepo, *MockOrganizationRepo, *MockEmailService, AccountService) {
	userRepo := new(MockUserRepo)
	orgRepo := new(MockOrganizationRepo)
	emailSvc := new(MockEmailService)
	svc := NewAccountService(userRepo, orgRepo, emailSvc)
	return userRepo, orgRepo, emailSvc, svc
}

func starterOrg() *domain.Organization {
	return &domain.Organization{ID: 10, Name: "Lincoln Elementary", Tier: domain.TierStarter, Timezone: "UTC", Active: true}
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	admin := orgAdmin(2, 10)

	input := CreateAccountInput{
		Name:     "Casey Kim",
		Email:    "casey@lincoln.edu",
		Role:     domain.RolePrintOperator,
		Password: "long-enough-pw",
	}

	t.Run("Success", func(t *testing.T) {
		userRepo, orgRepo, emailSvc, svc := newAccountFixture()
		userRepo.On("GetByEmail", ctx, "casey@lincoln.edu").Return(nil, sql.ErrNoRows)
		orgRepo.On("GetByID", ctx, int32(10)).Return(starterOrg(), nil)
		userRepo.On("CountActiveByOrgAndRole", ctx, int32(10), domain.RolePrintOperator).Return(int32(0), nil)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.OrgID == 10 && u.Role == domain.RolePrintOperator && u.Active && u.PasswordHash != "long-enough-pw"
		})).Return(nil)
		emailSvc.On("SendAccountCreated", ctx, "casey@lincoln.edu", "Casey Kim", "Lincoln Elementary").Return(nil)

		user, err := svc.CreateAccount(ctx, admin, input)
		assert.NoError(t, err)
		assert.Equal(t, domain.RolePrintOperator, user.Role)
		userRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("StarterTierOperatorQuota", func(t *testing.T) {
		userRepo, orgRepo, _, svc := newAccountFixture()
		userRepo.On("GetByEmail", ctx, "casey@lincoln.edu").Return(nil, sql.ErrNoRows)
		orgRepo.On("GetByID", ctx, int32(10)).Return(starterOrg(), nil)
		// STARTER allows a single print operator.
		userRepo.On("CountActiveByOrgAndRole", ctx, int32(10), domain.RolePrintOperator).Return(int32(1), nil)

		_, err := svc.CreateAccount(ctx, admin, input)
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	})

	t.Run("BusinessTierUnbounded", func(t *testing.T) {
		userRepo, orgRepo, emailSvc, svc := newAccountFixture()
		org := starterOrg()
		org.Tier = domain.TierBusiness
		userRepo.On("GetByEmail", ctx, "casey@lincoln.edu").Return(nil, sql.ErrNoRows)
		orgRepo.On("GetByID", ctx, int32(10)).Return(org, nil)
		userRepo.On("Create", ctx, mock.Anything).Return(nil)
		emailSvc.On("SendAccountCreated", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.CreateAccount(ctx, admin, input)
		assert.NoError(t, err)
		userRepo.AssertNotCalled(t, "CountActiveByOrgAndRole", ctx, int32(10), domain.RolePrintOperator)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		_, _, _, svc := newAccountFixture()
		_, err := svc.CreateAccount(ctx, printOperator(3, 10), input)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		userRepo, _, _, svc := newAccountFixture()
		userRepo.On("GetByEmail", ctx, "casey@lincoln.edu").Return(&domain.User{ID: 9}, nil)

		_, err := svc.CreateAccount(ctx, admin, input)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		_, _, _, svc := newAccountFixture()
		bad := input
		bad.Role = domain.UserRole("SUPERUSER")
		_, err := svc.CreateAccount(ctx, admin, bad)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestAccountService_SetAccountActive(t *testing.T) {
	ctx := context.Background()
	admin := orgAdmin(2, 10)

	t.Run("Deactivate", func(t *testing.T) {
		userRepo, orgRepo, emailSvc, svc := newAccountFixture()
		target := &domain.User{ID: 5, OrgID: 10, Name: "Casey Kim", Email: "casey@lincoln.edu", Role: domain.RolePrintOperator, Active: true}
		userRepo.On("GetByID", ctx, int32(5)).Return(target, nil)
		orgRepo.On("GetByID", ctx, int32(10)).Return(starterOrg(), nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == 5 && !u.Active
		})).Return(nil)
		userRepo.On("IncrementSessionEpoch", ctx, int32(5)).Return(int32(1), nil)
		emailSvc.On("SendAccountStatusNotification", ctx, "casey@lincoln.edu", "Casey Kim", "Lincoln Elementary", "DEACTIVATED", "left the school").Return(nil)

		err := svc.SetAccountActive(ctx, admin, 5, false, "left the school")
		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("ReactivateChecksQuota", func(t *testing.T) {
		userRepo, orgRepo, _, svc := newAccountFixture()
		target := &domain.User{ID: 5, OrgID: 10, Role: domain.RolePrintOperator, Active: false}
		userRepo.On("GetByID", ctx, int32(5)).Return(target, nil)
		orgRepo.On("GetByID", ctx, int32(10)).Return(starterOrg(), nil)
		userRepo.On("CountActiveByOrgAndRole", ctx, int32(10), domain.RolePrintOperator).Return(int32(1), nil)

		err := svc.SetAccountActive(ctx, admin, 5, true, "")
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	})

	t.Run("OtherTenantReadsAsMissing", func(t *testing.T) {
		userRepo, _, _, svc := newAccountFixture()
		userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, OrgID: 99}, nil)

		err := svc.SetAccountActive(ctx, admin, 5, false, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAccountService_TerminateSessions(t *testing.T) {
	ctx := context.Background()
	admin := orgAdmin(2, 10)

	t.Run("Success", func(t *testing.T) {
		userRepo, _, _, svc := newAccountFixture()
		userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, OrgID: 10, Active: true}, nil)
		userRepo.On("IncrementSessionEpoch", ctx, int32(5)).Return(int32(4), nil)

		assert.NoError(t, svc.TerminateSessions(ctx, admin, 5))
		userRepo.AssertExpectations(t)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		_, _, _, svc := newAccountFixture()
		assert.ErrorIs(t, svc.TerminateSessions(ctx, requester(1, 10), 5), domain.ErrForbidden)
	})
}

func TestAccountService_ListAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		_, _, _, svc := newAccountFixture()
		_, err := svc.ListAccounts(ctx, printOperator(3, 10))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Success", func(t *testing.T) {
		userRepo, _, _, svc := newAccountFixture()
		userRepo.On("ListByOrg", ctx, int32(10)).Return([]domain.User{{ID: 1}, {ID: 2}}, nil)

		users, err := svc.ListAccounts(ctx, orgAdmin(2, 10))
		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

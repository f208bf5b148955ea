package service

import (
	"context"
	"io"
	"time"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/repository"
)

type AuthService interface {
	// RegisterOrganization creates a tenant and its first ORG_ADMIN
	// account, returning the admin plus an access/refresh token pair.
	RegisterOrganization(ctx context.Context, input RegisterOrgInput) (*domain.Organization, *domain.User, string, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	// VerifySession enforces the account gate: the user must be active
	// and presentedEpoch must equal the stored session epoch.
	VerifySession(ctx context.Context, userID, presentedEpoch int32) (*domain.User, error)
}

type RegisterOrgInput struct {
	OrgName    string `validate:"required,min=2,max=120"`
	Timezone   string
	Tier       domain.SubscriptionTier
	AdminName  string `validate:"required,min=1,max=120"`
	AdminEmail string `validate:"required,email"`
	Password   string `validate:"required,min=8"`
}

type AccountService interface {
	CreateAccount(ctx context.Context, actor *domain.User, input CreateAccountInput) (*domain.User, error)
	ListAccounts(ctx context.Context, actor *domain.User) ([]domain.User, error)
	SetAccountActive(ctx context.Context, actor *domain.User, userID int32, active bool, reason string) error
	// TerminateSessions bumps the target's session epoch so every
	// outstanding token is rejected on its next use.
	TerminateSessions(ctx context.Context, actor *domain.User, userID int32) error
}

type CreateAccountInput struct {
	Name     string          `validate:"required,min=1,max=120"`
	Email    string          `validate:"required,email"`
	Role     domain.UserRole `validate:"required"`
	Password string          `validate:"required,min=8"`
}

type RequestService interface {
	Create(ctx context.Context, actor *domain.User, input CreateRequestInput) (*domain.PrintRequest, error)
	List(ctx context.Context, actor *domain.User, filter repository.RequestFilter) ([]domain.PrintRequest, int32, error)
	Get(ctx context.Context, actor *domain.User, id int32) (*domain.PrintRequest, error)
	Transition(ctx context.Context, actor *domain.User, id int32, target domain.RequestStatus) (*domain.PrintRequest, error)
	Delete(ctx context.Context, actor *domain.User, id int32) error
	OpenFile(ctx context.Context, actor *domain.User, id int32) (io.ReadCloser, *domain.FileRef, error)
	FileURL(ctx context.Context, actor *domain.User, id int32, expiresIn time.Duration) (string, error)
}

type CreateRequestInput struct {
	Title          string                `validate:"required,min=1,max=200"`
	Copies         int32                 `validate:"required,gt=0"`
	Format         domain.PrintFormat    `validate:"required"`
	DeliveryMethod domain.DeliveryMethod `validate:"required"`
	DeliveryRoom   string
	// DueDate is the raw client submission; offset-qualified RFC3339 is
	// taken as-is, a naive datetime resolves in the org's timezone.
	DueDate      string `validate:"required"`
	FileName     string `validate:"required"`
	ContentType  string `validate:"required"`
	FileContents io.Reader
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendAccountCreated(ctx context.Context, email, name, orgName string) error
	SendAccountStatusNotification(ctx context.Context, email, name, orgName, status, reason string) error
	SendDueSoonReminder(ctx context.Context, email, title string, dueOn time.Time) error
}

package repository

import (
	"context"
	"time"

	"printdesk-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListByOrg(ctx context.Context, orgID int32) ([]domain.User, error)
	ListByOrgAndRole(ctx context.Context, orgID int32, role domain.UserRole) ([]domain.User, error)
	CountActiveByOrgAndRole(ctx context.Context, orgID int32, role domain.UserRole) (int32, error)
	// IncrementSessionEpoch bumps the per-user epoch counter and returns
	// the new value. Every token minted before the bump becomes stale.
	IncrementSessionEpoch(ctx context.Context, id int32) (int32, error)
	UpdateLastLogin(ctx context.Context, id int32, at time.Time) error
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
}

// RequestFilter narrows list queries. Zero values mean "no filter".
type RequestFilter struct {
	Status      domain.RequestStatus
	RequesterID int32
	Page        int32
	PageSize    int32
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.PrintRequest) error
	GetByID(ctx context.Context, id int32) (*domain.PrintRequest, error)
	// UpdateStatus persists a status change and refreshes updated_on.
	// Last write wins; there is no version check before the write.
	UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error
	Delete(ctx context.Context, id int32) error
	ListByOrg(ctx context.Context, orgID int32, filter RequestFilter) ([]domain.PrintRequest, int32, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.PrintRequest, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PrintRequest, error)
	ListStorageKeys(ctx context.Context) ([]string, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

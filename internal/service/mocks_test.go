package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/notify"
	"printdesk-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) ListByOrg(ctx context.Context, orgID int32) ([]domain.User, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListByOrgAndRole(ctx context.Context, orgID int32, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, orgID, role)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) CountActiveByOrgAndRole(ctx context.Context, orgID int32, role domain.UserRole) (int32, error) {
	args := m.Called(ctx, orgID, role)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUserRepo) IncrementSessionEpoch(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.PrintRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.PrintRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrintRequest), args.Error(1)
}
func (m *MockRequestRepo) UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockRequestRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRequestRepo) ListByOrg(ctx context.Context, orgID int32, filter repository.RequestFilter) ([]domain.PrintRequest, int32, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]domain.PrintRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.PrintRequest, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.PrintRequest), args.Error(1)
}
func (m *MockRequestRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PrintRequest, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.PrintRequest), args.Error(1)
}
func (m *MockRequestRepo) ListStorageKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key, contentType string, reader io.Reader) (int64, error) {
	args := m.Called(ctx, key, contentType, reader)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockStorage) Exists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(bool), args.Get(1).(int64), args.Error(2)
}
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// MockBroadcaster records published events instead of delivering them.
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Publish(audience notify.Audience, event notify.Event) {
	m.Called(audience, event)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccountCreated(ctx context.Context, email, name, orgName string) error {
	args := m.Called(ctx, email, name, orgName)
	return args.Error(0)
}
func (m *MockEmailService) SendAccountStatusNotification(ctx context.Context, email, name, orgName, status, reason string) error {
	args := m.Called(ctx, email, name, orgName, status, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendDueSoonReminder(ctx context.Context, email, title string, dueOn time.Time) error {
	args := m.Called(ctx, email, title, dueOn)
	return args.Error(0)
}

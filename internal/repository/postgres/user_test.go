package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printdesk-backend/internal/domain"
)

func userRows(u *domain.User) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "org_id", "name", "email", "password_hash", "role", "session_epoch", "active", "last_login_on", "created_on", "updated_on"}).
		AddRow(u.ID, u.OrgID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.SessionEpoch, u.Active, nil, now, now)
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	stored := &domain.User{ID: 1, OrgID: 10, Name: "Pat", Email: "pat@test.com", Role: domain.RoleOrgAdmin, SessionEpoch: 2, Active: true}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, org_id, name, email, password_hash, role, session_epoch, active, last_login_on, created_on, updated_on FROM users WHERE id = $1`)).
		WithArgs(int32(1)).
		WillReturnRows(userRows(stored))

	u, err := repo.GetByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(10), u.OrgID)
	assert.Equal(t, int32(2), u.SessionEpoch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(int32(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	stored := &domain.User{ID: 1, OrgID: 10, Email: "pat@test.com", Role: domain.RoleRequester, Active: true}
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(email) = LOWER($1)`)).
		WithArgs("PAT@test.com").
		WillReturnRows(userRows(stored))

	u, err := repo.GetByEmail(context.Background(), "PAT@test.com")
	assert.NoError(t, err)
	assert.Equal(t, "pat@test.com", u.Email)
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(int32(10), "Pat", "pat@test.com", "hash", domain.RoleRequester, int32(0), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	u := &domain.User{OrgID: 10, Name: "Pat", Email: "pat@test.com", PasswordHash: "hash", Role: domain.RoleRequester, Active: true}
	assert.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int32(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_IncrementSessionEpoch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET session_epoch = session_epoch + 1, updated_on=$1 WHERE id = $2 RETURNING session_epoch`)).
		WithArgs(sqlmock.AnyArg(), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"session_epoch"}).AddRow(3))

	epoch, err := repo.IncrementSessionEpoch(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), epoch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountActiveByOrgAndRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users WHERE org_id = $1 AND role = $2 AND active = true`)).
		WithArgs(int32(10), domain.RolePrintOperator).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountActiveByOrgAndRole(context.Background(), 10, domain.RolePrintOperator)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), count)
}

func TestUserRepository_ListByOrgAndRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "org_id", "name", "email", "password_hash", "role", "session_epoch", "active", "last_login_on", "created_on", "updated_on"}).
		AddRow(1, 10, "Op One", "op1@test.com", "h", string(domain.RolePrintOperator), 0, true, nil, now, now).
		AddRow(2, 10, "Op Two", "op2@test.com", "h", string(domain.RolePrintOperator), 0, true, nil, now, now)

	mock.ExpectQuery(`SELECT .* FROM users WHERE org_id = \$1 AND role = \$2`).
		WithArgs(int32(10), domain.RolePrintOperator).
		WillReturnRows(rows)

	users, err := repo.ListByOrgAndRole(context.Background(), 10, domain.RolePrintOperator)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

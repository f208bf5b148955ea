package postgres

import (
	"context"
	"database/sql"
	"time"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, org_id, name, email, password_hash, role, session_epoch, active, last_login_on, created_on, updated_on`

func (r *userRepository) scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var lastLogin sql.NullTime
	var createdOn, updatedOn time.Time
	err := row.Scan(&u.ID, &u.OrgID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.SessionEpoch, &u.Active, &lastLogin, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginOn = &t
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (org_id, name, email, password_hash, role, session_epoch, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	logger.DatabaseCall("users.create", query, "org_id", u.OrgID, "role", u.Role)
	now := time.Now()
	u.CreatedOn = now.Format("2006-01-02")
	u.UpdatedOn = u.CreatedOn
	return r.db.QueryRowContext(ctx, query, u.OrgID, u.Name, u.Email, u.PasswordHash, u.Role, u.SessionEpoch, u.Active, now, now).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2, role=$3, active=$4, updated_on=$5 WHERE id=$6`
	now := time.Now()
	u.UpdatedOn = now.Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.Role, u.Active, now, u.ID)
	return err
}

func (r *userRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 ORDER BY created_on`
	return r.listUsers(ctx, query, orgID)
}

func (r *userRepository) ListByOrgAndRole(ctx context.Context, orgID int32, role domain.UserRole) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 AND role = $2 ORDER BY created_on`
	return r.listUsers(ctx, query, orgID, role)
}

func (r *userRepository) listUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	logger.DatabaseCall("users.list", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) CountActiveByOrgAndRole(ctx context.Context, orgID int32, role domain.UserRole) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM users WHERE org_id = $1 AND role = $2 AND active = true`
	err := r.db.QueryRowContext(ctx, query, orgID, role).Scan(&count)
	return count, err
}

func (r *userRepository) IncrementSessionEpoch(ctx context.Context, id int32) (int32, error) {
	var epoch int32
	query := `UPDATE users SET session_epoch = session_epoch + 1, updated_on=$1 WHERE id = $2 RETURNING session_epoch`
	logger.DatabaseCall("users.incrementSessionEpoch", query, "id", id)
	err := r.db.QueryRowContext(ctx, query, time.Now(), id).Scan(&epoch)
	return epoch, err
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int32, at time.Time) error {
	query := `UPDATE users SET last_login_on = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

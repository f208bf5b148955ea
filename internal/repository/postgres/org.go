package postgres

import (
	"context"
	"database/sql"
	"time"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/repository"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `INSERT INTO organizations (name, admin_email, tier, timezone, active, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	org.CreatedOn = now.Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, org.Name, org.AdminEmail, org.Tier, org.Timezone, org.Active, now).Scan(&org.ID)
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	org := &domain.Organization{}
	query := `SELECT id, name, admin_email, tier, COALESCE(timezone, 'UTC'), active, created_on FROM organizations WHERE id = $1`
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &org.AdminEmail, &org.Tier, &org.Timezone, &org.Active, &createdOn)
	if err != nil {
		return nil, err
	}
	org.CreatedOn = createdOn.Format("2006-01-02")
	return org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	query := `UPDATE organizations SET name=$1, admin_email=$2, tier=$3, timezone=$4, active=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, org.Name, org.AdminEmail, org.Tier, org.Timezone, org.Active, org.ID)
	return err
}

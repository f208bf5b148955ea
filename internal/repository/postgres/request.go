package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/repository"
)

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, org_id, requester_id, title, storage_key, content_type, size_bytes, original_name, copies, format, delivery_method, COALESCE(delivery_room, ''), due_on, status, created_on, updated_on`

func scanRequest(row interface{ Scan(...any) error }) (*domain.PrintRequest, error) {
	pr := &domain.PrintRequest{}
	err := row.Scan(
		&pr.ID, &pr.OrgID, &pr.RequesterID, &pr.Title,
		&pr.File.StorageKey, &pr.File.ContentType, &pr.File.SizeBytes, &pr.File.OriginalName,
		&pr.Copies, &pr.Format, &pr.DeliveryMethod, &pr.DeliveryRoom,
		&pr.DueOn, &pr.Status, &pr.CreatedOn, &pr.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *requestRepository) Create(ctx context.Context, pr *domain.PrintRequest) error {
	query := `INSERT INTO print_requests (org_id, requester_id, title, storage_key, content_type, size_bytes, original_name, copies, format, delivery_method, delivery_room, due_on, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	logger.DatabaseCall("print_requests.create", query, "org_id", pr.OrgID, "requester_id", pr.RequesterID)
	now := time.Now().UTC()
	pr.CreatedOn = now
	pr.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		pr.OrgID, pr.RequesterID, pr.Title,
		pr.File.StorageKey, pr.File.ContentType, pr.File.SizeBytes, pr.File.OriginalName,
		pr.Copies, pr.Format, pr.DeliveryMethod, nullIfEmpty(pr.DeliveryRoom),
		pr.DueOn, pr.Status, now, now,
	).Scan(&pr.ID)
}

func (r *requestRepository) GetByID(ctx context.Context, id int32) (*domain.PrintRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM print_requests WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, query, id))
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error {
	query := `UPDATE print_requests SET status=$1, updated_on=$2 WHERE id=$3`
	logger.DatabaseCall("print_requests.updateStatus", query, "id", id, "status", status)
	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	return err
}

func (r *requestRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM print_requests WHERE id = $1`
	logger.DatabaseCall("print_requests.delete", query, "id", id)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *requestRepository) ListByOrg(ctx context.Context, orgID int32, filter repository.RequestFilter) ([]domain.PrintRequest, int32, error) {
	query := `SELECT ` + requestColumns + ` FROM print_requests WHERE org_id = $1`
	args := []any{orgID}
	argIdx := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.RequesterID != 0 {
		query += fmt.Sprintf(" AND requester_id = $%d", argIdx)
		args = append(args, filter.RequesterID)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	return r.listRequests(ctx, query, count, args...)
}

func (r *requestRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.PrintRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM print_requests
	          WHERE due_on >= $1 AND due_on < $2 AND status NOT IN ($3, $4) ORDER BY due_on`
	reqs, _, err := r.listRequests(ctx, query, 0, from, to, domain.StatusCompleted, domain.StatusRejected)
	return reqs, err
}

func (r *requestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PrintRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM print_requests WHERE status = $1 AND created_on < $2 ORDER BY created_on`
	reqs, _, err := r.listRequests(ctx, query, 0, domain.StatusPending, cutoff)
	return reqs, err
}

func (r *requestRepository) ListStorageKeys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT storage_key FROM print_requests`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *requestRepository) listRequests(ctx context.Context, query string, count int32, args ...any) ([]domain.PrintRequest, int32, error) {
	logger.DatabaseCall("print_requests.list", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.PrintRequest
	for rows.Next() {
		pr, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *pr)
	}
	return requests, count, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

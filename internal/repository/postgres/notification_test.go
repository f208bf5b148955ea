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

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(int32(1), int32(10), "Request Approved", "Your print request is now APPROVED", []byte(`{"request_id":"5"}`), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	note := &domain.Notification{
		UserID:     1,
		OrgID:      10,
		Title:      "Request Approved",
		Message:    "Your print request is now APPROVED",
		Attributes: map[string]string{"request_id": "5"},
	}
	assert.NoError(t, repo.Create(context.Background(), note))
	assert.Equal(t, int32(3), note.ID)
}

func TestNotificationRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM notifications WHERE user_id = $1`)).
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT .* FROM notifications WHERE user_id = \$1 ORDER BY created_on DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int32(1), int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "org_id", "title", "message", "is_read", "attributes", "created_on"}).
			AddRow(2, 1, 10, "New Print Job", "ready", false, []byte(`{"kind":"new-job"}`), time.Now()).
			AddRow(1, 1, 10, "Request Approved", "approved", true, nil, time.Now()))

	notes, total, err := repo.List(context.Background(), 1, 20, 0)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, notes, 2)
	assert.Equal(t, "new-job", notes[0].Attributes["kind"])
	assert.Nil(t, notes[1].Attributes)
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewNotificationRepository(db)

	t.Run("Owned", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`)).
			WithArgs(int32(3), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkAsRead(context.Background(), 3, 1))
	})

	t.Run("NotOwned", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = true`)).
			WithArgs(int32(3), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkAsRead(context.Background(), 3, 2), sql.ErrNoRows)
	})
}

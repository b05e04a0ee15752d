package leaverequest_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mythicalbadger/swe-hw1-backend/internal/leaverequest"
)

func setupLeaveRepoTest(t *testing.T) (leaverequest.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return leaverequest.NewRepository(gdb), mock, func() { db.Close() }
}

func TestLeaveRepository_HasOverlappingStart(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.NewString()

	// Both span boundaries compare against the candidate start date, so a
	// start on an existing boundary is inside the span and the day after an
	// existing end date is outside it.
	overlapQuery := regexp.QuoteMeta(`SELECT count(*) FROM "leave_requests" WHERE requester_id = $1 AND start_date <= $2 AND end_date >= $3 AND "leave_requests"."deleted_at" IS NULL`)

	t.Run("start on an existing start date overlaps", func(t *testing.T) {
		repo, mock, closeDB := setupLeaveRepoTest(t)
		defer closeDB()

		existingStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(overlapQuery).
			WithArgs(requesterID, existingStart, existingStart).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		overlap, err := repo.HasOverlappingStart(ctx, requesterID, existingStart)
		assert.NoError(t, err)
		assert.True(t, overlap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("start the day after an existing end date does not overlap", func(t *testing.T) {
		repo, mock, closeDB := setupLeaveRepoTest(t)
		defer closeDB()

		existingEnd := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
		dayAfter := existingEnd.AddDate(0, 0, 1)
		mock.ExpectQuery(overlapQuery).
			WithArgs(requesterID, dayAfter, dayAfter).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		overlap, err := repo.HasOverlappingStart(ctx, requesterID, dayAfter)
		assert.NoError(t, err)
		assert.False(t, overlap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure surfaces", func(t *testing.T) {
		repo, mock, closeDB := setupLeaveRepoTest(t)
		defer closeDB()

		start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(overlapQuery).
			WithArgs(requesterID, start, start).
			WillReturnError(assert.AnError)

		_, err := repo.HasOverlappingStart(ctx, requesterID, start)
		assert.Error(t, err)
	})
}

package repository

import (
	"context"
	"regexp"
	"testing"

	"coachhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestReportRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	report := &models.Report{
		ReportNumber:    "BUG-0001",
		Type:            models.ReportTypeBug,
		Title:           "Login broken",
		Description:     "Cannot log in",
		Priority:        models.PriorityMedium,
		Status:          models.StatusOpen,
		SubmittedBy:     1,
		SubmittedByRole: models.RoleClient,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reports"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, report)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "reports" WHERE "reports"\."id" = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	report, err := repo.GetByID(ctx, 99)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_List_FiltersAndTotal(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "reports" WHERE status = \$1 AND submitted_by = \$2`).
		WithArgs(models.StatusOpen, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT \* FROM "reports" WHERE status = \$1 AND submitted_by = \$2 .* ORDER BY created_at DESC`).
		WithArgs(models.StatusOpen, 7, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_number", "title", "status"}).
			AddRow(2, "BUG-0002", "Newer", models.StatusOpen).
			AddRow(1, "BUG-0001", "Older", models.StatusOpen))

	reports, total, err := repo.List(ctx, ReportFilter{
		Status:      models.StatusOpen,
		SubmittedBy: 7,
		Limit:       50,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reports, 2)
	assert.Equal(t, "BUG-0002", reports[0].ReportNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ToggleVote_AddsWhenAbsent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO report_votes`)).
		WithArgs(3, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	voted, err := repo.ToggleVote(ctx, 1, 3)
	assert.NoError(t, err)
	assert.True(t, voted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ToggleVote_RemovesWhenPresent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	// Conflict swallowed by DO NOTHING: zero rows affected, so the toggle
	// deletes the existing vote instead.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO report_votes`)).
		WithArgs(3, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "report_votes" WHERE report_id = \$1 AND user_id = \$2`).
		WithArgs(3, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	voted, err := repo.ToggleVote(ctx, 1, 3)
	assert.NoError(t, err)
	assert.False(t, voted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_CountVotesByReportIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT report_id, COUNT\(\*\) as count FROM "report_votes" WHERE report_id IN \(\$1,\$2,\$3\)`).
		WithArgs(1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"report_id", "count"}).
			AddRow(1, 4).
			AddRow(3, 1))

	counts, err := repo.CountVotesByReportIDs(ctx, []uint{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, 4, counts[1])
	assert.Equal(t, 0, counts[2]) // absent rows default to zero
	assert.Equal(t, 1, counts[3])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_CountVotesByReportIDs_EmptyPage(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewReportRepository(db)

	counts, err := repo.CountVotesByReportIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, counts)
}

func TestReportRepository_Stats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT status as key, COUNT\(\*\) as count FROM "reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow(models.StatusOpen, 6).
			AddRow(models.StatusCompleted, 4))
	mock.ExpectQuery(`SELECT type as key, COUNT\(\*\) as count FROM "reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow(models.ReportTypeBug, 7).
			AddRow(models.ReportTypeFeature, 3))

	stats, err := repo.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(6), stats.ByStatus[models.StatusOpen])
	assert.Equal(t, int64(7), stats.ByType[models.ReportTypeBug])
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUserDirectory_ResolveDisplayName_ProbesInOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	dir := NewUserDirectory(db)
	ctx := context.Background()

	// Not a client, resolved from the coach table on the second probe.
	mock.ExpectQuery(`SELECT "first_name","last_name" FROM "client_profiles" WHERE user_id = \$1`).
		WithArgs(5, 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT "first_name","last_name" FROM "coach_profiles" WHERE user_id = \$1`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}).AddRow("Dana", "Reyes"))

	name, err := dir.ResolveDisplayName(ctx, 5, SubmitterProbeOrder)
	assert.NoError(t, err)
	assert.Equal(t, "Dana Reyes", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_ResolveDisplayName_Unmatched(t *testing.T) {
	db, mock := setupMockDB(t)
	dir := NewUserDirectory(db)
	ctx := context.Background()

	for _, table := range []string{"client_profiles", "coach_profiles", "staff_profiles", "admin_profiles"} {
		mock.ExpectQuery(`SELECT "first_name","last_name" FROM "` + table + `" WHERE user_id = \$1`).
			WithArgs(9, 1).
			WillReturnError(gorm.ErrRecordNotFound)
	}

	// Best-effort resolution: no profile anywhere yields an empty name, not
	// an error.
	name, err := dir.ResolveDisplayName(ctx, 9, SubmitterProbeOrder)
	assert.NoError(t, err)
	assert.Equal(t, "", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_ActorOrderChecksStaffFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	dir := NewUserDirectory(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT "first_name","last_name" FROM "staff_profiles" WHERE user_id = \$1`).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}).AddRow("Sam", "Ortiz"))

	name, err := dir.ResolveDisplayName(ctx, 2, ActorProbeOrder)
	assert.NoError(t, err)
	assert.Equal(t, "Sam Ortiz", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

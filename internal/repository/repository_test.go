package repository

import (
	"testing"
	"time"

	"health-info-api/internal/domain/entity"
	domainRepo "health-info-api/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestEnrollmentRepository_FindByUserAndProgram_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository()

	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1 AND program_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	enrollment, err := repo.FindByUserAndProgram(db, "USER-1", "PROG-1")
	require.NoError(t, err)
	assert.Nil(t, enrollment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_FindByUserAndProgram_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository()

	rows := sqlmock.NewRows([]string{"id", "user_id", "program_id", "status", "progress", "enrolled_at"}).
		AddRow(7, "USER-1", "PROG-1", entity.EnrollmentStatusActive, 40, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1 AND program_id = \$2`).
		WillReturnRows(rows)

	enrollment, err := repo.FindByUserAndProgram(db, "USER-1", "PROG-1")
	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, int64(7), enrollment.ID)
	assert.Equal(t, 40, enrollment.Progress)
}

func TestEnrollmentRepository_DeleteReportsRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository()

	mock.ExpectExec(`DELETE FROM "enrollments" WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(db, 99)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository()

	mock.ExpectExec(`UPDATE "enrollments" SET .*"progress"=\$\d.*WHERE id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(db, 3, map[string]interface{}{"progress": 55})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("ada@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(db, "ada@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_SearchUsesSubstringAndRole(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	repo := NewUserRepository()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(\(email LIKE \$1 OR user_id LIKE \$2\)\) AND role = \$3`).
		WithArgs("%ada%", "%ada%", entity.RoleClient).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "role"}).
			AddRow("USER-1", "ada@x.com", entity.RoleClient))
	mock.ExpectQuery(`SELECT \* FROM "client_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "first_name"}).AddRow(1, "USER-1", "Ada"))
	mock.ExpectQuery(`SELECT \* FROM "doctor_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	users, err := repo.Search(db, domainRepo.UserFilter{Query: "ada", Role: entity.RoleClient})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].ClientProfile)
	assert.Equal(t, "Ada", users[0].ClientProfile.FirstName)
	assert.Nil(t, users[0].DoctorProfile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthProgramRepository_FindAllWithFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHealthProgramRepository()

	difficulty := entity.DifficultyBeginner
	active := true
	mock.ExpectQuery(`SELECT \* FROM "health_programs" WHERE difficulty = \$1 AND is_active = \$2 ORDER BY created_at DESC`).
		WithArgs(difficulty, active).
		WillReturnRows(sqlmock.NewRows([]string{"program_id", "name", "is_active"}).AddRow("PROG-1", "Walk", true))

	programs, err := repo.FindAll(db, domainRepo.ProgramFilter{Difficulty: &difficulty, IsActive: &active})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "Walk", programs[0].Name)
}

func TestHealthProgramRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHealthProgramRepository()

	mock.ExpectQuery(`SELECT \* FROM "health_programs" WHERE program_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"program_id"}))

	program, err := repo.FindByID(db, "PROG-missing")
	require.NoError(t, err)
	assert.Nil(t, program)
}

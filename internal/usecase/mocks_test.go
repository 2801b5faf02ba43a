package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, sqlMock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// MockUserRepository

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *MockUserRepository) FindByID(db *gorm.DB, userID string) (*entity.User, error) {
	args := m.Called(db, userID)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByVerificationToken(db *gorm.DB, token string, now time.Time) (*entity.User, error) {
	args := m.Called(db, token, now)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(db *gorm.DB, token string, now time.Time) (*entity.User, error) {
	args := m.Called(db, token, now)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	args := m.Called(db, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(db, limit, offset)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Search(db *gorm.DB, filter repository.UserFilter) ([]entity.User, error) {
	args := m.Called(db, filter)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Update(db *gorm.DB, userID string, fields map[string]interface{}) error {
	return m.Called(db, userID, fields).Error(0)
}

// MockClientProfileRepository

type MockClientProfileRepository struct {
	mock.Mock
}

func (m *MockClientProfileRepository) Create(db *gorm.DB, profile *entity.ClientProfile) error {
	return m.Called(db, profile).Error(0)
}

func (m *MockClientProfileRepository) FindByUserID(db *gorm.DB, userID string) (*entity.ClientProfile, error) {
	args := m.Called(db, userID)
	profile, _ := args.Get(0).(*entity.ClientProfile)
	return profile, args.Error(1)
}

func (m *MockClientProfileRepository) UpdateByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error {
	return m.Called(db, userID, fields).Error(0)
}

// MockDoctorProfileRepository

type MockDoctorProfileRepository struct {
	mock.Mock
}

func (m *MockDoctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return m.Called(db, profile).Error(0)
}

func (m *MockDoctorProfileRepository) FindByUserID(db *gorm.DB, userID string) (*entity.DoctorProfile, error) {
	args := m.Called(db, userID)
	profile, _ := args.Get(0).(*entity.DoctorProfile)
	return profile, args.Error(1)
}

func (m *MockDoctorProfileRepository) UpdateByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error {
	return m.Called(db, userID, fields).Error(0)
}

// MockHealthProgramRepository

type MockHealthProgramRepository struct {
	mock.Mock
}

func (m *MockHealthProgramRepository) Create(db *gorm.DB, program *entity.HealthProgram) error {
	return m.Called(db, program).Error(0)
}

func (m *MockHealthProgramRepository) FindByID(db *gorm.DB, programID string) (*entity.HealthProgram, error) {
	args := m.Called(db, programID)
	program, _ := args.Get(0).(*entity.HealthProgram)
	return program, args.Error(1)
}

func (m *MockHealthProgramRepository) FindAll(db *gorm.DB, filter repository.ProgramFilter) ([]entity.HealthProgram, error) {
	args := m.Called(db, filter)
	programs, _ := args.Get(0).([]entity.HealthProgram)
	return programs, args.Error(1)
}

func (m *MockHealthProgramRepository) Update(db *gorm.DB, programID string, fields map[string]interface{}) error {
	return m.Called(db, programID, fields).Error(0)
}

func (m *MockHealthProgramRepository) Delete(db *gorm.DB, programID string) (int64, error) {
	args := m.Called(db, programID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnrollmentRepository

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(db *gorm.DB, enrollment *entity.Enrollment) error {
	return m.Called(db, enrollment).Error(0)
}

func (m *MockEnrollmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Enrollment, error) {
	args := m.Called(db, id)
	enrollment, _ := args.Get(0).(*entity.Enrollment)
	return enrollment, args.Error(1)
}

func (m *MockEnrollmentRepository) FindByUserAndProgram(db *gorm.DB, userID, programID string) (*entity.Enrollment, error) {
	args := m.Called(db, userID, programID)
	enrollment, _ := args.Get(0).(*entity.Enrollment)
	return enrollment, args.Error(1)
}

func (m *MockEnrollmentRepository) FindAll(db *gorm.DB) ([]entity.Enrollment, error) {
	args := m.Called(db)
	enrollments, _ := args.Get(0).([]entity.Enrollment)
	return enrollments, args.Error(1)
}

func (m *MockEnrollmentRepository) FindByUserID(db *gorm.DB, userID string) ([]entity.Enrollment, error) {
	args := m.Called(db, userID)
	enrollments, _ := args.Get(0).([]entity.Enrollment)
	return enrollments, args.Error(1)
}

func (m *MockEnrollmentRepository) FindByProgramID(db *gorm.DB, programID string) ([]entity.Enrollment, error) {
	args := m.Called(db, programID)
	enrollments, _ := args.Get(0).([]entity.Enrollment)
	return enrollments, args.Error(1)
}

func (m *MockEnrollmentRepository) Update(db *gorm.DB, id int64, fields map[string]interface{}) error {
	return m.Called(db, id, fields).Error(0)
}

func (m *MockEnrollmentRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditLogRepository

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return m.Called(db, log).Error(0)
}

func (m *MockAuditLogRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.AuditLog, int64, error) {
	args := m.Called(db, limit, offset)
	logs, _ := args.Get(0).([]entity.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(db, id)
	log, _ := args.Get(0).(*entity.AuditLog)
	return log, args.Error(1)
}

// MockAuditService

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *string, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(ctx, tx, actorID, action, entityName, entityID, newValue).Error(0)
}

func (m *MockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, actorID, action, entityName, entityID, oldValue, newValue).Error(0)
}

func (m *MockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, actorID *string, action string, entityName string, entityID string, oldValue interface{}) error {
	return m.Called(ctx, tx, actorID, action, entityName, entityID, oldValue).Error(0)
}

// allowAudit accepts every audit call.
func allowAudit() *MockAuditService {
	m := new(MockAuditService)
	m.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return m
}

// MockSessionService

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Register(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, userID, tokenID, ttl).Error(0)
}

func (m *MockSessionService) IsActive(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionService) Revoke(ctx context.Context, tokenID string) error {
	return m.Called(ctx, tokenID).Error(0)
}

func (m *MockSessionService) RevokeAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionService) RevokeAllExcept(ctx context.Context, userID, keepTokenID string) error {
	return m.Called(ctx, userID, keepTokenID).Error(0)
}

// MockMailService

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendVerificationEmail(ctx context.Context, to, token string) string {
	return m.Called(ctx, to, token).String(0)
}

func (m *MockMailService) SendPasswordResetEmail(ctx context.Context, to, token string) string {
	return m.Called(ctx, to, token).String(0)
}

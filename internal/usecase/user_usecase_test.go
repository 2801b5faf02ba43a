package usecase

import (
	"context"
	"testing"

	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userFixture struct {
	usecase    UserUsecase
	sqlMock    sqlmock.Sqlmock
	userRepo   *MockUserRepository
	clientRepo *MockClientProfileRepository
	doctorRepo *MockDoctorProfileRepository
	audit      *MockAuditService
	sessions   *MockSessionService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, sqlMock := newMockDB(t)
	f := &userFixture{
		sqlMock:    sqlMock,
		userRepo:   new(MockUserRepository),
		clientRepo: new(MockClientProfileRepository),
		doctorRepo: new(MockDoctorProfileRepository),
		audit:      allowAudit(),
		sessions:   new(MockSessionService),
	}
	f.usecase = NewUserUsecase(db, quietLogger(), bcrypt.MinCost, f.userRepo, f.clientRepo, f.doctorRepo, f.audit, f.sessions)
	return f
}

func clientUser() *entity.User {
	return &entity.User{
		UserID:   "USER-1",
		Email:    "ada@x.com",
		Role:     entity.RoleClient,
		IsActive: true,
		ClientProfile: &entity.ClientProfile{
			UserID:    "USER-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Gender:    "female",
		},
	}
}

var adminActor = Actor{UserID: "USER-ADMIN", Role: entity.RoleAdmin}

func TestUserUsecase_GetProfile_NotFound(t *testing.T) {
	f := newUserFixture(t)
	f.userRepo.On("FindByID", mock.Anything, "USER-404").Return(nil, nil)

	_, err := f.usecase.GetProfile(context.Background(), "USER-404")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserUsecase_ListUsers_Paginates(t *testing.T) {
	f := newUserFixture(t)
	f.userRepo.On("FindAll", mock.Anything, 20, 40).Return([]entity.User{*clientUser()}, int64(41), nil)

	users, total, err := f.usecase.ListUsers(context.Background(), 3, 20)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(41), total)
}

func TestUserUsecase_ListUsers_ClampsLimit(t *testing.T) {
	f := newUserFixture(t)
	f.userRepo.On("FindAll", mock.Anything, maxPageSize, 0).Return([]entity.User{}, int64(0), nil)

	_, _, err := f.usecase.ListUsers(context.Background(), 0, 1000)
	require.NoError(t, err)
	f.userRepo.AssertExpectations(t)
}

func TestUserUsecase_SearchUsers(t *testing.T) {
	t.Run("rejects unknown role", func(t *testing.T) {
		f := newUserFixture(t)
		_, err := f.usecase.SearchUsers(context.Background(), "ada", "nurse")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("passes filter through", func(t *testing.T) {
		f := newUserFixture(t)
		f.userRepo.On("Search", mock.Anything, repository.UserFilter{Query: "ada", Role: entity.RoleClient}).
			Return([]entity.User{*clientUser()}, nil)

		users, err := f.usecase.SearchUsers(context.Background(), " ada ", "client")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "USER-1", users[0].UserID)
	})
}

func TestUserUsecase_UpdateProfile_Client(t *testing.T) {
	f := newUserFixture(t)
	actor := Actor{UserID: "USER-1", Role: entity.RoleClient}
	firstName := "Augusta"
	license := "LIC-1"

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(clientUser(), nil)
	f.clientRepo.On("UpdateByUserID", mock.Anything, "USER-1", map[string]interface{}{"first_name": "Augusta"}).Return(nil)

	resp, err := f.usecase.UpdateProfile(context.Background(), actor, "USER-1", &dto.UpdateProfileRequest{
		FirstName:     &firstName,
		LicenseNumber: &license,
	})
	require.NoError(t, err)
	assert.Equal(t, "USER-1", resp.UserID)
	f.doctorRepo.AssertNotCalled(t, "UpdateByUserID", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertCalled(t, "LogUpdate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionProfileUpdate, "user", "USER-1", mock.Anything, mock.Anything)
	require.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestUserUsecase_UpdateProfile_EmailTaken(t *testing.T) {
	f := newUserFixture(t)
	email := "taken@x.com"

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(clientUser(), nil)
	f.userRepo.On("ExistsByEmail", mock.Anything, "taken@x.com").Return(true, nil)

	_, err := f.usecase.UpdateProfile(context.Background(), adminActor, "USER-1", &dto.UpdateProfileRequest{Email: &email})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUsecase_UpdateProfile_DoctorLicenseConflict(t *testing.T) {
	f := newUserFixture(t)
	license := "LIC-2"
	doctor := &entity.User{
		UserID:        "USER-2",
		Role:          entity.RoleDoctor,
		DoctorProfile: &entity.DoctorProfile{UserID: "USER-2", LicenseNumber: "LIC-1", Specialization: "Cardiology"},
	}

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	f.userRepo.On("FindByID", mock.Anything, "USER-2").Return(doctor, nil)
	f.doctorRepo.On("UpdateByUserID", mock.Anything, "USER-2", mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_doctor_profiles_license_number"})

	_, err := f.usecase.UpdateProfile(context.Background(), adminActor, "USER-2", &dto.UpdateProfileRequest{LicenseNumber: &license})
	assert.ErrorIs(t, err, ErrLicenseAlreadyExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserUsecase_ChangePassword(t *testing.T) {
	actor := Actor{UserID: "USER-1", Role: entity.RoleClient}

	t.Run("wrong current password", func(t *testing.T) {
		f := newUserFixture(t)
		user := clientUser()
		user.PasswordHash = hashed(t, "old-pass")

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(user, nil)

		err := f.usecase.ChangePassword(context.Background(), actor, "USER-1", &dto.ChangePasswordRequest{
			CurrentPassword: "nope",
			NewPassword:     "new-pass",
		}, "tok-current")
		assert.ErrorIs(t, err, ErrCurrentPassword)
		f.sessions.AssertNotCalled(t, "RevokeAllExcept", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("updates hash and keeps current session", func(t *testing.T) {
		f := newUserFixture(t)
		user := clientUser()
		user.PasswordHash = hashed(t, "old-pass")

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(user, nil)
		f.userRepo.On("Update", mock.Anything, "USER-1", mock.MatchedBy(func(fields map[string]interface{}) bool {
			hash, _ := fields["password_hash"].(string)
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-pass")) == nil
		})).Return(nil)
		f.sessions.On("RevokeAllExcept", mock.Anything, "USER-1", "tok-current").Return(nil)

		err := f.usecase.ChangePassword(context.Background(), actor, "USER-1", &dto.ChangePasswordRequest{
			CurrentPassword: "old-pass",
			NewPassword:     "new-pass",
		}, "tok-current")
		require.NoError(t, err)
		f.sessions.AssertExpectations(t)
	})
}

func TestUserUsecase_UpgradeToDoctor(t *testing.T) {
	req := &dto.UpgradeToDoctorRequest{LicenseNumber: "LIC-9", Specialization: "Nutrition"}

	t.Run("doctor cannot be upgraded", func(t *testing.T) {
		f := newUserFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.userRepo.On("FindByID", mock.Anything, "USER-2").
			Return(&entity.User{UserID: "USER-2", Role: entity.RoleDoctor}, nil)

		_, err := f.usecase.UpgradeToDoctor(context.Background(), adminActor, "USER-2", req)
		assert.ErrorIs(t, err, ErrNotClient)
		assert.ErrorIs(t, err, ErrRole)
		f.doctorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newUserFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.userRepo.On("FindByID", mock.Anything, "USER-404").Return(nil, nil)

		_, err := f.usecase.UpgradeToDoctor(context.Background(), adminActor, "USER-404", req)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("client becomes doctor", func(t *testing.T) {
		f := newUserFixture(t)
		upgraded := clientUser()
		upgraded.Role = entity.RoleDoctor
		upgraded.DoctorProfile = &entity.DoctorProfile{UserID: "USER-1", LicenseNumber: "LIC-9", Specialization: "Nutrition"}

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(clientUser(), nil).Once()
		f.userRepo.On("Update", mock.Anything, "USER-1", map[string]interface{}{"role": entity.RoleDoctor}).Return(nil)
		f.doctorRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.DoctorProfile) bool {
			return p.UserID == "USER-1" && p.LicenseNumber == "LIC-9"
		})).Return(nil)
		f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(upgraded, nil).Once()

		resp, err := f.usecase.UpgradeToDoctor(context.Background(), adminActor, "USER-1", req)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleDoctor, resp.Role)
		profile, ok := resp.Profile.(*dto.DoctorProfileResponse)
		require.True(t, ok)
		assert.Equal(t, "LIC-9", profile.LicenseNumber)
		f.clientRepo.AssertNotCalled(t, "UpdateByUserID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("license taken", func(t *testing.T) {
		f := newUserFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.userRepo.On("FindByID", mock.Anything, "USER-1").Return(clientUser(), nil)
		f.userRepo.On("Update", mock.Anything, "USER-1", mock.Anything).Return(nil)
		f.doctorRepo.On("Create", mock.Anything, mock.Anything).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_doctor_profiles_license_number"})

		_, err := f.usecase.UpgradeToDoctor(context.Background(), adminActor, "USER-1", req)
		assert.ErrorIs(t, err, ErrLicenseAlreadyExists)
	})
}

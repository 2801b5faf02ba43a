package usecase

import (
	"context"
	"strings"

	"health-info-api/internal/converter"
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"
	"health-info-api/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error)
	SearchUsers(ctx context.Context, query, role string) ([]dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, userID string, req *dto.ChangePasswordRequest, currentTokenID string) error
	UpgradeToDoctor(ctx context.Context, actor Actor, userID string, req *dto.UpgradeToDoctorRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	bcryptCost        int
	userRepo          repository.UserRepository
	clientProfileRepo repository.ClientProfileRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	sessionService    service.SessionService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bcryptCost int,
	userRepo repository.UserRepository,
	clientProfileRepo repository.ClientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	sessionService service.SessionService,
) UserUsecase {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userUsecase{
		db:                db,
		log:               log,
		bcryptCost:        bcryptCost,
		userRepo:          userRepo,
		clientProfileRepo: clientProfileRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		sessionService:    sessionService,
	}
}

// NormalizePage applies the default page size and clamps out of range values.
// Handlers use it too so the pagination meta matches the page that was read.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) ListUsers(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error) {
	page, limit = NormalizePage(page, limit)

	users, total, err := u.userRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, 0, err
	}

	return converter.UsersToResponses(users), total, nil
}

func (u *userUsecase) SearchUsers(ctx context.Context, query, role string) ([]dto.UserResponse, error) {
	role = strings.TrimSpace(role)
	if role != "" && !entity.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	users, err := u.userRepo.Search(u.db.WithContext(ctx), repository.UserFilter{
		Query: strings.TrimSpace(query),
		Role:  role,
	})
	if err != nil {
		u.log.Warnf("Failed to search users: %+v", err)
		return nil, err
	}

	return converter.UsersToResponses(users), nil
}

// UpdateProfile applies a partial update to the account and to the profile
// that matches the user's role. Profile fields of the other role are ignored.
func (u *userUsecase) UpdateProfile(ctx context.Context, actor Actor, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	userFields := map[string]interface{}{}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && email != user.Email {
			exists, err := u.userRepo.ExistsByEmail(tx, email)
			if err != nil {
				u.log.Warnf("Failed to check email: %+v", err)
				return nil, err
			}
			if exists {
				return nil, ErrEmailAlreadyExists
			}
			userFields["email"] = email
		}
	}
	if req.ImageURL != nil {
		userFields["image_url"] = *req.ImageURL
	}

	if len(userFields) > 0 {
		if err := u.userRepo.Update(tx, userID, userFields); err != nil {
			if isDuplicateKeyError(err, "email") {
				return nil, ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to update user: %+v", err)
			return nil, err
		}
	}

	profileFields, err := u.updateRoleProfile(tx, user, req)
	if err != nil {
		return nil, err
	}

	if len(userFields) > 0 || len(profileFields) > 0 {
		changes := map[string]interface{}{}
		for k, v := range userFields {
			changes[k] = v
		}
		for k, v := range profileFields {
			changes[k] = v
		}
		if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionProfileUpdate, "user", userID, nil, changes); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.GetProfile(ctx, userID)
}

func (u *userUsecase) updateRoleProfile(tx *gorm.DB, user *entity.User, req *dto.UpdateProfileRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	switch user.Role {
	case entity.RoleClient:
		setTrimmed(fields, "first_name", req.FirstName)
		setTrimmed(fields, "last_name", req.LastName)
		setTrimmed(fields, "gender", req.Gender)
		if req.Phone != nil {
			fields["phone"] = *req.Phone
		}
		if req.Address != nil {
			fields["address"] = *req.Address
		}
		if len(fields) == 0 {
			return fields, nil
		}
		if user.ClientProfile == nil {
			return nil, ErrProfileNotFound
		}
		if err := u.clientProfileRepo.UpdateByUserID(tx, user.UserID, fields); err != nil {
			u.log.Warnf("Failed to update client profile: %+v", err)
			return nil, err
		}

	case entity.RoleDoctor:
		setTrimmed(fields, "license_number", req.LicenseNumber)
		setTrimmed(fields, "specialization", req.Specialization)
		if len(fields) == 0 {
			return fields, nil
		}
		if user.DoctorProfile == nil {
			return nil, ErrProfileNotFound
		}
		if err := u.doctorProfileRepo.UpdateByUserID(tx, user.UserID, fields); err != nil {
			if isDuplicateKeyError(err, "license_number") {
				return nil, ErrLicenseAlreadyExists
			}
			u.log.Warnf("Failed to update doctor profile: %+v", err)
			return nil, err
		}
	}

	return fields, nil
}

func setTrimmed(fields map[string]interface{}, column string, value *string) {
	if value == nil {
		return
	}
	if v := strings.TrimSpace(*value); v != "" {
		fields[column] = v
	}
}

// ChangePassword keeps the session identified by currentTokenID and revokes
// every other session of the user.
func (u *userUsecase) ChangePassword(ctx context.Context, actor Actor, userID string, req *dto.ChangePasswordRequest, currentTokenID string) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrMissingFields
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrCurrentPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), u.bcryptCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	if err := u.userRepo.Update(tx, userID, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionPasswordChange, "user", userID, nil, nil); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.sessionService.RevokeAllExcept(ctx, userID, currentTokenID); err != nil {
		u.log.Warnf("Failed to revoke other sessions: %+v", err)
	}

	return nil
}

// UpgradeToDoctor turns a client into a doctor. The client profile row is
// kept; the response shows the new doctor profile. Tokens issued before the
// upgrade keep the old role until the user signs in again.
func (u *userUsecase) UpgradeToDoctor(ctx context.Context, actor Actor, userID string, req *dto.UpgradeToDoctorRequest) (*dto.UserResponse, error) {
	licenseNumber := strings.TrimSpace(req.LicenseNumber)
	specialization := strings.TrimSpace(req.Specialization)
	if licenseNumber == "" || specialization == "" {
		return nil, ErrMissingFields
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role != entity.RoleClient {
		return nil, ErrNotClient
	}

	if err := u.userRepo.Update(tx, userID, map[string]interface{}{"role": entity.RoleDoctor}); err != nil {
		u.log.Warnf("Failed to update role: %+v", err)
		return nil, err
	}

	doctorProfile := &entity.DoctorProfile{
		UserID:         userID,
		LicenseNumber:  licenseNumber,
		Specialization: specialization,
	}
	if err := u.doctorProfileRepo.Create(tx, doctorProfile); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		// A second concurrent upgrade of the same user trips the unique user_id.
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrNotClient
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionUpgradeToDoctor, "user", userID,
		map[string]interface{}{"role": entity.RoleClient},
		map[string]interface{}{"role": entity.RoleDoctor, "license_number": licenseNumber, "specialization": specialization},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.GetProfile(ctx, userID)
}

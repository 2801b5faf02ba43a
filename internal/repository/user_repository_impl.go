package repository

import (
	"errors"
	"time"

	"health-info-api/internal/domain/entity"
	domainRepo "health-info-api/internal/domain/repository"

	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit("ClientProfile", "DoctorProfile").Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, userID string) (*entity.User, error) {
	return r.first(db.Preload("ClientProfile").Preload("DoctorProfile").Where("user_id = ?", userID))
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return r.first(db.Preload("ClientProfile").Preload("DoctorProfile").Where("email = ?", email))
}

func (r *userRepository) FindByVerificationToken(db *gorm.DB, token string, now time.Time) (*entity.User, error) {
	return r.first(db.Where("verification_token = ? AND verification_token_expires_at > ?", token, now))
}

func (r *userRepository) FindByResetToken(db *gorm.DB, token string, now time.Time) (*entity.User, error) {
	return r.first(db.Where("password_reset_token = ? AND password_reset_expires_at > ?", token, now))
}

func (r *userRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	if err := db.Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("ClientProfile").Preload("DoctorProfile").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Search(db *gorm.DB, filter domainRepo.UserFilter) ([]entity.User, error) {
	var users []entity.User

	query := db.Preload("ClientProfile").Preload("DoctorProfile")
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("(email LIKE ? OR user_id LIKE ?)", pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(db *gorm.DB, userID string, fields map[string]interface{}) error {
	return db.Model(&entity.User{}).Where("user_id = ?", userID).Updates(fields).Error
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

package repository

import (
	"time"

	"health-info-api/internal/domain/entity"

	"gorm.io/gorm"
)

// UserFilter narrows a user search. Query is matched as a case-sensitive
// substring of the email or the user id.
type UserFilter struct {
	Query string
	Role  string
}

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, userID string) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByVerificationToken(db *gorm.DB, token string, now time.Time) (*entity.User, error)
	FindByResetToken(db *gorm.DB, token string, now time.Time) (*entity.User, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.User, int64, error)
	Search(db *gorm.DB, filter UserFilter) ([]entity.User, error)
	Update(db *gorm.DB, userID string, fields map[string]interface{}) error
}

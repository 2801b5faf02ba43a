package repository

import (
	"health-info-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ClientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.ClientProfile) error
	FindByUserID(db *gorm.DB, userID string) (*entity.ClientProfile, error)
	UpdateByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error
}

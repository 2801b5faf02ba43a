package repository

import (
	"health-info-api/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, userID string) (*entity.DoctorProfile, error)
	UpdateByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error
}

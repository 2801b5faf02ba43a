package repository

import (
	"health-info-api/internal/domain/entity"

	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(db *gorm.DB, enrollment *entity.Enrollment) error
	FindByID(db *gorm.DB, id int64) (*entity.Enrollment, error)
	FindByUserAndProgram(db *gorm.DB, userID, programID string) (*entity.Enrollment, error)
	FindAll(db *gorm.DB) ([]entity.Enrollment, error)
	FindByUserID(db *gorm.DB, userID string) ([]entity.Enrollment, error)
	FindByProgramID(db *gorm.DB, programID string) ([]entity.Enrollment, error)
	Update(db *gorm.DB, id int64, fields map[string]interface{}) error
	Delete(db *gorm.DB, id int64) (int64, error)
}
